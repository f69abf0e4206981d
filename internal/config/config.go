// Package config loads pawpad settings from defaults, config files, and
// PAWPAD_* environment variables.
package config

// Config is the complete pawpad configuration.
type Config struct {
	Fingerprint FingerprintConfig `mapstructure:"fingerprint" yaml:"fingerprint"`
	Keys        KeysConfig        `mapstructure:"keys" yaml:"keys"`
	Chain       ChainConfig       `mapstructure:"chain" yaml:"chain"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
}

// FingerprintConfig controls fingerprint generation.
type FingerprintConfig struct {
	Length int `mapstructure:"length" yaml:"length"`
}

// KeysConfig controls the key store.
type KeysConfig struct {
	// Dir is the key store root. Empty means ~/.pawpad/keys.
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`
}

// ChainConfig controls signing and verification.
type ChainConfig struct {
	Hash     string `mapstructure:"hash" yaml:"hash"`
	Recovery string `mapstructure:"recovery" yaml:"recovery"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File, when set, receives a rotated copy of every log record.
	File string `mapstructure:"file" yaml:"file"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Fingerprint: FingerprintConfig{Length: 16},
		Keys:        KeysConfig{Algorithm: "rsa"},
		Chain:       ChainConfig{Hash: "hmac-sha256", Recovery: "carry-observed"},
		Log:         LogConfig{Level: "info"},
		Output:      OutputConfig{Format: FormatText},
	}
}
