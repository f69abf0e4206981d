package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// GlobalConfigDir returns ~/.pawpad.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".pawpad"), nil
}

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PAWPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults mirrors DefaultConfig. Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("fingerprint.length", d.Fingerprint.Length)
	v.SetDefault("keys.dir", d.Keys.Dir)
	v.SetDefault("keys.algorithm", d.Keys.Algorithm)
	v.SetDefault("chain.hash", d.Chain.Hash)
	v.SetDefault("chain.recovery", d.Chain.Recovery)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("output.format", d.Output.Format)
}

func isConfigNotFoundError(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// Load reads configuration with the following precedence (highest first):
//  1. Environment variables (PAWPAD_* prefix)
//  2. explicitPath, when non-empty (must exist)
//  3. Global config (~/.pawpad/config.yaml), when present
//  4. Built-in defaults
func Load(ctx context.Context, explicitPath string) (*Config, error) {
	v := newViperInstance()

	if dir, err := GlobalConfigDir(); err == nil {
		globalPath := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(globalPath); statErr == nil {
			v.SetConfigFile(globalPath)
			if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
				return nil, fmt.Errorf("failed to read global config file: %w", err)
			}
		}
	}

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", explicitPath, err)
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Int("fingerprint.length", cfg.Fingerprint.Length).
		Str("keys.algorithm", cfg.Keys.Algorithm).
		Str("chain.hash", cfg.Chain.Hash).
		Str("chain.recovery", cfg.Chain.Recovery).
		Msg("configuration loaded")
	return cfg, nil
}

// LoadFromPath loads defaults, environment, and a single config file. It does
// not consult the global config and is intended for tests.
func LoadFromPath(_ context.Context, path string) (*Config, error) {
	v := newViperInstance()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %s: %w", path, err)
		}
	}
	return unmarshalAndValidate(v)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
