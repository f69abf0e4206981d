package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pawpad.dev/pawpad/chain"
	"pawpad.dev/pawpad/keys"
	"pawpad.dev/pawpad/model"
)

// Validate checks every enumerated setting.
func Validate(cfg *Config) error {
	if cfg.Fingerprint.Length < 0 {
		return model.NewError(model.KindConfig, "PAWPAD-CFG-001", fmt.Sprintf("fingerprint.length must not be negative, got %d", cfg.Fingerprint.Length))
	}
	if _, err := keys.ParseAlgorithm(cfg.Keys.Algorithm); err != nil {
		return err
	}
	if _, err := chain.ParseHash(cfg.Chain.Hash); err != nil {
		return err
	}
	if _, err := chain.ParseRecovery(cfg.Chain.Recovery); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		return model.WrapError(model.KindConfig, "PAWPAD-CFG-002", fmt.Sprintf("invalid log.level %q", cfg.Log.Level), err)
	}
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return model.NewError(model.KindConfig, "PAWPAD-CFG-003", fmt.Sprintf("invalid output.format %q (expected text, json or yaml)", cfg.Output.Format))
	}
	return nil
}
