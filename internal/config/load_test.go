package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpad.dev/pawpad/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromPath_Defaults(t *testing.T) {
	cfg, err := LoadFromPath(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPath_File(t *testing.T) {
	path := writeConfig(t, `
fingerprint:
  length: 8
keys:
  dir: /tmp/pawpad-keys
  algorithm: ed25519
chain:
  hash: blake3
  recovery: resync
log:
  level: debug
output:
  format: json
`)
	cfg, err := LoadFromPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Fingerprint.Length)
	assert.Equal(t, "/tmp/pawpad-keys", cfg.Keys.Dir)
	assert.Equal(t, "ed25519", cfg.Keys.Algorithm)
	assert.Equal(t, "blake3", cfg.Chain.Hash)
	assert.Equal(t, "resync", cfg.Chain.Recovery)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "chain:\n  hash: hmac-sha3-256\n")
	t.Setenv("PAWPAD_CHAIN_HASH", "blake3")
	t.Setenv("PAWPAD_FINGERPRINT_LENGTH", "32")

	cfg, err := LoadFromPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "blake3", cfg.Chain.Hash)
	assert.Equal(t, 32, cfg.Fingerprint.Length)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	cases := map[string]string{
		"fingerprint:\n  length: -1\n": "PAWPAD-CFG-001",
		"keys:\n  algorithm: dsa\n":    "PAWPAD-KEY-001",
		"chain:\n  hash: md5\n":        "PAWPAD-CHAIN-002",
		"chain:\n  recovery: undo\n":   "PAWPAD-CHAIN-003",
		"log:\n  level: loud\n":        "PAWPAD-CFG-002",
		"output:\n  format: xml\n":     "PAWPAD-CFG-003",
	}
	for body, rule := range cases {
		_, err := LoadFromPath(context.Background(), writeConfig(t, body))
		require.Error(t, err, body)
		assert.True(t, model.IsKind(err, model.KindConfig), body)
		assert.Equal(t, rule, model.RuleID(err), body)
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_GlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".pawpad"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pawpad", "config.yaml"), []byte("keys:\n  algorithm: dilithium3\n"), 0o600))
	explicit := writeConfig(t, "output:\n  format: yaml\n")

	cfg, err := Load(context.Background(), explicit)
	require.NoError(t, err)
	assert.Equal(t, "dilithium3", cfg.Keys.Algorithm)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}
