package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpad.dev/pawpad/cidutil"
	"pawpad.dev/pawpad/model"
)

// isolate points the global config and the key store at temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	keysDir := filepath.Join(t.TempDir(), "keys")
	t.Setenv("PAWPAD_KEYS_DIR", keysDir)
	t.Setenv("NO_COLOR", "1")
	return keysDir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage:")

	code, _, errOut = runCLI(t, "", "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown command: bogus")

	code, out, _ := runCLI(t, "", "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "pawpad verify")

	code, _, _ = runCLI(t, "", "encode", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, errOut = runCLI(t, "", "encode", "-t", "abc", "extra")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unexpected argument: extra")
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI(t, "", "encode", "-t", "hello", "-f", "00ff10")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Encoding successful!")
	encoded := strings.TrimSuffix(out, "\n")
	assert.NotEqual(t, "hello", encoded)

	code, out, _ = runCLI(t, "", "decode", "-t", encoded, "-f", "00FF10")
	assert.Equal(t, 0, code)
	assert.Equal(t, "OK\n", out)

	code, out, _ = runCLI(t, encoded+"\n", "decode")
	assert.Equal(t, 0, code)
	assert.Equal(t, "00ff10\n", out)

	code, _, errOut = runCLI(t, "", "decode", "-t", encoded, "-f", "aa")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Fingerprint not found")

	code, _, errOut = runCLI(t, "", "decode", "-t", "plain")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no fingerprint found")
}

func TestEncode_Errors(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "", "encode", "-t", "hello", "-f", "xyz")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid --fingerprint")

	code, _, errOut = runCLI(t, "", "encode")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "missing --text")
}

func TestEncode_GeneratedFingerprintUsesConfiguredLength(t *testing.T) {
	isolate(t)
	t.Setenv("PAWPAD_FINGERPRINT_LENGTH", "4")

	code, out, _ := runCLI(t, "", "encode", "-t", "ab")
	require.Equal(t, 0, code)

	code, fp, _ := runCLI(t, "", "decode", "-t", strings.TrimSuffix(out, "\n"))
	require.Equal(t, 0, code)
	assert.Len(t, strings.TrimSpace(fp), 8)
}

func TestGenerate(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "", "generate", "-l", "8")
	require.Equal(t, 0, code)
	assert.Regexp(t, `^[0-9a-f]{16}\n$`, out)

	code, out, _ = runCLI(t, "", "generate")
	require.Equal(t, 0, code)
	assert.Len(t, strings.TrimSpace(out), 32)

	code, _, _ = runCLI(t, "", "generate", "-l", "-1")
	assert.Equal(t, 2, code)
}

func TestHideReveal(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI(t, "Hello, world\n", "hide", "-m", "meet at noon")
	require.Equal(t, 0, code, errOut)
	hidden := strings.TrimSuffix(out, "\n")

	code, out, _ = runCLI(t, hidden+"\n", "reveal")
	require.Equal(t, 0, code)
	assert.Equal(t, "meet at noon\n", out)

	code, out, _ = runCLI(t, "", "hide", "-t", "X", "-m", "secret", "-s")
	require.Equal(t, 0, code)
	code, out, _ = runCLI(t, "", "reveal", "-t", strings.TrimSuffix(out, "\n"), "-s")
	require.Equal(t, 0, code)
	assert.Equal(t, "secret\n", out)
}

func TestHide_Errors(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "", "hide", "-t", "abc")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "missing --message")

	code, _, _ = runCLI(t, "", "hide", "-t", "", "-m", "x")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "", "hide", "-t", "ab", "-m", "x", "-s")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "", "reveal", "-t", "ab", "-s")
	assert.Equal(t, 1, code)
}

func TestAnalyze_JSON(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "", "hide", "-t", "ab", "-m", "xyz")
	require.Equal(t, 0, code)

	code, out, _ = runCLI(t, out, "analyze", "--format", "json")
	require.Equal(t, 0, code)
	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Chars, 2)
	assert.Equal(t, "U+0061", report.Chars[0].CodePoint)
	assert.Equal(t, 2, report.HiddenChars)
	assert.Equal(t, 3, report.HiddenBytes)

	code, out, _ = runCLI(t, "", "analyze", "-t", "ab")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Characters with hidden data: 0 (0 bytes)")

	code, _, _ = runCLI(t, "", "analyze", "-t", "ab", "--format", "xml")
	assert.Equal(t, 2, code)
}

func TestKey_InitListExport(t *testing.T) {
	keysDir := isolate(t)

	code, out, errOut := runCLI(t, "", "key", "init", "--name", "alice", "--alg", "ed25519")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Created ed25519 key: alice")
	assert.FileExists(t, filepath.Join(keysDir, "alice", "private.pem"))

	code, _, errOut = runCLI(t, "", "key", "init", "--name", "alice", "--alg", "ed25519")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "write key")

	code, _, _ = runCLI(t, "", "key", "init", "--name", "alice", "--alg", "ed25519", "--force")
	assert.Equal(t, 0, code)

	code, out, _ = runCLI(t, "", "key", "list")
	require.Equal(t, 0, code)
	assert.Equal(t, "alice\ted25519\n", out)

	code, out, _ = runCLI(t, "", "key", "export", "--name", "alice")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "-----BEGIN PUBLIC KEY-----")

	code, _, errOut = runCLI(t, "", "key", "init")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "missing --name")

	code, _, _ = runCLI(t, "", "key", "init", "--name", "bad/name")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "key", "init", "--name", "bob", "--alg", "dsa")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "key", "rotate")
	assert.Equal(t, 2, code)
}

func TestSignVerifyExtract(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "", "key", "init", "--name", "alice", "--alg", "ed25519")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := runCLI(t, "", "sign", "-t", "abc", "--key", "alice")
	require.Equal(t, 0, code, errOut)
	signed := strings.TrimSuffix(out, "\n")

	code, out, errOut = runCLI(t, signed+"\n", "verify", "--key", "alice")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Text is authentic")
	assert.Contains(t, errOut, "Original-CID: "+cidutil.TextCID("abc"))

	tampered := strings.Replace(signed, "b", "x", 1)
	code, out, _ = runCLI(t, "", "verify", "-t", tampered, "--key", "alice", "--format", "json")
	assert.Equal(t, 1, code)
	var report model.VerifyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, "axc", report.Original)
	assert.Equal(t, cidutil.TextCID("axc"), report.OriginalCID)
	require.Len(t, report.Tampered, 1)
	assert.Equal(t, 1, report.Tampered[0].Position)
	assert.Equal(t, "mismatch", report.Tampered[0].Reason)

	code, out, errOut = runCLI(t, "", "extract", "-t", signed)
	require.Equal(t, 0, code)
	assert.Equal(t, "abc\n", out)
	assert.Contains(t, errOut, "Original-CID: "+cidutil.TextCID("abc"))
}

func TestSignVerify_HashMustMatch(t *testing.T) {
	isolate(t)

	keyFile := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(keyFile, []byte("-----BEGIN TEST KEY-----\nAAAA\n-----END TEST KEY-----\n"), 0o600))

	code, out, errOut := runCLI(t, "", "sign", "-t", "héllo", "--key-file", keyFile, "--hash", "blake3")
	require.Equal(t, 0, code, errOut)
	signed := strings.TrimSuffix(out, "\n")

	code, _, _ = runCLI(t, "", "verify", "-t", signed, "--key-file", keyFile, "--hash", "blake3")
	assert.Equal(t, 0, code)

	code, _, _ = runCLI(t, "", "verify", "-t", signed, "--key-file", keyFile)
	assert.Equal(t, 1, code)
}

func TestSignVerify_UsageErrors(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI(t, "", "sign", "-t", "abc")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "missing --key or --key-file")

	code, _, errOut = runCLI(t, "", "verify", "-t", "abc", "--key", "alice", "--hash", "md5")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid --hash")

	code, _, errOut = runCLI(t, "", "verify", "-t", "abc", "--key", "alice", "--recovery", "guess")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid --recovery")

	code, _, errOut = runCLI(t, "", "sign", "-t", "abc", "--key", "nobody")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "load key")
}

func TestConfigFile_Invalid(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chain:\n  hash: md5\n"), 0o600))

	code, _, errOut := runCLI(t, "", "generate", "--config", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "config:")
}

func TestReadText_TrimsOnlyOneLineEnding(t *testing.T) {
	isolate(t)

	cases := []struct {
		stdin string
		want  string
	}{
		{"ab\n", "ab\n"},
		{"ab\r\n", "ab\n"},
		{"ab\r", "ab\r\n"},
		{"ab\n\n", "ab\n\n"},
	}
	for _, tc := range cases {
		code, out, _ := runCLI(t, tc.stdin, "extract")
		require.Equal(t, 0, code)
		assert.Equal(t, tc.want, out, "stdin %q", tc.stdin)
	}
}
