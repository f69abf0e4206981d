// Package fingerprint embeds a fixed-length identifier after every character of
// a text and finds it again.
//
// Repeating the fingerprint per character makes the watermark survive
// truncation: detection succeeds while at least one original character keeps
// its selectors.
package fingerprint

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"pawpad.dev/pawpad/model"
	"pawpad.dev/pawpad/selector"
)

// DefaultLength is the fingerprint size used when callers do not choose one.
const DefaultLength = 16

// Fingerprint is an immutable identifier. Two fingerprints are equal iff their
// bytes are equal.
type Fingerprint []byte

// String returns the lowercase hex encoding, two characters per byte.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f)
}

// Equal reports whether f and other carry the same bytes.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return bytes.Equal(f, other)
}

// Generate returns length cryptographically secure random bytes.
func Generate(length int) (Fingerprint, error) {
	return GenerateFrom(rand.Reader, length)
}

// GenerateFrom reads length bytes from r.
func GenerateFrom(r io.Reader, length int) (Fingerprint, error) {
	if length < 0 {
		return nil, model.NewError(model.KindRange, "PAWPAD-FP-002", fmt.Sprintf("fingerprint length must not be negative, got %d", length))
	}
	fp := make(Fingerprint, length)
	if _, err := io.ReadFull(r, fp); err != nil {
		return nil, model.WrapError(model.KindInternal, "PAWPAD-FP-003", "read random fingerprint", err)
	}
	return fp, nil
}

// Parse decodes a hex fingerprint. Surrounding whitespace is ignored; odd
// lengths and non-hex characters fail with a KindFormat error.
func Parse(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "PAWPAD-FP-001", fmt.Sprintf("invalid fingerprint hex %q", s), err)
	}
	return Fingerprint(b), nil
}

// EncodeInText appends the full fingerprint after every character of text.
func EncodeInText(text string, fp Fingerprint) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range text {
		selector.Append(&b, r, fp)
	}
	return b.String()
}

// Detect reports whether any segment of text carries exactly expected.
//
// Characters without selectors carry nothing, so an empty expected
// fingerprint never matches.
func Detect(text string, expected Fingerprint) bool {
	if len(expected) == 0 {
		return false
	}
	for _, seg := range selector.Scan(text) {
		if bytes.Equal(seg.Payload, expected) {
			return true
		}
	}
	return false
}

// ExtractFirst returns the payload of the first segment with hidden bytes, or
// false when text carries none.
func ExtractFirst(text string) (Fingerprint, bool) {
	for _, seg := range selector.Scan(text) {
		if seg.Hidden() {
			return Fingerprint(selector.DecodePayload(seg)), true
		}
	}
	return nil, false
}
