// Package message hides a variable-length UTF-8 message in a carrier text.
//
// The message bytes are spread over the carrier characters in order: with n
// characters and m bytes, each character takes m/n bytes and the first m%n
// characters take one more.
package message

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pawpad.dev/pawpad/model"
	"pawpad.dev/pawpad/selector"
)

// Distribution describes how a payload is split across a carrier.
type Distribution struct {
	Chars int
	Bytes int
	// Base is the number of bytes every character receives.
	Base int
	// Extra is the number of leading characters that receive one more byte.
	Extra int
}

// Capacity reports the distribution EncodeInText would use.
func Capacity(carrier, msg string) (Distribution, error) {
	n := utf8.RuneCountInString(carrier)
	if n == 0 {
		return Distribution{}, model.NewError(model.KindEmptyCarrier, "PAWPAD-MSG-001", "carrier text is empty")
	}
	m := len(msg)
	return Distribution{Chars: n, Bytes: m, Base: m / n, Extra: m % n}, nil
}

// EncodeInText distributes the UTF-8 bytes of msg across the characters of
// carrier. An empty carrier fails with a KindEmptyCarrier error and produces
// no output.
func EncodeInText(carrier, msg string) (string, error) {
	dist, err := Capacity(carrier, msg)
	if err != nil {
		return "", err
	}
	payload := []byte(msg)

	var b strings.Builder
	offset := 0
	i := 0
	for _, r := range carrier {
		count := dist.Base
		if i < dist.Extra {
			count++
		}
		selector.Append(&b, r, payload[offset:offset+count])
		offset += count
		i++
	}
	return b.String(), nil
}

// DecodeFromText concatenates every segment payload of text in scan order and
// decodes it as UTF-8, dropping invalid sequences.
func DecodeFromText(text string) string {
	var payload []byte
	for _, seg := range selector.Scan(text) {
		payload = append(payload, seg.Payload...)
	}
	return decodeLossy(payload)
}

// EncodeInSingleChar appends the whole message after base, which must be
// exactly one character.
func EncodeInSingleChar(base, msg string) (string, error) {
	if n := utf8.RuneCountInString(base); n != 1 {
		return "", model.NewError(model.KindInvalidCarrier, "PAWPAD-MSG-002", fmt.Sprintf("single-character mode requires exactly one character, got %d", n))
	}
	r, _ := utf8.DecodeRuneInString(base)
	var b strings.Builder
	selector.Append(&b, r, []byte(msg))
	return b.String(), nil
}

// DecodeFromSingleChar decodes the payload of a single encoded character. The
// input must hold exactly one base character once selectors are ignored.
func DecodeFromSingleChar(encoded string) (string, error) {
	segments := selector.Scan(encoded)
	if len(segments) != 1 {
		return "", model.NewError(model.KindInvalidCarrier, "PAWPAD-MSG-003", fmt.Sprintf("single-character mode requires exactly one character, got %d", len(segments)))
	}
	return decodeLossy(segments[0].Payload), nil
}

func decodeLossy(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	return strings.ToValidUTF8(string(payload), "")
}
