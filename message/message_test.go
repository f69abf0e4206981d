package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpad.dev/pawpad/model"
	"pawpad.dev/pawpad/selector"
)

func TestEncodeInText_RoundTrip(t *testing.T) {
	cases := []struct {
		carrier string
		msg     string
	}{
		{"hello world", "secret"},
		{"ab", "a much longer message than the carrier"},
		{"x", "ünïcödé 🐾 message"},
		{"carrier text", ""},
		{"日本語", "東京"},
	}
	for _, tc := range cases {
		encoded, err := EncodeInText(tc.carrier, tc.msg)
		require.NoError(t, err)
		assert.Equal(t, tc.carrier, selector.Strip(encoded))
		assert.Equal(t, tc.msg, DecodeFromText(encoded))
	}
}

func TestEncodeInText_Distribution(t *testing.T) {
	// 7 bytes over 3 characters: 3, 2, 2.
	encoded, err := EncodeInText("abc", "1234567")
	require.NoError(t, err)

	segments := selector.Scan(encoded)
	require.Len(t, segments, 3)
	assert.Equal(t, []byte("123"), segments[0].Payload)
	assert.Equal(t, []byte("45"), segments[1].Payload)
	assert.Equal(t, []byte("67"), segments[2].Payload)
}

func TestEncodeInText_ShortMessageLeavesTailEmpty(t *testing.T) {
	encoded, err := EncodeInText("abcd", "hi")
	require.NoError(t, err)

	segments := selector.Scan(encoded)
	require.Len(t, segments, 4)
	assert.Equal(t, []byte("h"), segments[0].Payload)
	assert.Equal(t, []byte("i"), segments[1].Payload)
	assert.Empty(t, segments[2].Payload)
	assert.Empty(t, segments[3].Payload)
}

func TestEncodeInText_EmptyCarrier(t *testing.T) {
	out, err := EncodeInText("", "hello")
	require.Error(t, err)
	assert.Equal(t, "", out)
	assert.True(t, model.IsKind(err, model.KindEmptyCarrier))
	assert.Equal(t, "PAWPAD-MSG-001", model.RuleID(err))
}

func TestCapacity(t *testing.T) {
	dist, err := Capacity("héllo", "abcdefghijkl")
	require.NoError(t, err)
	assert.Equal(t, Distribution{Chars: 5, Bytes: 12, Base: 2, Extra: 2}, dist)
}

func TestDecodeFromText_Empty(t *testing.T) {
	assert.Equal(t, "", DecodeFromText(""))
	assert.Equal(t, "", DecodeFromText("no hidden data"))
}

func TestDecodeFromText_DropsInvalidUTF8(t *testing.T) {
	var b strings.Builder
	selector.Append(&b, 'a', []byte("ok"))
	selector.Append(&b, 'b', []byte{0xff, 0xfe})
	selector.Append(&b, 'c', []byte("!"))
	assert.Equal(t, "ok!", DecodeFromText(b.String()))

	// A truncated multi-byte sequence at the end is dropped.
	var tail strings.Builder
	selector.Append(&tail, 'a', append([]byte("é"), []byte("€")[:2]...))
	assert.Equal(t, "é", DecodeFromText(tail.String()))
}

func TestSingleChar_RoundTrip(t *testing.T) {
	encoded, err := EncodeInSingleChar("🐾", "the whole message")
	require.NoError(t, err)
	assert.Equal(t, "🐾", selector.Strip(encoded))

	msg, err := DecodeFromSingleChar(encoded)
	require.NoError(t, err)
	assert.Equal(t, "the whole message", msg)
}

func TestSingleChar_NoPayload(t *testing.T) {
	msg, err := DecodeFromSingleChar("a")
	require.NoError(t, err)
	assert.Equal(t, "", msg)
}

func TestSingleChar_InvalidCarrier(t *testing.T) {
	for _, carrier := range []string{"", "ab"} {
		_, err := EncodeInSingleChar(carrier, "x")
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindInvalidCarrier))
		assert.Equal(t, "PAWPAD-MSG-002", model.RuleID(err))
	}

	encoded, err := EncodeInText("ab", "xy")
	require.NoError(t, err)
	_, err = DecodeFromSingleChar(encoded)
	require.Error(t, err)
	assert.Equal(t, "PAWPAD-MSG-003", model.RuleID(err))
}
