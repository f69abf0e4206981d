package selector

import (
	"strings"
	"unicode/utf8"
)

// Segment is a base character together with the bytes decoded from the run of
// selectors immediately following it.
type Segment struct {
	Base    rune
	Payload []byte
}

// Hidden reports whether any selectors followed the base character.
func (s Segment) Hidden() bool {
	return len(s.Payload) > 0
}

// DecodePayload returns a copy of the bytes attached to seg. The result is empty
// (non-nil) when no selectors followed the base character.
func DecodePayload(seg Segment) []byte {
	return append([]byte{}, seg.Payload...)
}

// Scan partitions text into segments in a single left-to-right pass.
//
// Selectors that appear before any base character cannot start a segment and
// are skipped. Every other rune starts a new segment and absorbs the selectors
// that follow it. Invalid UTF-8 bytes are treated as U+FFFD base characters.
func Scan(text string) []Segment {
	var segments []Segment
	for _, r := range text {
		if b, ok := SelectorToByte(r); ok {
			if len(segments) == 0 {
				continue
			}
			last := &segments[len(segments)-1]
			last.Payload = append(last.Payload, b)
			continue
		}
		segments = append(segments, Segment{Base: r})
	}
	return segments
}

// Strip returns text with every selector removed, keeping base characters in
// their original order.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if IsSelector(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Append writes base followed by one selector per byte of data.
func Append(b *strings.Builder, base rune, data []byte) {
	b.WriteRune(base)
	for _, v := range data {
		b.WriteRune(Encode(v))
	}
}

// EncodedLen returns the UTF-8 size of base followed by n selectors whose
// values are taken from data.
func EncodedLen(base rune, data []byte) int {
	n := utf8.RuneLen(base)
	if n < 0 {
		n = utf8.RuneLen(utf8.RuneError)
	}
	for _, v := range data {
		n += utf8.RuneLen(Encode(v))
	}
	return n
}
