package selector

import (
	"fmt"

	"pawpad.dev/pawpad/model"
)

const (
	// LowBase is the first selector of the low range (VS1).
	LowBase rune = 0xFE00
	// HighBase is the first selector of the high range (VS17).
	HighBase rune = 0xE0100

	lowCount  = 16
	highCount = 240
)

// ByteToSelector returns the selector for v. It fails with a KindRange error
// when v is outside [0,255].
func ByteToSelector(v int) (rune, error) {
	if v < 0 || v > 255 {
		return 0, model.NewError(model.KindRange, "PAWPAD-VS-001", fmt.Sprintf("byte value %d out of range (0-255)", v))
	}
	return Encode(byte(v)), nil
}

// Encode returns the selector for b. Unlike ByteToSelector it cannot fail.
func Encode(b byte) rune {
	if b < lowCount {
		return LowBase + rune(b)
	}
	return HighBase + rune(b-lowCount)
}

// SelectorToByte returns the byte carried by r, or false when r is not a
// selector of either range.
func SelectorToByte(r rune) (byte, bool) {
	switch {
	case r >= LowBase && r < LowBase+lowCount:
		return byte(r - LowBase), true
	case r >= HighBase && r < HighBase+highCount:
		return byte(r-HighBase) + lowCount, true
	default:
		return 0, false
	}
}

// IsSelector reports whether r is in either selector range.
func IsSelector(r rune) bool {
	_, ok := SelectorToByte(r)
	return ok
}
