// Package selector maps bytes to Unicode variation selectors and scans text
// into (base character, hidden payload) segments.
//
// Bytes 0-15 map to VS1..VS16 (U+FE00..U+FE0F) and bytes 16-255 map to
// VS17..VS256 (U+E0100..U+E01EF). Every byte has exactly one selector and every
// selector in those two ranges has exactly one byte.
//
// All functions are pure and safe for concurrent use.
package selector
