package fingerprint

import (
	"encoding/hex"
	"fmt"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/runenames"

	"pawpad.dev/pawpad/model"
	"pawpad.dev/pawpad/selector"
)

// Analyze reports every base character of text with whatever bytes are hidden
// behind it.
func Analyze(text string) model.AnalysisReport {
	segments := selector.Scan(text)
	report := model.AnalysisReport{Chars: make([]model.CharRow, 0, len(segments))}
	for i, seg := range segments {
		row := model.CharRow{
			Index:     i,
			Char:      string(seg.Base),
			CodePoint: fmt.Sprintf("U+%04X", seg.Base),
			Name:      runenames.Name(seg.Base),
			Width:     runewidth.RuneWidth(seg.Base),
			Hidden:    seg.Hidden(),
		}
		if seg.Hidden() {
			row.PayloadHex = hex.EncodeToString(seg.Payload)
			report.HiddenChars++
			report.HiddenBytes += len(seg.Payload)
		}
		report.Chars = append(report.Chars, row)
	}
	return report
}
