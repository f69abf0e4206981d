// Package render formats pawpad results for the terminal and for machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"pawpad.dev/pawpad/model"
)

// Tone selects the accent color of a panel.
type Tone int

const (
	Success Tone = iota
	Warning
	Failure
)

func (t Tone) color() lipgloss.Color {
	switch t {
	case Warning:
		return lipgloss.Color("11")
	case Failure:
		return lipgloss.Color("9")
	default:
		return lipgloss.Color("10")
	}
}

// Field is one labelled line of a panel.
type Field struct {
	Label string
	Value string
}

// Panel renders a bordered box with a bold headline followed by fields.
func Panel(title, headline string, tone Tone, fields ...Field) string {
	labelStyle := lipgloss.NewStyle().Bold(true)
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(tone.color())

	lines := []string{headStyle.Render(headline), ""}
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.Label+":")+" "+f.Value)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tone.color()).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true)
	return titleStyle.Render(title) + "\n" + box.Render(strings.Join(lines, "\n"))
}

// AnalysisTable renders one row per character of an analysis report.
func AnalysisTable(report model.AnalysisReport) string {
	rows := make([][]string, 0, len(report.Chars))
	for _, c := range report.Chars {
		hidden := "✗"
		if c.Hidden {
			hidden = "✓"
		}
		rows = append(rows, []string{strconv.Itoa(c.Index), c.Char, c.CodePoint, c.Name, hidden, c.PayloadHex})
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Character", "Unicode", "Name", "Hidden Data", "Hex").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return cell })
	return t.Render()
}

// VerifyTable renders the flagged positions of a verification report.
func VerifyTable(report model.VerifyReport) string {
	rows := make([][]string, 0, len(report.Tampered))
	for _, tc := range report.Tampered {
		rows = append(rows, []string{strconv.Itoa(tc.Position), tc.Char, tc.Reason})
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Position", "Character", "Reason").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return cell })
	return t.Render()
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
