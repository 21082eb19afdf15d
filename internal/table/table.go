// Package table renders rows of text as a bordered ASCII table. Cell widths
// ignore ANSI color sequences, so colored cells stay aligned.
package table

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment of text within a column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table accumulates a header and rows, then writes them with Render.
type Table struct {
	writer      io.Writer
	header      []string
	rows        [][]string
	alignment   []Alignment
	headerAlign []Alignment
}

// NewTable returns a table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.alignment = alignment
	return t
}

func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlign = alignment
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// Render writes the table. Short rows are padded with empty cells.
func (t *Table) Render() error {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	var sb strings.Builder
	border := t.border(widths)
	sb.WriteString(border)
	if len(t.header) > 0 {
		t.writeRow(&sb, t.header, widths, t.headerAlign)
		sb.WriteString(border)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row, widths, t.alignment)
	}
	if len(t.rows) > 0 {
		sb.WriteString(border)
	}
	_, err := io.WriteString(t.writer, sb.String())
	return err
}

func (t *Table) widths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) border(widths []int) string {
	var sb strings.Builder
	sb.WriteString("+")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string, widths []int, alignment []Alignment) {
	sb.WriteString("|")
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(alignment) {
			align = alignment[i]
		}
		sb.WriteString(" ")
		sb.WriteString(pad(cell, w, align))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func pad(cell string, width int, align Alignment) string {
	gap := width - displayWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	}
	return cell + strings.Repeat(" ", gap)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(ansi.ReplaceAllString(s, ""))
}
