package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static tabular data. The interactive list pages use
// bubbles/table; this one covers CLI output and the read-only sub-lists
// inside detail views, where Empty supplies the no-rows message.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Empty   string
}

// NewSimpleTable creates a table with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{Title: title, Headers: headers}
}

// AddRow appends one row.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// colWidths sizes each column to its widest cell, header included, plus the
// cell padding lipgloss counts into the width.
func (t *SimpleTable) colWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}

// renderLine lays one row out against the column widths.
func renderLine(cells []string, widths []int, cellStyle, sepStyle lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		parts = append(parts, cellStyle.Width(widths[i]).Render(cell))
	}
	return strings.Join(parts, sepStyle.Render("|"))
}

// View renders the table, or the Empty message when there are no rows.
func (t *SimpleTable) View(styles Styles) string {
	var sb strings.Builder
	if t.Title != "" && (len(t.Rows) > 0 || t.Empty != "") {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	if len(t.Rows) == 0 {
		if t.Empty == "" {
			return ""
		}
		sb.WriteString(styles.Muted.Render(t.Empty))
		sb.WriteString("\n")
		return sb.String()
	}

	widths := t.colWidths()
	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)

	sb.WriteString(renderLine(t.Headers, widths, headerStyle, styles.Muted))
	sb.WriteString("\n")

	total := len(t.Headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(renderLine(row, widths, rowStyle, styles.Muted))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
