package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minColumnWidth   = 3
	heavySeparator   = "="
	ellipsis         = "..."
	defaultTermWidth = 100
)

// Column describes one table column.
type Column struct {
	Header string

	// Flex marks the column that shrinks when the table is wider than the
	// terminal. Only the last flexible column shrinks.
	Flex bool
}

// TableFormatter formats listings as aligned, styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// Format renders rows under columns. Cells may contain styled text; widths
// are measured with lipgloss. Returns "" when there are no rows.
func (t *TableFormatter) Format(columns []Column, rows [][]string) string {
	if len(rows) == 0 || len(columns) == 0 {
		return ""
	}

	widths := t.columnWidths(columns, rows)

	var builder strings.Builder

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	builder.WriteString(t.styles.TableHeader.Render(t.formatCells(headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatCells(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// FormatLegend formats a footer line under a table.
func (t *TableFormatter) FormatLegend(text string) string {
	return t.styles.TableLegend.Render(" "+text) + "\n"
}

// columnWidths sizes each column to its widest cell, then shrinks the flex
// column to fit the terminal.
func (t *TableFormatter) columnWidths(columns []Column, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(lipgloss.Width(col.Header), minColumnWidth)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	flex := -1
	for i, col := range columns {
		if col.Flex {
			flex = i
		}
	}
	if flex < 0 {
		return widths
	}

	if total := totalWidth(widths); total > t.termWidth {
		excess := total - t.termWidth
		widths[flex] = max(lipgloss.Width(columns[flex].Header), minColumnWidth, widths[flex]-excess)
	}

	return widths
}

func totalWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

// formatCells pads each cell to its column width, truncating overlong cells.
func (t *TableFormatter) formatCells(cells []string, widths []int) string {
	var builder strings.Builder
	builder.WriteString(" ")
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, ellipsis)
		}
		builder.WriteString(cell)
		if i < len(widths)-1 {
			builder.WriteString(strings.Repeat(" ", width-lipgloss.Width(cell)+tablePadding))
		}
	}
	return strings.TrimRight(builder.String(), " ")
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths []int) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, totalWidth(widths)))
}
