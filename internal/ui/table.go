package ui

import "strings"

// RenderSimpleTable renders rows as space-padded columns with a bold header
// row. Column widths follow the widest cell. This is for plain CLI output,
// not the interactive TUI.
func RenderSimpleTable(header []string, rows [][]string) string {
	all := make([][]string, 0, len(rows)+1)
	all = append(all, header)
	all = append(all, rows...)

	widths := make([]int, len(header))
	for _, row := range all {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for rowIdx, row := range all {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(widths) {
				cells[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
			} else {
				cells[i] = cell
			}
		}
		line := strings.TrimRight(strings.Join(cells, " "), " ")
		if rowIdx == 0 {
			line = HeadingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
