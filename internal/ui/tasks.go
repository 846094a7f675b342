package ui

import (
	"fmt"
	"strings"

	"taskline/internal/session"
	"taskline/internal/storage"

	"github.com/mattn/go-runewidth"
)

// Column widths of the task table, in terminal cells.
const (
	indexWidth       = 3
	descriptionWidth = 30
	statusWidth      = 10

	tableWidth = indexWidth + len(" | ") + descriptionWidth + len(" | ") + statusWidth
)

const ellipsis = "..."

// truncateDescription shortens descriptions wider than the column minus
// room for the ellipsis.
func truncateDescription(s string) string {
	limit := descriptionWidth - len(ellipsis)
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "") + ellipsis
}

// center pads s on both sides to width w; odd padding goes to the right.
func center(s string, w int) string {
	sw := runewidth.StringWidth(s)
	if sw >= w {
		return s
	}
	left := (w - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-sw-left)
}

func statusMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// formatRow renders one table row. index is the 0-based filtered index; the
// table shows it 1-based.
func formatRow(index int, t storage.Task) string {
	return fmt.Sprintf("%*d | %s | %s",
		indexWidth, index+1,
		runewidth.FillLeft(truncateDescription(t.Description), descriptionWidth),
		center(statusMark(t.Done), statusWidth),
	)
}

func tableHeader() string {
	return strings.Repeat(" ", indexWidth) + " | " +
		runewidth.FillLeft("description", descriptionWidth) + " | " +
		center("status", statusWidth)
}

func tableSeparator() string {
	return strings.Repeat("-", indexWidth) + "-|-" +
		strings.Repeat("-", descriptionWidth) + "-|-" +
		strings.Repeat("-", statusWidth)
}

// renderTabs draws the view selector centred over the table. The active
// view is bracketed and drawn in its color.
func renderTabs(styles *Styles, active storage.Filter) string {
	var b strings.Builder
	width := 0
	for _, f := range storage.Filters {
		var label string
		if f == active {
			label = "[" + f.String() + "]"
			b.WriteString(styles.TabStyle(f).Render(label))
		} else {
			label = " " + f.String() + " "
			b.WriteString(styles.TabInactiveStyle.Render(label))
		}
		width += len(label)
	}

	padding := (tableWidth - width) / 2
	if padding <= 0 {
		return b.String()
	}
	return strings.Repeat(" ", padding) + b.String()
}

// tableChromeLines is the header plus the separator.
const tableChromeLines = 2

// visibleRange returns the slice [start, end) of n rows that fits in
// maxRows and contains cursor. maxRows <= 0 shows every row.
func visibleRange(n, cursor, maxRows int) (int, int) {
	if maxRows <= 0 || n <= maxRows {
		return 0, n
	}
	start := 0
	if cursor >= maxRows {
		start = cursor - maxRows + 1
	}
	return start, start + maxRows
}

// renderTable draws the header, the separator and the rows of snap, with
// the cursor row highlighted. At most maxRows rows are drawn, scrolled so
// the cursor stays visible. addKey names the add binding in the empty hint.
func renderTable(styles *Styles, snap session.Snapshot, addKey string, maxRows int) string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render(tableHeader()))
	b.WriteString("\n")
	b.WriteString(styles.HeaderStyle.Render(tableSeparator()))
	b.WriteString("\n")

	if len(snap.Rows) == 0 {
		b.WriteString(styles.EmptyStyle.Render(fmt.Sprintf("No tasks here. Press '%s' to add one.", addKey)))
		b.WriteString("\n")
		return b.String()
	}

	start, end := visibleRange(len(snap.Rows), snap.Cursor, maxRows)
	for i := start; i < end; i++ {
		line := formatRow(i, snap.Rows[i])
		if i == snap.Cursor {
			b.WriteString(styles.RowSelectedStyle.Render(line))
		} else {
			b.WriteString(styles.RowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
