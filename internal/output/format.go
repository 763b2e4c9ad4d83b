// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jot/internal/service"
)

// DateLayout is the month/day/year form due dates are shown in.
const DateLayout = "1/2/2006"

// indent aligns detail lines under the title: 4-wide number plus 2 spaces
// plus the 4-wide status mark.
const indent = "          "

var (
	completeColor   = color.New(color.FgGreen)
	incompleteColor = color.New(color.FgRed)
)

// StatusMark returns "[x]" for complete tasks and "[ ]" otherwise, colored
// green or red when color is enabled.
func StatusMark(s service.Status) string {
	if s == service.Complete {
		return completeColor.Sprint("[x]")
	}
	return incompleteColor.Sprint("[ ]")
}

// StatusText returns the status name, colored like StatusMark.
func StatusText(s service.Status) string {
	if s == service.Complete {
		return completeColor.Sprint(s.String())
	}
	return incompleteColor.Sprint(s.String())
}

// FormatTask formats a numbered task.
// Format:
//
//	"{N:>4}  {MARK} {TITLE}\n"
//	"          {DESCRIPTION}\n"            (omitted when empty)
//	"          Due: {M/D/YYYY} | Priority: {PRIORITY}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, StatusMark(task.Status), normalizeTitle(task.Title))
	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintf(w, "%s%s\n", indent, desc)
	}
	fmt.Fprintf(w, "%sDue: %s | Priority: %s\n", indent, FormatDate(task), task.Priority)
}

// FormatTasks formats tasks numbered from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatDate returns the due date in DateLayout, or "-" when unset.
func FormatDate(task service.Task) string {
	if task.DueDate.IsZero() {
		return "-"
	}
	return task.DueDate.Format(DateLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText replaces newlines with spaces and trims.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
