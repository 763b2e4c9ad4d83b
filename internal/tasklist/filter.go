package tasklist

import (
	"fmt"
	"strings"

	"jot/internal/service"
)

// Mode selects the field a search query is matched against.
type Mode int

const (
	ModePriority Mode = iota
	ModeDueDate
)

// DisplayDateLayout is the month/day/year form due dates are searched and
// shown in.
const DisplayDateLayout = "1/2/2006"

func (m Mode) String() string {
	if m == ModeDueDate {
		return "dueDate"
	}
	return "priority"
}

// ParseMode parses "priority", "dueDate" or "due", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priority":
		return ModePriority, nil
	case "duedate", "due":
		return ModeDueDate, nil
	}
	return ModePriority, fmt.Errorf("invalid search mode: %s (want priority or due)", s)
}

// Filter returns the tasks whose field selected by mode contains query.
// A blank query returns tasks unchanged. Otherwise the query is matched as
// given, surrounding spaces included.
func Filter(tasks []service.Task, query string, mode Mode) []service.Task {
	if strings.TrimSpace(query) == "" {
		return tasks
	}
	q := strings.ToLower(query)

	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		var field string
		switch mode {
		case ModeDueDate:
			field = t.DueDate.Format(DisplayDateLayout)
		default:
			field = strings.ToLower(t.Priority.String())
		}
		if strings.Contains(field, q) {
			out = append(out, t)
		}
	}
	return out
}
