// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and CLI layout for due dates.
const DateLayout = "2006-01-02"

// Priority is the importance of a task.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

// String returns the display name ("Low", "Medium", "High").
func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case High:
		return "High"
	default:
		return "Medium"
	}
}

// Code returns the wire form: High→2, Low→0, everything else→1.
func (p Priority) Code() int {
	switch p {
	case High:
		return 2
	case Low:
		return 0
	default:
		return 1
	}
}

// PriorityFromCode decodes the wire form. Only exactly 0 and 2 are
// special; any other value, fractional ones included, is Medium.
func PriorityFromCode(code float64) Priority {
	switch code {
	case 2:
		return High
	case 0:
		return Low
	default:
		return Medium
	}
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return Medium, fmt.Errorf("invalid priority: %s (want Low, Medium or High)", s)
}

// Status is the completion state of a task.
type Status int

const (
	Incomplete Status = iota
	Complete
)

func (s Status) String() string {
	if s == Complete {
		return "Complete"
	}
	return "Incomplete"
}

// Code returns the wire form: Incomplete→0, Complete→1.
func (s Status) Code() int {
	if s == Complete {
		return 1
	}
	return 0
}

// StatusFromCode decodes the wire form. Any non-zero value is Complete.
func StatusFromCode(code float64) Status {
	if code != 0 {
		return Complete
	}
	return Incomplete
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == Complete {
		return Incomplete
	}
	return Complete
}

// ParseStatus parses a status name case-insensitively.
// "done" and "open" are accepted as shorthands.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incomplete", "open":
		return Incomplete, nil
	case "complete", "done":
		return Complete, nil
	}
	return Incomplete, fmt.Errorf("invalid status: %s (want Incomplete or Complete)", s)
}

// Task represents a single to-do item.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Status      Status
}

// Draft returns the editable fields of the task.
func (t Task) Draft() Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
	}
}

// Draft holds the editable fields of a task before it is sent to the backend.
type Draft struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Status      Status
}

// NewDraft returns the draft a fresh "add task" form starts from:
// due today, Medium priority, Incomplete.
func NewDraft(now time.Time) Draft {
	return Draft{
		DueDate:  Date(now),
		Priority: Medium,
		Status:   Incomplete,
	}
}

// Task builds a task with the given id from the draft.
func (d Draft) Task(id string) Task {
	return Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Status:      d.Status,
	}
}

// Date truncates t to a calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. Longer ISO strings
// ("2024-06-01T00:00:00.000Z") are accepted by their date prefix.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// Identity is an authenticated user as reported by the identity provider.
type Identity struct {
	LocalID     string
	Email       string
	DisplayName string

	// IDToken and RefreshToken are opaque provider credentials.
	IDToken      string
	RefreshToken string
	Expiry       time.Time
}
