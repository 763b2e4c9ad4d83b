package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"

	"jot/internal/service"
	"jot/internal/testutil"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatTasks(t *testing.T) {
	withoutColor(t)

	tasks := []service.Task{
		{ID: "1", Title: "Buy milk", Description: "2%", DueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Priority: service.High},
		{ID: "2", Title: "File taxes", Description: "line one\nline two", DueDate: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), Priority: service.Low, Status: service.Complete},
		{ID: "3", Title: "  ", Priority: service.Medium},
	}

	var buf bytes.Buffer
	FormatTasks(&buf, tasks)
	testutil.Golden(t, "tasks", buf.Bytes())
}

func TestFormatTask_Numbering(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	FormatTask(&buf, 1234, service.Task{Title: "wide", Description: "d", DueDate: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)})

	want := "1234  [ ] wide\n" +
		"          d\n" +
		"          Due: 1/9/2025 | Priority: Low\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "(untitled)"},
		{"   ", "(untitled)"},
		{"a\r\nb", "a  b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	withoutColor(t)

	if got := StatusText(service.Complete); got != "Complete" {
		t.Errorf("got %q", got)
	}
	if got := StatusText(service.Incomplete); got != "Incomplete" {
		t.Errorf("got %q", got)
	}
}
