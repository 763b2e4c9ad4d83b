package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"jot/internal/service"
	"jot/internal/tasklist"
)

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrInvalidRef indicates a reference that is not a task number.
	ErrInvalidRef = errors.New("invalid task reference")

	// ErrOutOfRange indicates a task number past the end of the list.
	ErrOutOfRange = errors.New("task number out of range")
)

// ParseTaskRef parses the 1-based task number shown by `jot list`.
// Exactly one all-digit argument is accepted.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRef, args[1])
	}
	if !isAllDigits(args[0]) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRef, args[0])
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRef, args[0])
	}
	if num < 1 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, num)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// lookupTask loads the collection and returns the task numbered num.
func lookupTask(ctx context.Context, ctl *tasklist.Controller, num int) (service.Task, error) {
	if err := ctl.Load(ctx); err != nil {
		return service.Task{}, err
	}
	tasks := ctl.Tasks()
	if num < 1 || num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, num)
	}
	return tasks[num-1], nil
}

// parseRef parses args and loads the referenced task. Errors are reported
// to env.ErrOut and returned as an exit code.
func parseRef(ctx context.Context, env *Env, ctl *tasklist.Controller, args []string) (service.Task, int, bool) {
	num, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, ReportError(env.ErrOut, err), false
	}
	task, err := lookupTask(ctx, ctl, num)
	if err != nil {
		return service.Task{}, ReportError(env.ErrOut, err), false
	}
	return task, 0, true
}
