package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"jot/internal/account"
	"jot/internal/config"
	"jot/internal/exitcode"
	"jot/internal/service"
	"jot/internal/session"
	"jot/internal/tasklist"
)

// NotLoggedIn is printed when a command needs a session and there is none.
const NotLoggedIn = "error: not logged in (run: jot login)"

// ReportError prints err to w and returns the matching exit code.
func ReportError(w io.Writer, err error) int {
	var (
		taskInvalid    *tasklist.ValidationError
		accountInvalid *account.ValidationError
		accountErr     *account.Error
	)

	switch {
	case errors.As(err, &taskInvalid):
		fmt.Fprintf(w, "error: %s\n", err)
		return exitcode.UserError

	case errors.As(err, &accountInvalid):
		fmt.Fprintf(w, "error: %s\n", account.UserMessage(err))
		return exitcode.UserError

	case errors.Is(err, ErrTaskRefRequired), errors.Is(err, ErrOutOfRange), errors.Is(err, ErrInvalidRef),
		errors.Is(err, ErrNoInput):
		fmt.Fprintf(w, "error: %s\n", err)
		return exitcode.UserError

	case errors.Is(err, tasklist.ErrTaskNotFound):
		fmt.Fprintln(w, "error: task not found")
		return exitcode.UserError

	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "error: cancelled")
		return exitcode.UserError

	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(w, NotLoggedIn)
		return exitcode.AuthError

	case errors.As(err, &accountErr):
		fmt.Fprintf(w, "error: %s\n", account.UserMessage(accountErr))
		return exitcode.AuthError

	case errors.Is(err, config.ErrMissingSetting):
		fmt.Fprintf(w, "error: %s\n", err)
		return exitcode.AuthError

	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(w, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintf(w, "error: backend error: %s\n", err)
	return exitcode.BackendError
}
