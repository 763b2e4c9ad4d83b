// Package commands provides the command interface and implementations.
package commands

import (
	"bufio"
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"jot/internal/config"
	"jot/internal/service"
	"jot/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a session and the task
	// service. The dispatcher checks the session before Run.
	NeedsAuth() bool

	// NeedsIdentity returns true if the command talks to the identity
	// provider (signup, login).
	NeedsIdentity() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit
	// code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what a command runs against.
type Env struct {
	// Config is always set.
	Config *config.Config

	// Tasks is nil unless NeedsAuth returns true.
	Tasks service.Service

	// Identity is nil unless NeedsIdentity returns true.
	Identity service.IdentityProvider

	// Sessions is always set.
	Sessions session.Store

	Log    *zap.Logger
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	reader *bufio.Reader
}

func (e *Env) quiet() bool {
	return e.Config != nil && e.Config.Quiet
}
