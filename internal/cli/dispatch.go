package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"jot/internal/commands"
	"jot/internal/config"
	"jot/internal/exitcode"
	"jot/internal/logging"
	"jot/internal/service"
	"jot/internal/session"
)

// Backends creates the remote collaborators from config.
// Used to inject fakes during dispatch.
type Backends struct {
	// Tasks builds the task gateway for commands that need a session.
	Tasks func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error)

	// Identity builds the identity provider for login and signup.
	Identity func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.IdentityProvider, error)

	// Sessions builds the session store. Nil means the session file in the
	// config directory.
	Sessions func(cfg *config.Config, log *zap.Logger) session.Store
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	backends Backends

	// In is where prompts read from. Defaults to os.Stdin.
	In io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and backends.
func NewDispatcher(registry *commands.Registry, backends Backends) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		backends: backends,
		In:       os.Stdin,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		reportFlagError(errOut, err)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log, err := logging.New(debug)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer log.Sync() //nolint:errcheck

	env := &commands.Env{
		Config:   cfg,
		Sessions: d.sessions(cfg, log),
		Log:      log,
		In:       d.In,
		Out:      out,
		ErrOut:   errOut,
	}

	if cmd.NeedsAuth() {
		// Fail before building the gateway so a missing session wins over a
		// missing api_secret.
		if _, err := env.Sessions.Load(ctx); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(errOut, commands.NotLoggedIn)
				return exitcode.AuthError
			}
			return commands.ReportError(errOut, err)
		}
		if d.backends.Tasks == nil {
			fmt.Fprintln(errOut, "error: backend error: no task backend configured")
			return exitcode.BackendError
		}
		env.Tasks, err = d.backends.Tasks(ctx, cfg, log)
		if err != nil {
			return commands.ReportError(errOut, err)
		}
	}

	if cmd.NeedsIdentity() {
		if d.backends.Identity == nil {
			fmt.Fprintln(errOut, "error: backend error: no identity provider configured")
			return exitcode.BackendError
		}
		env.Identity, err = d.backends.Identity(ctx, cfg, log)
		if err != nil {
			return commands.ReportError(errOut, err)
		}
	}

	log.Debug("dispatch", zap.String("command", cmd.Name()), zap.Strings("args", positionalArgs))
	return cmd.Run(ctx, env, positionalArgs)
}

func (d *Dispatcher) sessions(cfg *config.Config, log *zap.Logger) session.Store {
	if d.backends.Sessions != nil {
		return d.backends.Sessions(cfg, log)
	}
	return session.NewFileStore(cfg.SessionPath(), log)
}

func reportFlagError(errOut io.Writer, err error) {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
		return
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
}
