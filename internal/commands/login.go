package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"jot/internal/account"
	"jot/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
	Register(&SignUpCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string        { return "login" }
func (c *LoginCmd) Aliases() []string   { return nil }
func (c *LoginCmd) Synopsis() string    { return "Log in with email and password" }
func (c *LoginCmd) Usage() string       { return "jot login [common flags] [<email>]" }
func (c *LoginCmd) NeedsAuth() bool     { return false }
func (c *LoginCmd) NeedsIdentity() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	email, code, ok := readEmail(env, args)
	if !ok {
		return code
	}
	password, err := env.readSecret("Password: ")
	if err != nil {
		return ReportError(env.ErrOut, err)
	}

	acct := account.New(env.Identity, env.Sessions, env.Log)
	if _, err := acct.Login(ctx, email, password); err != nil {
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}

// SignUpCmd implements the signup command.
type SignUpCmd struct{}

func (c *SignUpCmd) Name() string        { return "signup" }
func (c *SignUpCmd) Aliases() []string   { return []string{"register"} }
func (c *SignUpCmd) Synopsis() string    { return "Create an account" }
func (c *SignUpCmd) Usage() string       { return "jot signup [common flags] [<email>]" }
func (c *SignUpCmd) NeedsAuth() bool     { return false }
func (c *SignUpCmd) NeedsIdentity() bool { return true }

func (c *SignUpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SignUpCmd) Run(ctx context.Context, env *Env, args []string) int {
	email, code, ok := readEmail(env, args)
	if !ok {
		return code
	}
	password, err := env.readSecret("Password: ")
	if err != nil {
		return ReportError(env.ErrOut, err)
	}
	confirm, err := env.readSecret("Confirm password: ")
	if err != nil {
		return ReportError(env.ErrOut, err)
	}

	acct := account.New(env.Identity, env.Sessions, env.Log)
	if _, err := acct.SignUp(ctx, email, password, confirm); err != nil {
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}

// readEmail takes the email from args or prompts for it.
func readEmail(env *Env, args []string) (string, int, bool) {
	switch len(args) {
	case 0:
		email, err := env.readLine("Email: ")
		if err != nil {
			return "", ReportError(env.ErrOut, err), false
		}
		return strings.TrimSpace(email), 0, true
	case 1:
		return args[0], 0, true
	}
	fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[1])
	return "", exitcode.UserError, false
}
