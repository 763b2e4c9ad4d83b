package commands

import (
	"context"
	"flag"
	"fmt"

	"jot/internal/account"
	"jot/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
	Register(&WhoAmICmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string        { return "logout" }
func (c *LogoutCmd) Aliases() []string   { return nil }
func (c *LogoutCmd) Synopsis() string    { return "Forget the stored session" }
func (c *LogoutCmd) Usage() string       { return "jot logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool     { return false }
func (c *LogoutCmd) NeedsIdentity() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string) int {
	existed, err := account.New(nil, env.Sessions, env.Log).Logout(ctx)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}

	if !env.quiet() {
		if existed {
			fmt.Fprintln(env.Out, "ok")
		} else {
			fmt.Fprintln(env.Out, "not logged in")
		}
	}
	return exitcode.Success
}

// WhoAmICmd prints the session email and warns when the stored provider
// token has expired.
type WhoAmICmd struct{}

func (c *WhoAmICmd) Name() string        { return "whoami" }
func (c *WhoAmICmd) Aliases() []string   { return nil }
func (c *WhoAmICmd) Synopsis() string    { return "Print the logged-in email" }
func (c *WhoAmICmd) Usage() string       { return "jot whoami [common flags]" }
func (c *WhoAmICmd) NeedsAuth() bool     { return false }
func (c *WhoAmICmd) NeedsIdentity() bool { return false }

func (c *WhoAmICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoAmICmd) Run(ctx context.Context, env *Env, args []string) int {
	s, err := env.Sessions.Load(ctx)
	if err != nil {
		return ReportError(env.ErrOut, err)
	}
	if s.DisplayName != "" {
		fmt.Fprintf(env.Out, "%s (%s)\n", s.Email, s.DisplayName)
	} else {
		fmt.Fprintln(env.Out, s.Email)
	}
	if s.Token != nil && !s.TokenValid() {
		fmt.Fprintln(env.ErrOut, "warning: sign-in token expired (run: jot login)")
	}
	return exitcode.Success
}
