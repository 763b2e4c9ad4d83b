package commands

import (
	"context"
	"flag"
	"fmt"

	"jot/internal/exitcode"
	"jot/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmCmd) Name() string        { return "rm" }
func (c *RmCmd) Aliases() []string   { return []string{"delete"} }
func (c *RmCmd) Synopsis() string    { return "Delete a task" }
func (c *RmCmd) Usage() string       { return "jot rm [--force] <n>" }
func (c *RmCmd) NeedsAuth() bool     { return true }
func (c *RmCmd) NeedsIdentity() bool { return false }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	ctl := tasklist.New(env.Tasks, env.Sessions, env.Log)
	task, code, ok := parseRef(ctx, env, ctl, args)
	if !ok {
		return code
	}

	if !c.force {
		yes, err := env.confirm("Are you sure you want to delete this task?")
		if err != nil {
			return ReportError(env.ErrOut, err)
		}
		if !yes {
			fmt.Fprintln(env.ErrOut, "cancelled")
			return exitcode.UserError
		}
	}

	if err := ctl.Remove(ctx, task.ID); err != nil {
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
