package commands

import (
	"context"
	"flag"
	"fmt"

	"jot/internal/exitcode"
	"jot/internal/output"
	"jot/internal/tasklist"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it twice
// reopens the task.
type DoneCmd struct{}

func (c *DoneCmd) Name() string        { return "done" }
func (c *DoneCmd) Aliases() []string   { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string    { return "Toggle a task complete/incomplete" }
func (c *DoneCmd) Usage() string       { return "jot done <n>" }
func (c *DoneCmd) NeedsAuth() bool     { return true }
func (c *DoneCmd) NeedsIdentity() bool { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	ctl := tasklist.New(env.Tasks, env.Sessions, env.Log)
	task, code, ok := parseRef(ctx, env, ctl, args)
	if !ok {
		return code
	}

	toggled, err := ctl.ToggleStatus(task.ID)
	if err != nil {
		return ReportError(env.ErrOut, err)
	}
	if _, err := ctl.Update(ctx, task.ID, toggled.Draft()); err != nil {
		ctl.ToggleStatus(task.ID)
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, output.StatusText(toggled.Status))
	}
	return exitcode.Success
}
