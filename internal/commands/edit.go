package commands

import (
	"context"
	"flag"
	"fmt"

	"jot/internal/exitcode"
	"jot/internal/tasklist"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	fields draftFlags
}

// SetFields sets the fields to change (for testing).
func (c *EditCmd) SetFields(title, desc, due, priority, status string) {
	c.fields = draftFlags{title: title, desc: desc, due: due, priority: priority, status: status}
}

func (c *EditCmd) Name() string        { return "edit" }
func (c *EditCmd) Aliases() []string   { return nil }
func (c *EditCmd) Synopsis() string    { return "Change a task" }
func (c *EditCmd) Usage() string       { return "jot edit [--title <t>] [--desc <d>] [--due <date>] [--priority <p>] [--status <s>] <n>" }
func (c *EditCmd) NeedsAuth() bool     { return true }
func (c *EditCmd) NeedsIdentity() bool { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields.register(fs, true)
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	if c.fields == (draftFlags{}) {
		fmt.Fprintln(env.ErrOut, "error: nothing to change")
		return exitcode.UserError
	}

	ctl := tasklist.New(env.Tasks, env.Sessions, env.Log)
	task, code, ok := parseRef(ctx, env, ctl, args)
	if !ok {
		return code
	}

	ed := tasklist.NewEditor()
	ed.OpenEdit(task)
	if err := c.fields.apply(&ed.Draft); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if _, err := ed.Submit(ctx, ctl); err != nil {
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
