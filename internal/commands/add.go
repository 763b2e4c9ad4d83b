package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"jot/internal/exitcode"
	"jot/internal/service"
	"jot/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// draftFlags are the task fields settable from the command line. Empty
// means "leave as is".
type draftFlags struct {
	title    string
	desc     string
	due      string
	priority string
	status   string
}

func (f *draftFlags) register(fs *flag.FlagSet, withTitle bool) {
	if withTitle {
		fs.StringVar(&f.title, "title", "", "")
		fs.StringVar(&f.title, "t", "", "")
	}
	fs.StringVar(&f.desc, "desc", "", "")
	fs.StringVar(&f.desc, "d", "", "")
	fs.StringVar(&f.due, "due", "", "")
	fs.StringVar(&f.priority, "priority", "", "")
	fs.StringVar(&f.priority, "p", "", "")
	fs.StringVar(&f.status, "status", "", "")
}

// apply overwrites the fields of d that were given on the command line.
func (f *draftFlags) apply(d *service.Draft) error {
	if f.title != "" {
		d.Title = f.title
	}
	if f.desc != "" {
		d.Description = f.desc
	}
	if f.due != "" {
		due, err := service.ParseDate(f.due)
		if err != nil {
			return err
		}
		d.DueDate = due
	}
	if f.priority != "" {
		p, err := service.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		d.Priority = p
	}
	if f.status != "" {
		s, err := service.ParseStatus(f.status)
		if err != nil {
			return err
		}
		d.Status = s
	}
	return nil
}

// AddCmd implements the add command.
type AddCmd struct {
	fields draftFlags
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(desc, due, priority, status string) {
	c.fields = draftFlags{desc: desc, due: due, priority: priority, status: status}
}

func (c *AddCmd) Name() string        { return "add" }
func (c *AddCmd) Aliases() []string   { return []string{"create"} }
func (c *AddCmd) Synopsis() string    { return "Create a task" }
func (c *AddCmd) Usage() string       { return "jot add [--desc <d>] [--due <date>] [--priority <p>] [--status <s>] <title...>" }
func (c *AddCmd) NeedsAuth() bool     { return true }
func (c *AddCmd) NeedsIdentity() bool { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields.register(fs, false)
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(env.ErrOut, "error: title required")
		return exitcode.UserError
	}

	ed := tasklist.NewEditor()
	ed.OpenCreate()
	ed.Draft.Title = title
	if err := c.fields.apply(&ed.Draft); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctl := tasklist.New(env.Tasks, env.Sessions, env.Log)
	if _, err := ed.Submit(ctx, ctl); err != nil {
		return ReportError(env.ErrOut, err)
	}

	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
