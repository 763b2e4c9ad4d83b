package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"jot/internal/exitcode"
	"jot/internal/output"
	"jot/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. `jot` with no args runs it too.
type ListCmd struct {
	search string
	by     string
}

// SetSearch sets the search query and mode (for testing).
func (c *ListCmd) SetSearch(query, by string) {
	c.search = query
	c.by = by
}

func (c *ListCmd) Name() string        { return "list" }
func (c *ListCmd) Aliases() []string   { return []string{"ls"} }
func (c *ListCmd) Synopsis() string    { return "List tasks" }
func (c *ListCmd) Usage() string       { return "jot list [--search <q>] [--by priority|due]" }
func (c *ListCmd) NeedsAuth() bool     { return true }
func (c *ListCmd) NeedsIdentity() bool { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.by, "by", "priority", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	by := c.by
	if by == "" {
		by = "priority"
	}
	mode, err := tasklist.ParseMode(by)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctl := tasklist.New(env.Tasks, env.Sessions, env.Log)
	if err := ctl.Load(ctx); err != nil {
		return ReportError(env.ErrOut, err)
	}

	all := ctl.Tasks()
	if strings.TrimSpace(c.search) == "" {
		output.FormatTasks(env.Out, all)
		if len(all) == 0 && !env.quiet() {
			fmt.Fprintln(env.Out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers follow the unfiltered order so they can be passed to edit,
	// done and rm.
	match := make(map[string]bool)
	for _, t := range tasklist.Filter(all, c.search, mode) {
		match[t.ID] = true
	}

	shown := 0
	for i, t := range all {
		if match[t.ID] {
			output.FormatTask(env.Out, i+1, t)
			shown++
		}
	}

	if shown == 0 && !env.quiet() {
		fmt.Fprintln(env.Out, "no tasks found")
	}
	return exitcode.Success
}
