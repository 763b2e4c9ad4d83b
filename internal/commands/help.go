package commands

import (
	"context"
	"flag"
	"fmt"

	"jot/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string        { return "help" }
func (c *HelpCmd) Aliases() []string   { return nil }
func (c *HelpCmd) Synopsis() string    { return "Print usage" }
func (c *HelpCmd) Usage() string       { return "jot help" }
func (c *HelpCmd) NeedsAuth() bool     { return false }
func (c *HelpCmd) NeedsIdentity() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `jot: get things done. Just a click away from planning your tasks.

Usage:
  jot                                        List your tasks
  jot list [common flags] [--search <q>] [--by priority|due]
  jot add [common flags] [--desc <d>] [--due YYYY-MM-DD] [--priority low|medium|high]
          [--status incomplete|complete] <title...>
  jot edit [common flags] [--title <t>] [--desc <d>] [--due YYYY-MM-DD]
           [--priority <p>] [--status <s>] <n>
  jot done [common flags] <n>                Toggle a task complete/incomplete
  jot rm [common flags] [--force] <n>
  jot signup [common flags] [<email>]
  jot login [common flags] [<email>]
  jot logout [common flags]
  jot whoami [common flags]
  jot help
  jot version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Settings (config.yaml in the config directory, or environment):
  api_url            JOT_API_URL
  api_secret         JOT_API_SECRET
  firebase_api_key   JOT_FIREBASE_API_KEY
  timeout            JOT_TIMEOUT
`
