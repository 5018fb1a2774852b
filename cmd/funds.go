package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the tracked 13F filers" }
func (*fundsCmd) Usage() string {
	return `funds

Lists the funds whose 13F holdings are tracked, with their SEC CIK.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {}

func (c *fundsCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.Funds(edgar.Funds))
	return subcommands.ExitSuccess
}
