package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type discoverCmd struct {
	kind string
}

func (*discoverCmd) Name() string     { return "discover" }
func (*discoverCmd) Synopsis() string { return "list the leading tickers of a sector" }
func (*discoverCmd) Usage() string {
	return `discover [-type sector|industry] [<name>]

Lists the leading tickers of a sector or an industry. Without name, lists
the known names.
`
}

func (c *discoverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "sector", "sector or industry")
}

func (c *discoverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		printMarkdown(renderer.DiscoverNames(ystocker.DiscoverNames()))
		return subcommands.ExitSuccess
	}
	name := strings.Join(f.Args(), " ")
	log.WithFields(log.Fields{"type": c.kind, "name": name}).Debug("discover")
	tickers, err := ystocker.Discover(name)
	if err != nil {
		fail("No built-in data for '%s'. Try a different name.", name)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Discover(name, tickers))
	return subcommands.ExitSuccess
}
