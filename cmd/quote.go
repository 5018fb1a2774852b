package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	group string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display valuation metrics" }
func (*quoteCmd) Usage() string {
	return `quote [-g <group>] [<ticker>...]

Fetches the price, analyst target, PE, forward PE and PEG of the tickers,
and of every ticker of the peer group given with -g.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "g", "", "peer group to quote")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var tickers []string
	if c.group != "" {
		blob, err := openBlob(ctx)
		if err != nil {
			fail("Error opening the cache: %v", err)
			return subcommands.ExitFailure
		}
		groups := openGroups(ctx, blob)
		t, ok := groups.Tickers(c.group)
		if !ok {
			fail("Group %q not found.", c.group)
			return subcommands.ExitFailure
		}
		tickers = t
	}
	for _, t := range f.Args() {
		tickers = append(tickers, ystocker.NormalizeTicker(t))
	}
	if len(tickers) == 0 {
		fail("at least one ticker or a group is required")
		return subcommands.ExitUsageError
	}

	quotes, errs := ystocker.FetchQuotes(ctx, newProvider(), tickers, cfg.FetchWorkers)
	list := make([]ystocker.Quote, 0, len(tickers))
	for _, t := range tickers {
		if q, ok := quotes[t]; ok {
			list = append(list, q)
		}
	}
	printMarkdown(renderer.Quotes(list, errs))
	if len(list) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
