package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type fedCmd struct {
	refresh bool
}

func (*fedCmd) Name() string     { return "fed" }
func (*fedCmd) Synopsis() string { return "display the Federal Reserve balance sheet" }
func (*fedCmd) Usage() string {
	return `fed [-refresh]

Displays the latest value of each H.4.1 series. The cached series are used
while they are younger than YSTOCKER_FED_TTL.
`
}

func (c *fedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "ignore the cache")
}

func (c *fedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	store := newStores(blob, nil, nil).fed
	if c.refresh {
		if err := store.Refresh(ctx); err != nil {
			fail("Error fetching FRED: %v", err)
			return subcommands.ExitFailure
		}
	}
	snap, err := store.GetOrFetch(ctx)
	if err != nil {
		fail("Error fetching FRED: %v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Fed(snap.Data.Latest(), snap.Time()))
	return subcommands.ExitSuccess
}
