package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"strings"

	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type holdingsCmd struct {
	n int
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the 13F holdings of a fund" }
func (*holdingsCmd) Usage() string {
	return `holdings [-n 20] <fund>

Displays the largest positions of the latest 13F report of a fund, with
their change since the previous quarter. The fund is one of "ystocker funds".
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 20, "number of positions, 0 for all")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fail("a fund name is required")
		return subcommands.ExitUsageError
	}
	name := strings.Join(f.Args(), " ")
	fund, ok := edgar.FundByName(name)
	if !ok {
		fail("Fund %q not found, see 'ystocker funds'.", name)
		return subcommands.ExitFailure
	}

	// the cached report of every fund, when fresh, avoids a round of EDGAR requests.
	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	store := newStores(blob, nil, nil).holdings
	if store.Load(ctx) {
		snap, _ := store.Get()
		if h, ok := snap.Data[fund.Name]; ok && !h.Failed() {
			printMarkdown(renderer.Holdings(fund.Name, h, c.n))
			return subcommands.ExitSuccess
		}
	}

	h := edgar.New(cfg.SECUserAgent, filepath.Join(cfg.CacheDir, "sec13f")).FetchFund(ctx, fund)
	printMarkdown(renderer.Holdings(fund.Name, h, c.n))
	if h.Failed() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
