package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a year of price, PE and PEG" }
func (*historyCmd) Usage() string {
	return `history <ticker>

  Displays the weekly closes of the last year with the PE and PEG they imply
  at today's earnings.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("a single ticker is required")
		return subcommands.ExitUsageError
	}
	ticker := ystocker.NormalizeTicker(f.Arg(0))
	p := newProvider()

	raw, err := p.Quote(ctx, ticker)
	if err != nil {
		fail("Error fetching %s: %v", ticker, err)
		return subcommands.ExitFailure
	}
	bars, err := p.History(ctx, ticker, ystocker.OneYearWeekly)
	if err != nil {
		fail("Error fetching the history of %s: %v", ticker, err)
		return subcommands.ExitFailure
	}
	if len(bars) == 0 {
		fail("No price history for '%s'.", ticker)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.History(ystocker.ValuationHistory(ticker, raw, bars)))
	return subcommands.ExitSuccess
}
