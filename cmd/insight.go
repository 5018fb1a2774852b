package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type insightCmd struct{}

func (*insightCmd) Name() string     { return "insight" }
func (*insightCmd) Synopsis() string { return "ask Gemini for a short valuation note" }
func (*insightCmd) Usage() string {
	return `insight <ticker>

Fetches the metrics of the ticker and asks Gemini to comment on them.
Requires GEMINI_API_KEY, or its SSM parameter.
`
}

func (c *insightCmd) SetFlags(f *flag.FlagSet) {}

func (c *insightCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("a single ticker is required")
		return subcommands.ExitUsageError
	}
	analyst, err := newAnalyst(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	ticker := ystocker.NormalizeTicker(f.Arg(0))
	q, err := ystocker.FetchQuote(ctx, newProvider(), ticker)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if q.Empty() {
		fail("No data found for '%s'. Check the symbol.", ticker)
		return subcommands.ExitFailure
	}
	note, err := analyst.Insight(ctx, q)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Insight(q, note))
	return subcommands.ExitSuccess
}
