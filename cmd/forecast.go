package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/forecast"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type forecastCmd struct {
	model string
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "forecast the price of a ticker" }
func (*forecastCmd) Usage() string {
	return `forecast [-model <name>] <ticker>

Fits the forecast models on three years of weekly closes and prints the
next 26 weeks. Without -model every model is shown.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "only show this model: prophet, arima or linear")
}

func (c *forecastCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("a single ticker is required")
		return subcommands.ExitUsageError
	}
	if c.model != "" && !slices.Contains(modelNames(), c.model) {
		fail("unknown model %q, want one of %v", c.model, modelNames())
		return subcommands.ExitUsageError
	}
	ticker := ystocker.NormalizeTicker(f.Arg(0))
	res, err := forecast.Run(ctx, newProvider(), ticker)
	if err != nil {
		fail("Error forecasting %s: %v", ticker, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Forecast(res, c.model))
	return subcommands.ExitSuccess
}

func modelNames() []string {
	names := make([]string, len(forecast.Models))
	for i, m := range forecast.Models {
		names[i] = m.Name
	}
	return names
}
