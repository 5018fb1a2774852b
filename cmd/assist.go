package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ystocker/agent"
	"github.com/google/subcommands"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `assist [<question>]

Starts a chat with an assistant that can read live quotes, your peer groups
and the news. The optional question is asked first.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	analyst, err := newAnalyst(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	groups := openGroups(ctx, blob)

	a := agent.New(os.Stdout, os.Stdin, agent.NewTrader(), agent.NewMarketAnalyst(newProvider(), groups))
	a.Render = renderMarkdown
	if err := a.Run(ctx, analyst.Client(), prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
