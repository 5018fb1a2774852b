// Command ystocker serves the valuation dashboard and queries market data
// from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/ystocker/cmd"
	"github.com/etnz/ystocker/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander)

	// exits when invoked by the shell to complete a command line.
	complete.Complete(name, completion())

	flag.Parse()
	if err := cmd.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the subcommands, their flags and arguments.
func completion() *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, e := range cmd.Commands {
		c := e.Command
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predict.Something })
		root.Sub[c.Name()] = sub
	}
	root.Sub["fetch"].Args = predict.Set{"quotes", "heatmap", "fed", "13f"}
	root.Sub["groups"].Args = predict.Set{"list", "add-group", "delete-group", "add", "remove"}
	root.Sub["forecast"].Flags["model"] = predict.Set{"prophet", "arima", "linear"}
	root.Sub["discover"].Flags["type"] = predict.Set{"sector", "industry"}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}
