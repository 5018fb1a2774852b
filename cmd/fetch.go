package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"

	"github.com/google/subcommands"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "refresh the cached datasets" }
func (*fetchCmd) Usage() string {
	return `fetch [quotes|heatmap|fed|13f...]

Fetches the given datasets now and replaces their caches, whatever their
age. Without argument every dataset is fetched.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

// dataset is a cache refreshed by fetch.
type dataset struct {
	name    string
	refresh func(context.Context) error
	errors  func() []string
}

func (s stores) datasets() []dataset {
	return []dataset{
		{"quotes", s.board.Refresh, func() []string { snap, _ := s.board.Get(); return snap.Errors }},
		{"heatmap", s.heatmap.Refresh, func() []string { snap, _ := s.heatmap.Get(); return snap.Errors }},
		{"fed", s.fed.Refresh, func() []string { snap, _ := s.fed.Get(); return snap.Errors }},
		{"13f", s.holdings.Refresh, func() []string { snap, _ := s.holdings.Get(); return snap.Errors }},
	}
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	groups := openGroups(ctx, blob)
	datasets := newStores(blob, newProvider(), groups).datasets()

	names := f.Args()
	for _, name := range names {
		if !slices.ContainsFunc(datasets, func(d dataset) bool { return d.name == name }) {
			fail("unknown dataset %q", name)
			return subcommands.ExitUsageError
		}
	}

	var errs []error
	for _, d := range datasets {
		if len(names) > 0 && !slices.Contains(names, d.name) {
			continue
		}
		if err := d.refresh(ctx); err != nil {
			errs = append(errs, err)
			fmt.Printf("%s: failed: %v\n", d.name, err)
			continue
		}
		fmt.Printf("%s: ok, %d fetch errors\n", d.name, len(d.errors()))
	}
	if errors.Join(errs...) != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
