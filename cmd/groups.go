package cmd

import (
	"context"
	"flag"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/renderer"
	"github.com/google/subcommands"
)

type groupsCmd struct{}

func (*groupsCmd) Name() string     { return "groups" }
func (*groupsCmd) Synopsis() string { return "list or edit the peer groups" }
func (*groupsCmd) Usage() string {
	return `groups [list]
groups add-group <name>
groups delete-group <name>
groups add <group> <ticker>...
groups remove <group> <ticker>...

Lists or edits the peer groups shown on the dashboard. Edits are saved to
the cache and drop the cached quotes, so the next serve fetches them again.
`
}

func (c *groupsCmd) SetFlags(f *flag.FlagSet) {}

func (c *groupsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	groups := openGroups(ctx, blob)
	groups.OnChange = func(ctx context.Context) {
		if err := blob.Remove(ctx, ystocker.BoardFile); err != nil {
			log.WithError(err).Warn("could not drop the quote cache")
		}
	}

	args := f.Args()
	action := "list"
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}

	switch action {
	case "list":
		if len(args) != 0 {
			return subcommands.ExitUsageError
		}
	case "add-group", "delete-group":
		if len(args) != 1 {
			fail("%s requires a group name", action)
			return subcommands.ExitUsageError
		}
		if action == "add-group" {
			err = groups.AddGroup(ctx, args[0])
		} else if !groups.DeleteGroup(ctx, args[0]) {
			err = ystocker.ErrGroupNotFound
		}
	case "add", "remove":
		if len(args) < 2 {
			fail("%s requires a group and at least one ticker", action)
			return subcommands.ExitUsageError
		}
		for _, ticker := range args[1:] {
			if action == "add" {
				err = groups.AddTicker(ctx, args[0], ticker)
			} else if !groups.RemoveTicker(ctx, args[0], ticker) {
				err = ystocker.ErrNotFound
			}
			if err != nil {
				break
			}
		}
	default:
		fail("unknown action %q", action)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fail("Error: %v", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Groups(groups.Groups()))
	return subcommands.ExitSuccess
}
