package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists every subcommand by group.
var Commands = []struct {
	Group   string
	Command subcommands.Command
}{
	{"dashboard", &serveCmd{}},
	{"dashboard", &fetchCmd{}},
	{"dashboard", &groupsCmd{}},

	{"stocks", &quoteCmd{}},
	{"stocks", &historyCmd{}},
	{"stocks", &forecastCmd{}},
	{"stocks", &discoverCmd{}},

	{"markets", &fedCmd{}},
	{"markets", &fundsCmd{}},
	{"markets", &holdingsCmd{}},

	{"ai", &insightCmd{}},
	{"ai", &assistCmd{}},

	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	for _, e := range Commands {
		c.Register(e.Command, e.Group)
	}
}
