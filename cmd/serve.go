package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/etnz/ystocker/web"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web dashboard" }
func (*serveCmd) Usage() string {
	return `serve [-addr :5000]

Serves the dashboard and keeps the quote, heatmap, Fed and 13F caches warm
in the background. Each cache is loaded from disk when it is fresh enough.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides YSTOCKER_ADDR")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Addr
	if c.addr != "" {
		addr = c.addr
	}

	blob, err := openBlob(ctx)
	if err != nil {
		fail("Error opening the cache: %v", err)
		return subcommands.ExitFailure
	}
	groups := openGroups(ctx, blob)
	p := newProvider()
	st := newStores(blob, p, groups)
	groups.OnChange = st.board.Invalidate

	srv := &web.Server{
		Groups:   groups,
		Provider: p,
		Board:    st.board,
		Heatmap:  st.heatmap,
		Fed:      st.fed,
		Holdings: st.holdings,
	}
	if analyst, err := newAnalyst(ctx); err != nil {
		log.WithError(err).Warn("AI insight disabled")
	} else {
		srv.Analyst = analyst
	}

	e, err := srv.BuildServer(cfg.LogLevel)
	if err != nil {
		fail("Error building the server: %v", err)
		return subcommands.ExitFailure
	}

	go st.board.Run(ctx)
	go st.heatmap.Run(ctx)
	go st.fed.Run(ctx)
	go st.holdings.Run(ctx)

	err = web.Start(ctx, e, addr)
	st.board.Wait()
	if err != nil {
		fail("Error serving: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
