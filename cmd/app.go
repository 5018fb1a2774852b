// Package cmd implements the ystocker command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/agent"
	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/fred"
	"github.com/etnz/ystocker/logging"
	"github.com/etnz/ystocker/s3blob"
	"github.com/etnz/ystocker/secrets"
	"github.com/etnz/ystocker/yahoo"
	"golang.org/x/term"
)

// Config is read from the environment, see the config topic.
type Config struct {
	Addr         string        `env:"YSTOCKER_ADDR" envDefault:":5000"`
	CacheDir     string        `env:"YSTOCKER_CACHE_DIR" envDefault:"cache"`
	QuotesTTL    time.Duration `env:"YSTOCKER_QUOTES_TTL" envDefault:"8h"`
	FedTTL       time.Duration `env:"YSTOCKER_FED_TTL" envDefault:"24h"`
	HoldingsTTL  time.Duration `env:"YSTOCKER_13F_TTL" envDefault:"24h"`
	LogLevel     string        `env:"YSTOCKER_LOG" envDefault:"info"`
	S3Bucket     string        `env:"YSTOCKER_S3_BUCKET"`
	S3Prefix     string        `env:"YSTOCKER_S3_PREFIX" envDefault:"ystocker/"`
	Region       string        `env:"AWS_REGION" envDefault:"us-east-1"`
	SSMPrefix    string        `env:"YSTOCKER_SSM_PREFIX" envDefault:"/ystocker/"`
	GeminiModel  string        `env:"YSTOCKER_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	SECUserAgent string        `env:"YSTOCKER_SEC_USER_AGENT" envDefault:"yStocker/1.0 ystocker-app@example.com"`
	FetchWorkers int           `env:"YSTOCKER_FETCH_WORKERS" envDefault:"4"`
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use a global config.
var cfg Config

// Setup reads the configuration and installs the log handler.
func Setup() error {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.FetchWorkers < 1 {
		c.FetchWorkers = 1
	}
	cfg = c
	logging.Init(cfg.LogLevel)
	return nil
}

// openBlob returns the S3 bucket when one is configured, the cache directory
// otherwise.
func openBlob(ctx context.Context) (ystocker.Blob, error) {
	if cfg.S3Bucket == "" {
		return ystocker.DirBlob(cfg.CacheDir), nil
	}
	return s3blob.New(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
}

// openGroups loads the persisted peer groups. When they cannot be read the
// defaults are kept.
func openGroups(ctx context.Context, blob ystocker.Blob) *ystocker.PeerGroups {
	groups := ystocker.NewPeerGroups(blob)
	if err := groups.Load(ctx); err != nil {
		log.WithError(err).Error("failed to load peer groups, using defaults")
	}
	return groups
}

// stores are the cached datasets shared by serve and fetch.
type stores struct {
	board    *ystocker.Store[ystocker.Board]
	heatmap  *ystocker.Store[map[string]ystocker.Quote]
	fed      *ystocker.Store[fred.Snapshot]
	holdings *ystocker.Store[edgar.Snapshot]
}

func newStores(blob ystocker.Blob, p ystocker.QuoteProvider, groups *ystocker.PeerGroups) stores {
	sec := edgar.New(cfg.SECUserAgent, filepath.Join(cfg.CacheDir, "sec13f"))
	return stores{
		board:    ystocker.NewStore(ystocker.BoardFile, cfg.QuotesTTL, blob, ystocker.FetchBoard(p, groups, cfg.FetchWorkers)),
		heatmap:  ystocker.NewStore(ystocker.HeatmapFile, cfg.QuotesTTL, blob, ystocker.FetchHeatmap(p, cfg.FetchWorkers)),
		fed:      ystocker.NewStore(fred.CacheFile, cfg.FedTTL, blob, fred.New().Fetch),
		holdings: ystocker.NewStore(edgar.CacheFile, cfg.HoldingsTTL, blob, sec.FetchAll),
	}
}

func newProvider() ystocker.QuoteProvider { return yahoo.New() }

// newAnalyst returns the Gemini analyst, reading the API key from SSM when
// it is not set.
func newAnalyst(ctx context.Context) (*agent.Analyst, error) {
	secrets.Load(ctx, cfg.Region, cfg.SSMPrefix, "GEMINI_API_KEY")
	agent.Model = cfg.GeminiModel
	return agent.NewAnalyst(ctx, os.Getenv("GEMINI_API_KEY"))
}

// printMarkdown prints md, rendered for the terminal when stdout is one.
func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }

// renderMarkdown styles md with glamour when stdout is a terminal, and
// returns it unchanged otherwise.
func renderMarkdown(md string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
