package ystocker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

// Span selects a window of price history.
type Span struct {
	Range    string // e.g. "1y", "3y"
	Interval string // e.g. "1wk"
}

var (
	OneYearWeekly    = Span{Range: "1y", Interval: "1wk"}
	ThreeYearsWeekly = Span{Range: "3y", Interval: "1wk"}
)

// Bar is one closing price. Close is nil when the provider had no value.
type Bar struct {
	Date  Date
	Close *float64
}

// QuoteProvider retrieves market data for a ticker.
//
// Quote returns an empty RawQuote for unknown symbols, and a *FetchError when
// the provider could not be reached.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (RawQuote, error)
	History(ctx context.Context, ticker string, span Span) ([]Bar, error)
}

// FetchQuote retrieves and derives the metrics of a single ticker.
func FetchQuote(ctx context.Context, p QuoteProvider, ticker string) (Quote, error) {
	raw, err := p.Quote(ctx, ticker)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Ticker: ticker, Err: err}
		}
		return Quote{}, err
	}
	q := NewQuote(ticker, raw)
	q.FetchedAt = time.Now()
	return q, nil
}

// FetchQuotes retrieves the quotes of every ticker using at most workers
// concurrent requests. Failures are collected as messages, they never abort
// the batch.
func FetchQuotes(ctx context.Context, p QuoteProvider, tickers []string, workers int) (map[string]Quote, []string) {
	if workers <= 0 {
		workers = 1
	}
	var (
		mu     sync.Mutex
		quotes = make(map[string]Quote, len(tickers))
		errs   []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			q, err := FetchQuote(ctx, p, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithField("ticker", ticker).WithError(err).Warn("quote failed")
				errs = append(errs, fmt.Sprintf("%s: %v", ticker, err))
				return nil
			}
			quotes[ticker] = q
			return nil
		})
	}
	g.Wait()
	sort.Strings(errs)
	return quotes, errs
}
