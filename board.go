package ystocker

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// BoardFile is the blob name of the cached board.
const BoardFile = "ticker_cache.json"

// Board holds the cached quotes of every peer group: group name to ticker
// to quote. A ticker shared by two groups appears in both.
type Board map[string]map[string]Quote

// BuildBoard distributes quotes into their groups. Tickers without a quote
// are left out.
func BuildBoard(groups []Group, quotes map[string]Quote) Board {
	b := make(Board, len(groups))
	for _, g := range groups {
		m := make(map[string]Quote, len(g.Tickers))
		for _, t := range g.Tickers {
			if q, ok := quotes[t]; ok {
				m[t] = q
			}
		}
		b[g.Name] = m
	}
	return b
}

// Has reports whether the board has an entry for the group.
func (b Board) Has(group string) bool {
	_, ok := b[group]
	return ok
}

// Rows returns the chart rows of a group following the order of tickers.
// Quotes of the group that tickers does not list are appended sorted.
func (b Board) Rows(group string, tickers []string) []ChartRow {
	m := b[group]
	rows := make([]ChartRow, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, t := range tickers {
		if q, ok := m[t]; ok && !seen[t] {
			rows = append(rows, ChartRow{Quote: q})
			seen[t] = true
		}
	}
	for _, t := range slices.Sorted(maps.Keys(m)) {
		if !seen[t] {
			rows = append(rows, ChartRow{Quote: m[t]})
		}
	}
	return rows
}

// Names returns the board groups, ordered as in groups first, then any
// remaining group sorted by name.
func (b Board) Names(groups []Group) []string {
	names := make([]string, 0, len(b))
	seen := make(map[string]bool, len(b))
	for _, g := range groups {
		if b.Has(g.Name) {
			names = append(names, g.Name)
			seen[g.Name] = true
		}
	}
	for _, n := range slices.Sorted(maps.Keys(b)) {
		if !seen[n] {
			names = append(names, n)
		}
	}
	return names
}

// With returns a copy of the board where q replaces the ticker's quote in
// every listed group present on the board.
func (b Board) With(q Quote, groups []string) Board {
	c := make(Board, len(b))
	for name, m := range b {
		c[name] = m
	}
	for _, name := range groups {
		m, ok := b[name]
		if !ok {
			continue
		}
		m = maps.Clone(m)
		if m == nil {
			m = make(map[string]Quote)
		}
		m[q.Ticker] = q
		c[name] = m
	}
	return c
}

// FetchBoard returns the FetchFunc of the board: the quotes of every ticker
// of the current groups. It fails only when no quote at all could be
// fetched.
func FetchBoard(p QuoteProvider, groups *PeerGroups, workers int) FetchFunc[Board] {
	return func(ctx context.Context) (Board, []string, error) {
		gs := groups.Groups()
		quotes, errs := FetchQuotes(ctx, p, groups.AllTickers(), workers)
		if len(quotes) == 0 && len(errs) > 0 {
			return nil, errs, fmt.Errorf("no quote fetched, first error: %s", errs[0])
		}
		return BuildBoard(gs, quotes), errs, nil
	}
}
