package ystocker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/apex/log"
)

// GroupsFile is the blob name of the persisted peer groups.
const GroupsFile = "peer_groups.json"

// Group is a named list of tickers compared side by side.
type Group struct {
	Name    string
	Tickers []string
}

// DefaultGroups returns the peer groups used until the user edits them.
func DefaultGroups() []Group {
	return []Group{
		{"Tech", []string{"MSFT", "AAPL", "GOOGL", "META", "NVDA"}},
		{"Cloud / SaaS", []string{"MSFT", "CRM", "NOW", "AMZN", "ORCL"}},
		{"Semiconductors", []string{"NVDA", "AMD", "INTC", "QCOM", "TSM", "AVGO", "ASML"}},
		{"Financials", []string{"JPM", "BAC", "GS", "MS", "BLK", "COF", "BRK-B", "AXP"}},
		{"Healthcare", []string{"UNH", "JNJ", "LLY", "ABBV", "MRK", "ISRG"}},
		{"Retail", []string{"WMT", "AMZN", "COST", "TGT", "HD"}},
		{"Real Estate", []string{"AMT", "PLD", "EQIX", "SPG", "O", "HLT"}},
		{"Metals & Mining", []string{"FCX", "NEM", "AA", "MP", "COPX", "GDX", "SIL", "SLX"}},
		{"Apparel & Footwear", []string{"NKE", "LULU", "UAA", "VFC"}},
		{"US Broad ETFs", []string{"SPY", "QQQ", "IWM", "DIA", "VTI"}},
		{"Sector ETFs", []string{"XLK", "XLF", "XLE", "XLV", "XLI", "XLY", "XLP", "XLU", "XLB", "XLRE"}},
		{"International ETFs", []string{"FLJP", "FLJH", "FLKR", "FLTW", "FLCA", "IXUS", "VXUS", "FLEE", "ASHS", "FLBR", "FLCH", "FLGR", "FLMX", "FLAX", "FLSW"}},
	}
}

// PeerGroups is the ordered, editable set of peer groups. It is safe for
// concurrent use.
//
// Every successful mutation is persisted to the blob and followed by a call
// to OnChange.
type PeerGroups struct {
	Blob     Blob
	OnChange func(ctx context.Context)

	mu     sync.RWMutex
	groups []Group
	saveMu sync.Mutex // orders snapshot and write of concurrent saves
}

// NewPeerGroups returns the default peer groups persisted in blob.
func NewPeerGroups(blob Blob) *PeerGroups {
	return &PeerGroups{Blob: blob, groups: DefaultGroups()}
}

func cloneGroups(groups []Group) []Group {
	c := make([]Group, len(groups))
	for i, g := range groups {
		c[i] = Group{Name: g.Name, Tickers: slices.Clone(g.Tickers)}
	}
	return c
}

// Groups returns a copy of the groups.
func (p *PeerGroups) Groups() []Group {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneGroups(p.groups)
}

// Names returns the group names in order.
func (p *PeerGroups) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.groups))
	for i, g := range p.groups {
		names[i] = g.Name
	}
	return names
}

func (p *PeerGroups) index(name string) int {
	return slices.IndexFunc(p.groups, func(g Group) bool { return g.Name == name })
}

// Tickers returns the tickers of a group.
func (p *PeerGroups) Tickers(name string) ([]string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.index(name)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(p.groups[i].Tickers), true
}

// AllTickers returns every ticker of every group, sorted and unique.
func (p *PeerGroups) AllTickers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var all []string
	for _, g := range p.groups {
		all = append(all, g.Tickers...)
	}
	sort.Strings(all)
	return slices.Compact(all)
}

// GroupsOf returns the names of the groups containing ticker.
func (p *PeerGroups) GroupsOf(ticker string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var names []string
	for _, g := range p.groups {
		if slices.Contains(g.Tickers, ticker) {
			names = append(names, g.Name)
		}
	}
	return names
}

// AddGroup appends an empty group.
func (p *PeerGroups) AddGroup(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.mu.Lock()
	if p.index(name) >= 0 {
		p.mu.Unlock()
		return fmt.Errorf("%q: %w", name, ErrGroupExists)
	}
	p.groups = append(p.groups, Group{Name: name, Tickers: []string{}})
	p.mu.Unlock()
	log.WithField("group", name).Info("added group")
	p.changed(ctx)
	return nil
}

// DeleteGroup removes a group, it reports whether the group existed.
func (p *PeerGroups) DeleteGroup(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	p.mu.Lock()
	i := p.index(name)
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	p.groups = slices.Delete(p.groups, i, i+1)
	p.mu.Unlock()
	log.WithField("group", name).Info("deleted group")
	p.changed(ctx)
	return true
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// AddTicker appends ticker to a group.
func (p *PeerGroups) AddTicker(ctx context.Context, group, ticker string) error {
	group, ticker = strings.TrimSpace(group), NormalizeTicker(ticker)
	p.mu.Lock()
	i := p.index(group)
	switch {
	case i < 0:
		p.mu.Unlock()
		return fmt.Errorf("%q: %w", group, ErrGroupNotFound)
	case ticker == "":
		p.mu.Unlock()
		return ErrEmptyTicker
	case slices.Contains(p.groups[i].Tickers, ticker):
		p.mu.Unlock()
		return fmt.Errorf("%s in %q: %w", ticker, group, ErrTickerExists)
	}
	p.groups[i].Tickers = append(p.groups[i].Tickers, ticker)
	p.mu.Unlock()
	log.WithFields(log.Fields{"group": group, "ticker": ticker}).Info("added ticker")
	p.changed(ctx)
	return nil
}

// RemoveTicker removes ticker from a group, it reports whether it was there.
func (p *PeerGroups) RemoveTicker(ctx context.Context, group, ticker string) bool {
	group, ticker = strings.TrimSpace(group), NormalizeTicker(ticker)
	p.mu.Lock()
	i := p.index(group)
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	j := slices.Index(p.groups[i].Tickers, ticker)
	if j < 0 {
		p.mu.Unlock()
		return false
	}
	p.groups[i].Tickers = slices.Delete(p.groups[i].Tickers, j, j+1)
	p.mu.Unlock()
	log.WithFields(log.Fields{"group": group, "ticker": ticker}).Info("removed ticker")
	p.changed(ctx)
	return true
}

func (p *PeerGroups) changed(ctx context.Context) {
	if err := p.Save(ctx); err != nil {
		log.WithError(err).Error("failed to save peer groups")
	}
	if p.OnChange != nil {
		p.OnChange(ctx)
	}
}

// Save persists the groups.
func (p *PeerGroups) Save(ctx context.Context) error {
	if p.Blob == nil {
		return nil
	}
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	b, err := MarshalGroups(p.Groups())
	if err != nil {
		return err
	}
	return p.Blob.Write(ctx, GroupsFile, b)
}

// Load replaces the groups with the persisted ones. A missing file keeps
// the current groups.
func (p *PeerGroups) Load(ctx context.Context) error {
	if p.Blob == nil {
		return nil
	}
	b, err := p.Blob.Read(ctx, GroupsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read peer groups: %w", err)
	}
	groups, err := UnmarshalGroups(b)
	if err != nil {
		return fmt.Errorf("decode peer groups: %w", err)
	}
	p.mu.Lock()
	p.groups = groups
	p.mu.Unlock()
	log.WithField("count", len(groups)).Info("loaded peer groups")
	return nil
}

// MarshalGroups encodes groups as an indented JSON object of name to
// tickers, in group order.
func MarshalGroups(groups []Group) ([]byte, error) {
	w := jsonObjectWriter{indent: "  "}
	for _, g := range groups {
		tickers := g.Tickers
		if tickers == nil {
			tickers = []string{}
		}
		w.Append(g.Name, tickers)
	}
	return w.MarshalJSON()
}

// UnmarshalGroups decodes a JSON object of name to tickers keeping the
// order of the keys.
func UnmarshalGroups(b []byte) ([]Group, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("want a json object, got %v", tok)
	}
	groups := []Group{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var tickers []string
		if err := dec.Decode(&tickers); err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		if tickers == nil {
			tickers = []string{}
		}
		if i := slices.IndexFunc(groups, func(g Group) bool { return g.Name == name }); i >= 0 {
			groups[i].Tickers = tickers
			continue
		}
		groups = append(groups, Group{Name: name, Tickers: tickers})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return groups, nil
}
