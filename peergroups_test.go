package ystocker

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeerGroupsEdit(t *testing.T) {
	ctx := context.Background()
	blob := DirBlob(t.TempDir())
	changes := 0
	p := NewPeerGroups(blob)
	p.OnChange = func(context.Context) { changes++ }

	tests := []struct {
		name string
		do   func() error
		want error
	}{
		{"empty name", func() error { return p.AddGroup(ctx, "   ") }, ErrEmptyName},
		{"existing group", func() error { return p.AddGroup(ctx, " Tech ") }, ErrGroupExists},
		{"new group", func() error { return p.AddGroup(ctx, " Quantum ") }, nil},
		{"unknown group", func() error { return p.AddTicker(ctx, "Nope", "IBM") }, ErrGroupNotFound},
		{"empty ticker", func() error { return p.AddTicker(ctx, "Quantum", "  ") }, ErrEmptyTicker},
		{"add ticker", func() error { return p.AddTicker(ctx, "Quantum", " ionq ") }, nil},
		{"duplicate ticker", func() error { return p.AddTicker(ctx, "Quantum", "IONQ") }, ErrTickerExists},
		{"second ticker", func() error { return p.AddTicker(ctx, "Quantum", "rgti") }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.do()
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}

	if got, _ := p.Tickers("Quantum"); !reflect.DeepEqual(got, []string{"IONQ", "RGTI"}) {
		t.Errorf("Tickers(Quantum) = %v", got)
	}
	if changes != 3 {
		t.Errorf("OnChange called %d times, want 3", changes)
	}

	if p.RemoveTicker(ctx, "Quantum", "MSFT") {
		t.Errorf("RemoveTicker() of an absent ticker should report false")
	}
	if !p.RemoveTicker(ctx, "Quantum", "ionq") {
		t.Errorf("RemoveTicker() should report true")
	}
	if p.DeleteGroup(ctx, "Nope") {
		t.Errorf("DeleteGroup() of an unknown group should report false")
	}
	if !p.DeleteGroup(ctx, "Semiconductors") {
		t.Errorf("DeleteGroup() should report true")
	}
	names := p.Names()
	if names[len(names)-1] != "Quantum" || len(names) != len(DefaultGroups()) {
		t.Errorf("Names() = %v", names)
	}

	// a new instance reads the edits back, in order.
	q := NewPeerGroups(blob)
	if err := q.Load(ctx); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(q.Groups(), p.Groups()) {
		t.Errorf("Load() = %v\nwant %v", q.Groups(), p.Groups())
	}
}

// slowBlob delays its first write until release is closed.
type slowBlob struct {
	DirBlob
	writes  atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *slowBlob) Write(ctx context.Context, name string, data []byte) error {
	if b.writes.Add(1) == 1 {
		close(b.started)
		<-b.release
	}
	return b.DirBlob.Write(ctx, name, data)
}

func TestPeerGroupsConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	blob := &slowBlob{DirBlob: DirBlob(t.TempDir()), started: make(chan struct{}), release: make(chan struct{})}
	p := NewPeerGroups(blob)

	done := make(chan error)
	go func() { done <- p.AddTicker(ctx, "Tech", "ORCL") }()
	<-blob.started

	second := make(chan error)
	go func() { second <- p.AddTicker(ctx, "Tech", "IBM") }()
	// the second edit is applied in memory while the first write is pending
	for deadline := time.Now().Add(time.Second); ; {
		if tickers, _ := p.Tickers("Tech"); slices.Contains(tickers, "IBM") || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(blob.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if err := <-second; err != nil {
		t.Fatal(err)
	}

	reloaded := NewPeerGroups(blob.DirBlob)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	tickers, _ := reloaded.Tickers("Tech")
	for _, want := range []string{"ORCL", "IBM"} {
		if !slices.Contains(tickers, want) {
			t.Errorf("persisted Tech = %v, missing %s", tickers, want)
		}
	}
}

func TestPeerGroupsQueries(t *testing.T) {
	p := &PeerGroups{groups: []Group{
		{"A", []string{"MSFT", "AAPL"}},
		{"B", []string{"AAPL", "NVDA"}},
		{"C", []string{}},
	}}
	if got, want := p.AllTickers(), []string{"AAPL", "MSFT", "NVDA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("AllTickers() = %v, want %v", got, want)
	}
	if got, want := p.GroupsOf("AAPL"), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GroupsOf(AAPL) = %v, want %v", got, want)
	}
	if got := p.GroupsOf("IBM"); got != nil {
		t.Errorf("GroupsOf(IBM) = %v, want nil", got)
	}
}

func TestUnmarshalGroups(t *testing.T) {
	in := `{"Zeta": ["B", "A"], "Alpha": [], "Mid": ["C"]}`
	got, err := UnmarshalGroups([]byte(in))
	if err != nil {
		t.Fatalf("UnmarshalGroups() failed: %v", err)
	}
	want := []Group{{"Zeta", []string{"B", "A"}}, {"Alpha", []string{}}, {"Mid", []string{"C"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnmarshalGroups() = %v, want %v", got, want)
	}

	for _, bad := range []string{`[]`, `{"A": "MSFT"}`, `{"A": [1]}`, `{"A": [`} {
		if _, err := UnmarshalGroups([]byte(bad)); err == nil {
			t.Errorf("UnmarshalGroups(%s) should fail", bad)
		}
	}
}

func TestMarshalGroups(t *testing.T) {
	b, err := MarshalGroups([]Group{{"Tech", []string{"MSFT"}}, {"New", nil}})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"Tech\": [\n    \"MSFT\"\n  ],\n  \"New\": []\n}"
	if string(b) != want {
		t.Errorf("MarshalGroups() = %q, want %q", b, want)
	}
}

func TestBoard(t *testing.T) {
	groups := []Group{{"A", []string{"MSFT", "AAPL", "ZZZZ"}}, {"B", []string{"AAPL"}}}
	quotes := map[string]Quote{
		"MSFT": {Ticker: "MSFT", Name: "Microsoft"},
		"AAPL": {Ticker: "AAPL", Name: "Apple"},
	}
	b := BuildBoard(groups, quotes)
	if len(b["A"]) != 2 || len(b["B"]) != 1 {
		t.Fatalf("BuildBoard() = %v", b)
	}
	rows := b.Rows("A", groups[0].Tickers)
	if len(rows) != 2 || rows[0].Ticker != "MSFT" || rows[1].Ticker != "AAPL" {
		t.Errorf("Rows(A) = %v", rows)
	}

	updated := b.With(Quote{Ticker: "AAPL", Name: "Apple Inc."}, []string{"A", "B", "Gone"})
	if updated["B"]["AAPL"].Name != "Apple Inc." || updated["A"]["AAPL"].Name != "Apple Inc." {
		t.Errorf("With() did not merge the quote: %v", updated)
	}
	if b["A"]["AAPL"].Name != "Apple" {
		t.Errorf("With() modified the original board")
	}
	if updated.Has("Gone") {
		t.Errorf("With() must not create groups")
	}
	if got := updated.Names([]Group{{"B", nil}}); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Names() = %v", got)
	}
}
