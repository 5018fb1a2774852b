package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/ystocker"
	"google.golang.org/genai"
)

type fakeProvider map[string]ystocker.RawQuote

func (f fakeProvider) Quote(_ context.Context, ticker string) (ystocker.RawQuote, error) {
	if ticker == "DOWN" {
		return ystocker.RawQuote{}, errors.New("unreachable")
	}
	return f[ticker], nil
}

func (f fakeProvider) History(context.Context, string, ystocker.Span) ([]ystocker.Bar, error) {
	return nil, nil
}

var msft = ystocker.RawQuote{
	ShortName:    "Microsoft",
	CurrentPrice: ystocker.Ptr(400),
	TrailingPE:   ystocker.Ptr(35),
}

func TestDescribe(t *testing.T) {
	got := Describe(ystocker.NewQuote("MSFT", msft))
	for _, want := range []string{"**Microsoft** (MSFT)", "- Price: $400.00", "- PE (TTM): 35.00", "- PEG: n/a"} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() = %q, missing %q", got, want)
		}
	}
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()
	groups := ystocker.NewPeerGroups(nil)
	lib := NewLibrary([]Function{quoteFunc(fakeProvider{"MSFT": msft}), peerGroupsFunc(groups)})

	testCases := []struct {
		name    string
		call    *genai.FunctionCall
		key     string
		contain string
	}{
		{"quote", &genai.FunctionCall{ID: "1", Name: "Quote", Args: map[string]any{"ticker": " msft "}}, "output", "Price: $400.00"},
		{"unknown symbol", &genai.FunctionCall{ID: "2", Name: "Quote", Args: map[string]any{"ticker": "ZZZZ"}}, "error", "no data found"},
		{"fetch error", &genai.FunctionCall{ID: "3", Name: "Quote", Args: map[string]any{"ticker": "DOWN"}}, "error", "could not fetch data for DOWN"},
		{"bad argument", &genai.FunctionCall{ID: "4", Name: "Quote", Args: map[string]any{"ticker": 3.0}}, "error", "non empty string"},
		{"groups", &genai.FunctionCall{ID: "5", Name: "PeerGroups"}, "output", "- Tech: "},
		{"unknown function", &genai.FunctionCall{ID: "6", Name: "Nope"}, "error", "unknown function Nope"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := lib(ctx, tc.call)
			if resp.ID != tc.call.ID || resp.Name != tc.call.Name {
				t.Errorf("response %s/%s, want %s/%s", resp.ID, resp.Name, tc.call.ID, tc.call.Name)
			}
			got, _ := resp.Response[tc.key].(string)
			if !strings.Contains(got, tc.contain) {
				t.Errorf("Response = %v, want %s containing %q", resp.Response, tc.key, tc.contain)
			}
		})
	}
}

func TestExpertCall(t *testing.T) {
	e := NewTrader()
	resp := e.Call(context.Background(), "1", map[string]any{"question": 42})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Call() with a bad question = %v, want an error", resp.Response)
	}
	resp = e.Call(context.Background(), "2", map[string]any{"question": "why?"})
	if msg, _ := resp.Response["error"].(string); !strings.Contains(msg, "not started") {
		t.Errorf("Call() on a closed expert = %v", resp.Response)
	}
	if d := e.Declaration(); d.Name != "Trader" || d.Parameters.Required[0] != "question" {
		t.Errorf("Declaration() = %+v", d)
	}
}

func TestMarketAnalyst(t *testing.T) {
	e := NewMarketAnalyst(fakeProvider{}, ystocker.NewPeerGroups(nil))
	decls := e.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Quote" || decls[1].Name != "PeerGroups" {
		t.Errorf("tools = %v", decls)
	}
	a := New(nil, strings.NewReader(""), e, NewTrader())
	if got := len(a.Facilitator.Config.Tools[0].FunctionDeclarations); got != 2 {
		t.Errorf("facilitator knows %d experts, want 2", got)
	}
}

func TestAnalystDisabled(t *testing.T) {
	if _, err := NewAnalyst(context.Background(), ""); !errors.Is(err, ErrDisabled) {
		t.Errorf("NewAnalyst() without key = %v, want ErrDisabled", err)
	}
	var a *Analyst
	if _, err := a.Insight(context.Background(), ystocker.Quote{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Insight() on a nil analyst = %v", err)
	}
}
