package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/docs"
	"google.golang.org/genai"
)

// Model is the Gemini model used by every expert.
var Model = "gemini-2.5-flash"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of answering the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			The user follows a dashboard of stocks grouped by sector and compares their valuations
			(PE, forward PE, PEG, analyst targets). Devise a plan of questions for the experts and
			come up with a concise markdown answer.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search for news.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `An expert trader aware of the latest news about companies, funds and markets.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading. You leverage Google Search to ground your assertions,
			and relate the latest news to the question asked.
			`}}},
		},
	}
}

// NewMarketAnalyst returns an expert able to read live quotes and the
// user's peer groups.
func NewMarketAnalyst(p ystocker.QuoteProvider, groups *ystocker.PeerGroups) *Expert {
	lib := []Function{quoteFunc(p), peerGroupsFunc(groups)}
	return &Expert{
		Name: "Analyst",
		Description: `The Analyst reads live valuation metrics of any ticker and knows the user's peer groups.
		Ask the Analyst for figures: prices, PE ratios, PEG, analyst targets and growth.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a financial analyst. Use the Tools to read live metrics, never guess a figure.
			Compare a stock with its peer group when relevant.

			` + must(docs.GetTopic("metrics"))}}},
		},
		Library: NewLibrary(lib),
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func quoteFunc(p ystocker.QuoteProvider) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Quote",
			Description: "Quote returns the live valuation metrics of a ticker.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {Type: genai.TypeString, Description: "The Yahoo Finance symbol, e.g. MSFT or BRK-B."},
				},
				Required: []string{"ticker"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown list of metrics."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			ticker, ok := args["ticker"].(string)
			if !ok || strings.TrimSpace(ticker) == "" {
				return "", fmt.Errorf("argument 'ticker' must be a non empty string, got %T", args["ticker"])
			}
			q, err := ystocker.FetchQuote(ctx, p, ystocker.NormalizeTicker(ticker))
			if err != nil {
				return "", err
			}
			if q.Empty() {
				return "", fmt.Errorf("no data found for %q", ticker)
			}
			return Describe(q), nil
		},
	}
}

func peerGroupsFunc(groups *ystocker.PeerGroups) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "PeerGroups",
			Description: "PeerGroups lists the user's peer groups (sectors) and their tickers.",
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
			Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown list of groups."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			var b strings.Builder
			for _, g := range groups.Groups() {
				fmt.Fprintf(&b, "- %s: %s\n", g.Name, strings.Join(g.Tickers, ", "))
			}
			return b.String(), nil
		},
	}
}

// Describe formats the metrics of a quote as a markdown list. Unknown
// values are reported as n/a.
func Describe(q ystocker.Quote) string {
	f := func(p *float64, format string) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf(format, *p)
	}
	usd := func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return ystocker.USD(*p).String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)\n\n", q.Name, q.Ticker)
	fmt.Fprintf(&b, "- Price: %s\n", usd(q.Price))
	fmt.Fprintf(&b, "- Analyst target: %s\n", usd(q.Target))
	fmt.Fprintf(&b, "- Upside: %s\n", f(q.Upside, "%.1f%%"))
	fmt.Fprintf(&b, "- Market cap: %s\n", f(q.MarketCap, "$%.1fB"))
	fmt.Fprintf(&b, "- PE (TTM): %s\n", f(q.PETTM, "%.2f"))
	fmt.Fprintf(&b, "- PE (forward): %s\n", f(q.PEFwd, "%.2f"))
	fmt.Fprintf(&b, "- PEG: %s\n", f(q.PEG, "%.2f"))
	fmt.Fprintf(&b, "- EPS growth TTM: %s\n", f(q.EPSGrowthTTM, "%.1f%%"))
	fmt.Fprintf(&b, "- EPS growth last quarter: %s\n", f(q.EPSGrowthQ, "%.1f%%"))
	fmt.Fprintf(&b, "- Day change: %s\n", f(q.DayChangePct, "%+.2f%%"))
	return b.String()
}
