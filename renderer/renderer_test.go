package renderer

import (
	"io/fs"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/forecast"
	"github.com/etnz/ystocker/fred"
)

func TestTemplatesParse(t *testing.T) {
	files, err := fs.Glob(templates, "*.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no templates embedded")
	}
	for _, file := range files {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := template.New(file).Funcs(Funcs()).Parse(string(content)); err != nil {
			t.Errorf("template %s: %v", file, err)
		}
	}
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		name string
		got  string
		want string
	}{
		{"usd", USD(ystocker.Ptr(1234.5)), "$1,234.50"},
		{"usd nil", USD(nil), None},
		{"num", Num(ystocker.Ptr(35)), "35.00"},
		{"pct", Pct(ystocker.Ptr(12.5)), "12.50%"},
		{"signed", Signed(ystocker.Ptr(-1.25)), "-1.25%"},
		{"signed zero", Signed(ystocker.Ptr(0)), "-"},
		{"billions", Billions(ystocker.Ptr(3120.5)), "$3,120.5B"},
		{"millions", Millions(1234.5), "$1,234.5M"},
		{"comma int", Comma(1234567), "1,234,567"},
		{"comma int64", Comma(int64(1000)), "1,000"},
		{"cell", Cell("A|B"), `A\|B`},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("%s = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func contains(t *testing.T, got string, wants ...string) {
	t.Helper()
	if strings.Contains(got, "error ") && strings.Contains(got, "template") {
		t.Fatalf("render failed: %s", got)
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
}

func TestQuotes(t *testing.T) {
	q := ystocker.NewQuote("MSFT", ystocker.RawQuote{
		ShortName:       "Microsoft",
		CurrentPrice:    ystocker.Ptr(400),
		TargetMeanPrice: ystocker.Ptr(450),
		TrailingPE:      ystocker.Ptr(35),
	})
	got := Quotes([]ystocker.Quote{q}, []string{"ZZZZ: boom"})
	contains(t, got, "| MSFT | Microsoft | $400.00 | $450.00 | +12.50% | 35.00 | — |", "## Fetch errors", "- ZZZZ: boom")

	if got := Quotes(nil, nil); strings.Contains(got, "Fetch errors") {
		t.Errorf("Quotes() without errors shows a section:\n%s", got)
	}
}

func TestGroups(t *testing.T) {
	got := Groups([]ystocker.Group{{Name: "Tech", Tickers: []string{"MSFT", "AAPL"}}, {Name: "Space"}})
	contains(t, got, "- **Tech**: MSFT, AAPL", "- **Space**: _empty_")
}

func TestHistory(t *testing.T) {
	h := ystocker.ValuationHistory("MSFT", ystocker.RawQuote{ShortName: "Microsoft", TrailingEps: ystocker.Ptr(10)}, []ystocker.Bar{
		{Date: ystocker.NewDate(2025, 1, 6), Close: ystocker.Ptr(400)},
		{Date: ystocker.NewDate(2025, 1, 13)},
	})
	got := History(h)
	contains(t, got, "# Microsoft (MSFT)", "| 2025-01-06 | $400.00 | 40.00 | — |", "| 2025-01-13 | — | — | — |")
}

func TestForecast(t *testing.T) {
	start := ystocker.NewDate(2024, 1, 1)
	train := make([]forecast.Point, 20)
	for i := range train {
		train[i] = forecast.Point{Date: start.AddWeeks(i), Value: 100 + float64(i)}
	}
	r := forecast.Forecast("ACME", train)

	got := Forecast(r, "")
	contains(t, got, "# ACME forecast", "$119.00 on 2024-05-13", "## prophet", "_prophet model is not available_", "## arima", "## linear")

	got = Forecast(r, "linear")
	if strings.Contains(got, "## arima") {
		t.Errorf("Forecast(linear) shows arima:\n%s", got)
	}
}

func TestFed(t *testing.T) {
	snap := fred.Snapshot{Series: map[string]fred.Data{
		"WALCL": {Dates: []string{"2025-01-01", "2025-01-08"}, Values: []*float64{ystocker.Ptr(7012.34), nil}},
	}}
	got := Fed(snap.Latest(), ystocker.NewDate(2025, 1, 9).Time())
	contains(t, got, "| WALCL | Total Assets | 2025-01-01 | 7,012.34 |", "| TREAST | Treasury Securities | unavailable | — |")
}

func TestHoldings(t *testing.T) {
	h := edgar.FundHoldings{
		CIK: "0001067983", FilingDate: "2025-02-14", PeriodOfReport: "2024-12-31",
		TotalHoldings: 2, TotalValueMillions: 1500,
		Holdings: []edgar.Holding{
			{Rank: 1, CUSIP: "037833100", Name: "APPLE INC", Ticker: "AAPL", Shares: 300000000, ValueMillions: 1000, PctPortfolio: 66.67, Change: edgar.Reduced, ChangePct: ystocker.Ptr(-25)},
			{Rank: 2, CUSIP: "999999999", Name: "OTHER", Shares: 1000, ValueMillions: 500, PctPortfolio: 33.33, Change: edgar.NewPosition},
		},
	}
	got := Holdings("Berkshire Hathaway", h, 1)
	contains(t, got, "# Berkshire Hathaway", "2 positions worth $1,500M", "| 1 | AAPL | APPLE INC | 300,000,000 | $1,000M | 66.67% | reduced (-25.00%) |")
	if strings.Contains(got, "OTHER") {
		t.Errorf("Holdings(n=1) shows the second position:\n%s", got)
	}

	msg := "No 13F-HR filings found"
	got = Holdings("Nobody", edgar.FundHoldings{Error: &msg}, 0)
	contains(t, got, "Could not read the 13F report: No 13F-HR filings found")
}

func TestDiscover(t *testing.T) {
	contains(t, Discover("Semiconductors", []string{"NVDA", "AMD"}), "# Semiconductors", "- NVDA", "- AMD")
	contains(t, DiscoverNames([]string{"airlines", "banks"}), "- airlines", "- banks")
}

func TestInsight(t *testing.T) {
	q := ystocker.NewQuote("MSFT", ystocker.RawQuote{ShortName: "Microsoft"})
	contains(t, Insight(q, "Looks **expensive**."), "# Microsoft (MSFT)", "| MSFT |", "Looks **expensive**.")
}
