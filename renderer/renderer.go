// Package renderer formats ystocker data as markdown for the command line.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/forecast"
	"github.com/etnz/ystocker/fred"
)

//go:embed templates/*.md
var files embed.FS

var templates = must(fs.Sub(files, "templates"))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Quotes renders a metrics table followed by the fetch errors, if any.
func Quotes(quotes []ystocker.Quote, errs []string) string {
	data := struct {
		Quotes []ystocker.Quote
		Errors []string
	}{quotes, errs}
	return renderTemplate("quotes", "quotes.md", map[string]string{"quote_table": "quote_table.md"}, data)
}

// Groups renders the peer groups.
func Groups(groups []ystocker.Group) string {
	return renderTemplate("groups", "groups.md", nil, groups)
}

// History renders a valuation history.
func History(h ystocker.History) string {
	return renderTemplate("history", "history.md", nil, h)
}

// ModelForecast is the outcome of one model.
type ModelForecast struct {
	Name    string
	Outcome forecast.Outcome
}

// Forecast renders the forecasts of a ticker. When model is not empty only
// that model is shown.
func Forecast(r forecast.Result, model string) string {
	data := struct {
		Ticker string
		Last   forecast.Point
		Models []ModelForecast
	}{Ticker: r.Ticker}
	if n := len(r.Train); n > 0 {
		data.Last = r.Train[n-1]
	}
	for _, m := range forecast.Models {
		if model != "" && m.Name != model {
			continue
		}
		if o, ok := r.Models[m.Name]; ok {
			data.Models = append(data.Models, ModelForecast{Name: m.Name, Outcome: o})
		}
	}
	return renderTemplate("forecast", "forecast.md", nil, data)
}

// Fed renders the latest H.4.1 values.
func Fed(obs []fred.Observation, updated time.Time) string {
	data := struct {
		Observations []fred.Observation
		Updated      time.Time
	}{obs, updated}
	return renderTemplate("fed", "fed.md", nil, data)
}

// Funds renders the fund registry.
func Funds(funds []edgar.Fund) string {
	return renderTemplate("funds", "funds.md", nil, funds)
}

// Holdings renders the n largest positions of a fund, all when n <= 0.
func Holdings(fund string, h edgar.FundHoldings, n int) string {
	top := h.Holdings
	if n > 0 && n < len(top) {
		top = top[:n]
	}
	data := struct {
		Fund string
		edgar.FundHoldings
		Top []edgar.Holding
	}{fund, h, top}
	return renderTemplate("holdings", "holdings.md", nil, data)
}

// Discover renders the tickers of a sector or industry.
func Discover(name string, tickers []string) string {
	data := struct {
		Name    string
		Tickers []string
	}{name, tickers}
	return renderTemplate("discover", "discover.md", nil, data)
}

// DiscoverNames renders the known sector and industry names.
func DiscoverNames(names []string) string {
	return renderTemplate("discover_names", "discover_names.md", nil, names)
}

// Insight renders an AI note about a quote.
func Insight(q ystocker.Quote, note string) string {
	data := struct {
		Quote  ystocker.Quote
		Quotes []ystocker.Quote
		Note   string
	}{q, []ystocker.Quote{q}, note}
	return renderTemplate("insight", "insight.md", map[string]string{"quote_table": "quote_table.md"}, data)
}

// renderTemplate renders a main template that depends on several partials.
// Failures are rendered in place of the output.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(Funcs()).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
