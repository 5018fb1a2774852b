package ystocker

import (
	"encoding/json"
	"time"
)

// RawQuote holds the fields of a quote as reported by the provider, before
// any derivation. Absent fields are nil.
type RawQuote struct {
	ShortName string

	CurrentPrice               *float64
	RegularMarketPrice         *float64
	NavPrice                   *float64
	PreviousClose              *float64
	RegularMarketPreviousClose *float64
	RegularMarketChangePercent *float64 // in percent

	TargetMeanPrice         *float64
	TrailingPE              *float64
	ForwardPE               *float64
	PegRatio                *float64
	MarketCap               *float64
	EarningsGrowth          *float64 // fraction
	EarningsQuarterlyGrowth *float64 // fraction
	TrailingEps             *float64
}

// Quote is the set of valuation metrics displayed for a ticker.
type Quote struct {
	Ticker       string    `json:"ticker"`
	Name         string    `json:"name"`
	Price        *float64  `json:"price"`
	Target       *float64  `json:"target"`
	Upside       *float64  `json:"upside"`
	PETTM        *float64  `json:"pe_ttm"`
	PEFwd        *float64  `json:"pe_fwd"`
	PEG          *float64  `json:"peg"`
	MarketCap    *float64  `json:"market_cap"` // billions
	EPSGrowthTTM *float64  `json:"eps_growth_ttm"`
	EPSGrowthQ   *float64  `json:"eps_growth_q"`
	DayChangePct *float64  `json:"day_change_pct"`
	EPS          *float64  `json:"eps,omitempty"`
	Growth       *float64  `json:"growth,omitempty"` // fraction used for PEG
	FetchedAt    time.Time `json:"fetched_at,omitzero"`
}

// NewQuote derives the displayed metrics from the raw provider fields.
func NewQuote(ticker string, raw RawQuote) Quote {
	q := Quote{Ticker: ticker, Name: raw.ShortName}
	if q.Name == "" {
		q.Name = ticker
	}

	for _, p := range []*float64{raw.CurrentPrice, raw.RegularMarketPrice, raw.NavPrice, raw.PreviousClose} {
		if nonZero(p) != nil {
			q.Price = Ptr(*p)
			break
		}
	}

	if raw.RegularMarketChangePercent != nil && Finite(*raw.RegularMarketChangePercent) {
		q.DayChangePct = Ptr(Round(*raw.RegularMarketChangePercent, 2))
	} else {
		prev := raw.RegularMarketPreviousClose
		if nonZero(prev) == nil {
			prev = raw.PreviousClose
		}
		if q.Price != nil && *q.Price > 0 && prev != nil && *prev > 0 {
			q.DayChangePct = Ptr(Round((*q.Price-*prev) / *prev * 100, 2))
		}
	}

	q.Target = finite(raw.TargetMeanPrice)
	q.PETTM = finite(raw.TrailingPE)
	q.PEFwd = finite(raw.ForwardPE)
	q.EPS = finite(raw.TrailingEps)

	q.Growth = finite(raw.EarningsGrowth)
	if q.Growth == nil {
		q.Growth = finite(raw.EarningsQuarterlyGrowth)
	}

	q.PEG = finite(raw.PegRatio)
	if q.PEG == nil && q.PETTM != nil && q.Growth != nil && *q.Growth > 0 {
		q.PEG = Ptr(Round(*q.PETTM/(*q.Growth*100), 2))
	}

	if nonZero(q.Price) != nil && nonZero(q.Target) != nil {
		q.Upside = Ptr((*q.Target - *q.Price) / *q.Price * 100)
	}
	if mc := nonZero(raw.MarketCap); mc != nil {
		q.MarketCap = Ptr(Round(*mc/1e9, 1))
	}
	if g := finite(raw.EarningsGrowth); g != nil {
		q.EPSGrowthTTM = Ptr(Round(*g*100, 1))
	}
	if g := finite(raw.EarningsQuarterlyGrowth); g != nil {
		q.EPSGrowthQ = Ptr(Round(*g*100, 1))
	}
	return q
}

// Empty reports whether the provider knew nothing about the ticker.
func (q Quote) Empty() bool { return q.Price == nil && q.Name == q.Ticker }

func finite(p *float64) *float64 {
	if p == nil || !Finite(*p) {
		return nil
	}
	return Ptr(*p)
}

// ChartRow is the row shape embedded in pages for client side charts.
type ChartRow struct {
	Quote
	Sector string
}

// MarshalJSON emits the chart keys in a stable order, non finite numbers
// become null.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	w := new(jsonObjectWriter)
	w.Append("ticker", r.Ticker).
		Append("name", r.Name).
		Append("price", finite(r.Price)).
		Append("target", finite(r.Target)).
		Append("upside", finite(r.Upside)).
		Append("pe_ttm", finite(r.PETTM)).
		Append("pe_fwd", finite(r.PEFwd)).
		Append("peg", finite(r.PEG)).
		Append("market_cap", finite(r.MarketCap)).
		Append("eps_growth_ttm", finite(r.EPSGrowthTTM)).
		Append("eps_growth_q", finite(r.EPSGrowthQ)).
		Append("day_change_pct", finite(r.DayChangePct)).
		Optional("sector", r.Sector)
	return w.MarshalJSON()
}

var _ json.Marshaler = ChartRow{}
