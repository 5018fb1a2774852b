package ystocker

// History is a weekly price series with the PE and PEG it implies at the
// current trailing EPS and growth.
type History struct {
	Ticker       string     `json:"ticker"`
	Name         string     `json:"name"`
	Dates        []string   `json:"dates"`
	Prices       []*float64 `json:"prices"`
	PE           []*float64 `json:"pe_history"`
	PEG          []*float64 `json:"peg_history"`
	CurrentPE    *float64   `json:"current_pe"`
	CurrentPEG   *float64   `json:"current_peg"`
	ForwardPE    *float64   `json:"forward_pe"`
	TargetPrice  *float64   `json:"target_price"`
	EPS          *float64   `json:"eps"`
	EPSGrowthTTM *float64   `json:"eps_growth_ttm"`
	EPSGrowthQ   *float64   `json:"eps_growth_q"`
}

// ValuationHistory estimates the PE history as price / trailing EPS, since
// historical EPS is not available. PEG history is PE / (growth × 100) and is
// empty unless growth is positive.
func ValuationHistory(ticker string, raw RawQuote, bars []Bar) History {
	name := raw.ShortName
	if name == "" {
		name = ticker
	}
	h := History{
		Ticker:      ticker,
		Name:        name,
		Dates:       make([]string, 0, len(bars)),
		Prices:      make([]*float64, 0, len(bars)),
		PE:          make([]*float64, 0, len(bars)),
		PEG:         []*float64{},
		CurrentPE:   finite(raw.TrailingPE),
		CurrentPEG:  finite(raw.PegRatio),
		ForwardPE:   finite(raw.ForwardPE),
		TargetPrice: finite(raw.TargetMeanPrice),
		EPS:         finite(raw.TrailingEps),
	}
	if g := finite(raw.EarningsGrowth); g != nil {
		h.EPSGrowthTTM = Ptr(Round(*g*100, 1))
	}
	if g := finite(raw.EarningsQuarterlyGrowth); g != nil {
		h.EPSGrowthQ = Ptr(Round(*g*100, 1))
	}

	eps := h.EPS
	for _, b := range bars {
		h.Dates = append(h.Dates, b.Date.String())
		p := RoundPtr(b.Close, 2)
		h.Prices = append(h.Prices, p)
		var pe *float64
		if p != nil && eps != nil && *eps > 0 {
			pe = Ptr(Round(*p / *eps, 2))
		}
		h.PE = append(h.PE, pe)
	}

	growth := nonZero(raw.EarningsGrowth)
	if growth == nil {
		growth = nonZero(raw.EarningsQuarterlyGrowth)
	}
	if growth != nil && *growth > 0 {
		pct := *growth * 100
		for _, pe := range h.PE {
			var peg *float64
			if pe != nil {
				peg = Ptr(Round(*pe/pct, 2))
			}
			h.PEG = append(h.PEG, peg)
		}
	}
	return h
}
