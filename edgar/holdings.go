package edgar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
)

// Change classifies a position against the previous quarter.
type Change string

const (
	NewPosition Change = "new"
	Increased   Change = "increased"
	Reduced     Change = "reduced"
	Unchanged   Change = "unchanged"
	Unknown     Change = "unknown"
)

// TopN is the number of positions kept per fund.
const TopN = 50

// Holding is one equity position of a 13F information table.
type Holding struct {
	Rank           int      `json:"rank,omitempty"`
	CUSIP          string   `json:"cusip"`
	Name           string   `json:"name"`
	Ticker         string   `json:"ticker,omitempty"`
	Shares         int64    `json:"shares"`
	ValueThousands int64    `json:"value_thousands"`
	ValueMillions  float64  `json:"value_millions"`
	PctPortfolio   float64  `json:"pct_portfolio"`
	Change         Change   `json:"change"`
	ChangePct      *float64 `json:"change_pct"`
}

// FundHoldings is the latest 13F report of a fund. When Error is set the
// other fields are empty.
type FundHoldings struct {
	CIK                string    `json:"cik"`
	FilingDate         string    `json:"filing_date"`
	PeriodOfReport     string    `json:"period_of_report"`
	Holdings           []Holding `json:"holdings"`
	TotalHoldings      int       `json:"total_holdings"`
	TotalValueMillions float64   `json:"total_value_millions"`
	Error              *string   `json:"error"`
}

// Failed reports whether the report could not be fetched.
func (h FundHoldings) Failed() bool { return h.Error != nil }

// ErrorMessage returns the fetch error, "" for a fetched report.
func (h FundHoldings) ErrorMessage() string {
	if h.Error == nil {
		return ""
	}
	return *h.Error
}

// Snapshot holds the report of every fund by name.
type Snapshot map[string]FundHoldings

func round1(v float64) float64 { return ystocker.Round(v, 1) }

// annotate sets the change of every current position against the previous
// quarter's positions.
func annotate(curr, prev []Holding) {
	prevShares := make(map[string]int64, len(prev))
	for _, h := range prev {
		if h.CUSIP != "" {
			prevShares[h.CUSIP] = h.Shares
		}
	}
	for i := range curr {
		h := &curr[i]
		h.ChangePct = nil
		before, ok := prevShares[h.CUSIP]
		if h.CUSIP == "" || !ok {
			h.Change = NewPosition
			continue
		}
		delta := h.Shares - before
		if before != 0 {
			pct := float64(delta) / float64(before) * 100
			// share unit changes between filings yield absurd ratios
			if math.Abs(pct) > 10000 {
				h.Change = NewPosition
				continue
			}
			h.ChangePct = ystocker.Ptr(round1(pct))
		}
		switch {
		case delta > 0:
			h.Change = Increased
		case delta < 0:
			h.Change = Reduced
		default:
			h.Change = Unchanged
		}
	}
}

func mark(holdings []Holding, c Change) {
	for i := range holdings {
		holdings[i].Change = c
		holdings[i].ChangePct = nil
	}
}

// holdings downloads and parses the information table of a filing.
func (c *Client) holdings(ctx context.Context, cik string, f Filing) ([]Holding, error) {
	addr, err := c.FindInfoTable(ctx, cik, f)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"cik": cik, "url": addr}).Info("13F infotable")
	body, err := c.get(ctx, addr)
	if err != nil {
		return nil, err
	}
	return parseInfoTable(bytes.NewReader(body))
}

// FetchFund returns the latest report of a fund. Failures are reported in
// the Error field.
func (c *Client) FetchFund(ctx context.Context, fund Fund) FundHoldings {
	log.WithField("fund", fund.Name).Infof("fetching 13F (CIK %s)", fund.CIK)
	res, err := c.fetchFund(ctx, fund)
	if err != nil {
		log.WithError(err).WithField("fund", fund.Name).Error("failed to fetch 13F")
		msg := err.Error()
		return FundHoldings{CIK: fund.CIK, Error: &msg}
	}
	return res
}

func (c *Client) fetchFund(ctx context.Context, fund Fund) (FundHoldings, error) {
	filings, err := c.Filings(ctx, fund.CIK)
	if err != nil {
		return FundHoldings{}, err
	}
	if len(filings) == 0 {
		return FundHoldings{}, ErrNoFilings
	}
	latest := filings[0]
	curr, err := c.holdings(ctx, fund.CIK, latest)
	if err != nil {
		return FundHoldings{}, err
	}

	if len(filings) > 1 {
		prev, err := c.holdings(ctx, fund.CIK, filings[1])
		if err != nil {
			log.WithError(err).WithField("fund", fund.Name).Warn("could not fetch previous quarter")
			mark(curr, Unknown)
		} else {
			annotate(curr, prev)
		}
	} else {
		mark(curr, NewPosition)
	}

	sort.SliceStable(curr, func(i, j int) bool { return curr[i].ValueThousands > curr[j].ValueThousands })
	var totalK int64
	for _, h := range curr {
		totalK += h.ValueThousands
	}
	top := curr[:min(len(curr), TopN)]
	for i := range top {
		top[i].Rank = i + 1
		if totalK > 0 {
			top[i].PctPortfolio = ystocker.Round(float64(top[i].ValueThousands)/float64(totalK)*100, 2)
		}
	}
	return FundHoldings{
		CIK:                fund.CIK,
		FilingDate:         latest.FilingDate,
		PeriodOfReport:     latest.PeriodOfReport,
		Holdings:           top,
		TotalHoldings:      len(curr),
		TotalValueMillions: round1(float64(totalK) / 1000),
	}, nil
}

// FetchAll fetches every fund in turn. A fund that fails is kept with its
// error and listed in errs. It fails only when no fund could be fetched.
func (c *Client) FetchAll(ctx context.Context) (Snapshot, []string, error) {
	snap := make(Snapshot, len(Funds))
	var msgs []string
	for _, fund := range Funds {
		if err := ctx.Err(); err != nil {
			return nil, msgs, err
		}
		res := c.FetchFund(ctx, fund)
		if res.Failed() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fund.Name, res.ErrorMessage()))
		}
		snap[fund.Name] = res
	}
	if len(msgs) == len(Funds) {
		return nil, msgs, errors.New("no 13F report could be fetched")
	}
	return snap, msgs, nil
}
