// Package fred downloads the Federal Reserve H.4.1 balance sheet series from
// the public FRED CSV endpoint. No API key is required.
package fred

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
)

// CacheFile is the blob name of the cached snapshot.
const CacheFile = "fed_cache.json"

const defaultUserAgent = "yStocker/1.0 (https://github.com/15th-Ave-NE/ystocker)"

// Series describes a FRED series shown on the dashboard.
type Series struct {
	ID    string
	Label string
	Color string
}

// H41 lists the H.4.1 series in display order. Values are weekly, in
// millions of USD, except RRPONTSYD which is daily in billions.
var H41 = []Series{
	{"WALCL", "Total Assets", "#6366f1"},
	{"TREAST", "Treasury Securities", "#38bdf8"},
	{"WSHOSHO", "Bills (Short-Term)", "#818cf8"},
	{"MBST", "MBS (Mortgage-Backed Sec)", "#34d399"},
	{"WRESBAL", "Reserve Balances", "#f59e0b"},
	{"RRPONTSYD", "Overnight Reverse Repos", "#fb7185"},
	{"WTREGEN", "Treasury General Account", "#facc15"},
	{"WCURCIR", "Currency in Circulation", "#94a3b8"},
	{"WLCFLPCL", "Fed Loans (incl. BTFP)", "#f97316"},
}

// alreadyBillions lists the series that are not in millions.
var alreadyBillions = map[string]bool{"RRPONTSYD": true}

// Data is one series in billions of USD. Values are nil where FRED has no
// observation. Error marks a series that could not be fetched.
type Data struct {
	Dates  []string   `json:"dates"`
	Values []*float64 `json:"values"`
	Error  bool       `json:"error,omitempty"`
}

// Snapshot holds every series by ID.
type Snapshot struct {
	Series map[string]Data `json:"series"`
}

// Client downloads FRED CSV files.
type Client struct {
	BaseURL   string // the series id is appended
	UserAgent string
	HTTP      *http.Client
}

// New returns a client for the public FRED endpoint.
func New() *Client {
	return &Client{
		BaseURL:   "https://fred.stlouisfed.org/graph/fredgraph.csv?id=",
		UserAgent: defaultUserAgent,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchSeries downloads and parses one series.
func (c *Client) FetchSeries(ctx context.Context, id string) (Data, error) {
	addr := c.BaseURL + id
	log.WithField("series", id).Info("fetching from FRED")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return Data{}, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/csv,text/plain,*/*")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Data{}, fmt.Errorf("failed to download %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Data{}, fmt.Errorf("failed to download %s: received status %s", id, resp.Status)
	}
	data, err := parseSeries(resp.Body, alreadyBillions[id])
	if err != nil {
		return Data{}, fmt.Errorf("series %s: %w", id, err)
	}
	last := data.Values[len(data.Values)-1]
	log.WithFields(log.Fields{
		"series": id,
		"obs":    len(data.Dates),
		"from":   data.Dates[0],
		"to":     data.Dates[len(data.Dates)-1],
		"latest": ptrString(last),
	}).Info("fetched from FRED")
	return data, nil
}

func ptrString(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 1, 64)
}

// Fetch downloads every H.4.1 series. A series that fails is recorded with
// Error set and reported in errs. It fails only when no series could be
// fetched.
func (c *Client) Fetch(ctx context.Context) (Snapshot, []string, error) {
	snap := Snapshot{Series: make(map[string]Data, len(H41))}
	var msgs []string
	var errs error
	for _, s := range H41 {
		data, err := c.FetchSeries(ctx, s.ID)
		if err != nil {
			log.WithError(err).WithField("series", s.ID).Error("FRED fetch failed")
			errs = errors.Join(errs, err)
			msgs = append(msgs, err.Error())
			data = Data{Dates: []string{}, Values: []*float64{}, Error: true}
		}
		snap.Series[s.ID] = data
	}
	if len(msgs) == len(H41) {
		return Snapshot{}, msgs, errs
	}
	return snap, msgs, nil
}

// parseSeries reads a FRED CSV:
//
//	observation_date,WALCL
//	2002-12-18,719542
//	2002-12-25,.
//
// Rows with a malformed date are skipped, missing values are kept as nil.
func parseSeries(r io.Reader, billions bool) (Data, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	data := Data{Dates: []string{}, Values: []*float64{}}
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Data{}, fmt.Errorf("failed to read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			continue
		}
		date := strings.TrimSpace(record[0])
		value := strings.TrimSpace(record[1])
		if len(date) != 10 || date[4] != '-' {
			continue
		}
		data.Dates = append(data.Dates, date)
		data.Values = append(data.Values, parseValue(value, billions))
	}
	if len(data.Dates) == 0 {
		return Data{}, errors.New("no data rows")
	}
	return data, nil
}

func parseValue(s string, billions bool) *float64 {
	switch s {
	case "", ".", "ND", "N/A":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !ystocker.Finite(v) {
		return nil
	}
	if !billions {
		v /= 1000
	}
	return ystocker.Ptr(ystocker.Round(v, 2))
}

// Observation is the latest known value of a series.
type Observation struct {
	Series
	Date  string
	Value *float64
	Error bool
}

// Latest returns the last non nil value of every series, in H41 order.
func (s Snapshot) Latest() []Observation {
	obs := make([]Observation, 0, len(H41))
	for _, series := range H41 {
		o := Observation{Series: series}
		data, ok := s.Series[series.ID]
		o.Error = !ok || data.Error
		for i := len(data.Values) - 1; i >= 0; i-- {
			if data.Values[i] != nil {
				o.Date, o.Value = data.Dates[i], data.Values[i]
				break
			}
		}
		obs = append(obs, o)
	}
	return obs
}
