package yahoo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
	"github.com/tidwall/gjson"
)

// do performs the request and returns the body of a 2xx answer.
func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{
		"host":    req.URL.Host,
		"path":    req.URL.Path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("yahoo")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &statusError{Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

// num reads a numeric field. Depending on the "formatted" flag Yahoo
// returns either a bare number or an object like {"raw": 1.2, "fmt": "1.20"}.
func num(r gjson.Result, path string) *float64 {
	v := r.Get(path)
	if v.IsObject() {
		v = v.Get("raw")
	}
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

// parseQuoteSummary maps a quoteSummary payload to a RawQuote.
//
//	{"quoteSummary": {"result": [{
//	    "price": {"shortName": "Microsoft Corporation", "regularMarketPrice": 411.2,
//	              "regularMarketChangePercent": 0.0123, "regularMarketPreviousClose": 406.2},
//	    "summaryDetail": {"previousClose": 406.2, "trailingPE": 35.1, "forwardPE": 30.2,
//	                      "marketCap": 3056000000000, "navPrice": ...},
//	    "defaultKeyStatistics": {"pegRatio": 2.1, "trailingEps": 11.8, "earningsQuarterlyGrowth": 0.1},
//	    "financialData": {"currentPrice": 411.2, "targetMeanPrice": 500.1, "earningsGrowth": 0.12}
//	}], "error": null}}
func parseQuoteSummary(body []byte) (ystocker.RawQuote, error) {
	if !gjson.ValidBytes(body) {
		return ystocker.RawQuote{}, errors.New("invalid quoteSummary json")
	}
	root := gjson.ParseBytes(body)
	if e := root.Get("quoteSummary.error.description"); e.Exists() && e.String() != "" {
		if strings.HasPrefix(e.String(), "Quote not found") || root.Get("quoteSummary.error.code").String() == "Not Found" {
			return ystocker.RawQuote{}, nil
		}
		return ystocker.RawQuote{}, fmt.Errorf("quoteSummary: %s", e.String())
	}
	r := root.Get("quoteSummary.result.0")
	if !r.Exists() {
		return ystocker.RawQuote{}, nil
	}

	q := ystocker.RawQuote{
		ShortName:                  r.Get("price.shortName").String(),
		CurrentPrice:               num(r, "financialData.currentPrice"),
		RegularMarketPrice:         num(r, "price.regularMarketPrice"),
		NavPrice:                   num(r, "summaryDetail.navPrice"),
		PreviousClose:              num(r, "summaryDetail.previousClose"),
		RegularMarketPreviousClose: num(r, "price.regularMarketPreviousClose"),
		TargetMeanPrice:            num(r, "financialData.targetMeanPrice"),
		TrailingPE:                 num(r, "summaryDetail.trailingPE"),
		ForwardPE:                  num(r, "summaryDetail.forwardPE"),
		PegRatio:                   num(r, "defaultKeyStatistics.pegRatio"),
		MarketCap:                  num(r, "price.marketCap"),
		EarningsGrowth:             num(r, "financialData.earningsGrowth"),
		EarningsQuarterlyGrowth:    num(r, "defaultKeyStatistics.earningsQuarterlyGrowth"),
		TrailingEps:                num(r, "defaultKeyStatistics.trailingEps"),
	}
	if q.ForwardPE == nil {
		q.ForwardPE = num(r, "defaultKeyStatistics.forwardPE")
	}
	if q.MarketCap == nil {
		q.MarketCap = num(r, "summaryDetail.marketCap")
	}
	if q.ShortName == "" {
		q.ShortName = r.Get("price.longName").String()
	}
	// the price module reports the change as a fraction.
	if p := num(r, "price.regularMarketChangePercent"); p != nil {
		q.RegularMarketChangePercent = ystocker.Ptr(*p * 100)
	}
	return q, nil
}

// parseChart maps a v8 chart payload to daily bars. Timestamps are shifted
// by the exchange gmtoffset so that bars land on the exchange's day.
//
//	{"chart": {"result": [{
//	    "meta": {"gmtoffset": -14400, ...},
//	    "timestamp": [1704690000, ...],
//	    "indicators": {"quote": [{"close": [374.5, null, ...]}]}
//	}], "error": null}}
func parseChart(body []byte) ([]ystocker.Bar, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid chart json")
	}
	root := gjson.ParseBytes(body)
	if e := root.Get("chart.error.description"); e.Exists() && e.String() != "" {
		return nil, fmt.Errorf("chart: %s", e.String())
	}
	r := root.Get("chart.result.0")
	offset := r.Get("meta.gmtoffset").Int()
	stamps := r.Get("timestamp").Array()
	closes := r.Get("indicators.quote.0.close").Array()

	bars := make([]ystocker.Bar, 0, len(stamps))
	for i, ts := range stamps {
		b := ystocker.Bar{Date: ystocker.DateOf(time.Unix(ts.Int()+offset, 0).UTC())}
		if i < len(closes) && closes[i].Type == gjson.Number {
			b.Close = ystocker.Ptr(closes[i].Float())
		}
		bars = append(bars, b)
	}
	return bars, nil
}
