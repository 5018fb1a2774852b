// Package forecast projects weekly closing prices six months ahead with a
// few simple models.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
)

const (
	// Horizon is the number of weekly points forecast.
	Horizon = 26
	// MinPoints is the shortest usable training series.
	MinPoints = 10

	z80 = 1.28 // 80% confidence band
)

var (
	ErrNotEnoughData    = errors.New("Not enough data to forecast.")
	ErrModelUnavailable = errors.New("prophet model is not available")
)

// Point is one training observation.
type Point struct {
	Date  ystocker.Date `json:"date"`
	Value float64       `json:"value"`
}

// Estimate is one forecast point with its confidence band.
type Estimate struct {
	Date  ystocker.Date `json:"date"`
	Value float64       `json:"value"`
	Lo    float64       `json:"lo"`
	Hi    float64       `json:"hi"`
}

// Outcome is the result of one model. Forecast is empty when Error is set.
type Outcome struct {
	Forecast []Estimate `json:"forecast"`
	Error    *string    `json:"error"`
}

// Result gathers every model's forecast of a ticker.
type Result struct {
	Ticker string             `json:"ticker"`
	Train  []Point            `json:"train"`
	Models map[string]Outcome `json:"models"`
}

// Model computes Horizon means and bands from a training series.
type Model func(prices []float64) (mean, lo, hi []float64, err error)

// Models lists the models in display order.
var Models = []struct {
	Name  string
	Model Model
}{
	{"prophet", prophet},
	{"arima", drift},
	{"linear", linear},
}

// Run downloads three years of weekly closes and runs every model.
//
// It returns a *ystocker.FetchError when the provider fails,
// ystocker.ErrNotFound when there is no history and ErrNotEnoughData for
// series shorter than MinPoints.
func Run(ctx context.Context, p ystocker.QuoteProvider, ticker string) (Result, error) {
	log.WithField("ticker", ticker).Info("forecast: fetching 3y 1wk history")
	bars, err := p.History(ctx, ticker, ystocker.ThreeYearsWeekly)
	if err != nil {
		var fe *ystocker.FetchError
		if !errors.As(err, &fe) {
			err = &ystocker.FetchError{Ticker: ticker, Err: err}
		}
		return Result{}, err
	}
	if len(bars) == 0 {
		return Result{}, fmt.Errorf("no price history for %q: %w", ticker, ystocker.ErrNotFound)
	}
	train := clean(bars)
	if len(train) < MinPoints {
		return Result{}, ErrNotEnoughData
	}
	return Forecast(ticker, train), nil
}

// Forecast runs every model on a cleaned training series.
func Forecast(ticker string, train []Point) Result {
	prices := make([]float64, len(train))
	res := Result{Ticker: ticker, Train: make([]Point, len(train)), Models: make(map[string]Outcome, len(Models))}
	for i, p := range train {
		prices[i] = p.Value
		res.Train[i] = Point{Date: p.Date, Value: ystocker.Round(p.Value, 2)}
	}
	last := train[len(train)-1].Date
	for _, m := range Models {
		mean, lo, hi, err := m.Model(prices)
		if err != nil {
			if !errors.Is(err, ErrModelUnavailable) {
				log.WithError(err).WithField("ticker", ticker).Warnf("%s forecast failed", m.Name)
			}
			msg := err.Error()
			res.Models[m.Name] = Outcome{Forecast: []Estimate{}, Error: &msg}
			continue
		}
		est := make([]Estimate, len(mean))
		for i := range mean {
			est[i] = Estimate{
				Date:  last.AddWeeks(i + 1),
				Value: ystocker.Round(mean[i], 2),
				Lo:    ystocker.Round(lo[i], 2),
				Hi:    ystocker.Round(hi[i], 2),
			}
		}
		res.Models[m.Name] = Outcome{Forecast: est}
	}
	return res
}

// clean forward fills missing closes and drops the leading ones.
func clean(bars []ystocker.Bar) []Point {
	var points []Point
	var prev *float64
	for _, b := range bars {
		v := b.Close
		if v == nil || !ystocker.Finite(*v) {
			v = prev
		}
		if v == nil {
			continue
		}
		prev = v
		points = append(points, Point{Date: b.Date, Value: *v})
	}
	return points
}

func prophet([]float64) (mean, lo, hi []float64, err error) {
	return nil, nil, nil, ErrModelUnavailable
}

// linear fits a least squares line and extends it. The band is the
// standard deviation of the residuals.
func linear(y []float64) (mean, lo, hi []float64, err error) {
	n := float64(len(y))
	var sx, sy, sxx, sxy float64
	for i, v := range y {
		x := float64(i)
		sx += x
		sy += v
		sxx += x * x
		sxy += x * v
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return nil, nil, nil, errors.New("cannot fit a line on a single point")
	}
	slope := (n*sxy - sx*sy) / den
	intercept := (sy - slope*sx) / n

	residuals := make([]float64, len(y))
	for i, v := range y {
		residuals[i] = v - (intercept + slope*float64(i))
	}
	band := z80 * stddev(residuals)

	for h := range Horizon {
		fc := math.Max(0, intercept+slope*float64(len(y)+h))
		mean = append(mean, fc)
		lo = append(lo, math.Max(0, fc-band))
		hi = append(hi, fc+band)
	}
	return mean, lo, hi, nil
}

// drift is an ARIMA(0,1,0) model with drift: a random walk whose step is
// the mean weekly change.
func drift(y []float64) (mean, lo, hi []float64, err error) {
	if len(y) < 2 {
		return nil, nil, nil, errors.New("cannot difference a single point")
	}
	diffs := make([]float64, len(y)-1)
	var sum float64
	for i := 1; i < len(y); i++ {
		diffs[i-1] = y[i] - y[i-1]
		sum += diffs[i-1]
	}
	step := sum / float64(len(diffs))
	sigma := stddev(diffs)
	last := y[len(y)-1]

	for h := 1; h <= Horizon; h++ {
		m := last + float64(h)*step
		band := z80 * sigma * math.Sqrt(float64(h))
		mean = append(mean, math.Max(0, m))
		lo = append(lo, math.Max(0, m-band))
		hi = append(hi, m+band)
	}
	return mean, lo, hi, nil
}

// stddev is the population standard deviation.
func stddev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	var ss float64
	for _, x := range v {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(v)))
}
