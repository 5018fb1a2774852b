package ystocker

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if !Finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 { return &v }

// RoundPtr rounds *p, nil and non finite values give nil.
func RoundPtr(p *float64, places int32) *float64 {
	if p == nil || !Finite(*p) {
		return nil
	}
	return Ptr(Round(*p, places))
}

// nonZero returns p if it holds a non zero finite value.
func nonZero(p *float64) *float64 {
	if p == nil || *p == 0 || !Finite(*p) {
		return nil
	}
	return p
}
