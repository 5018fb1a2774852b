package ystocker

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m      Money
		want   string
		signed string
	}{
		{USD(1234.5), "$1,234.50", "+$1,234.50"},
		{USD(0), "$0.00", "-"},
		{USD(-12.345), "-$12.35", "-$12.35"},
		{M(10, "EUR"), "€10.00", "+€10.00"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.m.SignedString(); got != tt.signed {
			t.Errorf("SignedString() = %q, want %q", got, tt.signed)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		p      Percent
		str    string
		signed string
		trend  string
	}{
		{12.345, "12.35%", "+12.35%", "up"},
		{-3.1, "-3.10%", "-3.10%", "down"},
		{0, "0.00%", "-", ""},
		{0.001, "0.00%", "-", ""},
		{-0.001, "-0.00%", "-", ""},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.str {
			t.Errorf("Percent(%v).String() = %q, want %q", float64(tt.p), got, tt.str)
		}
		if got := tt.p.Signed(); got != tt.signed {
			t.Errorf("Percent(%v).Signed() = %q, want %q", float64(tt.p), got, tt.signed)
		}
		if got := tt.p.Trend(); got != tt.trend {
			t.Errorf("Percent(%v).Trend() = %q, want %q", float64(tt.p), got, tt.trend)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.01},
		{2.675, 2, 2.68},
		{-1.25, 1, -1.3},
		{3216.5, 1, 3216.5},
		{123456789.0 / 1e9, 1, 0.1},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
