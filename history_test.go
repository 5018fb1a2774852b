package ystocker

import (
	"errors"
	"testing"
)

func TestValuationHistory(t *testing.T) {
	bars := []Bar{
		{Date: NewDate(2025, 1, 6), Close: Ptr(100.004)},
		{Date: NewDate(2025, 1, 13), Close: nil},
		{Date: NewDate(2025, 1, 20), Close: Ptr(110)},
	}
	raw := RawQuote{
		ShortName:               "Acme",
		TrailingEps:             Ptr(5),
		TrailingPE:              Ptr(21.5),
		PegRatio:                Ptr(1.1),
		EarningsGrowth:          Ptr(0),
		EarningsQuarterlyGrowth: Ptr(0.1),
	}
	h := ValuationHistory("ACME", raw, bars)

	if h.Name != "Acme" || len(h.Dates) != 3 || h.Dates[0] != "2025-01-06" {
		t.Fatalf("ValuationHistory() = %+v", h)
	}
	if val(h.Prices[0]) != 100.0 || h.Prices[1] != nil {
		t.Errorf("Prices = %v, %v", val(h.Prices[0]), val(h.Prices[1]))
	}
	if val(h.PE[0]) != 20.0 || h.PE[1] != nil || val(h.PE[2]) != 22.0 {
		t.Errorf("PE = %v %v %v", val(h.PE[0]), val(h.PE[1]), val(h.PE[2]))
	}
	// a zero earningsGrowth falls back to the quarterly growth.
	if len(h.PEG) != 3 || val(h.PEG[0]) != 2.0 || h.PEG[1] != nil || val(h.PEG[2]) != 2.2 {
		t.Errorf("PEG = %v", h.PEG)
	}
	if val(h.EPSGrowthTTM) != 0.0 || val(h.EPSGrowthQ) != 10.0 || val(h.CurrentPEG) != 1.1 {
		t.Errorf("growth = %v / %v, peg %v", val(h.EPSGrowthTTM), val(h.EPSGrowthQ), val(h.CurrentPEG))
	}
}

func TestValuationHistoryWithoutEarnings(t *testing.T) {
	bars := []Bar{{Date: NewDate(2025, 1, 6), Close: Ptr(10)}}
	h := ValuationHistory("SPY", RawQuote{TrailingEps: Ptr(-2), EarningsGrowth: Ptr(-0.3)}, bars)
	if h.Name != "SPY" || h.PE[0] != nil || len(h.PEG) != 0 || h.PEG == nil {
		t.Errorf("ValuationHistory() = %+v", h)
	}
}

func TestDiscover(t *testing.T) {
	got, err := Discover("  Consumer Staples ")
	if err != nil || len(got) != 10 || got[0] != "PG" {
		t.Errorf("Discover() = %v, %v", got, err)
	}
	if _, err := Discover(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Discover(\"\") = %v, want ErrEmptyName", err)
	}
	if _, err := Discover("crypto"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Discover(crypto) = %v, want ErrNotFound", err)
	}
	if n := len(DiscoverNames()); n != 21 {
		t.Errorf("DiscoverNames() has %d entries, want 21", n)
	}
}

func TestBuildHeatmap(t *testing.T) {
	if n := len(HeatmapTickers()); n != 105 {
		t.Errorf("HeatmapTickers() has %d entries, want 105", n)
	}
	sectors := BuildHeatmap(map[string]Quote{
		"MSFT": {Ticker: "MSFT", DayChangePct: Ptr(1.5), Price: Ptr(400)},
	})
	if len(sectors) != len(SectorOrder) {
		t.Fatalf("BuildHeatmap() has %d sectors, want %d", len(sectors), len(SectorOrder))
	}
	for i, s := range sectors {
		if s.Sector != SectorOrder[i] {
			t.Errorf("sector %d = %q, want %q", i, s.Sector, SectorOrder[i])
		}
	}
	tech := sectors[0]
	if tech.Tiles[0].Ticker != "AAPL" || tech.Tiles[1].Ticker != "MSFT" {
		t.Errorf("tiles are not sorted by cap: %v", tech.Tiles[:2])
	}
	if val(tech.Tiles[1].DayChange) != 1.5 || tech.Tiles[0].DayChange != nil {
		t.Errorf("day change = %v / %v", val(tech.Tiles[1].DayChange), val(tech.Tiles[0].DayChange))
	}
}
