package ystocker

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// HeatmapFile is the blob name of the cached heatmap quotes.
const HeatmapFile = "heatmap_cache.json"

// HeatmapStock is a constituent of the heatmap. CapB is an approximate
// market cap in billions of USD used to size the tile, it is not live data.
type HeatmapStock struct {
	Ticker string
	Name   string
	Sector string
	CapB   float64
}

// SectorOrder is the display order of the heatmap sectors.
var SectorOrder = []string{
	"Technology",
	"Communication Services",
	"Consumer Discretionary",
	"Financials",
	"Healthcare",
	"Industrials",
	"Consumer Staples",
	"Energy",
	"Real Estate",
	"Utilities",
	"Materials",
}

// HeatmapUniverse lists the large US stocks shown on the heatmap.
var HeatmapUniverse = []HeatmapStock{
	{"AAPL", "Apple", "Technology", 3300},
	{"MSFT", "Microsoft", "Technology", 3000},
	{"NVDA", "NVIDIA", "Technology", 2800},
	{"AVGO", "Broadcom", "Technology", 900},
	{"ORCL", "Oracle", "Technology", 500},
	{"CSCO", "Cisco", "Technology", 220},
	{"ADBE", "Adobe", "Technology", 200},
	{"CRM", "Salesforce", "Technology", 280},
	{"AMD", "AMD", "Technology", 250},
	{"QCOM", "Qualcomm", "Technology", 170},
	{"TXN", "Texas Instruments", "Technology", 170},
	{"INTC", "Intel", "Technology", 90},
	{"NOW", "ServiceNow", "Technology", 200},
	{"INTU", "Intuit", "Technology", 175},
	{"IBM", "IBM", "Technology", 220},
	{"GOOGL", "Alphabet", "Communication Services", 2100},
	{"META", "Meta", "Communication Services", 1500},
	{"NFLX", "Netflix", "Communication Services", 350},
	{"DIS", "Disney", "Communication Services", 195},
	{"CMCSA", "Comcast", "Communication Services", 145},
	{"VZ", "Verizon", "Communication Services", 165},
	{"T", "AT&T", "Communication Services", 145},
	{"TMUS", "T-Mobile", "Communication Services", 260},
	{"AMZN", "Amazon", "Consumer Discretionary", 2200},
	{"TSLA", "Tesla", "Consumer Discretionary", 850},
	{"HD", "Home Depot", "Consumer Discretionary", 380},
	{"MCD", "McDonald's", "Consumer Discretionary", 215},
	{"NKE", "Nike", "Consumer Discretionary", 93},
	{"LOW", "Lowe's", "Consumer Discretionary", 140},
	{"BKNG", "Booking Holdings", "Consumer Discretionary", 160},
	{"TJX", "TJX Companies", "Consumer Discretionary", 130},
	{"SBUX", "Starbucks", "Consumer Discretionary", 95},
	{"CMG", "Chipotle", "Consumer Discretionary", 85},
	{"WMT", "Walmart", "Consumer Staples", 730},
	{"PG", "Procter & Gamble", "Consumer Staples", 380},
	{"KO", "Coca-Cola", "Consumer Staples", 270},
	{"PEP", "PepsiCo", "Consumer Staples", 215},
	{"COST", "Costco", "Consumer Staples", 380},
	{"PM", "Philip Morris", "Consumer Staples", 220},
	{"MO", "Altria", "Consumer Staples", 95},
	{"MDLZ", "Mondelez", "Consumer Staples", 88},
	{"CL", "Colgate-Palmolive", "Consumer Staples", 63},
	{"BRK-B", "Berkshire Hathaway", "Financials", 980},
	{"JPM", "JPMorgan Chase", "Financials", 700},
	{"V", "Visa", "Financials", 580},
	{"MA", "Mastercard", "Financials", 475},
	{"BAC", "Bank of America", "Financials", 330},
	{"WFC", "Wells Fargo", "Financials", 250},
	{"GS", "Goldman Sachs", "Financials", 185},
	{"MS", "Morgan Stanley", "Financials", 175},
	{"BLK", "BlackRock", "Financials", 150},
	{"AXP", "American Express", "Financials", 195},
	{"SCHW", "Charles Schwab", "Financials", 130},
	{"C", "Citigroup", "Financials", 130},
	{"UNH", "UnitedHealth", "Healthcare", 490},
	{"LLY", "Eli Lilly", "Healthcare", 760},
	{"JNJ", "Johnson & Johnson", "Healthcare", 380},
	{"ABBV", "AbbVie", "Healthcare", 330},
	{"MRK", "Merck", "Healthcare", 255},
	{"TMO", "Thermo Fisher", "Healthcare", 195},
	{"ABT", "Abbott", "Healthcare", 205},
	{"DHR", "Danaher", "Healthcare", 155},
	{"AMGN", "Amgen", "Healthcare", 165},
	{"ISRG", "Intuitive Surgical", "Healthcare", 185},
	{"VRTX", "Vertex Pharma", "Healthcare", 130},
	{"PFE", "Pfizer", "Healthcare", 145},
	{"GE", "GE Aerospace", "Industrials", 205},
	{"RTX", "RTX Corp", "Industrials", 175},
	{"HON", "Honeywell", "Industrials", 130},
	{"CAT", "Caterpillar", "Industrials", 195},
	{"UNP", "Union Pacific", "Industrials", 145},
	{"LMT", "Lockheed Martin", "Industrials", 120},
	{"DE", "Deere", "Industrials", 115},
	{"BA", "Boeing", "Industrials", 105},
	{"FDX", "FedEx", "Industrials", 63},
	{"UPS", "UPS", "Industrials", 85},
	{"XOM", "ExxonMobil", "Energy", 510},
	{"CVX", "Chevron", "Energy", 280},
	{"COP", "ConocoPhillips", "Energy", 135},
	{"EOG", "EOG Resources", "Energy", 65},
	{"SLB", "SLB", "Energy", 58},
	{"MPC", "Marathon Petroleum", "Energy", 55},
	{"OXY", "Occidental", "Energy", 47},
	{"PSX", "Phillips 66", "Energy", 45},
	{"LIN", "Linde", "Materials", 215},
	{"APD", "Air Products", "Materials", 63},
	{"SHW", "Sherwin-Williams", "Materials", 85},
	{"ECL", "Ecolab", "Materials", 65},
	{"FCX", "Freeport-McMoRan", "Materials", 55},
	{"NEM", "Newmont", "Materials", 55},
	{"AMT", "American Tower", "Real Estate", 90},
	{"PLD", "Prologis", "Real Estate", 105},
	{"EQIX", "Equinix", "Real Estate", 78},
	{"CCI", "Crown Castle", "Real Estate", 45},
	{"PSA", "Public Storage", "Real Estate", 55},
	{"O", "Realty Income", "Real Estate", 48},
	{"SPG", "Simon Property", "Real Estate", 60},
	{"DLR", "Digital Realty", "Real Estate", 55},
	{"NEE", "NextEra Energy", "Utilities", 145},
	{"DUK", "Duke Energy", "Utilities", 85},
	{"SO", "Southern Company", "Utilities", 90},
	{"D", "Dominion Energy", "Utilities", 47},
	{"AEP", "American Electric", "Utilities", 52},
	{"EXC", "Exelon", "Utilities", 38},
	{"SRE", "Sempra", "Utilities", 48},
}

// HeatmapTickers returns the tickers of the heatmap universe.
func HeatmapTickers() []string {
	tickers := make([]string, len(HeatmapUniverse))
	for i, s := range HeatmapUniverse {
		tickers[i] = s.Ticker
	}
	return tickers
}

// FetchHeatmap returns the FetchFunc of the heatmap quotes. It fails only
// when no quote at all could be fetched.
func FetchHeatmap(p QuoteProvider, workers int) FetchFunc[map[string]Quote] {
	return func(ctx context.Context) (map[string]Quote, []string, error) {
		quotes, errs := FetchQuotes(ctx, p, HeatmapTickers(), workers)
		if len(quotes) == 0 && len(errs) > 0 {
			return nil, errs, fmt.Errorf("no quote fetched, first error: %s", errs[0])
		}
		return quotes, errs, nil
	}
}

// Tile is a heatmap cell: sized by CapB, coloured by DayChange.
type Tile struct {
	Ticker    string   `json:"ticker"`
	Name      string   `json:"name"`
	CapB      float64  `json:"mkt_cap_b"`
	DayChange *float64 `json:"day_chg"`
	Price     *float64 `json:"price"`
}

// HeatmapSector groups the tiles of a sector, largest first.
type HeatmapSector struct {
	Sector string  `json:"sector"`
	CapB   float64 `json:"total_cap_b"`
	Tiles  []Tile  `json:"stocks"`
}

// BuildHeatmap lays out the universe by sector, in SectorOrder. Tickers
// without a quote get a nil DayChange.
func BuildHeatmap(quotes map[string]Quote) []HeatmapSector {
	bySector := make(map[string]*HeatmapSector, len(SectorOrder))
	for _, s := range HeatmapUniverse {
		sec := bySector[s.Sector]
		if sec == nil {
			sec = &HeatmapSector{Sector: s.Sector}
			bySector[s.Sector] = sec
		}
		tile := Tile{Ticker: s.Ticker, Name: s.Name, CapB: s.CapB}
		if q, ok := quotes[s.Ticker]; ok {
			tile.DayChange = finite(q.DayChangePct)
			tile.Price = finite(q.Price)
		}
		sec.Tiles = append(sec.Tiles, tile)
		sec.CapB += s.CapB
	}

	sectors := make([]HeatmapSector, 0, len(bySector))
	for _, name := range SectorOrder {
		sec, ok := bySector[name]
		if !ok {
			continue
		}
		slices.SortStableFunc(sec.Tiles, func(a, b Tile) int { return cmp.Compare(b.CapB, a.CapB) })
		sectors = append(sectors, *sec)
	}
	return sectors
}
