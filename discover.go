package ystocker

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DiscoverSource names where Discover found its tickers.
const DiscoverSource = "built-in"

var discoverLists = map[string][]string{
	// sectors
	"technology":             {"MSFT", "AAPL", "NVDA", "GOOGL", "META", "AVGO", "ORCL", "CSCO", "IBM", "INTC"},
	"healthcare":             {"UNH", "JNJ", "LLY", "ABBV", "MRK", "TMO", "ABT", "DHR", "PFE", "BMY"},
	"financials":             {"BRK-B", "JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "BLK", "SCHW"},
	"consumer discretionary": {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW", "TGT", "BKNG", "CMG"},
	"consumer staples":       {"PG", "KO", "PEP", "COST", "WMT", "PM", "MO", "CL", "MDLZ", "EL"},
	"energy":                 {"XOM", "CVX", "COP", "EOG", "SLB", "MPC", "PSX", "VLO", "OXY", "KMI"},
	"industrials":            {"GE", "RTX", "HON", "CAT", "UNP", "BA", "LMT", "DE", "MMM", "FDX"},
	"materials":              {"LIN", "APD", "ECL", "SHW", "FCX", "NEM", "NUE", "VMC", "MLM", "ALB"},
	"utilities":              {"NEE", "DUK", "SO", "D", "AEP", "EXC", "SRE", "XEL", "ED", "ETR"},
	"real estate":            {"AMT", "PLD", "CCI", "EQIX", "PSA", "O", "DLR", "WELL", "SPG", "AVB"},
	"communication services": {"GOOGL", "META", "VZ", "T", "NFLX", "DIS", "CMCSA", "TMUS", "EA", "TTWO"},
	// industries
	"semiconductors": {"NVDA", "AMD", "INTC", "QCOM", "TSM", "AVGO", "TXN", "MU", "AMAT", "LRCX"},
	"software":       {"MSFT", "ORCL", "CRM", "NOW", "ADBE", "INTU", "SNOW", "TEAM", "WDAY", "ZM"},
	"cloud":          {"AMZN", "MSFT", "GOOGL", "CRM", "NOW", "SNOW", "MDB", "DDOG", "NET", "ZS"},
	"ev":             {"TSLA", "RIVN", "NIO", "GM", "F", "LCID", "LI", "XPEV", "STLA", "MBGAF"},
	"biotech":        {"AMGN", "GILD", "BIIB", "VRTX", "REGN", "MRNA", "ILMN", "SGEN", "ALNY", "BMRN"},
	"banks":          {"JPM", "BAC", "WFC", "C", "GS", "MS", "USB", "PNC", "TFC", "COF"},
	"insurance":      {"BRK-B", "MET", "PRU", "AFL", "AIG", "CB", "TRV", "ALL", "HIG", "PGR"},
	"retail":         {"AMZN", "WMT", "COST", "TGT", "HD", "LOW", "TJX", "ROST", "DLTR", "BBY"},
	"airlines":       {"DAL", "UAL", "AAL", "LUV", "ALK", "JBLU", "HA", "SAVE", "SKYW", "MESA"},
	"defense":        {"LMT", "RTX", "NOC", "GD", "BA", "HII", "KTOS", "CACI", "LDOS", "SAIC"},
}

// Discover returns the leading tickers of a sector or industry, looked up
// case insensitively. An empty name is ErrEmptyName, an unknown one wraps
// ErrNotFound.
func Discover(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	tickers, ok := discoverLists[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no built-in data for %q: %w", name, ErrNotFound)
	}
	return slices.Clone(tickers), nil
}

// DiscoverNames returns the known sector and industry names, sorted.
func DiscoverNames() []string {
	return slices.Sorted(maps.Keys(discoverLists))
}
