package edgar

import "strings"

// Fund is an institutional manager filing 13F reports.
type Fund struct {
	Name string
	CIK  string // zero padded to 10 digits
}

// Funds lists the tracked managers in display order.
var Funds = []Fund{
	// mega funds
	{"Berkshire Hathaway", "0001067983"},
	{"Vanguard Group", "0000102909"},
	{"BlackRock", "0002012383"},
	{"State Street", "0000093751"},
	{"Fidelity (FMR)", "0000315066"},

	// macro and multi-strategy
	{"Bridgewater Associates", "0001350694"},
	{"Citadel Advisors", "0001423053"},
	{"Millennium Management", "0001273087"},
	{"Point72 Asset Management", "0001603466"},
	{"DE Shaw", "0001009207"},

	// tiger cubs and growth equity
	{"Tiger Global", "0001167483"},
	{"Coatue Management", "0001336528"},
	{"Viking Global", "0001103804"},
	{"Lone Pine Capital", "0001061165"},
	{"Maverick Capital", "0000934639"},

	// value and activist
	{"Third Point", "0001040273"},
	{"Pershing Square", "0002026053"},
	{"Baupost Group", "0001061768"},
	{"Elliott Management", "0001791786"},
	{"Starboard Value", "0001517137"},

	// growth and tech
	{"Soros Fund Management", "0001029160"},
	{"Duquesne Family Office", "0001536411"},
	{"ARK Investment", "0001697748"},
	{"Whale Rock Capital", "0001387322"},

	// quant
	{"Renaissance Technologies", "0001037389"},
	{"Two Sigma Investments", "0001179392"},
	{"AQR Capital", "0001167557"},
}

// FundByName finds a fund by name, ignoring case.
func FundByName(name string) (Fund, bool) {
	name = strings.TrimSpace(name)
	for _, f := range Funds {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Fund{}, false
}

// TickerOf returns the ticker of a CUSIP, or "" when it is not known.
func TickerOf(cusip string) string { return cusipTickers[cusip] }

// cusipTickers maps the CUSIP of common large caps to their ticker, so that
// no lookup service is needed.
var cusipTickers = map[string]string{
	"037833100": "AAPL",
	"02079K305": "GOOGL",
	"02079K107": "GOOGL",
	"594918104": "MSFT",
	"023135106": "AMZN",
	"67066G104": "NVDA",
	"30303M102": "META",
	"88160R101": "TSLA",
	"46090E103": "JPM",
	"172967424": "BRK-B",
	"166764100": "C",
	"949746101": "WFC",
	"38141G104": "GS",
	"617446448": "MS",
	"26441C204": "KO",
	"713448108": "PEP",
	"732834105": "PG",
	"459200101": "IBM",
	"097023105": "BA",
	"742718109": "RTX",
	"110122108": "BRK-A",
	"437076102": "HD",
	"931142103": "WMT",
	"438516106": "HON",
	"254687106": "DIS",
	"912093108": "UNH",
	"460690100": "JNJ",
	"58933Y105": "MRK",
	"002824100": "ABT",
	"002921109": "ABBV",
	"339750101": "LLY",
	"698435105": "PFE",
	"478160104": "JCI",
	"92343V104": "VZ",
	"00206R102": "T",
	"742556105": "PRU",
	"855244109": "SQ",
	"064058100": "BAX",
	"651639106": "NFLX",
	"64110D104": "NET",
	"023608102": "AMGN",
	"655044105": "NKE",
	"717081103": "PFG",
	"891482102": "TD",
	"25470F104": "DKNG",
	"52736R102": "LVS",
	"88339J105": "TMUS",
	"025816109": "AXP",
	"369550108": "GE",
	"149123101": "CAT",
	"172967304": "BRK-B",
	"78467J100": "SPG",
	"46625H100": "JPM",
	"91324P102": "UPS",
	"268648102": "EL",
	"404280406": "GS",
	"61945C103": "MS",
	"78462F103": "S&P",
	"31428X106": "FDX",
	"631103108": "NOC",
	"526057104": "LMT",
	"38259P508": "GOOGL",
	"57060D108": "MA",
	"92826C839": "V",
	"49456B101": "KHC",
	"456788108": "INTU",
	"097693109": "ADBE",
	"40171V100": "GOOG",
	"76657R106": "RIVN",
	"650135108": "NIO",
	"811156100": "SCHW",
	"15135B101": "CEG",
	"637640103": "NEE",
	"458140100": "INTC",
	"009728109": "AMD",
	"72352L106": "PINS",
	"80105N105": "SNAP",
	"883556102": "TWTR",
	"78410G104": "SE",
	"74164M108": "BIDU",
	"01609W102": "BABA",
	"87936U109": "TME",
	"98421M106": "VIPS",
	"67020Y100": "NVS",
	"145220105": "CVX",
	"30231G102": "XOM",
	"202795101": "COP",
	"26875P101": "EOG",
	"263534109": "ECL",
	"36467W109": "GDX",
	"742514509": "PSX",
	"872540109": "TSN",
	"883948100": "TGT",
	"902494103": "TJX",
	"460148109": "JD",
	"548661107": "LOW",
	"84265V105": "SBUX",
	"009158106": "ADM",
	"06738G103": "BIIB",
	"74159L101": "REGN",
	"900111204": "VRTX",
	"60871R209": "MRNA",
	"345370860": "FCX",
	"643659105": "NEM",
	"670346105": "OXY",
	"693475105": "PSA",
	"895126505": "WBA",
	"500754106": "KR",
	"78814P168": "MELI",
	"18915M107": "CLOV",
	"67085R104": "OKTA",
	"09857L108": "SNOW",
	"156700106": "CRM",
	"20030N101": "COIN",
	"57667L107": "MSTR",
}
