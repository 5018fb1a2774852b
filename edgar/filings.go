package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Filing is one 13F-HR submission.
type Filing struct {
	Accession       string // without dashes
	FilingDate      string
	PeriodOfReport  string
	PrimaryDocument string
}

// DashedAccession returns the accession number in its 0001234567-24-000123 form.
func (f Filing) DashedAccession() string {
	a := f.Accession
	if len(a) != 18 {
		return a
	}
	return a[:10] + "-" + a[10:12] + "-" + a[12:]
}

/*
Submissions are served as parallel arrays:

	{
	    "cik": "1067983",
	    "name": "BERKSHIRE HATHAWAY INC",
	    "filings": {
	        "recent": {
	            "accessionNumber": ["0000950123-24-011775", ...],
	            "filingDate": ["2024-11-14", ...],
	            "reportDate": ["2024-09-30", ...],
	            "form": ["13F-HR", ...],
	            "primaryDocument": ["xslForm13F_X02/primary_doc.xml", ...]
	        },
	        "files": [...]
	    }
	}
*/

// Filings returns the 13F-HR filings of a CIK, one per reporting period,
// latest first. When a period was amended, the filing whose primary
// document is not primary_doc.xml is preferred.
func (c *Client) Filings(ctx context.Context, cik string) ([]Filing, error) {
	addr := fmt.Sprintf("%s/submissions/CIK%s.json", c.DataURL, cik)
	body, err := c.get(ctx, addr)
	if err != nil {
		return nil, err
	}
	return parseSubmissions(body)
}

func parseSubmissions(body []byte) ([]Filing, error) {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return nil, fmt.Errorf("cannot parse submissions: %w", err)
	}
	column := func(name string) ([]string, error) {
		path := "$.filings.recent." + name
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", path, err)
		}
		list, ok := jval.([]any)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: not a list", path)
		}
		values := make([]string, len(list))
		for i, v := range list {
			values[i], _ = v.(string)
		}
		return values, nil
	}
	forms, err := column("form")
	if err != nil {
		return nil, err
	}
	accessions, err := column("accessionNumber")
	if err != nil {
		return nil, err
	}
	filed, err := column("filingDate")
	if err != nil {
		return nil, err
	}
	periods, err := column("reportDate")
	if err != nil {
		return nil, err
	}
	docs, err := column("primaryDocument")
	if err != nil {
		return nil, err
	}
	at := func(values []string, i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	var order []string
	byPeriod := make(map[string]Filing)
	for i, form := range forms {
		if form != "13F-HR" && form != "13F-HR/A" {
			continue
		}
		f := Filing{
			Accession:       strings.ReplaceAll(at(accessions, i), "-", ""),
			FilingDate:      at(filed, i),
			PeriodOfReport:  at(periods, i),
			PrimaryDocument: at(docs, i),
		}
		prev, seen := byPeriod[f.PeriodOfReport]
		if !seen {
			order = append(order, f.PeriodOfReport)
			byPeriod[f.PeriodOfReport] = f
			continue
		}
		if isCover(prev.PrimaryDocument) && !isCover(f.PrimaryDocument) {
			byPeriod[f.PeriodOfReport] = f
		}
	}
	filings := make([]Filing, 0, len(order))
	for _, p := range order {
		filings = append(filings, byPeriod[p])
	}
	return filings, nil
}

// isCover reports a bare primary_doc.xml, the cover page of agent filed
// wrappers.
func isCover(doc string) bool {
	return strings.EqualFold(doc, "primary_doc.xml")
}

func basename(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// cikPath returns the CIK without leading zeros as used in archive paths.
func cikPath(cik string) string {
	n, err := strconv.ParseInt(cik, 10, 64)
	if err != nil {
		return strings.TrimLeft(cik, "0")
	}
	return strconv.FormatInt(n, 10)
}
