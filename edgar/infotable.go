package edgar

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	absoluteXMLLink = regexp.MustCompile(`(?i)href="(/Archives/edgar/data/[^"]+\.xml)"`)
	relativeXMLLink = regexp.MustCompile(`(?i)href="([^"]+\.xml)"`)
)

// guessedNames are tried as-is when no index could be read.
var guessedNames = []string{
	"infotable.xml",
	"information_table.xml",
	"13finfotable.xml",
	"form13fInfoTable.xml",
	"informationtable.xml",
	"InfoTable.xml",
	"13F_InfoTable.xml",
}

// FindInfoTable returns the URL of the information table XML of a filing.
// The JSON index is tried first, then the HTML index, then common file
// names. It returns ErrNoInfoTable when all of them fail.
func (c *Client) FindInfoTable(ctx context.Context, cik string, f Filing) (string, error) {
	cikInt := cikPath(cik)
	docBase := fmt.Sprintf("%s/Archives/edgar/data/%s/%s", c.WWWURL, cikInt, f.Accession)

	if addr, ok, err := c.fromJSONIndex(ctx, cikInt, f, docBase); err != nil || ok {
		return addr, err
	}
	if addr, ok, err := c.fromHTMLIndex(ctx, cikInt, f); err != nil || ok {
		return addr, err
	}

	var candidates []string
	if stem := strings.TrimSuffix(f.PrimaryDocument, pathExt(f.PrimaryDocument)); stem != "" {
		candidates = append(candidates, stem+"_infotable.xml", stem+"_info_table.xml", stem+"infotable.xml")
	}
	candidates = append(candidates, guessedNames...)
	for _, name := range candidates {
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}
		addr := docBase + "/" + name
		body, ok, err := c.getMaybe(ctx, addr)
		if err != nil {
			return "", err
		}
		if ok && len(bytes.TrimSpace(body)) > 0 {
			log.WithField("url", addr).Debug("found infotable via direct guess")
			return addr, nil
		}
	}
	log.Warnf("Could not find infotable for CIK %s accession %s", cikInt, f.Accession)
	return "", ErrNoInfoTable
}

func pathExt(p string) string {
	if i := strings.LastIndex(p, "."); i >= 0 {
		return p[i:]
	}
	return ""
}

/*
The JSON index lists the documents of a filing:

	{
	    "directory": {...},
	    "documents": [
	        {"name": "primary_doc.xml", "type": "13F-HR", "documentDescription": ""},
	        {"name": "50240.xml", "type": "INFORMATION TABLE", "documentDescription": ""}
	    ]
	}
*/

func (c *Client) fromJSONIndex(ctx context.Context, cikInt string, f Filing, docBase string) (string, bool, error) {
	addr := fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.json", c.DataURL, cikInt, f.Accession)
	body, ok, err := c.getMaybe(ctx, addr)
	if err != nil || !ok {
		return "", false, err
	}
	var index struct {
		Documents []struct {
			Name        string `json:"name"`
			Type        string `json:"type"`
			Description string `json:"documentDescription"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(body, &index); err != nil {
		log.WithError(err).WithField("url", addr).Debug("JSON index parse failed")
		return "", false, nil
	}
	for _, doc := range index.Documents {
		name := strings.ToLower(doc.Name)
		if strings.Contains(name, "xslform13f") {
			continue
		}
		if strings.ToUpper(doc.Type) == "INFORMATION TABLE" ||
			strings.Contains(strings.ToLower(doc.Description), "information table") ||
			strings.Contains(name, "infotable") ||
			strings.Contains(name, "info_table") {
			return docBase + "/" + doc.Name, true, nil
		}
	}
	for _, doc := range index.Documents {
		name := strings.ToLower(doc.Name)
		if strings.HasSuffix(name, ".xml") && !strings.Contains(name, "xslform13f") && basename(name) != "primary_doc.xml" {
			return docBase + "/" + doc.Name, true, nil
		}
	}
	return "", false, nil
}

// fromHTMLIndex scans the links of the HTML index page. Only the first page
// found is considered.
func (c *Client) fromHTMLIndex(ctx context.Context, cikInt string, f Filing) (string, bool, error) {
	dashed := f.DashedAccession()
	pages := []string{
		fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.htm", c.WWWURL, cikInt, dashed),
		fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.htm", c.DataURL, cikInt, dashed),
		fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.htm", c.WWWURL, cikInt, f.Accession),
		fmt.Sprintf("%s/Archives/edgar/data/%s/%s-index.htm", c.DataURL, cikInt, f.Accession),
	}
	for _, page := range pages {
		body, ok, err := c.getMaybe(ctx, page)
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		var links []string
		for _, m := range absoluteXMLLink.FindAllSubmatch(body, -1) {
			links = append(links, string(m[1]))
		}
		if len(links) == 0 {
			for _, m := range relativeXMLLink.FindAllSubmatch(body, -1) {
				link := string(m[1])
				if !strings.HasPrefix(link, "/") {
					link = fmt.Sprintf("/Archives/edgar/data/%s/%s/%s", cikInt, f.Accession, link)
				}
				links = append(links, link)
			}
		}
		log.WithFields(log.Fields{"url": page, "links": len(links)}).Info("13F HTML index")

		var raw []string
		for _, link := range links {
			if strings.Contains(link, "xslForm13F_X02/") || strings.ToLower(basename(link)) == "primary_doc.xml" {
				continue
			}
			raw = append(raw, link)
		}
		for _, link := range raw {
			name := strings.ToLower(basename(link))
			if strings.Contains(name, "infotable") || strings.Contains(name, "info_table") {
				return c.WWWURL + link, true, nil
			}
		}
		if len(raw) > 0 {
			return c.WWWURL + raw[0], true, nil
		}
		break
	}
	return "", false, nil
}

/*
An information table looks like:

	<informationTable xmlns="http://www.sec.gov/edgar/document/thirteenf/informationtable">
	  <infoTable>
	    <nameOfIssuer>APPLE INC</nameOfIssuer>
	    <titleOfClass>COM</titleOfClass>
	    <cusip>037833100</cusip>
	    <value>69900000</value>
	    <shrsOrPrnAmt>
	      <sshPrnamt>300000000</sshPrnamt>
	      <sshPrnamtType>SH</sshPrnamtType>
	    </shrsOrPrnAmt>
	    <putCall>Put</putCall>
	    ...
	  </infoTable>
	</informationTable>

Namespaces vary across filers so elements are matched by local name.
*/

type infoTableEntry struct {
	NameOfIssuer string `xml:"nameOfIssuer"`
	CUSIP        string `xml:"cusip"`
	Value        string `xml:"value"`
	PutCall      string `xml:"putCall"`
	Amount       *struct {
		Shares *string `xml:"sshPrnamt"`
	} `xml:"shrsOrPrnAmt"`
}

// parseInfoTable returns the equity positions of an information table.
// Options are skipped, as are entries whose amounts cannot be read.
func parseInfoTable(r io.Reader) ([]Holding, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	var holdings []Holding
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse information table: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "infoTable" {
			continue
		}
		var e infoTableEntry
		if err := dec.DecodeElement(&e, &start); err != nil {
			return nil, fmt.Errorf("cannot parse information table: %w", err)
		}
		if strings.TrimSpace(e.PutCall) != "" {
			continue
		}
		value := strings.TrimSpace(e.Value)
		if value == "" {
			value = "0"
		}
		valueK, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		var shares int64
		if e.Amount != nil {
			if e.Amount.Shares == nil {
				continue
			}
			if shares, err = strconv.ParseInt(strings.TrimSpace(*e.Amount.Shares), 10, 64); err != nil {
				continue
			}
		}
		cusip := strings.TrimSpace(e.CUSIP)
		holdings = append(holdings, Holding{
			CUSIP:          cusip,
			Name:           strings.TrimSpace(e.NameOfIssuer),
			Ticker:         TickerOf(cusip),
			Shares:         shares,
			ValueThousands: valueK,
			ValueMillions:  round1(float64(valueK) / 1000),
		})
	}
	log.Infof("13F information table: found %d holdings", len(holdings))
	return holdings, nil
}

// charsetReader decodes the legacy encodings some filers declare.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
