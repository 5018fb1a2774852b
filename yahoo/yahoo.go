// Package yahoo implements a ystocker.QuoteProvider on top of the Yahoo
// Finance JSON endpoints.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// modules requested from quoteSummary, they hold every field of a RawQuote.
const modules = "price,summaryDetail,defaultKeyStatistics,financialData"

// Client talks to Yahoo Finance. Its zero value is not usable, use New.
//
// Yahoo requires a session cookie and a matching "crumb" on every API call,
// the client gets both lazily and renews them once when they are rejected.
type Client struct {
	HTTP      *http.Client
	UserAgent string

	CookieURL       string // sets the session cookie
	CrumbURL        string // returns the crumb as plain text
	QuoteSummaryURL string // v10 quoteSummary, the ticker is appended
	ChartURL        string // v8 chart, the ticker is appended

	mu    sync.Mutex
	crumb string
}

// New returns a client with its own cookie jar.
func New() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		HTTP:            &http.Client{Jar: jar, Timeout: 30 * time.Second},
		UserAgent:       userAgent,
		CookieURL:       "https://fc.yahoo.com",
		CrumbURL:        "https://query1.finance.yahoo.com/v1/test/getcrumb",
		QuoteSummaryURL: "https://query1.finance.yahoo.com/v10/finance/quoteSummary/",
		ChartURL:        "https://query1.finance.yahoo.com/v8/finance/chart/",
	}
}

var _ ystocker.QuoteProvider = (*Client)(nil)

// statusError is a non 2xx answer.
type statusError struct {
	Code int
	Body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http status %d %s", e.Code, http.StatusText(e.Code))
}

func (c *Client) newRequest(ctx context.Context, addr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json,text/plain,*/*")
	return req, nil
}

// getCrumb returns the session crumb, it fetches a new one when force is
// set or when none is known yet.
func (c *Client) getCrumb(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" && !force {
		return c.crumb, nil
	}

	// fc.yahoo.com answers 404, but sets the session cookie, that's all we need.
	req, err := c.newRequest(ctx, c.CookieURL)
	if err != nil {
		return "", err
	}
	if resp, err := c.HTTP.Do(req); err == nil {
		resp.Body.Close()
	} else {
		log.WithError(err).Debug("yahoo cookie request failed")
	}

	req, err = c.newRequest(ctx, c.CrumbURL)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("get crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("get crumb: unexpected answer %q", crumb)
	}
	c.crumb = crumb
	log.Debug("yahoo crumb renewed")
	return crumb, nil
}

// apiGet calls a crumb protected endpoint, it renews the crumb once on
// 401/403.
func (c *Client) apiGet(ctx context.Context, base, ticker string, query url.Values) ([]byte, error) {
	force := false
	for attempt := 0; ; attempt++ {
		crumb, err := c.getCrumb(ctx, force)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("crumb", crumb)
		req, err := c.newRequest(ctx, base+url.PathEscape(ticker)+"?"+q.Encode())
		if err != nil {
			return nil, err
		}
		body, err := c.do(req)
		if se, ok := err.(*statusError); ok && attempt == 0 && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			force = true
			continue
		}
		return body, err
	}
}

// Quote implements ystocker.QuoteProvider.
func (c *Client) Quote(ctx context.Context, ticker string) (ystocker.RawQuote, error) {
	body, err := c.apiGet(ctx, c.QuoteSummaryURL, ticker, url.Values{
		"modules":   {modules},
		"formatted": {"false"},
	})
	if se, ok := err.(*statusError); ok && se.Code == http.StatusNotFound {
		// unknown symbol, same as an empty answer.
		log.WithField("ticker", ticker).Debug("yahoo: quote not found")
		return ystocker.RawQuote{}, nil
	}
	if err != nil {
		return ystocker.RawQuote{}, &ystocker.FetchError{Ticker: ticker, Err: err}
	}
	raw, err := parseQuoteSummary(body)
	if err != nil {
		return ystocker.RawQuote{}, &ystocker.FetchError{Ticker: ticker, Err: err}
	}
	return raw, nil
}

// History implements ystocker.QuoteProvider.
func (c *Client) History(ctx context.Context, ticker string, span ystocker.Span) ([]ystocker.Bar, error) {
	body, err := c.apiGet(ctx, c.ChartURL, ticker, url.Values{
		"range":    {span.Range},
		"interval": {span.Interval},
		"events":   {"div,splits"},
	})
	if se, ok := err.(*statusError); ok && se.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, &ystocker.FetchError{Ticker: ticker, Err: err}
	}
	bars, err := parseChart(body)
	if err != nil {
		return nil, &ystocker.FetchError{Ticker: ticker, Err: err}
	}
	return bars, nil
}
