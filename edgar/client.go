// Package edgar retrieves the 13F institutional holdings of a fixed list of
// funds from SEC EDGAR.
//
// For each fund the latest 13F-HR filing is located through the submissions
// API, its information table XML is discovered and parsed, and positions are
// compared with the previous quarter's filing.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	"golang.org/x/time/rate"
)

// CacheFile is the blob name of the cached snapshot.
const CacheFile = "sec13f_cache.json"

// DefaultUserAgent identifies the client as SEC fair access rules require.
const DefaultUserAgent = "yStocker/1.0 ystocker-app@example.com"

var (
	ErrNoFilings   = errors.New("No 13F-HR filings found")
	ErrNoInfoTable = errors.New("Could not locate infotable XML")
)

// StatusError is a non 2xx answer from EDGAR.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client is a rate limited EDGAR client.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	DataURL   string // submissions and index host
	WWWURL    string // filing documents host

	Limiter    *rate.Limiter
	RetryAfter time.Duration // pause after a 429
}

// New returns a client spacing requests by 150ms. When cacheDir is not
// empty, archive documents are cached there.
func New(userAgent, cacheDir string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	var transport http.RoundTripper = http.DefaultTransport
	if cacheDir != "" {
		transport = &archiveCache{base: transport, dir: cacheDir}
	}
	return &Client{
		// the transport negotiates and decodes gzip itself.
		HTTP:       &http.Client{Transport: transport, Timeout: 20 * time.Second},
		UserAgent:  userAgent,
		DataURL:    "https://data.sec.gov",
		WWWURL:     "https://www.sec.gov",
		Limiter:    rate.NewLimiter(rate.Every(150*time.Millisecond), 1),
		RetryAfter: 2 * time.Second,
	}
}

// fetch performs a rate limited GET, retried once after a 429.
func (c *Client) fetch(ctx context.Context, addr string) (int, []byte, error) {
	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return 0, nil, err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return 0, nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, nil, err
		}
		log.WithFields(log.Fields{"url": addr, "status": resp.StatusCode}).Debug("edgar")
		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			log.Warnf("SEC rate limit hit, sleeping %s", c.RetryAfter)
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(c.RetryAfter):
			}
			continue
		}
		return resp.StatusCode, body, nil
	}
}

// get returns the body of a 2xx answer.
func (c *Client) get(ctx context.Context, addr string) ([]byte, error) {
	code, body, err := c.fetch(ctx, addr)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{URL: addr, Code: code}
	}
	return body, nil
}

// getMaybe is like get but reports a 404, 403 or 503 as absent.
func (c *Client) getMaybe(ctx context.Context, addr string) ([]byte, bool, error) {
	code, body, err := c.fetch(ctx, addr)
	if err != nil {
		return nil, false, err
	}
	switch code {
	case http.StatusNotFound, http.StatusForbidden, http.StatusServiceUnavailable:
		return nil, false, nil
	}
	if code < 200 || code >= 300 {
		return nil, false, &StatusError{URL: addr, Code: code}
	}
	return body, true, nil
}
