package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/ystocker"
	"github.com/labstack/echo/v4"
)

// card is a peer group summary of the home page.
type card struct {
	Name string
	URL  string
	Rows []ystocker.ChartRow
}

type indexData struct {
	Cards       []card
	Rows        []ystocker.ChartRow // every row tagged with its group
	LastUpdated time.Time
	Warming     bool
}

func (s *Server) warming(c echo.Context) error {
	return c.Render(http.StatusServiceUnavailable, "warming", s.page(c, "warming.title", nil))
}

func (s *Server) notFound(c echo.Context, key string, args ...any) error {
	p := s.page(c, "error.title", nil)
	p.Data = p.T(key, args...)
	return c.Render(http.StatusNotFound, "error", p)
}

func (s *Server) index(c echo.Context) error {
	snap, ok := s.Board.Get()
	if !ok {
		return s.warming(c)
	}
	data := indexData{LastUpdated: snap.Time(), Warming: s.Board.Warming(), Rows: []ystocker.ChartRow{}}
	for _, name := range snap.Data.Names(s.Groups.Groups()) {
		tickers, _ := s.Groups.Tickers(name)
		rows := snap.Data.Rows(name, tickers)
		data.Cards = append(data.Cards, card{Name: name, URL: "/sector/" + pathEscape(name), Rows: rows})
		for _, r := range rows {
			r.Sector = name
			data.Rows = append(data.Rows, r)
		}
	}
	p := s.page(c, "index.title", data)
	p.FetchErrors = snap.Errors
	return c.Render(http.StatusOK, "index", p)
}

type sectorData struct {
	Name string
	Rows []ystocker.ChartRow
}

func sectorName(c echo.Context) string {
	name := c.Param("*")
	if n, err := url.PathUnescape(name); err == nil {
		name = n
	}
	return name
}

func (s *Server) sector(c echo.Context) error {
	name := sectorName(c)
	snap, ok := s.Board.Get()
	if !ok {
		return s.warming(c)
	}
	if !snap.Data.Has(name) {
		return s.notFound(c, "error.sector_not_found", name)
	}
	tickers, _ := s.Groups.Tickers(name)
	p := s.page(c, "sector.title", sectorData{Name: name, Rows: snap.Data.Rows(name, tickers)}, name)
	p.FetchErrors = snap.Errors
	return c.Render(http.StatusOK, "sector", p)
}

func (s *Server) refresh(c echo.Context) error {
	s.Board.Invalidate(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) cacheAge(c echo.Context) error {
	resp := map[string]any{"age_seconds": nil, "last_updated": nil}
	if snap, ok := s.Board.Get(); ok {
		resp["age_seconds"] = int(time.Since(snap.Time()).Seconds())
		resp["last_updated"] = snap.Timestamp
	}
	return c.JSON(http.StatusOK, resp)
}

// pathEscape escapes a group name for a /sector/ URL.
func pathEscape(name string) string { return url.PathEscape(name) }
