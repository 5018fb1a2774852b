package web

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/docs"
	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/fred"
	"github.com/labstack/echo/v4"
)

type fedData struct {
	Series      []fred.Series
	Latest      []fred.Observation
	Snapshot    fred.Snapshot
	LastUpdated time.Time
	Error       string
}

// fedSnapshot returns the Fed snapshot, fetching it when the cache is
// stale or refresh is set.
func (s *Server) fedSnapshot(c echo.Context) (ystocker.Snapshot[fred.Snapshot], error) {
	ctx := c.Request().Context()
	if c.QueryParam("refresh") == "1" {
		if err := s.Fed.Refresh(ctx); err != nil {
			return ystocker.Snapshot[fred.Snapshot]{}, err
		}
	}
	return s.Fed.GetOrFetch(ctx)
}

func (s *Server) fed(c echo.Context) error {
	data := fedData{Series: fred.H41}
	snap, err := s.fedSnapshot(c)
	if err != nil {
		data.Error = err.Error()
	} else {
		data.Snapshot = snap.Data
		data.Latest = snap.Data.Latest()
		data.LastUpdated = snap.Time()
	}
	p := s.page(c, "fed.title", data)
	p.FetchErrors = snap.Errors
	return c.Render(http.StatusOK, "fed", p)
}

func (s *Server) apiFed(c echo.Context) error {
	snap, err := s.fedSnapshot(c)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"timestamp": snap.Timestamp,
		"errors":    snap.Errors,
		"series":    snap.Data.Series,
	})
}

// fundRow is a line of the fund list.
type fundRow struct {
	edgar.Fund
	URL      string
	Holdings edgar.FundHoldings
	Loaded   bool
}

type fundsData struct {
	Funds       []fundRow
	LastUpdated time.Time
	Warming     bool
}

func (s *Server) funds(c echo.Context) error {
	snap, ok := s.Holdings.Get()
	data := fundsData{Warming: !ok || s.Holdings.Warming()}
	if ok {
		data.LastUpdated = snap.Time()
	}
	for _, f := range edgar.Funds {
		h, loaded := snap.Data[f.Name]
		data.Funds = append(data.Funds, fundRow{Fund: f, URL: "/13f/" + url.PathEscape(f.Name), Holdings: h, Loaded: loaded})
	}
	return c.Render(http.StatusOK, "funds", s.page(c, "f13.title", data))
}

type fundData struct {
	Fund edgar.Fund
	edgar.FundHoldings
	Loaded bool
}

func (s *Server) fund(c echo.Context) error {
	name := c.Param("fund")
	if n, err := url.PathUnescape(name); err == nil {
		name = n
	}
	f, ok := edgar.FundByName(name)
	if !ok {
		return s.notFound(c, "error.fund_not_found", name)
	}
	snap, _ := s.Holdings.Get()
	h, loaded := snap.Data[f.Name]
	return c.Render(http.StatusOK, "fund", s.page(c, "f13.fund_title", fundData{Fund: f, FundHoldings: h, Loaded: loaded}, f.Name))
}

func (s *Server) api13F(c echo.Context) error {
	resp := map[string]any{"warming": s.Holdings.Warming(), "timestamp": nil, "funds": edgar.Snapshot{}}
	if snap, ok := s.Holdings.Get(); ok {
		resp["timestamp"] = snap.Timestamp
		resp["funds"] = snap.Data
	} else {
		resp["warming"] = true
	}
	return c.JSON(http.StatusOK, resp)
}

type heatmapData struct {
	Sectors     []ystocker.HeatmapSector
	LastUpdated time.Time
	Warming     bool
}

func (s *Server) heatmapView() heatmapData {
	snap, ok := s.Heatmap.Get()
	data := heatmapData{Sectors: ystocker.BuildHeatmap(snap.Data), Warming: !ok || s.Heatmap.Warming()}
	if ok {
		data.LastUpdated = snap.Time()
	}
	return data
}

func (s *Server) heatmap(c echo.Context) error {
	return c.Render(http.StatusOK, "heatmap", s.page(c, "heatmap.title", s.heatmapView()))
}

func (s *Server) apiHeatmap(c echo.Context) error {
	data := s.heatmapView()
	var ts any
	if !data.LastUpdated.IsZero() {
		ts = float64(data.LastUpdated.UnixNano()) / 1e9
	}
	return c.JSON(http.StatusOK, map[string]any{"sectors": data.Sectors, "timestamp": ts, "warming": data.Warming})
}

func (s *Server) contact(c echo.Context) error {
	return c.Render(http.StatusOK, "contact", s.page(c, "contact.title", nil))
}

// aboutTopics are the documentation topics shown on the about page.
var aboutTopics = []string{"metrics", "groups", "cache", "fed", "holdings", "forecast"}

func (s *Server) about(c echo.Context) error {
	html, err := docs.HTML(aboutTopics...)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "about", s.page(c, "about.title", template.HTML(html)))
}
