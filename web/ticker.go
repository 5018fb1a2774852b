package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/agent"
	"github.com/etnz/ystocker/forecast"
	"github.com/labstack/echo/v4"
)

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

func tickerParam(c echo.Context) string {
	return ystocker.NormalizeTicker(c.Param("ticker"))
}

func (s *Server) history(c echo.Context) error {
	ticker := tickerParam(c)
	return c.Render(http.StatusOK, "history", s.page(c, "history.title", ticker, ticker))
}

func (s *Server) apiHistory(c echo.Context) error {
	ctx := c.Request().Context()
	ticker := tickerParam(c)
	raw, err := s.Provider.Quote(ctx, ticker)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	bars, err := s.Provider.History(ctx, ticker, ystocker.OneYearWeekly)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	if len(bars) == 0 {
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("No price history for '%s'.", ticker))
	}
	return c.JSON(http.StatusOK, ystocker.ValuationHistory(ticker, raw, bars))
}

type lookupData struct {
	Groups []string
	Names  []string
}

func (s *Server) lookup(c echo.Context) error {
	data := lookupData{Groups: s.Groups.Names(), Names: ystocker.DiscoverNames()}
	return c.Render(http.StatusOK, "lookup", s.page(c, "lookup.title", data))
}

// apiTicker fetches a single quote and merges it into the board groups that
// list the ticker.
func (s *Server) apiTicker(c echo.Context) error {
	ticker := tickerParam(c)
	q, err := ystocker.FetchQuote(c.Request().Context(), s.Provider, ticker)
	if err != nil {
		log.WithField("ticker", ticker).WithError(err).Warn("lookup failed")
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	if q.Empty() {
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("No data found for '%s'. Check the symbol.", ticker))
	}
	if groups := s.Groups.GroupsOf(ticker); len(groups) > 0 {
		s.Board.Update(func(b ystocker.Board) ystocker.Board { return b.With(q, groups) })
	}
	return c.JSON(http.StatusOK, q)
}

func (s *Server) apiDiscover(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	log.WithFields(log.Fields{"type": c.QueryParam("type"), "name": name}).Info("discover")
	tickers, err := ystocker.Discover(name)
	switch {
	case errors.Is(err, ystocker.ErrEmptyName):
		return jsonError(c, http.StatusBadRequest, "Missing 'name' parameter")
	case err != nil:
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("No built-in data for '%s'. Try a different name.", name))
	}
	return c.JSON(http.StatusOK, map[string]any{"tickers": tickers, "source": ystocker.DiscoverSource})
}

func (s *Server) forecast(c echo.Context) error {
	ticker := tickerParam(c)
	return c.Render(http.StatusOK, "forecast", s.page(c, "forecast.title", ticker, ticker))
}

func (s *Server) apiForecast(c echo.Context) error {
	ticker := tickerParam(c)
	res, err := forecast.Run(c.Request().Context(), s.Provider, ticker)
	var fe *ystocker.FetchError
	switch {
	case errors.As(err, &fe):
		return jsonError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, ystocker.ErrNotFound):
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("No price history for '%s'.", ticker))
	case errors.Is(err, forecast.ErrNotEnoughData):
		return jsonError(c, http.StatusNotFound, err.Error())
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) apiInsight(c echo.Context) error {
	if s.Analyst == nil {
		return jsonError(c, http.StatusServiceUnavailable, agent.ErrDisabled.Error())
	}
	ctx := c.Request().Context()
	ticker := tickerParam(c)
	q, err := ystocker.FetchQuote(ctx, s.Provider, ticker)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	if q.Empty() {
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("No data found for '%s'. Check the symbol.", ticker))
	}
	note, err := s.Analyst.Insight(ctx, q)
	switch {
	case errors.Is(err, agent.ErrDisabled):
		return jsonError(c, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		log.WithField("ticker", ticker).WithError(err).Error("insight failed")
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"ticker": ticker, "insight": note})
}
