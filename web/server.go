// Package web serves the ystocker dashboard.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/edgar"
	"github.com/etnz/ystocker/fred"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
)

// Analyst writes a short note about a quote.
type Analyst interface {
	Insight(ctx context.Context, q ystocker.Quote) (string, error)
}

// Server holds everything the handlers need.
type Server struct {
	Groups   *ystocker.PeerGroups
	Provider ystocker.QuoteProvider
	Board    *ystocker.Store[ystocker.Board]
	Heatmap  *ystocker.Store[map[string]ystocker.Quote]
	Fed      *ystocker.Store[fred.Snapshot]
	Holdings *ystocker.Store[edgar.Snapshot]
	Analyst  Analyst // nil when AI insight is disabled
}

// BuildServer returns the echo instance serving every route.
func (s *Server) BuildServer(loglevel string) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(glog.DEBUG)
	case "info":
		e.Logger.SetLevel(glog.INFO)
	case "error", "fatal":
		e.Logger.SetLevel(glog.ERROR)
	default:
		e.Logger.SetLevel(glog.WARN)
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = r

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= 500 {
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
		}
	}

	e.Use(accessLog)
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(resolveLanguage)

	e.GET("/", s.index)
	e.GET("/sector/*", s.sector)
	e.GET("/refresh", s.refresh)
	e.GET("/api/cache-age", s.cacheAge)

	e.GET("/groups", s.groups)
	e.POST("/groups/add-group", s.addGroup)
	e.POST("/groups/delete-group", s.deleteGroup)
	e.POST("/groups/add-ticker", s.addTicker)
	e.POST("/groups/remove-ticker", s.removeTicker)

	e.GET("/history/:ticker", s.history)
	e.GET("/api/history/:ticker", s.apiHistory)
	e.GET("/lookup", s.lookup)
	e.GET("/api/ticker/:ticker", s.apiTicker)
	e.GET("/api/discover", s.apiDiscover)
	e.GET("/forecast/:ticker", s.forecast)
	e.GET("/api/forecast/:ticker", s.apiForecast)
	e.GET("/api/insight/:ticker", s.apiInsight)

	e.GET("/fed", s.fed)
	e.GET("/api/fed", s.apiFed)
	e.GET("/13f", s.funds)
	e.GET("/13f/:fund", s.fund)
	e.GET("/api/13f", s.api13F)
	e.GET("/heatmap", s.heatmap)
	e.GET("/api/heatmap", s.apiHeatmap)

	e.GET("/contact", s.contact)
	e.GET("/about", s.about)
	return e, nil
}

// accessLog logs every request through apex/log.
func accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		req := c.Request()
		log.WithFields(log.Fields{
			"method":  req.Method,
			"path":    req.URL.Path,
			"status":  c.Response().Status,
			"latency": time.Since(start).Round(time.Millisecond),
		}).Info("request")
		return nil
	}
}

// Start serves on addr until ctx is done.
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("dashboard listening")
		errc <- e.Start(addr)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
