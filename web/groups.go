package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/etnz/ystocker"
	"github.com/labstack/echo/v4"
)

func (s *Server) groups(c echo.Context) error {
	return c.Render(http.StatusOK, "groups", s.page(c, "groups.title", s.Groups.Groups()))
}

func (s *Server) backToGroups(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/groups")
}

func (s *Server) addGroup(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("group_name"))
	switch err := s.Groups.AddGroup(c.Request().Context(), name); {
	case errors.Is(err, ystocker.ErrEmptyName):
		addFlash(c, "error", "flash.empty_name")
	case errors.Is(err, ystocker.ErrGroupExists):
		addFlash(c, "error", "flash.group_exists", name)
	case err != nil:
		return err
	default:
		addFlash(c, "success", "flash.group_created", name)
	}
	return s.backToGroups(c)
}

func (s *Server) deleteGroup(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("group_name"))
	if s.Groups.DeleteGroup(c.Request().Context(), name) {
		addFlash(c, "success", "flash.group_deleted", name)
	}
	return s.backToGroups(c)
}

func (s *Server) addTicker(c echo.Context) error {
	group := strings.TrimSpace(c.FormValue("group_name"))
	ticker := ystocker.NormalizeTicker(c.FormValue("ticker"))
	switch err := s.Groups.AddTicker(c.Request().Context(), group, ticker); {
	case errors.Is(err, ystocker.ErrGroupNotFound):
		addFlash(c, "error", "flash.group_not_found", group)
	case errors.Is(err, ystocker.ErrEmptyTicker):
		addFlash(c, "error", "flash.empty_ticker")
	case errors.Is(err, ystocker.ErrTickerExists):
		addFlash(c, "error", "flash.ticker_exists", ticker, group)
	case err != nil:
		return err
	default:
		addFlash(c, "success", "flash.ticker_added", ticker, group)
	}
	return s.backToGroups(c)
}

func (s *Server) removeTicker(c echo.Context) error {
	group := strings.TrimSpace(c.FormValue("group_name"))
	ticker := ystocker.NormalizeTicker(c.FormValue("ticker"))
	if s.Groups.RemoveTicker(c.Request().Context(), group, ticker) {
		addFlash(c, "success", "flash.ticker_removed", ticker, group)
	}
	return s.backToGroups(c)
}
