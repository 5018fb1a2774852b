package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const flashCookie = "ystocker_flash"

// flash is a message shown once on the next page. Key is a message key
// formatted with Args in the language of that page.
type flash struct {
	Kind string   `json:"kind"`
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
}

// addFlash queues a message for the next page.
func addFlash(c echo.Context, kind, key string, args ...string) {
	flashes := readFlashes(c)
	flashes = append(flashes, flash{Kind: kind, Key: key, Args: args})
	b, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func readFlashes(c echo.Context) []flash {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []flash
	if err := json.Unmarshal(b, &flashes); err != nil {
		return nil
	}
	return flashes
}

// popFlashes returns the queued messages and clears them.
func popFlashes(c echo.Context) []flash {
	flashes := readFlashes(c)
	if flashes != nil {
		c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	}
	return flashes
}
