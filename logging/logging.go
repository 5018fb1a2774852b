// Package logging installs the apex/log handler used by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// Init sets a Handler writing to stderr and the level from a string such as
// "debug" or "WARN". An unknown level falls back to info.
func Init(level string) {
	log.SetHandler(&Handler{w: os.Stderr})
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Handler writes one terse line per entry:
//
//	15:04:05 I fetched from FRED obs=1200 series=WALCL
type Handler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New returns a Handler writing to w.
func New(w io.Writer) *Handler { return &Handler{w: w} }

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	now := e.Timestamp
	if h.now != nil {
		now = h.now()
	}
	if now.IsZero() {
		now = time.Now()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", now.Format(time.TimeOnly), strings.ToUpper(e.Level.String()), e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
