package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/etnz/ystocker"
	"github.com/etnz/ystocker/i18n"
	"github.com/etnz/ystocker/renderer"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var files embed.FS

// pageRenderer executes a page template inside the shared layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*pageRenderer, error) {
	funcs := template.FuncMap(renderer.Funcs())
	funcs["grow"] = grow
	funcs["heat"] = heat
	funcs["trend"] = trend
	funcs["pathescape"] = pathEscape

	base, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &pageRenderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(files, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *pageRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("page %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Page is the data of every template. Data holds the page specific values.
type Page struct {
	Title       string // message key
	TitleArgs   []any
	Lang        string
	Languages   []i18n.LanguageOption
	Nav         []NavItem
	Flashes     []Message
	FetchErrors []string
	Data        any

	printer *message.Printer
}

// NavItem is a peer group link of the navigation bar.
type NavItem struct {
	Name   string
	URL    string
	Active bool
}

// Message is a translated flash message.
type Message struct {
	Kind string // "success" or "error"
	Text string
}

// T translates a message key.
func (p *Page) T(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

// PageTitle returns the translated title.
func (p *Page) PageTitle() string { return p.T(p.Title, p.TitleArgs...) }

const langKey = "lang"

// resolveLanguage resolves the language of the request and persists an
// explicit choice.
func resolveLanguage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tag, persist := i18n.ResolveTag(c.Request())
		if persist {
			i18n.SetLanguageCookie(c.Response(), tag)
		}
		c.Set(langKey, tag)
		return next(c)
	}
}

func tagOf(c echo.Context) language.Tag {
	if tag, ok := c.Get(langKey).(language.Tag); ok {
		return tag
	}
	return i18n.DefaultTag()
}

// page builds the common page data: language, navigation and pending flash
// messages.
func (s *Server) page(c echo.Context, title string, data any, args ...any) *Page {
	tag := tagOf(c)
	p := &Page{
		Title:     title,
		TitleArgs: args,
		Lang:      tag.String(),
		Languages: i18n.LanguageOptions(tag, c.Request().URL),
		Data:      data,
		printer:   i18n.Printer(tag),
	}
	current := ""
	if strings.HasPrefix(c.Path(), "/sector/") {
		current = sectorName(c)
	}
	for _, name := range s.Groups.Names() {
		p.Nav = append(p.Nav, NavItem{Name: name, URL: "/sector/" + pathEscape(name), Active: name == current})
	}
	for _, f := range popFlashes(c) {
		args := make([]any, len(f.Args))
		for i, a := range f.Args {
			args[i] = a
		}
		p.Flashes = append(p.Flashes, Message{Kind: f.Kind, Text: p.T(f.Key, args...)})
	}
	return p
}

// grow sizes a heatmap tile.
func grow(capB float64) template.CSS {
	return template.CSS(fmt.Sprintf("flex-grow: %.1f", capB))
}

// heat returns the colour class of a day change.
func heat(chg *float64) string {
	switch {
	case chg == nil:
		return "heat-none"
	case *chg >= 3:
		return "heat-up3"
	case *chg >= 1:
		return "heat-up2"
	case *chg > 0:
		return "heat-up1"
	case *chg <= -3:
		return "heat-down3"
	case *chg <= -1:
		return "heat-down2"
	case *chg < 0:
		return "heat-down1"
	default:
		return "heat-flat"
	}
}

// trend returns the class of a signed value.
func trend(v *float64) string {
	if v == nil {
		return ""
	}
	return ystocker.Percent(*v).Trend()
}
