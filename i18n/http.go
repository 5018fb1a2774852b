package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "ystocker_lang"
)

var supportedTags = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("zh-CN"),
}

var matcher = language.NewMatcher(supportedTags)

// Supported returns the supported languages, the default first.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// DefaultTag returns the default language.
func DefaultTag() language.Tag { return supportedTags[0] }

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer { return message.NewPrinter(tag) }

// ParseTag returns the supported language matching value exactly, ignoring
// case.
func ParseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	for _, tag := range supportedTags {
		if tag == parsed {
			return tag, true
		}
	}
	return language.Tag{}, false
}

// ResolveTag determines the language of a request from the lang query
// parameter, then the cookie, then Accept-Language. The bool reports a
// query parameter that should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return DefaultTag(), false
	}
	if v := r.URL.Query().Get(LangParam); v != "" {
		if tag, ok := ParseTag(v); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, i, conf := matcher.Match(tags...); conf != language.No {
				return supportedTags[i], false
			}
		}
	}
	return DefaultTag(), false
}

// SetLanguageCookie persists the selected language for a year.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOption is an entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions returns the switcher entries for a page, each linking to
// the current URL with the lang parameter set.
func LanguageOptions(active language.Tag, u *url.URL) []LanguageOption {
	options := make([]LanguageOption, 0, len(supportedTags))
	for _, tag := range supportedTags {
		label, _ := defaultBundle.Message(tag.String(), "lang.self")
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  label,
			URL:    LanguageURL(u, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns u with the language parameter replaced.
func LanguageURL(u *url.URL, tag string) string {
	p := "/"
	var query url.Values
	if u != nil {
		if u.Path != "" {
			p = u.Path
		}
		query = u.Query()
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: p, RawQuery: query.Encode()}).String()
}
