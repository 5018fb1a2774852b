package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/etnz/ystocker"
)

// None is printed in place of an unknown value.
const None = "—"

// DateTimeFormat is the layout of timestamps shown to users.
const DateTimeFormat = "Jan 02, 2006 15:04"

// USD formats a price, e.g. "$1,234.50".
func USD(p *float64) string {
	if p == nil {
		return None
	}
	return Money(*p)
}

// Money formats a known amount of dollars.
func Money(v float64) string { return ystocker.USD(v).String() }

// Num formats a ratio with two decimals.
func Num(p *float64) string {
	if p == nil {
		return None
	}
	return fmt.Sprintf("%.2f", *p)
}

// Pct formats a value already in percent.
func Pct(p *float64) string {
	if p == nil {
		return None
	}
	return ystocker.Percent(*p).String()
}

// Signed formats a percent change with its sign.
func Signed(p *float64) string {
	if p == nil {
		return None
	}
	return ystocker.Percent(*p).Signed()
}

// Commaf formats a number with thousands separators.
func Commaf(p *float64, digits int) string {
	if p == nil {
		return None
	}
	return humanize.CommafWithDigits(*p, digits)
}

// Billions formats a market cap given in billions.
func Billions(p *float64) string {
	if p == nil {
		return None
	}
	return "$" + humanize.CommafWithDigits(*p, 1) + "B"
}

// Millions formats an amount given in millions.
func Millions(v float64) string { return "$" + humanize.CommafWithDigits(v, 1) + "M" }

// Comma formats an integer with thousands separators.
func Comma(v any) string {
	switch v := v.(type) {
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	default:
		return fmt.Sprint(v)
	}
}

// Age formats the time elapsed since t, e.g. "3 hours ago".
func Age(t time.Time) string {
	if t.IsZero() {
		return None
	}
	return humanize.Time(t)
}

// DateTime formats t with DateTimeFormat in local time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return None
	}
	return t.Local().Format(DateTimeFormat)
}

// Cell escapes a markdown table cell.
func Cell(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

// at returns list[i], or nil when it is out of range.
func at(list []*float64, i int) *float64 {
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// Funcs returns the formatting functions available to templates.
func Funcs() map[string]any {
	return map[string]any{
		"usd":      USD,
		"money":    Money,
		"num":      Num,
		"pct":      Pct,
		"signed":   Signed,
		"commaf":   Commaf,
		"billions": Billions,
		"millions": Millions,
		"comma":    Comma,
		"age":      Age,
		"datetime": DateTime,
		"cell":     Cell,
		"at":       at,
		"join":     strings.Join,
	}
}
