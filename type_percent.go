package ystocker

import (
	"fmt"
	"strings"
)

// Percent is a value already expressed in percent (12.5 means 12.5%).
type Percent float64

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// Signed prints the sign of p. A value that rounds to zero is "-".
func (p Percent) Signed() string {
	s := fmt.Sprintf("%+.2f%%", float64(p))
	if strings.TrimLeft(s, "+-") == "0.00%" {
		return "-"
	}
	return s
}

// Trend is "up" or "down" with the sign of p, "" when it rounds to zero.
func (p Percent) Trend() string {
	switch s := p.Signed(); s[0] {
	case '+':
		return "up"
	case '-':
		if s == "-" {
			return ""
		}
		return "down"
	}
	return ""
}
