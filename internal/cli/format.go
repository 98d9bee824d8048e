// Package cli provides formatting and rendering helpers for terminal output.
package cli

import (
	"strconv"
	"strings"
)

// FormatNumber renders f with the given decimals and comma-separated
// thousands, e.g. 1234.5 -> "1,234.50".
func FormatNumber(f float64, decimals int) string {
	s := strconv.FormatFloat(f, 'f', decimals, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatPercent formats a 0-100 value, e.g. 42.5 -> "42.50%".
func FormatPercent(pct float64) string {
	return FormatNumber(pct, 2) + "%"
}

// FormatArea formats square meters.
func FormatArea(m2 float64) string {
	return FormatNumber(m2, 2) + " m²"
}

// FormatVolume formats cubic meters.
func FormatVolume(m3 float64) string {
	return FormatNumber(m3, 2) + " m³"
}

// FormatFGR formats a waste generation rate in m³/m².
func FormatFGR(fgr float64) string {
	return strconv.FormatFloat(fgr, 'f', 4, 64) + " m³/m²"
}
