package prompt

import (
	"strconv"
	"strings"
)

// NA is substituted for optional values that are absent.
const NA = "N/A"

// Render substitutes every {name} placeholder in tmpl with the mapped value.
// Placeholders without a mapping are left untouched.
func Render(tmpl string, values map[string]string) string {
	out := tmpl
	for name, val := range values {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out
}

// Percent formats a 0-100 rate to one decimal place.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Delta formats a pass-rate delta to one decimal place, prefixing positive
// values with an explicit "+".
func Delta(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

// OrNA returns s, or NA when s is empty.
func OrNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
