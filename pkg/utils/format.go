package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatCurrency formats an amount with thousands separators and two
// decimal places, e.g. 12,345.60.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups[0:]...)

	result := strings.Join(groups, ",") + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatDate formats a calendar date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateString shortens s to max runes, appending an ellipsis.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
