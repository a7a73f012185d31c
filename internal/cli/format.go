package cli

import (
	"fmt"
	"time"

	"swing-journal/pkg/utils"
)

// FormatMoney renders an amount with the configured currency symbol.
func FormatMoney(currency string, amount float64) string {
	if amount < 0 {
		return "-" + currency + utils.FormatCurrency(-amount)
	}
	return currency + utils.FormatCurrency(amount)
}

// FormatPrice renders a bare price with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string {
	return utils.FormatDate(t)
}

// dateOnly strips the clock from t so stored dates survive date-only
// round trips through CSV and spreadsheet columns unchanged.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TruncateString shortens s for table cells.
func TruncateString(s string, max int) string {
	return utils.TruncateString(s, max)
}

// ShortID returns the first eight characters of a trade ID for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
