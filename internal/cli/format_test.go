package cli

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		currency string
		amount   float64
		want     string
	}{
		{"$", 1234.5, "$1,234.50"},
		{"$", -1234.5, "-$1,234.50"},
		{"₹", 100000, "₹100,000.00"},
		{"$", 0, "$0.00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.currency, tc.amount); got != tc.want {
			t.Errorf("FormatMoney(%q, %v) = %q, want %q", tc.currency, tc.amount, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(187.5); got != "187.50" {
		t.Errorf("FormatPrice = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 8, 25, 9, 15, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2026-08-25" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestDateOnlySurvivesDateFormatRoundTrip(t *testing.T) {
	stamped := time.Date(2026, 8, 25, 14, 37, 12, 500, time.Local)

	d := dateOnly(stamped)
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
		t.Fatalf("dateOnly kept clock time: %v", d)
	}

	parsed, err := time.Parse("2006-01-02", d.Format("2006-01-02"))
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(d) {
		t.Errorf("date-only round trip changed the value: %v != %v", parsed, d)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("1a2b3c4d-5e6f-7890"); got != "1a2b3c4d" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("short input rewritten: %q", got)
	}
}

func TestOutputFormatPnLSign(t *testing.T) {
	o := &Output{currency: "$"}

	if got := o.FormatPnL(100); got != "+$100.00" {
		t.Errorf("FormatPnL(100) = %q", got)
	}
	if got := o.FormatPnL(-50); got != "-$50.00" {
		t.Errorf("FormatPnL(-50) = %q", got)
	}
	if got := o.FormatPnL(0); got != "$0.00" {
		t.Errorf("FormatPnL(0) = %q", got)
	}
}

func TestStripANSI(t *testing.T) {
	in := ColorGreen + "up" + ColorReset
	if got := stripANSI(in); got != "up" {
		t.Errorf("stripANSI = %q", got)
	}
}
