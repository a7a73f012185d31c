package utils

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-9876.54, "-9,876.54"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2026-08-25" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("a longer string", 8); len([]rune(got)) != 8 {
		t.Errorf("TruncateString length = %d, want 8", len([]rune(got)))
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	wantErr := fmt.Errorf("permanent")
	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		return wantErr
	})
	if err != wantErr {
		t.Errorf("err = %v, want the last failure", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	cfg := DefaultRetryConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, cfg, func() error {
		attempts++
		return fmt.Errorf("fail")
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryWithResult(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	attempts := 0
	got, err := RetryWithResult(context.Background(), cfg, func() (int, error) {
		attempts++
		if attempts == 1 {
			return 0, fmt.Errorf("transient")
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("RetryWithResult = %v, %v", got, err)
	}
}
