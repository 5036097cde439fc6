package utils

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00 €"},
		{5, "5.00 €"},
		{999.999, "1,000.00 €"},
		{140000, "140,000.00 €"},
		{1234567.891, "1,234,567.89 €"},
		{-86.94, "-86.94 €"},
		{-0.001, "0.00 €"},
		{208032.635, "208,032.64 €"},
	}

	for _, tt := range tests {
		if got := FormatEuro(tt.in); got != tt.want {
			t.Errorf("FormatEuro(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedEuro(t *testing.T) {
	if got := FormatSignedEuro(12.5); got != "+12.50 €" {
		t.Errorf("got %q", got)
	}
	if got := FormatSignedEuro(-12.5); got != "-12.50 €" {
		t.Errorf("got %q", got)
	}
	if got := FormatSignedEuro(0); got != "0.00 €" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPercentAndRate(t *testing.T) {
	if got := FormatPercent(7.2857); got != "7.29%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatRate(3.5, 20); got != "3.50% / 20y" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestProperty_FormatEuroPreservesValue(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("grouped euro string parses back to the rounded amount", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatEuro(amount)
			if !strings.HasSuffix(formatted, " €") {
				return false
			}
			raw := strings.ReplaceAll(strings.TrimSuffix(formatted, " €"), ",", "")
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return false
			}
			return math.Abs(parsed-amount) <= 0.005+1e-9*math.Abs(amount)
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestRetry(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	calls := 0
	err := Retry(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("expected success on second call, got err=%v calls=%d", err, calls)
	}

	calls = 0
	boom := errors.New("boom")
	err = Retry(context.Background(), cfg, func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 3 {
		t.Errorf("expected last error after 3 calls, got err=%v calls=%d", err, calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: time.Second, BackoffFactor: 1}
	err := Retry(ctx, cfg, func(context.Context) error { return errors.New("down") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	if got := CalculateBackoff(0, 100*time.Millisecond, time.Second, 2); got != 100*time.Millisecond {
		t.Errorf("attempt 0 = %v", got)
	}
	if got := CalculateBackoff(2, 100*time.Millisecond, time.Second, 2); got != 400*time.Millisecond {
		t.Errorf("attempt 2 = %v", got)
	}
	if got := CalculateBackoff(10, 100*time.Millisecond, time.Second, 2); got != time.Second {
		t.Errorf("attempt 10 should cap, got %v", got)
	}
}
