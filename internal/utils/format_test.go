package utils

import (
	"math"
	"testing"
	"time"
)

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2020, 11, 15, 20, 21, 59, 0, time.Local)
	if got := FormatDateTime(ts); got != "15.11.2020 20:21" {
		t.Errorf("got %q", got)
	}
	if got := FormatDateTime(time.Time{}); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{900 * time.Millisecond, "0s"},
		{7 * time.Second, "7s"},
		{61 * time.Second, "1m1s"},
		{time.Hour + 5*time.Second, "1h0m5s"},
		{10*24*time.Hour + 12*time.Hour + 23*time.Minute + 2*time.Second, "10d12h23m2s"},
		{24 * time.Hour, "1d0h0m0s"},
		{-5 * time.Second, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		mm   float64
		want string
	}{
		{0, "0mm"},
		{7.9, "7mm"},
		{32, "3cm 2mm"},
		{5001, "5m 0cm 1mm"},
		{1111111, "1km 111m 11cm 1mm"},
		{-3, "0mm"},
		{math.Inf(1), "9223372036854km 775m 80cm 7mm"},
		{math.Inf(-1), "0mm"},
		{math.NaN(), "0mm"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDistance(tt.mm); got != tt.want {
				t.Errorf("FormatDistance(%v) = %q, want %q", tt.mm, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"short string", "done", 10, "done"},
		{"truncated", "cancelled by user", 8, "cance..."},
		{"zero max", "done", 0, ""},
		{"max 2", "done", 2, "do"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}
