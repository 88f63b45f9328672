package utils

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// DateTimeLayout renders timestamps as "15.11.2020 20:21".
const DateTimeLayout = "02.01.2006 15:04"

// FormatDateTime formats t with DateTimeLayout. The zero time renders empty.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// FormatDuration renders whole seconds as "10d12h23m2s". The largest
// non-zero unit leads and every smaller unit follows, so an hour and five
// seconds is "1h0m5s". Anything under a second is "0s".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	days := secs / 86400
	hours := secs % 86400 / 3600
	minutes := secs % 3600 / 60
	seconds := secs % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm%ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatDistance renders millimeters as "1km 111m 11cm 1mm", starting at
// the largest non-zero unit. Fractions of a millimeter are dropped.
func FormatDistance(mm float64) string {
	if mm < 0 || math.IsNaN(mm) {
		mm = 0
	}
	total := int64(math.MaxInt64)
	if mm < math.MaxInt64 {
		total = int64(math.Floor(mm))
	}
	km := total / 1_000_000
	m := total % 1_000_000 / 1000
	cm := total % 1000 / 10
	rest := total % 10

	switch {
	case km > 0:
		return fmt.Sprintf("%dkm %dm %dcm %dmm", km, m, cm, rest)
	case m > 0:
		return fmt.Sprintf("%dm %dcm %dmm", m, cm, rest)
	case cm > 0:
		return fmt.Sprintf("%dcm %dmm", cm, rest)
	default:
		return fmt.Sprintf("%dmm", rest)
	}
}

// Truncate truncates s to max runes, appending "..." if truncated.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
