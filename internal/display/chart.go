package display

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// FormatSparkline renders values as a single-line bar chart.
func FormatSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// FormatBar renders value relative to maxValue as a bar of width cells.
func FormatBar(value, maxValue float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxValue > 0 && value > 0 {
		filled = int(value / maxValue * float64(width))
		filled = min(filled, width)
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// ColorBar is FormatBar with the filled part styled on a terminal.
func ColorBar(value, maxValue float64, width int) string {
	bar := FormatBar(value, maxValue, width)
	if !IsTerminal() {
		return bar
	}
	filled := strings.TrimRight(bar, "░")
	empty := bar[len(filled):]
	return SuccessStyle.Render(filled) + DimStyle.Render(empty)
}

// ColorOutcome styles a cycle outcome.
func ColorOutcome(outcome string) string {
	if !IsTerminal() {
		return outcome
	}
	switch outcome {
	case "done":
		return SuccessStyle.Render(outcome)
	case "failed":
		return ErrorStyle.Render(outcome)
	case "cancelled":
		return WarnStyle.Render(outcome)
	default:
		return DimStyle.Render(outcome)
	}
}
