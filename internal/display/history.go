package display

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/edouard-claude/printmeter/internal/tracking"
	"github.com/edouard-claude/printmeter/internal/utils"
)

// RunHistory executes the history (finished cycles report) command.
func RunHistory(w io.Writer, tracker *tracking.Tracker, args []string) error {
	if tracker == nil {
		PrintError("no cycle history (history database unavailable)")
		return nil
	}

	var (
		showDaily bool
		showJSON  bool
		showCSV   bool
		historyN  int
		days      = 7
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--daily":
			showDaily = true
		case "--json":
			showJSON = true
		case "--csv":
			showCSV = true
		case "--days":
			if i+1 < len(args) {
				_, _ = fmt.Sscanf(args[i+1], "%d", &days)
				i++
			}
			if days <= 0 {
				days = 7
			}
		case "--history":
			if i+1 < len(args) {
				_, _ = fmt.Sscanf(args[i+1], "%d", &historyN)
				i++
			}
			if historyN <= 0 {
				historyN = 10
			}
		}
	}

	summary, err := tracker.GetSummary()
	if err != nil {
		return fmt.Errorf("get summary: %w", err)
	}

	if showJSON {
		return exportJSON(w, summary, tracker, days)
	}
	if showCSV {
		return exportCSV(w, tracker, days)
	}

	if historyN > 0 {
		return showRecent(w, tracker, historyN)
	}

	if showDaily {
		printSummary(w, summary)
		return showDailyReport(w, tracker, days)
	}

	// Default: summary + sparkline + outcome breakdown
	printSummary(w, summary)
	showSparkline(w, tracker)
	return showByOutcome(w, tracker)
}

func printSummary(w io.Writer, s *tracking.Summary) {
	tty := IsTerminal()

	fmt.Fprintln(w)
	if tty {
		fmt.Fprintln(w, HeaderStyle.Render("  printmeter: Cycle History"))
		fmt.Fprintln(w, DimStyle.Render("  "+FormatSeparator(30)))
	} else {
		fmt.Fprintln(w, "  printmeter: Cycle History")
		fmt.Fprintln(w, "  "+FormatSeparator(30))
	}
	fmt.Fprintln(w)

	printKPI := func(label, value string) {
		if tty {
			fmt.Fprintf(w, "  %s  %s\n", DimStyle.Render(fmt.Sprintf("%-20s", label)), StatStyle.Render(value))
		} else {
			fmt.Fprintf(w, "  %-20s  %s\n", label, value)
		}
	}

	rate := 0.0
	if s.TotalCycles > 0 {
		rate = float64(s.Completed) / float64(s.TotalCycles) * 100
	}

	printKPI("Cycles", fmt.Sprintf("%d", s.TotalCycles))
	printKPI("Completed", fmt.Sprintf("%d (%.0f%%)", s.Completed, rate))
	printKPI("Print time", utils.FormatDuration(time.Duration(s.TotalDuration)*time.Second))
	printKPI("Axis travel", utils.FormatDistance(s.AxisX+s.AxisY+s.AxisZ))
	printKPI("Extrusion", utils.FormatDistance(s.Extrusion))

	fmt.Fprintln(w)
	if tty {
		fmt.Fprintf(w, "  %s %s\n", ColorBar(rate, 100, 20), DimStyle.Render("success rate"))
	} else {
		fmt.Fprintf(w, "  %s success rate\n", FormatBar(rate, 100, 20))
	}
	fmt.Fprintln(w)
}

func showByOutcome(w io.Writer, tracker *tracking.Tracker) error {
	stats, err := tracker.GetByOutcome()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}

	maxCount := 0
	for _, s := range stats {
		maxCount = max(maxCount, s.Count)
	}

	if IsTerminal() {
		fmt.Fprintln(w, DimStyle.Render("  Cycles by outcome"))
	} else {
		fmt.Fprintln(w, "  Cycles by outcome")
	}
	fmt.Fprintln(w)

	headers := []string{"Outcome", "Cycles", "Time", "Extrusion", "Share"}
	var rows [][]string
	for _, s := range stats {
		rows = append(rows, []string{
			ColorOutcome(s.Outcome),
			fmt.Sprintf("%d", s.Count),
			utils.FormatDuration(time.Duration(s.Duration) * time.Second),
			utils.FormatDistance(s.Extrusion),
			ColorBar(float64(s.Count), float64(maxCount), 12),
		})
	}

	fmt.Fprint(w, FormatTable(headers, rows))
	fmt.Fprintln(w)
	return nil
}

func showSparkline(w io.Writer, tracker *tracking.Tracker) {
	daily, err := tracker.GetDaily(14)
	if err != nil || len(daily) < 2 {
		return
	}

	// Daily data is DESC, reverse for chronological sparkline
	values := make([]float64, len(daily))
	for i, d := range daily {
		values[len(daily)-1-i] = float64(d.Duration)
	}

	spark := FormatSparkline(values)
	if IsTerminal() {
		fmt.Fprintf(w, "  %s  %s\n", DimStyle.Render("14-day print time"), SuccessStyle.Render(spark))
	} else {
		fmt.Fprintf(w, "  14-day print time  %s\n", spark)
	}
	fmt.Fprintln(w)
}

func showDailyReport(w io.Writer, tracker *tracking.Tracker, days int) error {
	daily, err := tracker.GetDaily(days)
	if err != nil {
		return err
	}

	headers := []string{"Date", "Cycles", "Time", "Axis", "Extrusion"}
	var rows [][]string
	for _, d := range daily {
		rows = append(rows, []string{
			d.Day,
			fmt.Sprintf("%d", d.Cycles),
			utils.FormatDuration(time.Duration(d.Duration) * time.Second),
			utils.FormatDistance(d.AxisTotal),
			utils.FormatDistance(d.Extrusion),
		})
	}

	fmt.Fprint(w, FormatTable(headers, rows))
	return nil
}

func showRecent(w io.Writer, tracker *tracking.Tracker, n int) error {
	records, err := tracker.GetRecent(n)
	if err != nil {
		return err
	}

	headers := []string{"Cycle", "Ended", "Outcome", "Time", "X", "Y", "Z", "Extrusion"}
	var rows [][]string
	for _, r := range records {
		rows = append(rows, []string{
			utils.Truncate(r.ID, 11),
			endedLocal(r.EndedAt),
			ColorOutcome(r.Outcome),
			utils.FormatDuration(time.Duration(r.Duration) * time.Second),
			utils.FormatDistance(r.AxisX),
			utils.FormatDistance(r.AxisY),
			utils.FormatDistance(r.AxisZ),
			utils.FormatDistance(r.Extrusion),
		})
	}

	fmt.Fprint(w, FormatTable(headers, rows))
	return nil
}

// endedLocal converts a stored UTC timestamp for display.
func endedLocal(stored string) string {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", stored, time.UTC)
	if err != nil {
		return stored
	}
	return utils.FormatDateTime(t.Local())
}

func exportJSON(w io.Writer, summary *tracking.Summary, tracker *tracking.Tracker, days int) error {
	daily, _ := tracker.GetDaily(days)
	byOutcome, _ := tracker.GetByOutcome()
	data := map[string]any{
		"summary":    summary,
		"daily":      daily,
		"by_outcome": byOutcome,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func exportCSV(w io.Writer, tracker *tracking.Tracker, days int) error {
	daily, err := tracker.GetDaily(days)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "cycles", "duration_s", "axis_mm", "extrusion_mm"})
	for _, d := range daily {
		_ = cw.Write([]string{
			d.Day,
			fmt.Sprintf("%d", d.Cycles),
			fmt.Sprintf("%d", d.Duration),
			fmt.Sprintf("%.1f", d.AxisTotal),
			fmt.Sprintf("%.1f", d.Extrusion),
		})
	}
	cw.Flush()
	return cw.Error()
}
