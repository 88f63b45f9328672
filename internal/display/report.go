package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/edouard-claude/printmeter/internal/utils"
)

// RunReport prints the tracked totals of src. Args: --json.
func RunReport(w io.Writer, src InfoSource, args []string) error {
	info := BuildInformation(src)

	for _, a := range args {
		if a == "--json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"trackingInformation": info})
		}
	}

	if info == nil {
		PrintError("no tracking information (run 'printmeter init' or feed some G-code first)")
		return nil
	}

	tty := IsTerminal()
	fmt.Fprintln(w)
	if tty {
		fmt.Fprintln(w, HeaderStyle.Render("  printmeter: Machine Odometer"))
		fmt.Fprintln(w, DimStyle.Render("  "+FormatSeparator(30)))
	} else {
		fmt.Fprintln(w, "  printmeter: Machine Odometer")
		fmt.Fprintln(w, "  "+FormatSeparator(30))
	}
	fmt.Fprintln(w)

	printKPI := func(label, value string) {
		if tty {
			fmt.Fprintf(w, "  %s  %s\n", DimStyle.Render(fmt.Sprintf("%-16s", label)), StatStyle.Render(value))
		} else {
			fmt.Fprintf(w, "  %-16s  %s\n", label, value)
		}
	}

	printKPI("Tracking since", info.TrackingSince)
	printKPI("Print time", info.TotalPrintTime)
	printKPI("X movement", info.XMovement)
	printKPI("Y movement", info.YMovement)
	printKPI("Z movement", info.ZMovement)
	printKPI("T0 extrusion", info.EMovement)

	// Extra extruders are listed only when present.
	if src != nil {
		for i, e := range src.ExtrusionTraveling() {
			if i == 0 {
				continue
			}
			printKPI(fmt.Sprintf("T%d extrusion", i), utils.FormatDistance(e))
		}
	}
	fmt.Fprintln(w)
	return nil
}
