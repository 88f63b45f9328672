package cli

import (
	"fmt"
	"os"

	"github.com/edouard-claude/printmeter/internal/config"
	"github.com/edouard-claude/printmeter/internal/display"
	"github.com/edouard-claude/printmeter/internal/initcmd"
	"github.com/edouard-claude/printmeter/internal/tracking"
)

const version = "0.1.0"

// Run is the main entry point. Returns exit code.
func Run(args []string) int {
	if len(args) < 2 {
		printUsage()
		return 0
	}

	flags, remaining := ParseFlags(args[1:])

	if flags.Version {
		fmt.Printf("printmeter v%s\n", Version())
		return 0
	}
	if flags.Help || len(remaining) == 0 {
		printUsage()
		return 0
	}

	command := remaining[0]
	cmdArgs := remaining[1:]

	if command == "init" {
		if err := initcmd.Run(cmdArgs); err != nil {
			display.PrintError(err.Error())
			return 1
		}
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		display.PrintError(err.Error())
		return 1
	}
	display.SetColor(cfg.Display.Color && !flags.NoColor)

	switch command {
	case "feed":
		return runFeed(cfg, flags, cmdArgs, false)

	case "serve":
		return runFeed(cfg, flags, cmdArgs, true)

	case "report":
		snap, found, err := tracking.NewStore(cfg.Tracking.DataDir).Load()
		if err != nil {
			display.PrintError(err.Error())
			return 1
		}
		var src display.InfoSource
		if found {
			src = display.SnapshotSource{Snap: snap}
		}
		if err := display.RunReport(os.Stdout, src, cmdArgs); err != nil {
			display.PrintError(err.Error())
			return 1
		}
		return 0

	case "history":
		tracker, err := lazyTracker(cfg)
		if err != nil {
			display.PrintError(err.Error())
			return 1
		}
		defer tracker.Close()
		if err := display.RunHistory(os.Stdout, tracker, cmdArgs); err != nil {
			display.PrintError(err.Error())
			return 1
		}
		return 0

	case "config":
		fmt.Printf("config: %s\n", config.Path())
		fmt.Printf("tracking.data_dir: %s\n", cfg.Tracking.DataDir)
		fmt.Printf("tracking.snapshot_interval_ms: %d\n", cfg.Tracking.SnapshotIntervalMS)
		fmt.Printf("tracking.history_db: %s\n", tracking.DBPath(cfg.Tracking.HistoryDB))
		fmt.Printf("odometer.extruders: %d\n", cfg.Odometer.Extruders)
		fmt.Printf("odometer.max_extruders: %d\n", cfg.Odometer.MaxExtruders)
		fmt.Printf("odometer.g90_extruder: %v\n", cfg.Odometer.G90Extruder)
		fmt.Printf("odometer.duplication_mode: %v\n", cfg.Odometer.DuplicationMode)
		fmt.Printf("host.events_dir: %s\n", cfg.Host.EventsDir)
		fmt.Printf("host.event_map: %s\n", cfg.Host.EventMap)
		fmt.Printf("tee.mode: %s\n", cfg.Tee.Mode)
		fmt.Printf("tee.max_files: %d\n", cfg.Tee.MaxFiles)
		fmt.Printf("tee.max_lines: %d\n", cfg.Tee.MaxLines)
		fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
		fmt.Printf("display.color: %v\n", cfg.Display.Color)
		return 0
	}

	display.PrintError(fmt.Sprintf("unknown command %q (see --help)", command))
	return 1
}

func lazyTracker(cfg *config.Config) (*tracking.Tracker, error) {
	return tracking.NewTracker(tracking.DBPath(cfg.Tracking.HistoryDB))
}

func printUsage() {
	usage := `printmeter v%s: machine odometer for 3D printers

Usage: printmeter [flags] <command> [args...]

Commands:
  feed [file]     Read a host stream (stdin or file) and track it
  serve [file]    Like feed, and serve totals over HTTP
  report          Show cumulative totals (--json)
  history         Show finished cycles (--daily, --history N, --json, --csv)
  config          Show current configuration
  init            Write default config and create directories (--uninstall)

Stream format:
  G1 X10 E2       command sent to the machine
  @PrintStarted   host event, mapped by the active event map
  ; comment       ignored

Flags:
  -v, -vv         Verbose output (stackable)
  --no-color      Plain output
  --version       Show version
  --help          Show this help

Examples:
  printmeter feed print.gcode
  tail -f host.log | printmeter serve
  printmeter report --json
  printmeter history --daily
`
	fmt.Printf(usage, version)
}

// Version returns the current version string.
func Version() string {
	return version
}
