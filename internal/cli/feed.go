package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edouard-claude/printmeter/internal/api"
	"github.com/edouard-claude/printmeter/internal/config"
	"github.com/edouard-claude/printmeter/internal/display"
	"github.com/edouard-claude/printmeter/internal/host"
	"github.com/edouard-claude/printmeter/internal/odometer"
	"github.com/edouard-claude/printmeter/internal/tee"
	"github.com/edouard-claude/printmeter/internal/tracking"
)

// newSession builds and initializes a session from cfg. The returned
// tracker may be nil when history is unavailable.
func newSession(cfg *config.Config, flags Flags) (*tracking.Session, *tracking.Tracker, error) {
	var recorder tracking.CycleRecorder
	tracker, err := lazyTracker(cfg)
	if err != nil {
		if flags.Verbose > 0 {
			display.PrintVerbose(fmt.Sprintf("history disabled: %v", err))
		}
		tracker = nil
	} else {
		recorder = tracker
	}

	session := tracking.NewSession(tracking.SessionOptions{
		Odometer: odometer.Options{
			Extruders:       cfg.Odometer.Extruders,
			MaxExtruders:    cfg.Odometer.MaxExtruders,
			G90Extruder:     cfg.Odometer.G90Extruder,
			DuplicationMode: cfg.Odometer.DuplicationMode,
		},
		Interval: time.Duration(cfg.Tracking.SnapshotIntervalMS) * time.Millisecond,
		Recorder: recorder,
		Warnf: func(format string, args ...any) {
			display.PrintWarning(fmt.Sprintf(format, args...))
		},
	})

	if err := session.Initialize(cfg.Tracking.DataDir); err != nil {
		if tracker != nil {
			tracker.Close()
		}
		return nil, nil, err
	}
	return session, tracker, nil
}

func newIntegration(cfg *config.Config, flags Flags, session *tracking.Session) (*host.Integration, error) {
	verbosef := func(format string, args ...any) {
		if flags.Verbose > 0 {
			display.PrintVerbose(fmt.Sprintf(format, args...))
		}
	}

	maps, err := host.LoadAll(cfg.Host.EventsDir, func(format string, args ...any) {
		display.PrintWarning(fmt.Sprintf(format, args...))
	})
	if err != nil {
		return nil, fmt.Errorf("load event maps: %w", err)
	}
	eventMap, err := host.NewRegistry(maps).Get(cfg.Host.EventMap)
	if err != nil {
		return nil, err
	}
	verbosef("event map: %s", eventMap.Name)

	teeCfg := tee.DefaultConfig(cfg.Tracking.DataDir)
	teeCfg.Enabled = cfg.Tee.Enabled
	teeCfg.Mode = cfg.Tee.Mode
	teeCfg.MaxFiles = cfg.Tee.MaxFiles
	teeCfg.MaxLines = cfg.Tee.MaxLines

	return host.NewIntegration(session, eventMap, host.Options{
		Tee:   teeCfg,
		Warnf: verbosef,
	}), nil
}

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// runFeed tracks a host stream. With serve it also exposes the totals over
// HTTP and keeps running after the stream ends, until interrupted.
func runFeed(cfg *config.Config, flags Flags, args []string, serve bool) int {
	in, err := openInput(args)
	if err != nil {
		display.PrintError(err.Error())
		return 1
	}
	defer in.Close()

	session, tracker, err := newSession(cfg, flags)
	if err != nil {
		display.PrintError(err.Error())
		return 1
	}
	if tracker != nil {
		defer tracker.Close()
	}
	defer func() {
		if err := session.Close(); err != nil {
			display.PrintError(fmt.Sprintf("final snapshot: %v", err))
		}
	}()

	integration, err := newIntegration(cfg, flags, session)
	if err != nil {
		display.PrintError(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, func() { in.Close() })

	if !serve {
		return feed(ctx, integration, in, flags)
	}
	return serveFeed(ctx, cfg, flags, session, integration, in)
}

// serveFeed runs the feed next to the HTTP server. The feed is cancelled and
// waited for before returning so its last cycle lands before the tracker
// closes.
func serveFeed(ctx context.Context, cfg *config.Config, flags Flags, src display.InfoSource, integration *host.Integration, in io.Reader) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := api.NewServer(src, flags.Verbose > 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		feed(ctx, integration, in, flags)
	}()

	if flags.Verbose > 0 {
		display.PrintVerbose(fmt.Sprintf("serving on http://%s/api/trackingInformation", cfg.Server.Addr))
	}
	err := api.Run(ctx, srv, cfg.Server.Addr, nil, nil)
	cancel()
	<-done
	if err != nil {
		display.PrintError(fmt.Sprintf("server: %v", err))
		return 1
	}
	return 0
}

func feed(ctx context.Context, integration *host.Integration, in io.Reader, flags Flags) int {
	stats, err := integration.Feed(ctx, in)
	if flags.Verbose > 0 {
		display.PrintVerbose(fmt.Sprintf("fed %d commands, %d events, %d skipped", stats.Commands, stats.Events, stats.Skipped))
	}
	if err != nil && ctx.Err() == nil {
		display.PrintError(err.Error())
		return 1
	}
	return 0
}
