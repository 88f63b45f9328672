// Package host connects a print controller to a tracking session: lifecycle
// events drive the session state and every command sent to the machine is
// forwarded to the odometer.
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/edouard-claude/printmeter/internal/tee"
	"github.com/edouard-claude/printmeter/internal/tracking"
)

// ErrUnknownEvent is returned for events the active map does not bind.
var ErrUnknownEvent = errors.New("host: unknown event")

// Session is the part of a tracking session the host drives.
type Session interface {
	StartTracking() error
	PauseTracking() error
	ResumeTracking() error
	StopTrackingWithOutcome(outcome tracking.Outcome) error
	ProcessGCodeLine(line string) error
}

// Options configures an Integration.
type Options struct {
	Tee   tee.Config
	Warnf func(format string, args ...any)
}

// Integration dispatches host events and commands to a session.
type Integration struct {
	session Session
	events  *EventMap
	tail    *tee.Tail
	opts    Options
}

// FeedStats counts what Feed consumed.
type FeedStats struct {
	Commands int
	Events   int
	Skipped  int
}

// NewIntegration binds session to the events of m.
func NewIntegration(session Session, m *EventMap, opts Options) *Integration {
	return &Integration{
		session: session,
		events:  m,
		tail:    tee.NewTail(opts.Tee.MaxLines),
		opts:    opts,
	}
}

// HandleEvent applies the action bound to event. State conflicts from the
// session are returned unchanged.
func (in *Integration) HandleEvent(event string) error {
	b, ok := in.events.Lookup(event)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	switch b.Action {
	case ActionStart:
		if err := in.session.StartTracking(); err != nil {
			return err
		}
		in.tail.Reset()
	case ActionPause:
		return in.session.PauseTracking()
	case ActionResume:
		return in.session.ResumeTracking()
	case ActionStop:
		outcome := tracking.OutcomeStopped
		if b.Outcome != "" {
			outcome = tracking.Outcome(b.Outcome)
		}
		if err := in.session.StopTrackingWithOutcome(outcome); err != nil {
			return err
		}
		in.saveTail(outcome)
	default:
		return fmt.Errorf("host: unsupported action %q", b.Action)
	}
	return nil
}

// SentGCode is the per-line callback for every command sent to the machine.
func (in *Integration) SentGCode(line string) error {
	in.tail.Add(line)
	return in.session.ProcessGCodeLine(line)
}

// maxLineBytes bounds a single stream line. Longer lines are skipped.
const maxLineBytes = 1024 * 1024

type feedLine struct {
	text     string
	overlong bool
	err      error
}

// Feed reads a host stream line by line until EOF or ctx is done. Lines
// starting with '@' are events, ';' starts a comment, everything else is a
// command. Unknown events, state conflicts and overlong lines are warned
// about and skipped. Feed returns as soon as ctx is done even if r is
// blocked in a read; closing r is left to the caller.
func (in *Integration) Feed(ctx context.Context, r io.Reader) (FeedStats, error) {
	var stats FeedStats
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	lines := readLines(ctx, r)
	for {
		var l feedLine
		var ok bool
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case l, ok = <-lines:
		}
		if !ok {
			return stats, nil
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if l.err != nil {
			return stats, l.err
		}
		if l.overlong {
			stats.Skipped++
			in.warnf("skipped line longer than %d bytes", maxLineBytes)
			continue
		}

		line := strings.TrimSpace(l.text)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if event, ok := strings.CutPrefix(line, "@"); ok {
			err := in.HandleEvent(strings.TrimSpace(event))
			switch {
			case err == nil:
				stats.Events++
			case errors.Is(err, ErrUnknownEvent), errors.Is(err, tracking.ErrStateConflict):
				stats.Skipped++
				in.warnf("%v", err)
			default:
				return stats, err
			}
			continue
		}

		if err := in.SentGCode(line); err != nil {
			return stats, err
		}
		stats.Commands++
	}
}

// readLines reads r in its own goroutine so a blocked read never holds up
// the caller. The channel is closed at EOF, after a read error or once ctx
// is done.
func readLines(ctx context.Context, r io.Reader) <-chan feedLine {
	out := make(chan feedLine)
	go func() {
		defer close(out)
		send := func(l feedLine) bool {
			select {
			case out <- l:
				return true
			case <-ctx.Done():
				return false
			}
		}

		br := bufio.NewReaderSize(r, 64*1024)
		for {
			line, overlong, err := readLine(br, maxLineBytes)
			switch {
			case overlong:
				if !send(feedLine{overlong: true}) {
					return
				}
			case len(line) > 0:
				if !send(feedLine{text: string(line)}) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				send(feedLine{err: fmt.Errorf("read feed: %w", err)})
				return
			}
		}
	}()
	return out
}

// readLine returns the next line including its newline. A line past limit
// is consumed and reported as overlong with no content.
func readLine(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	overlong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !overlong {
			if len(line)+len(chunk) > limit {
				overlong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, overlong, err
	}
}

func (in *Integration) saveTail(outcome tracking.Outcome) {
	path, err := tee.MaybeSave(in.tail.Lines(), string(outcome), in.opts.Tee)
	in.tail.Reset()
	if err != nil {
		in.warnf("tee: %v", err)
		return
	}
	if path != "" {
		in.warnf("last commands saved to %s", path)
	}
}

func (in *Integration) warnf(format string, args ...any) {
	if in.opts.Warnf != nil {
		in.opts.Warnf(format, args...)
	}
}
