// Package monitor decodes the power feed USB stream into telemetry and log events
package monitor

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"powerfeed/core"
	"powerfeed/protocol"
)

// EventKind classifies one received line
type EventKind int

const (
	EventReport EventKind = iota
	EventLog
	EventBadFrame
	EventNoise
)

// Event is one decoded line from the firmware
type Event struct {
	Kind   EventKind
	Report protocol.StatusReport
	// Text is the log message without its prefix, or the raw line otherwise
	Text string
	Err  error
	// Gap counts frames missed since the previous report
	Gap uint32
}

// Stats counts what the monitor has seen
type Stats struct {
	Reports      uint64
	Logs         uint64
	BadFrames    uint64
	BadChecksums uint64
	Missed       uint64
	Noise        uint64
}

// ErrIdle is returned by Next in follow mode when a read timed out before a full line arrived
var ErrIdle = errors.New("no data before read timeout")

// Monitor reads newline-delimited lines from the firmware
type Monitor struct {
	r       *bufio.Reader
	capture io.Writer

	// follow treats io.EOF from the reader as a read timeout
	follow  bool
	pending []byte

	stats   Stats
	lastSeq uint32
	haveSeq bool
}

// New creates a monitor reading from r
func New(r io.Reader) *Monitor {
	return &Monitor{r: bufio.NewReaderSize(r, protocol.FrameMax*4)}
}

// SetCapture copies every raw line to w
func (m *Monitor) SetCapture(w io.Writer) {
	m.capture = w
}

// SetFollow makes the monitor outlive read timeouts. Serial ports opened with a
// read timeout report an empty read as io.EOF; in follow mode that is ErrIdle
// and any partial line is kept until its newline arrives.
func (m *Monitor) SetFollow(follow bool) {
	m.follow = follow
}

// Stats returns the counters so far
func (m *Monitor) Stats() Stats {
	return m.stats
}

// Next blocks for one line and classifies it
func (m *Monitor) Next() (Event, error) {
	chunk, err := m.r.ReadBytes('\n')
	m.pending = append(m.pending, chunk...)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && m.follow:
		return Event{}, ErrIdle
	case errors.Is(err, io.EOF) && len(m.pending) > 0:
		// last line of a finished stream without its newline
	default:
		return Event{}, err
	}

	line := m.pending
	m.pending = nil
	if m.capture != nil {
		if _, cerr := m.capture.Write(line); cerr != nil {
			return Event{}, errors.Wrap(cerr, "write capture")
		}
	}
	return m.decode(line), nil
}

func (m *Monitor) decode(line []byte) Event {
	line = bytes.TrimRight(line, "\r\n")

	switch {
	case bytes.HasPrefix(line, []byte(protocol.LogPrefix)):
		m.stats.Logs++
		return Event{Kind: EventLog, Text: string(line[len(protocol.LogPrefix):])}

	case protocol.IsStatusFrame(line):
		rep, err := protocol.ParseStatusReport(line)
		if err != nil {
			if errors.Is(err, protocol.ErrBadChecksum) {
				m.stats.BadChecksums++
			} else {
				m.stats.BadFrames++
			}
			return Event{Kind: EventBadFrame, Text: string(line), Err: err}
		}
		m.stats.Reports++

		var gap uint32
		if m.haveSeq && rep.Seq > m.lastSeq+1 {
			gap = rep.Seq - m.lastSeq - 1
			m.stats.Missed += uint64(gap)
		}
		m.lastSeq, m.haveSeq = rep.Seq, true
		return Event{Kind: EventReport, Report: rep, Gap: gap}
	}

	m.stats.Noise++
	return Event{Kind: EventNoise, Text: string(line)}
}

// Run delivers events to handle until ctx is done or the stream ends.
// A clean end of stream returns nil. In follow mode only ctx ends the run.
func (m *Monitor) Run(ctx context.Context, handle func(Event)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		evt, err := m.Next()
		if err != nil {
			if errors.Is(err, ErrIdle) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "read telemetry")
		}
		handle(evt)
	}
}

// FormatReport renders a report the way the feed's own display shows it
func FormatReport(r protocol.StatusReport) string {
	kind, ok := core.ParseModeKind(r.Mode)
	if !ok {
		return "?" + r.Mode
	}
	cause, _ := core.ParseAlarmCause(r.Cause)
	mode := core.Mode{Kind: kind}
	if kind == core.ModeAlarm {
		mode.Cause = cause
	}

	rate := r.FeedRate
	if r.Rapid {
		rate = r.RapidFeedRate
	}
	line1, line2 := core.RenderStatus(mode, rate)

	out := line1 + " " + line2 + "  motor=" + r.Motor
	if r.Motor != core.MotorStopped.String() {
		out += " rpm=" + strconv.Itoa(int(r.RPM)) + " us=" + strconv.FormatUint(uint64(r.IntervalUs), 10)
	}
	return out
}

// Session owns a port and an optional capture file
type Session struct {
	Port    io.ReadWriteCloser
	Capture io.WriteCloser
	flusher interface{ Flush() error }
}

// NewSession wraps port; capture may be nil
func NewSession(port io.ReadWriteCloser, capture io.WriteCloser) *Session {
	s := &Session{Port: port, Capture: capture}
	if f, ok := port.(interface{ Flush() error }); ok {
		s.flusher = f
	}
	return s
}

// Monitor returns a monitor reading the session port
func (s *Session) Monitor() *Monitor {
	m := New(s.Port)
	m.SetFollow(true)
	if s.Capture != nil {
		m.SetCapture(s.Capture)
	}
	return m
}

// Close closes the port and the capture file, reporting every failure
func (s *Session) Close() error {
	var err error
	if s.flusher != nil {
		err = multierr.Append(err, s.flusher.Flush())
	}
	err = multierr.Append(err, s.Port.Close())
	if s.Capture != nil {
		err = multierr.Append(err, s.Capture.Close())
	}
	return err
}
