package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"powerfeed/protocol"
)

func frame(r protocol.StatusReport) string {
	out := protocol.NewScratchOutput()
	r.Encode(out)
	return string(out.Result())
}

func report(seq uint32, mode string) protocol.StatusReport {
	return protocol.StatusReport{Seq: seq, Mode: mode, Cause: "none", Motor: "stopped", FeedRate: 10, RapidFeedRate: 75}
}

func TestMonitorClassifiesLines(t *testing.T) {
	stream := frame(report(1, "stop")) +
		"# powerfeed: init backend=pwm\r\n" +
		"garbage\n" +
		"PF seq=2 mode=stop *0000\n" +
		"PF seq=3\n" +
		frame(report(5, "stop"))

	var capture bytes.Buffer
	m := New(strings.NewReader(stream))
	m.SetCapture(&capture)

	var kinds []EventKind
	var last Event
	err := m.Run(context.Background(), func(e Event) {
		kinds = append(kinds, e.Kind)
		last = e
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []EventKind{EventReport, EventLog, EventNoise, EventBadFrame, EventBadFrame, EventReport}
	if len(kinds) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Event %d: expected kind %d, got %d", i, want[i], kinds[i])
		}
	}
	if last.Gap != 3 {
		t.Errorf("Expected gap of 3 before seq 5, got %d", last.Gap)
	}

	st := m.Stats()
	if st.Reports != 2 || st.Logs != 1 || st.Noise != 1 || st.BadChecksums != 1 || st.BadFrames != 1 || st.Missed != 3 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if capture.String() != stream {
		t.Error("Expected capture to hold the raw stream")
	}
}

func TestMonitorLogText(t *testing.T) {
	m := New(strings.NewReader("# powerfeed: alarm latched cause=limit\n"))
	e, err := m.Next()
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != EventLog || e.Text != "powerfeed: alarm latched cause=limit" {
		t.Errorf("Unexpected event %+v", e)
	}
	if _, err := m.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected EOF, got %v", err)
	}
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(strings.NewReader(frame(report(1, "stop"))))
	if err := m.Run(ctx, func(Event) { t.Error("Unexpected event") }); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// timeoutReader replays chunks, answering each empty chunk with (0, io.EOF)
// the way a serial port opened with a read timeout does.
type timeoutReader struct {
	chunks []string
}

func (r *timeoutReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	if c == "" {
		r.chunks = r.chunks[1:]
		return 0, io.EOF
	}
	n := copy(p, c)
	if n < len(c) {
		r.chunks[0] = c[n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestMonitorFollowSurvivesReadTimeouts(t *testing.T) {
	f1 := frame(report(1, "stop"))
	f2 := frame(report(2, "fwd"))
	r := &timeoutReader{chunks: []string{f1[:10], "", f1[10:], "", "", f2}}

	var capture bytes.Buffer
	m := New(r)
	m.SetFollow(true)
	m.SetCapture(&capture)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seqs []uint32
	err := m.Run(ctx, func(e Event) {
		if e.Kind != EventReport {
			t.Errorf("Expected report, got kind %d (%q)", e.Kind, e.Text)
			return
		}
		seqs = append(seqs, e.Report.Seq)
		if len(seqs) == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 2 {
		t.Errorf("Expected reports 1 and 2, got %v", seqs)
	}

	st := m.Stats()
	if st.Reports != 2 || st.BadFrames != 0 || st.BadChecksums != 0 || st.Noise != 0 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if capture.String() != f1+f2 {
		t.Errorf("Expected capture of both whole frames, got %q", capture.String())
	}
}

func TestMonitorFollowNextReportsIdle(t *testing.T) {
	f := frame(report(3, "stop"))
	m := New(&timeoutReader{chunks: []string{f[:5], "", f[5:]}})
	m.SetFollow(true)

	if _, err := m.Next(); !errors.Is(err, ErrIdle) {
		t.Fatalf("Expected ErrIdle, got %v", err)
	}
	e, err := m.Next()
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != EventReport || e.Report.Seq != 3 {
		t.Errorf("Unexpected event %+v", e)
	}
}

func TestMonitorPartialLastLine(t *testing.T) {
	m := New(strings.NewReader("tail without newline"))
	e, err := m.Next()
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != EventNoise || e.Text != "tail without newline" {
		t.Errorf("Unexpected event %+v", e)
	}
	if _, err := m.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected EOF, got %v", err)
	}
}

func TestFormatReport(t *testing.T) {
	tests := []struct {
		r    protocol.StatusReport
		want string
	}{
		{report(1, "stop"), "STOP - 10mm/min +  motor=stopped"},
		{protocol.StatusReport{Mode: "fwd", Cause: "none", Motor: "ccw", RPM: 75, IntervalUs: 62, Rapid: true, FeedRate: 10, RapidFeedRate: 75},
			"FWD - 75mm/min +  motor=ccw rpm=75 us=62"},
		{protocol.StatusReport{Mode: "rev", Cause: "none", Motor: "cw", RPM: 1, IntervalUs: 4687, FeedRate: 1, RapidFeedRate: 75},
			"REV   1mm/min +  motor=cw rpm=1 us=4687"},
		{protocol.StatusReport{Mode: "alarm", Cause: "limit", Motor: "stopped", FeedRate: 10, RapidFeedRate: 75},
			"ALARM LIMIT SWITCH  motor=stopped"},
		{protocol.StatusReport{Mode: "jog"}, "?jog"},
	}

	for _, tc := range tests {
		if got := FormatReport(tc.r); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}

type closeRecorder struct {
	io.Reader
	io.Writer
	closeErr error
	flushErr error
	closed   bool
}

func (c *closeRecorder) Close() error { c.closed = true; return c.closeErr }
func (c *closeRecorder) Flush() error { return c.flushErr }

type captureFile struct {
	bytes.Buffer
	closeErr error
}

func (c *captureFile) Close() error { return c.closeErr }

func TestSessionCloseCombinesErrors(t *testing.T) {
	errPort := errors.New("port gone")
	errFile := errors.New("disk full")

	port := &closeRecorder{Reader: strings.NewReader(""), Writer: io.Discard, closeErr: errPort}
	s := NewSession(port, &captureFile{closeErr: errFile})

	err := s.Close()
	if !port.closed {
		t.Error("Expected port closed")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 || !errors.Is(err, errPort) || !errors.Is(err, errFile) {
		t.Errorf("Expected both errors, got %v", err)
	}

	ok := NewSession(&closeRecorder{Reader: strings.NewReader(""), Writer: io.Discard}, nil)
	if err := ok.Close(); err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
}

func TestSessionMonitorCaptures(t *testing.T) {
	port := &closeRecorder{Reader: strings.NewReader("# hi\n"), Writer: io.Discard}
	capture := &captureFile{}
	m := NewSession(port, capture).Monitor()
	if _, err := m.Next(); err != nil {
		t.Fatal(err)
	}
	if capture.String() != "# hi\n" {
		t.Errorf("Expected line captured, got %q", capture.String())
	}
}

func TestSessionMonitorFollowsPort(t *testing.T) {
	port := &closeRecorder{Reader: &timeoutReader{chunks: []string{""}}, Writer: io.Discard}
	m := NewSession(port, nil).Monitor()
	if _, err := m.Next(); !errors.Is(err, ErrIdle) {
		t.Errorf("Expected ErrIdle from a quiet port, got %v", err)
	}
}
