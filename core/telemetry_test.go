package core

import (
	"testing"

	"powerfeed/protocol"
)

func TestTelemetryWriter(t *testing.T) {
	r := newTestRig(t)
	r.press(pinLeft)
	r.cycle(t)

	var frames []string
	w := NewTelemetryWriter(func(b []byte) { frames = append(frames, string(b)) })
	w.Report(r.ctrl.Status())
	w.Report(r.ctrl.Status())

	if len(frames) != 2 || w.Seq() != 2 {
		t.Fatalf("Expected 2 frames, got %d (seq %d)", len(frames), w.Seq())
	}

	want := "PF seq=1 mode=fwd cause=none motor=ccw rpm=10 us=468 rapid=0 feed=10 rrate=75 *CCCE\n"
	if frames[0] != want {
		t.Errorf("Expected %q, got %q", want, frames[0])
	}

	rep, err := protocol.ParseStatusReport([]byte(frames[1]))
	if err != nil {
		t.Fatalf("Frame %q did not parse: %v", frames[1], err)
	}
	if rep.Seq != 2 || rep.Mode != "fwd" || rep.Motor != "ccw" || rep.IntervalUs != 468 {
		t.Errorf("Unexpected report %+v", rep)
	}
}

func TestStatusReportAlarm(t *testing.T) {
	r := newTestRig(t)
	r.tripLimit()
	r.cycle(t)

	rep := r.ctrl.Status().Report(3)
	if rep.Mode != "alarm" || rep.Cause != "limit" || rep.Motor != "stopped" || rep.IntervalUs != 0 {
		t.Errorf("Unexpected alarm report %+v", rep)
	}
}

func TestParseModeAndCause(t *testing.T) {
	for k := ModeStop; k <= ModeAlarm; k++ {
		if got, ok := ParseModeKind(k.String()); !ok || got != k {
			t.Errorf("Expected %v to round trip, got %v", k, got)
		}
	}
	if _, ok := ParseModeKind("jog"); ok {
		t.Error("Expected unknown mode rejected")
	}
	if c, ok := ParseAlarmCause("limit"); !ok || c != AlarmLimitTriggered {
		t.Errorf("Expected limit cause, got %v", c)
	}
}
