package core

import (
	"strings"
	"testing"
)

func TestEventRingOrderAndWrap(t *testing.T) {
	ClearEventRing()
	for i := 0; i < EventRingSize+5; i++ {
		RecordEvent(EvtDialChange, uint32(i), 0)
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("Expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Value1 != 5 || events[len(events)-1].Value1 != EventRingSize+4 {
		t.Errorf("Expected oldest 5 and newest %d, got %d and %d",
			EventRingSize+4, events[0].Value1, events[len(events)-1].Value1)
	}
	ClearEventRing()
	if len(Events()) != 0 {
		t.Error("Expected empty ring after clear")
	}
}

func TestEventString(t *testing.T) {
	detents := int16(-3)
	tests := []struct {
		evt  ControlEvent
		want string
	}{
		{ControlEvent{EventType: EvtModeChange, Value1: uint32(ModeStop), Value2: uint32(ModeRunForward)}, "MODE stop->fwd"},
		{ControlEvent{EventType: EvtAlarmLatched, Value1: uint32(AlarmLimitTriggered)}, "ALARM latched cause=limit"},
		{ControlEvent{EventType: EvtMotorCommand, Value1: uint32(MotorClockwise), Value2: 75}, "MOTOR cw rpm=75"},
		{ControlEvent{EventType: EvtDialChange, Value1: uint32(uint16(detents)), Value2: 7}, "DIAL -3 rate=7"},
		{ControlEvent{EventType: EvtCycleError, Value1: uint32(StageDisplay)}, "CYCLE_ERROR stage=display"},
	}

	for _, tc := range tests {
		if got := EventString(tc.evt); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}

func TestDebugWriter(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	DebugAsync("hidden")
	if len(lines) != 0 {
		t.Errorf("Expected no output while disabled, got %v", lines)
	}

	SetDebugEnabled(true)
	defer SetDebugEnabled(false)
	DebugPrintln("shown")
	if len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("Expected one line, got %v", lines)
	}

	ClearEventRing()
	RecordEvent(EvtAlarmCleared, uint32(AlarmLimitTriggered), 0)
	DumpEventRing()
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "ALARM cleared cause=limit") {
		t.Errorf("Expected dump to include event, got %s", joined)
	}
}
