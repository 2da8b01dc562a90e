package core

import "powerfeed/protocol"

// Report converts a status snapshot to its telemetry frame
func (s Status) Report(seq uint32) protocol.StatusReport {
	return protocol.StatusReport{
		Seq:           seq,
		Mode:          s.Mode.Kind.String(),
		Cause:         s.Mode.Cause.String(),
		Motor:         s.Command.Dir.String(),
		RPM:           s.Command.RPM,
		IntervalUs:    s.IntervalUs,
		Rapid:         s.Rapid,
		FeedRate:      s.FeedRate,
		RapidFeedRate: s.RapidFeedRate,
	}
}

// TelemetryWriter numbers status snapshots and hands encoded frames to a sink
type TelemetryWriter struct {
	seq     uint32
	scratch protocol.ScratchOutput
	sink    func([]byte)
}

// NewTelemetryWriter creates a writer delivering each frame to sink
func NewTelemetryWriter(sink func([]byte)) *TelemetryWriter {
	return &TelemetryWriter{sink: sink}
}

// Report encodes one frame; the slice passed to sink is reused on the next call
func (w *TelemetryWriter) Report(s Status) {
	w.seq++
	r := s.Report(w.seq)

	w.scratch.Reset()
	r.Encode(&w.scratch)
	w.sink(w.scratch.Result())
}

// Seq returns the sequence number of the last frame
func (w *TelemetryWriter) Seq() uint32 {
	return w.seq
}

// ParseModeKind maps a telemetry mode name back to its ModeKind
func ParseModeKind(name string) (ModeKind, bool) {
	for k := ModeStop; k <= ModeAlarm; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// ParseAlarmCause maps a telemetry cause name back to its AlarmCause
func ParseAlarmCause(name string) (AlarmCause, bool) {
	for c := AlarmNone; c <= AlarmLimitTriggered; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
