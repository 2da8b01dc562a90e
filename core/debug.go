package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ControlEvent captures a control-relevant change for post-mortem analysis
type ControlEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtModeChange   = 1 // Value1: old ModeKind, Value2: new ModeKind
	EvtAlarmLatched = 2 // Value1: AlarmCause
	EvtAlarmCleared = 3 // Value1: AlarmCause that was cleared
	EvtMotorCommand = 4 // Value1: MotorDirection, Value2: rpm
	EvtDialChange   = 5 // Value1: detents (two's complement), Value2: new active rate
	EvtCycleError   = 6 // Value1: CycleStage
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]ControlEvent
	eventRingHead uint8
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent captures a control event in the ring buffer
func RecordEvent(eventType uint8, value1, value2 uint32) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = ControlEvent{
		EventType: eventType,
		Clock:     GetTime(),
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events from oldest to newest
func Events() []ControlEvent {
	out := make([]ControlEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventString renders an event as a single log line
func EventString(evt ControlEvent) string {
	switch evt.EventType {
	case EvtModeChange:
		return "MODE " + ModeKind(evt.Value1).String() + "->" + ModeKind(evt.Value2).String()
	case EvtAlarmLatched:
		return "ALARM latched cause=" + AlarmCause(evt.Value1).String()
	case EvtAlarmCleared:
		return "ALARM cleared cause=" + AlarmCause(evt.Value1).String()
	case EvtMotorCommand:
		return "MOTOR " + MotorDirection(evt.Value1).String() + " rpm=" + utoa(evt.Value2)
	case EvtDialChange:
		return "DIAL " + itoa(int(int16(evt.Value1))) + " rate=" + utoa(evt.Value2)
	case EvtCycleError:
		return "CYCLE_ERROR stage=" + CycleStage(evt.Value1).String()
	}
	return "UNKNOWN"
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] clock=" + utoa(evt.Clock) + " " + EventString(evt))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = ControlEvent{}
	}
	eventRingHead = 0
}
