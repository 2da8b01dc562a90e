package core

// Feed rate bounds and power-on defaults, in mm/min
const (
	DefaultFeedRate      uint16 = 10
	DefaultRapidFeedRate uint16 = 75
	MinFeedRate          uint16 = 1
	MaxFeedRate          uint16 = 100
)

// ModeKind is the operating mode of the power feed
type ModeKind uint8

const (
	ModeStop ModeKind = iota
	// ModeRunForward feeds toward the chuck
	ModeRunForward
	// ModeRunReverse feeds toward the tailstock
	ModeRunReverse
	// ModeAlarm stops the motor until the direction switch returns to neutral
	ModeAlarm
)

// String returns the mode name used in logs and telemetry
func (k ModeKind) String() string {
	switch k {
	case ModeStop:
		return "stop"
	case ModeRunForward:
		return "fwd"
	case ModeRunReverse:
		return "rev"
	case ModeAlarm:
		return "alarm"
	}
	return "unknown"
}

// AlarmCause records why the feed entered ModeAlarm
type AlarmCause uint8

const (
	AlarmNone AlarmCause = iota
	// AlarmLimitTriggered is set when the limit switch closes
	AlarmLimitTriggered
)

// String returns the alarm cause name
func (c AlarmCause) String() string {
	switch c {
	case AlarmNone:
		return "none"
	case AlarmLimitTriggered:
		return "limit"
	}
	return "unknown"
}

// Mode is the sole source of truth for whether the motor may turn and which way.
// Cause is only meaningful when Kind == ModeAlarm.
type Mode struct {
	Kind  ModeKind
	Cause AlarmCause
}

var (
	Stop       = Mode{Kind: ModeStop}
	RunForward = Mode{Kind: ModeRunForward}
	RunReverse = Mode{Kind: ModeRunReverse}
)

// Alarm returns the alarm mode for the given cause
func Alarm(cause AlarmCause) Mode {
	return Mode{Kind: ModeAlarm, Cause: cause}
}

// IsAlarm reports whether the mode is any alarm
func (m Mode) IsAlarm() bool {
	return m.Kind == ModeAlarm
}

// MotorDirection is the rotation requested from the stepper driver
type MotorDirection uint8

const (
	MotorStopped MotorDirection = iota
	MotorClockwise
	MotorCounterClockwise
)

// String returns the direction name used in logs and telemetry
func (d MotorDirection) String() string {
	switch d {
	case MotorStopped:
		return "stopped"
	case MotorClockwise:
		return "cw"
	case MotorCounterClockwise:
		return "ccw"
	}
	return "unknown"
}

// MotorCommand is derived from ControlState each cycle, never stored by it.
// RPM is zero when Dir is MotorStopped and one of the configured feed rates otherwise.
type MotorCommand struct {
	Dir MotorDirection
	RPM uint16
}

// Stopped is the command that disables pulse generation
var Stopped = MotorCommand{Dir: MotorStopped}

// Clockwise returns a clockwise command at rpm
func Clockwise(rpm uint16) MotorCommand {
	return MotorCommand{Dir: MotorClockwise, RPM: rpm}
}

// CounterClockwise returns a counter-clockwise command at rpm
func CounterClockwise(rpm uint16) MotorCommand {
	return MotorCommand{Dir: MotorCounterClockwise, RPM: rpm}
}

// ControlState arbitrates operator inputs into a motor command and status text.
// It is mutated only through its On* handlers.
type ControlState struct {
	mode Mode

	feedRate      uint16
	rapidFeedRate uint16
	rapidActive   bool
}

// NewControlState returns the power-on state: stopped, 10 mm/min feed, 75 mm/min rapid
func NewControlState() *ControlState {
	return &ControlState{
		mode:          Stop,
		feedRate:      DefaultFeedRate,
		rapidFeedRate: DefaultRapidFeedRate,
	}
}

// OnDirectionSwitchNeutral stops the feed. This is the only input that clears an alarm.
func (s *ControlState) OnDirectionSwitchNeutral() {
	s.mode = Stop
}

// OnDirectionSwitchLeft starts feeding toward the chuck, only from Stop
func (s *ControlState) OnDirectionSwitchLeft() {
	if s.mode == Stop {
		s.mode = RunForward
	}
}

// OnDirectionSwitchRight starts feeding toward the tailstock, only from Stop
func (s *ControlState) OnDirectionSwitchRight() {
	if s.mode == Stop {
		s.mode = RunReverse
	}
}

// OnRapidOverride follows the rapid button level
func (s *ControlState) OnRapidOverride(pressed bool) {
	s.rapidActive = pressed
}

// OnLimitSwitch latches the limit alarm. A released switch does not clear it.
func (s *ControlState) OnLimitSwitch(pressed bool) {
	if pressed {
		s.mode = Alarm(AlarmLimitTriggered)
	}
}

// OnDialChange adjusts the selected rate by delta and clamps it to [MinFeedRate, MaxFeedRate]
func (s *ControlState) OnDialChange(delta int16) {
	if s.rapidActive {
		s.rapidFeedRate = clampRate(int32(s.rapidFeedRate) + int32(delta))
	} else {
		s.feedRate = clampRate(int32(s.feedRate) + int32(delta))
	}
}

func clampRate(v int32) uint16 {
	if v < int32(MinFeedRate) {
		return MinFeedRate
	}
	if v > int32(MaxFeedRate) {
		return MaxFeedRate
	}
	return uint16(v)
}

// MotorCommand maps the mode to a drive command.
// Forward feed is counter-clockwise motor rotation, reverse is clockwise.
func (s *ControlState) MotorCommand() MotorCommand {
	switch s.mode.Kind {
	case ModeStop, ModeAlarm:
		return Stopped
	case ModeRunForward:
		return CounterClockwise(s.ActiveRate())
	case ModeRunReverse:
		return Clockwise(s.ActiveRate())
	}
	return Stopped
}

// RenderStatus returns the two display lines for the current state
func (s *ControlState) RenderStatus() (string, string) {
	return RenderStatus(s.mode, s.ActiveRate())
}

// Mode returns the current mode
func (s *ControlState) Mode() Mode {
	return s.mode
}

// FeedRate returns the normal feed rate setting
func (s *ControlState) FeedRate() uint16 {
	return s.feedRate
}

// RapidFeedRate returns the rapid feed rate setting
func (s *ControlState) RapidFeedRate() uint16 {
	return s.rapidFeedRate
}

// RapidActive reports whether the rapid override is held
func (s *ControlState) RapidActive() bool {
	return s.rapidActive
}

// ActiveRate is the rate the motor runs at and the dial adjusts
func (s *ControlState) ActiveRate() uint16 {
	if s.rapidActive {
		return s.rapidFeedRate
	}
	return s.feedRate
}
