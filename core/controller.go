package core

import "errors"

var (
	ErrNilDriver           = errors.New("controller driver not configured")
	ErrZeroStepsPerRev     = errors.New("steps per revolution must be positive")
	ErrIntervalUnsupported = errors.New("step backend cannot produce the feed rate range")
	ErrNotInitialized      = errors.New("controller not initialized")
)

// CycleStage names the part of a control cycle that failed
type CycleStage uint8

const (
	StageInit CycleStage = iota
	StageMotor
	StageDisplay
)

// String returns the stage name
func (s CycleStage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageMotor:
		return "motor"
	case StageDisplay:
		return "display"
	}
	return "unknown"
}

// CycleError is an adapter failure surfaced from a control cycle.
// The control state itself never fails; callers treat these as fatal and restart.
type CycleError struct {
	Stage CycleStage
	Err   error
}

func (e *CycleError) Error() string {
	return "power feed " + e.Stage.String() + ": " + e.Err.Error()
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// ControllerConfig holds the wiring and motor constants for a Controller
type ControllerConfig struct {
	DirLeft  SwitchInput
	DirRight SwitchInput
	Rapid    SwitchInput
	Limit    SwitchInput

	StepPin GPIOPin
	DirPin  GPIOPin
	// InvertDir swaps the direction pin level for CW and CCW
	InvertDir bool

	StepsPerRev uint16
}

// Drivers are the platform adapters a Controller drives
type Drivers struct {
	GPIO    GPIODriver
	Step    StepPulseDriver
	Counter QuadratureCounter
	Display StatusDisplay
}

// Status is a read-only snapshot of the controller for telemetry
type Status struct {
	Mode          Mode
	Command       MotorCommand
	IntervalUs    uint32
	StepRateHz    uint32
	FeedRate      uint16
	RapidFeedRate uint16
	Rapid         bool
	Line1         string
	Line2         string
	Cycles        uint32
}

// Controller runs one read-inputs, update-state, drive-outputs cycle at a time.
// It owns the ControlState and QuadratureDecoder; nothing else mutates them.
type Controller struct {
	cfg ControllerConfig
	drv Drivers

	state   *ControlState
	decoder *QuadratureDecoder

	lastCommand  MotorCommand
	lastLine1    string
	lastLine2    string
	displayDirty bool

	initialized bool
	cycles      uint32
}

// NewController creates a controller in the power-on state
func NewController(cfg ControllerConfig, drv Drivers) (*Controller, error) {
	if drv.GPIO == nil || drv.Step == nil || drv.Counter == nil || drv.Display == nil {
		return nil, ErrNilDriver
	}
	if cfg.StepsPerRev == 0 {
		return nil, ErrZeroStepsPerRev
	}

	return &Controller{
		cfg:          cfg,
		drv:          drv,
		state:        NewControlState(),
		lastCommand:  Stopped,
		displayDirty: true,
	}, nil
}

// Init configures pins, forces the motor off and draws the first status
func (c *Controller) Init() error {
	gpio := c.drv.GPIO

	for _, sw := range []SwitchInput{c.cfg.DirLeft, c.cfg.DirRight, c.cfg.Rapid, c.cfg.Limit} {
		if err := sw.Configure(gpio); err != nil {
			return &CycleError{Stage: StageInit, Err: err}
		}
	}
	if err := gpio.ConfigureOutput(c.cfg.DirPin); err != nil {
		return &CycleError{Stage: StageInit, Err: err}
	}

	step := c.drv.Step
	if err := step.ConfigureStepOutput(c.cfg.StepPin); err != nil {
		return &CycleError{Stage: StageInit, Err: err}
	}
	if err := step.DisablePulses(); err != nil {
		return &CycleError{Stage: StageInit, Err: err}
	}

	info := step.Info()
	if !info.Supports(PulseIntervalMicros(MinFeedRate, c.cfg.StepsPerRev)) ||
		!info.Supports(PulseIntervalMicros(MaxFeedRate, c.cfg.StepsPerRev)) {
		return &CycleError{Stage: StageInit, Err: ErrIntervalUnsupported}
	}

	c.decoder = NewQuadratureDecoder(c.drv.Counter.Count())
	c.initialized = true

	DebugAsync("powerfeed: init backend=" + info.Name + " steps/rev=" + utoa(uint32(c.cfg.StepsPerRev)))
	return c.updateDisplay()
}

// Sample reads every input once
func (c *Controller) Sample() InputSnapshot {
	gpio := c.drv.GPIO
	return InputSnapshot{
		Direction:  ReadDirectionSwitch(gpio, c.cfg.DirLeft, c.cfg.DirRight),
		Rapid:      c.cfg.Rapid.Active(gpio),
		Limit:      c.cfg.Limit.Active(gpio),
		RawCounter: c.drv.Counter.Count(),
	}
}

// Apply feeds one snapshot to the control state.
// The limit switch is applied after the direction switch so a held limit
// re-latches the alarm in the same cycle that neutral clears it.
func (c *Controller) Apply(in InputSnapshot) {
	s := c.state
	before := s.Mode()

	s.ApplyDirection(in.Direction)
	s.OnLimitSwitch(in.Limit)
	s.OnRapidOverride(in.Rapid)

	if detents, ok := c.decoder.Poll(in.RawCounter); ok {
		s.OnDialChange(detents)
		RecordEvent(EvtDialChange, uint32(uint16(detents)), uint32(s.ActiveRate()))
	}

	after := s.Mode()
	if after == before {
		return
	}

	RecordEvent(EvtModeChange, uint32(before.Kind), uint32(after.Kind))
	switch {
	case after.IsAlarm() && !before.IsAlarm():
		RecordEvent(EvtAlarmLatched, uint32(after.Cause), 0)
		DebugAsync("powerfeed: alarm latched cause=" + after.Cause.String())
	case before.IsAlarm() && !after.IsAlarm():
		RecordEvent(EvtAlarmCleared, uint32(before.Cause), 0)
		DebugAsync("powerfeed: alarm cleared")
	default:
		DebugAsync("powerfeed: mode " + before.Kind.String() + " -> " + after.Kind.String())
	}
}

// Cycle runs one full control iteration
func (c *Controller) Cycle() error {
	if !c.initialized {
		return ErrNotInitialized
	}

	c.Apply(c.Sample())
	c.cycles++

	if err := c.updateMotor(c.state.MotorCommand()); err != nil {
		RecordEvent(EvtCycleError, uint32(StageMotor), 0)
		return err
	}
	if err := c.updateDisplay(); err != nil {
		RecordEvent(EvtCycleError, uint32(StageDisplay), 0)
		return err
	}
	return nil
}

// updateMotor reprograms the step driver only when the command changes
func (c *Controller) updateMotor(cmd MotorCommand) error {
	if cmd == c.lastCommand {
		return nil
	}

	step := c.drv.Step
	switch cmd.Dir {
	case MotorStopped:
		if err := step.DisablePulses(); err != nil {
			return &CycleError{Stage: StageMotor, Err: err}
		}
	case MotorClockwise, MotorCounterClockwise:
		level := (cmd.Dir == MotorClockwise) != c.cfg.InvertDir
		if err := c.drv.GPIO.SetPin(c.cfg.DirPin, level); err != nil {
			return &CycleError{Stage: StageMotor, Err: err}
		}
		if err := step.SetPulseInterval(PulseIntervalMicros(cmd.RPM, c.cfg.StepsPerRev)); err != nil {
			return &CycleError{Stage: StageMotor, Err: err}
		}
		if err := step.EnablePulses(); err != nil {
			return &CycleError{Stage: StageMotor, Err: err}
		}
	}

	RecordEvent(EvtMotorCommand, uint32(cmd.Dir), uint32(cmd.RPM))
	msg := "powerfeed: motor " + cmd.Dir.String()
	if cmd.Dir != MotorStopped {
		msg += " rpm=" + utoa(uint32(cmd.RPM)) + " hz=" + utoa(PulseRateHz(cmd.RPM, c.cfg.StepsPerRev))
	}
	DebugAsync(msg)
	c.lastCommand = cmd
	return nil
}

// updateDisplay redraws the status lines when their text changes
func (c *Controller) updateDisplay() error {
	line1, line2 := c.state.RenderStatus()
	if !c.displayDirty && line1 == c.lastLine1 && line2 == c.lastLine2 {
		return nil
	}

	if err := c.drv.Display.ShowStatus(line1, line2); err != nil {
		c.displayDirty = true
		return &CycleError{Stage: StageDisplay, Err: err}
	}
	c.lastLine1, c.lastLine2 = line1, line2
	c.displayDirty = false
	return nil
}

// Status returns a snapshot for telemetry
func (c *Controller) Status() Status {
	line1, line2 := c.state.RenderStatus()
	cmd := c.state.MotorCommand()
	st := Status{
		Mode:          c.state.Mode(),
		Command:       cmd,
		FeedRate:      c.state.FeedRate(),
		RapidFeedRate: c.state.RapidFeedRate(),
		Rapid:         c.state.RapidActive(),
		Line1:         line1,
		Line2:         line2,
		Cycles:        c.cycles,
	}
	if cmd.Dir != MotorStopped {
		st.IntervalUs = PulseIntervalMicros(cmd.RPM, c.cfg.StepsPerRev)
		st.StepRateHz = PulseRateHz(cmd.RPM, c.cfg.StepsPerRev)
	}
	return st
}

// State exposes the control state for inspection
func (c *Controller) State() *ControlState {
	return c.state
}
