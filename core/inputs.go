package core

// DirectionPosition is the sampled position of the three-way direction switch
type DirectionPosition uint8

const (
	DirectionNeutral DirectionPosition = iota
	DirectionLeft
	DirectionRight
)

// String returns the switch position name
func (p DirectionPosition) String() string {
	switch p {
	case DirectionNeutral:
		return "neutral"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	}
	return "unknown"
}

// SwitchInput describes one operator switch on a GPIO pin
type SwitchInput struct {
	Pin GPIOPin
	// ActiveLow inputs use a pull-up and read low when closed
	ActiveLow bool
	// Invert flips the sense after ActiveLow, for normally-closed switches
	Invert bool
}

// Configure sets up the pin pull matching its polarity
func (s SwitchInput) Configure(gpio GPIODriver) error {
	if s.ActiveLow {
		return gpio.ConfigureInputPullUp(s.Pin)
	}
	return gpio.ConfigureInputPullDown(s.Pin)
}

// Active reads the switch and returns true when it is asserted from the core's view
func (s SwitchInput) Active(gpio GPIODriver) bool {
	level := gpio.ReadPin(s.Pin)
	active := level != s.ActiveLow
	return active != s.Invert
}

// InputSnapshot is one control cycle's worth of sampled inputs
type InputSnapshot struct {
	Direction  DirectionPosition
	Rapid      bool
	Limit      bool
	RawCounter uint16
}

// ReadDirectionSwitch maps the two switch contacts to a single position.
// Left is checked first; neither contact active is neutral.
func ReadDirectionSwitch(gpio GPIODriver, left, right SwitchInput) DirectionPosition {
	if left.Active(gpio) {
		return DirectionLeft
	}
	if right.Active(gpio) {
		return DirectionRight
	}
	return DirectionNeutral
}

// ApplyDirection forwards a switch position to the matching handler
func (s *ControlState) ApplyDirection(p DirectionPosition) {
	switch p {
	case DirectionLeft:
		s.OnDirectionSwitchLeft()
	case DirectionRight:
		s.OnDirectionSwitchRight()
	case DirectionNeutral:
		s.OnDirectionSwitchNeutral()
	}
}
