package core

// StepPulseDriver generates the free-running step pulse train for the feed motor.
// Implementations may use hardware PWM or a PIO state machine.
type StepPulseDriver interface {
	// ConfigureStepOutput claims the step pin and leaves pulses disabled
	ConfigureStepOutput(step GPIOPin) error

	// SetPulseInterval sets the step period in microseconds
	// Takes effect immediately if pulses are enabled
	SetPulseInterval(intervalUs uint32) error

	// EnablePulses starts pulse generation at the last configured interval
	EnablePulses() error

	// DisablePulses stops pulse generation and holds the step pin low
	DisablePulses() error

	// Info returns the backend name and its supported interval range
	Info() StepBackendInfo
}

// StepBackendInfo provides information about available backends
type StepBackendInfo struct {
	Name          string
	MinIntervalUs uint32 // Shortest supported step period
	MaxIntervalUs uint32 // Longest supported step period
}

// Supports reports whether the backend can produce intervalUs
func (i StepBackendInfo) Supports(intervalUs uint32) bool {
	return intervalUs >= i.MinIntervalUs && intervalUs <= i.MaxIntervalUs
}
