package core

const (
	// DefaultStepsPerRev is the microstep count of the lathe feed motor driver
	DefaultStepsPerRev uint16 = 12800

	microsPerSecond = 1000000
)

// PulseIntervalMicros converts a motor speed to the step pulse period in microseconds.
// The intermediate is float32, truncated on conversion. A zero rpm or step count
// yields 0, which step drivers treat as disabled.
func PulseIntervalMicros(rpm, stepsPerRev uint16) uint32 {
	if rpm == 0 || stepsPerRev == 0 {
		return 0
	}
	pulsesPerSecond := (float32(rpm) / 60) * float32(stepsPerRev)
	return uint32(float32(microsPerSecond) / pulsesPerSecond)
}

// PulseRateHz returns the step frequency for a motor speed, rounded down
func PulseRateHz(rpm, stepsPerRev uint16) uint32 {
	return uint32(rpm) * uint32(stepsPerRev) / 60
}
