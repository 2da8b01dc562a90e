package core

// StatusLineMax bounds each rendered line; every producible string is shorter
const StatusLineMax = 32

const (
	rateUnit        = "mm/min"
	limitSwitchText = "LIMIT SWITCH"
)

// StatusText returns the first display line for a mode
func StatusText(m Mode) string {
	switch m.Kind {
	case ModeStop:
		return "STOP"
	case ModeRunForward:
		return "FWD"
	case ModeRunReverse:
		return "REV"
	case ModeAlarm:
		return "ALARM"
	}
	return ""
}

// AlarmText returns the second display line shown while alarmed
func AlarmText(cause AlarmCause) string {
	switch cause {
	case AlarmLimitTriggered:
		return limitSwitchText
	case AlarmNone:
		return ""
	}
	return ""
}

// RateText renders the active rate with +/- dial affordances.
// The '-' is dropped at MinFeedRate and the '+' at MaxFeedRate.
func RateText(rate uint16) string {
	var buf [StatusLineMax]byte
	line := buf[:0]

	if rate == MinFeedRate {
		line = append(line, ' ', ' ')
	} else {
		line = append(line, '-', ' ')
	}
	line = appendUint(line, uint32(rate))
	line = append(line, rateUnit...)
	if rate == MaxFeedRate {
		line = append(line, ' ', ' ')
	} else {
		line = append(line, ' ', '+')
	}
	return string(line)
}

// RenderStatus formats the two status lines for a mode and active rate
func RenderStatus(m Mode, rate uint16) (string, string) {
	if m.IsAlarm() {
		return StatusText(m), AlarmText(m.Cause)
	}
	return StatusText(m), RateText(rate)
}
