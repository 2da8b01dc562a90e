package core

// TicksPerDetent is the number of quadrature edges per dial click
const TicksPerDetent = 4

// QuadratureDecoder turns a free-running 16-bit edge counter into detent events.
//
// Each poll compares the raw count against the last reported baseline, not a
// running total, so sub-detent jitter never produces an event and partial
// progress toward a detent survives until a full detent has accumulated.
type QuadratureDecoder struct {
	lastCount uint16
}

// NewQuadratureDecoder seeds the baseline with the counter value at start-up
func NewQuadratureDecoder(initial uint16) *QuadratureDecoder {
	return &QuadratureDecoder{lastCount: initial}
}

// Poll returns the signed number of detents moved since the baseline, if any.
// Counter wraparound is absorbed by the modulo-2^16 subtraction.
func (d *QuadratureDecoder) Poll(raw uint16) (int16, bool) {
	diff := int16(raw - d.lastCount)

	if diff >= TicksPerDetent || diff <= -TicksPerDetent {
		d.lastCount = raw
		return diff / TicksPerDetent, true
	}
	return 0, false
}

// LastCount returns the baseline of the last reported detent
func (d *QuadratureDecoder) LastCount() uint16 {
	return d.lastCount
}
