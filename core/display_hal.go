package core

// StatusDisplay is the abstract two-line display interface that core code uses.
// Platform-specific implementations own font rendering and the bus.
type StatusDisplay interface {
	// ShowStatus clears the display and draws both lines
	ShowStatus(line1, line2 string) error
}

// QuadratureCounter is a free-running 16-bit quadrature edge counter
type QuadratureCounter interface {
	// Count returns the current raw edge count, wrapping at 2^16
	Count() uint16
}
