//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/encoders"
)

// DialCounter exposes the interrupt-driven quadrature decoder as a raw 16-bit edge counter
type DialCounter struct {
	enc *encoders.QuadratureDevice
}

// NewDialCounter configures both encoder pins with pull-ups and edge interrupts
func NewDialCounter(pinA, pinB uint8) (*DialCounter, error) {
	enc := encoders.NewQuadratureViaInterrupt(machine.Pin(pinA), machine.Pin(pinB))
	// Precision 1 reports every edge; detent grouping happens in core
	if err := enc.Configure(encoders.QuadratureConfig{Precision: 1}); err != nil {
		return nil, err
	}
	return &DialCounter{enc: enc}, nil
}

// Count returns the edge count truncated to 16 bits
func (c *DialCounter) Count() uint16 {
	return uint16(c.enc.Position())
}
