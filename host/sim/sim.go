// Package sim provides in-memory power feed hardware for bench simulation
package sim

import (
	"sync"

	"powerfeed/config"
	"powerfeed/core"
)

// GPIO is an in-memory GPIODriver. Pull-up inputs idle high.
type GPIO struct {
	mu     sync.Mutex
	levels map[core.GPIOPin]bool
}

// NewGPIO creates an empty pin bank
func NewGPIO() *GPIO {
	return &GPIO{levels: make(map[core.GPIOPin]bool)}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.levels[pin]; !ok {
		g.levels[pin] = true
	}
	return nil
}

func (g *GPIO) ConfigureInputPullDown(pin core.GPIOPin) error {
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.Drive(pin, value)
	return nil
}

func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	return g.ReadPin(pin), nil
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin]
}

// Drive forces a pin level from outside, like a switch contact would
func (g *GPIO) Drive(pin core.GPIOPin, level bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = level
}

// StepGen records the pulse train the controller asks for
type StepGen struct {
	IntervalUs uint32
	Enabled    bool
	Reprograms int
}

func (s *StepGen) ConfigureStepOutput(step core.GPIOPin) error {
	return nil
}

func (s *StepGen) SetPulseInterval(intervalUs uint32) error {
	s.IntervalUs = intervalUs
	s.Reprograms++
	return nil
}

func (s *StepGen) EnablePulses() error {
	s.Enabled = true
	return nil
}

func (s *StepGen) DisablePulses() error {
	s.Enabled = false
	return nil
}

func (s *StepGen) Info() core.StepBackendInfo {
	return core.StepBackendInfo{Name: "sim", MinIntervalUs: 1, MaxIntervalUs: 1 << 31}
}

// Counter is a free-running quadrature edge counter
type Counter struct {
	count uint16
}

func (c *Counter) Count() uint16 {
	return c.count
}

// Turn moves the dial by whole detents; negative is counter-clockwise
func (c *Counter) Turn(detents int) {
	c.count += uint16(detents * core.TicksPerDetent)
}

// Display keeps the last two lines shown
type Display struct {
	Line1, Line2 string
	Draws        int
}

func (d *Display) ShowStatus(line1, line2 string) error {
	d.Line1, d.Line2 = line1, line2
	d.Draws++
	return nil
}

// Bench is a controller wired to simulated hardware using a Config's pin map
type Bench struct {
	Config  *config.Config
	GPIO    *GPIO
	Step    *StepGen
	Counter *Counter
	Display *Display
	Ctrl    *core.Controller

	wiring core.ControllerConfig
}

// NewBench builds and initializes a controller on simulated hardware
func NewBench(cfg *config.Config) (*Bench, error) {
	b := &Bench{
		Config:  cfg,
		GPIO:    NewGPIO(),
		Step:    &StepGen{},
		Counter: &Counter{},
		Display: &Display{},
		wiring:  cfg.ControllerConfig(),
	}

	ctrl, err := core.NewController(b.wiring, core.Drivers{
		GPIO:    b.GPIO,
		Step:    b.Step,
		Counter: b.Counter,
		Display: b.Display,
	})
	if err != nil {
		return nil, err
	}
	b.Ctrl = ctrl

	if err := ctrl.Init(); err != nil {
		return nil, err
	}
	// A healthy normally-closed limit reads as released
	b.SetSwitch(b.wiring.Limit, false)
	return b, nil
}

// SetSwitch drives a switch input to the level that reads as active or released
func (b *Bench) SetSwitch(sw core.SwitchInput, active bool) {
	b.GPIO.Drive(sw.Pin, active != sw.ActiveLow != sw.Invert)
}

// SetDirection positions the three-way direction switch
func (b *Bench) SetDirection(p core.DirectionPosition) {
	b.SetSwitch(b.wiring.DirLeft, p == core.DirectionLeft)
	b.SetSwitch(b.wiring.DirRight, p == core.DirectionRight)
}

// SetRapid holds or releases the rapid button
func (b *Bench) SetRapid(held bool) {
	b.SetSwitch(b.wiring.Rapid, held)
}

// SetLimit trips or resets the limit switch
func (b *Bench) SetLimit(tripped bool) {
	b.SetSwitch(b.wiring.Limit, tripped)
}

// Tick runs n control cycles, stopping at the first error
func (b *Bench) Tick(n int) error {
	for i := 0; i < n; i++ {
		if err := b.Ctrl.Cycle(); err != nil {
			return err
		}
	}
	return nil
}
