//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"powerfeed/core"
)

// Each instruction takes 1+31 cycles, so one full step period is 64 state machine cycles
const (
	pioCyclesPerPulse = 64
	pioMinIntervalUs  = 1
	pioMaxIntervalUs  = 33000
)

// buildPulseProgram creates a free-running square wave on the SET pin
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 0: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(), // 1: set pins, 0 [31]
		// .wrap
	}
}

// PIOStepDriver generates step pulses with a PIO state machine.
// The pulse period is set entirely by the state machine clock divider.
type PIOStepDriver struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	stepPin machine.Pin
	offset  uint8
	claimed bool
	enabled bool
}

// NewPIOStepDriver creates a PIO step backend on PIO0 or PIO1
func NewPIOStepDriver(pioNum uint8) *PIOStepDriver {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &PIOStepDriver{pio: pioHW}
}

// ConfigureStepOutput claims a state machine, loads the program and leaves it stopped
func (d *PIOStepDriver) ConfigureStepOutput(step core.GPIOPin) error {
	if uint32(step) >= numGPIO {
		return errInvalidPin
	}
	d.stepPin = machine.Pin(step)

	sm, err := d.pio.ClaimStateMachine()
	if err != nil {
		return errNoStateMachine
	}
	d.sm = sm
	d.claimed = true

	program := buildPulseProgram()
	offset, err := d.pio.AddProgram(program, -1)
	if err != nil {
		return err
	}
	d.offset = offset

	d.stepPin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(d.stepPin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	whole, frac, err := pioClkDiv(idleIntervalUs)
	if err != nil {
		return err
	}
	cfg.SetClkDivIntFrac(whole, frac)

	// Initialize state machine FIRST, then pin directions
	d.sm.Init(offset, cfg)
	d.sm.SetPindirsConsecutive(d.stepPin, 1, true)
	d.sm.SetPinsConsecutive(d.stepPin, 1, false)
	return nil
}

// SetPulseInterval changes the clock divider; the running program picks it up at once
func (d *PIOStepDriver) SetPulseInterval(intervalUs uint32) error {
	whole, frac, err := pioClkDiv(intervalUs)
	if err != nil {
		return err
	}
	d.sm.SetClkDiv(whole, frac)
	return nil
}

// EnablePulses starts the state machine from the top of the program
func (d *PIOStepDriver) EnablePulses() error {
	if d.enabled {
		return nil
	}
	d.sm.Restart()
	d.sm.ClkDivRestart()
	d.sm.Jmp(d.offset, rp2pio.JmpAlways)
	d.sm.SetEnabled(true)
	d.enabled = true
	return nil
}

// DisablePulses stops the state machine and forces the step pin low
func (d *PIOStepDriver) DisablePulses() error {
	if !d.claimed {
		return nil
	}
	d.sm.SetEnabled(false)
	d.sm.SetPinsConsecutive(d.stepPin, 1, false)
	d.enabled = false
	return nil
}

func (d *PIOStepDriver) Info() core.StepBackendInfo {
	return core.StepBackendInfo{
		Name:          "pio",
		MinIntervalUs: pioMinIntervalUs,
		MaxIntervalUs: pioMaxIntervalUs,
	}
}

// pioClkDiv returns the divider that makes one pulse take intervalUs
func pioClkDiv(intervalUs uint32) (uint16, uint8, error) {
	cycleNs := intervalUs * 1000 / pioCyclesPerPulse
	return rp2pio.ClkDivFromPeriod(cycleNs, machine.CPUFrequency())
}
