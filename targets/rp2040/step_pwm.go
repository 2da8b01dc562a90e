//go:build rp2040

package main

import (
	"machine"

	"powerfeed/core"
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// PWM slice limits at 125MHz: 8-bit integer divider and 16-bit counter
const (
	pwmMinIntervalUs = 1
	pwmMaxIntervalUs = 130000
)

// idleIntervalUs is the period both backends load before the first SetPulseInterval
const idleIntervalUs = 1000

// PWMStepDriver generates step pulses with one RP2040 PWM slice at 50% duty.
// The slice keeps running while disabled; the channel is held at zero duty.
type PWMStepDriver struct {
	pwm        pwmPeripheral
	channel    uint8
	intervalUs uint32
	enabled    bool
}

// NewPWMStepDriver creates an unconfigured PWM step backend
func NewPWMStepDriver() *PWMStepDriver {
	return &PWMStepDriver{}
}

// ConfigureStepOutput claims the slice for the step pin
func (d *PWMStepDriver) ConfigureStepOutput(step core.GPIOPin) error {
	pinNum := uint32(step)
	if pinNum >= numGPIO {
		return errInvalidPin
	}

	// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7, channel N & 1
	pwm := getPWMPeripheral(uint8((pinNum >> 1) & 0x7))

	d.intervalUs = idleIntervalUs
	if err := pwm.Configure(machine.PWMConfig{Period: periodNs(d.intervalUs)}); err != nil {
		return err
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return errNotPWMPin
	}

	d.pwm = pwm
	d.channel = channel
	d.pwm.Set(d.channel, 0)
	return nil
}

// SetPulseInterval retunes the slice period, keeping the current enable state
func (d *PWMStepDriver) SetPulseInterval(intervalUs uint32) error {
	if err := d.pwm.SetPeriod(periodNs(intervalUs)); err != nil {
		return err
	}
	d.intervalUs = intervalUs
	if d.enabled {
		d.pwm.Set(d.channel, d.pwm.Top()/2)
	}
	return nil
}

// EnablePulses sets 50% duty so the step pin toggles once per period
func (d *PWMStepDriver) EnablePulses() error {
	d.pwm.Set(d.channel, d.pwm.Top()/2)
	d.enabled = true
	return nil
}

// DisablePulses holds the step pin low
func (d *PWMStepDriver) DisablePulses() error {
	if d.pwm == nil {
		return nil
	}
	d.pwm.Set(d.channel, 0)
	d.enabled = false
	return nil
}

func (d *PWMStepDriver) Info() core.StepBackendInfo {
	return core.StepBackendInfo{
		Name:          "pwm",
		MinIntervalUs: pwmMinIntervalUs,
		MaxIntervalUs: pwmMaxIntervalUs,
	}
}

func periodNs(intervalUs uint32) uint64 {
	return uint64(intervalUs) * 1000
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
// RP2040 has 8 PWM slices: PWM0-PWM7
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		// Should never happen with proper masking
		return machine.PWM0
	}
}
