//go:build rp2040

package main

import "errors"

var (
	errInvalidPin       = errors.New("gpio: pin out of range")
	errPinInUse         = errors.New("gpio: pin already configured")
	errPinNotConfigured = errors.New("gpio: pin not configured")
	errNotPWMPin        = errors.New("pwm: pin has no PWM channel")
	errNoStateMachine   = errors.New("pio: no free state machine")
	errI2CPins          = errors.New("i2c: SDA and SCL are not a valid pair")
	errPanic            = errors.New("main loop panic")
)
