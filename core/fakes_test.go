package core

import "errors"

var errFakeBus = errors.New("fake bus error")

// fakeGPIODriver is an in-memory GPIODriver for tests
type fakeGPIODriver struct {
	levels  map[GPIOPin]bool
	modes   map[GPIOPin]string
	failOut bool
}

func newFakeGPIODriver() *fakeGPIODriver {
	return &fakeGPIODriver{
		levels: make(map[GPIOPin]bool),
		modes:  make(map[GPIOPin]string),
	}
}

func (f *fakeGPIODriver) ConfigureOutput(pin GPIOPin) error {
	f.modes[pin] = "out"
	return nil
}

func (f *fakeGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	f.modes[pin] = "pullup"
	if _, ok := f.levels[pin]; !ok {
		f.levels[pin] = true
	}
	return nil
}

func (f *fakeGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	f.modes[pin] = "pulldown"
	return nil
}

func (f *fakeGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if f.failOut {
		return errFakeBus
	}
	f.levels[pin] = value
	return nil
}

func (f *fakeGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return f.levels[pin], nil
}

func (f *fakeGPIODriver) ReadPin(pin GPIOPin) bool {
	return f.levels[pin]
}

// fakeStepDriver records every call made to it
type fakeStepDriver struct {
	pin        GPIOPin
	intervalUs uint32
	enabled    bool
	calls      []string
	failEnable bool
	info       StepBackendInfo
}

func newFakeStepDriver() *fakeStepDriver {
	return &fakeStepDriver{
		info: StepBackendInfo{Name: "fake", MinIntervalUs: 1, MaxIntervalUs: 1000000},
	}
}

func (f *fakeStepDriver) ConfigureStepOutput(step GPIOPin) error {
	f.pin = step
	f.calls = append(f.calls, "configure")
	return nil
}

func (f *fakeStepDriver) SetPulseInterval(intervalUs uint32) error {
	f.intervalUs = intervalUs
	f.calls = append(f.calls, "interval")
	return nil
}

func (f *fakeStepDriver) EnablePulses() error {
	if f.failEnable {
		return errFakeBus
	}
	f.enabled = true
	f.calls = append(f.calls, "enable")
	return nil
}

func (f *fakeStepDriver) DisablePulses() error {
	f.enabled = false
	f.calls = append(f.calls, "disable")
	return nil
}

func (f *fakeStepDriver) Info() StepBackendInfo {
	return f.info
}

// fakeCounter is a settable QuadratureCounter
type fakeCounter struct {
	count uint16
}

func (f *fakeCounter) Count() uint16 {
	return f.count
}

// fakeDisplay keeps the last drawn lines
type fakeDisplay struct {
	line1, line2 string
	draws        int
	fail         bool
}

func (f *fakeDisplay) ShowStatus(line1, line2 string) error {
	if f.fail {
		return errFakeBus
	}
	f.line1, f.line2 = line1, line2
	f.draws++
	return nil
}
