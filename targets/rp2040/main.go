//go:build rp2040

package main

import (
	"machine"
	"time"

	"powerfeed/config"
	"powerfeed/core"
)

var (
	telemetry  *core.TelemetryWriter
	stepDriver core.StepPulseDriver
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	UpdateSystemTime()

	cfg := config.DefaultConfig()

	core.SetDebugWriter(logLine)
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	ctrl, err := buildController(cfg)
	if err != nil {
		fatal("init", err)
	}
	if err := ctrl.Init(); err != nil {
		fatal("init", err)
	}

	var onReport func(core.Status)
	if cfg.Telemetry.Enabled {
		telemetry = core.NewTelemetryWriter(queueLine)
		onReport = telemetry.Report
	}

	loop := core.NewLoop(ctrl, cfg.PollIntervalMs, cfg.Telemetry.IntervalMs, onReport, func(err error) {
		fatal("cycle", err)
	})
	loop.Start()

	// Main loop - keep the clock current, run due timers, drain USB
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fatal("panic", errPanic)
				}
			}()

			UpdateSystemTime()
			core.ProcessTimers()
			flushUSB()
		}()

		// Yield to the debug worker and USB stack
		time.Sleep(100 * time.Microsecond)
	}
}

// buildController wires the configured hardware to a controller
func buildController(cfg *config.Config) (*core.Controller, error) {
	var step core.StepPulseDriver
	switch cfg.StepBackend {
	case config.BackendPIO:
		step = NewPIOStepDriver(0)
	default:
		step = NewPWMStepDriver()
	}
	stepDriver = step

	counter, err := NewDialCounter(cfg.Pins.EncoderA, cfg.Pins.EncoderB)
	if err != nil {
		return nil, err
	}

	display, err := NewSSD1306Display(cfg.Pins, cfg.Display)
	if err != nil {
		return nil, err
	}

	return core.NewController(cfg.ControllerConfig(), core.Drivers{
		GPIO:    NewRPGPIODriver(),
		Step:    step,
		Counter: counter,
		Display: display,
	})
}

// fatal logs the failure, dumps the event ring and resets through the watchdog.
// A power feed that cannot drive its outputs must not keep running.
func fatal(stage string, err error) {
	if stepDriver != nil {
		stepDriver.DisablePulses()
	}

	core.SetDebugEnabled(true)
	core.DebugPrintln("powerfeed: fatal " + stage + ": " + err.Error())
	core.DumpEventRing()
	for i := 0; i < 50 && !txQueue.IsEmpty(); i++ {
		flushUSB()
		time.Sleep(time.Millisecond)
	}

	err = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	if err == nil {
		machine.Watchdog.Start()
	}
	// Wait for reset (should happen in ~1ms)
	for {
		time.Sleep(1 * time.Millisecond)
	}
}
