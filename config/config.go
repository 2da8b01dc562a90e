package config

import (
	"encoding/json"
	"errors"

	"powerfeed/core"
)

// Step backend names accepted in Config.StepBackend
const (
	BackendPWM = "pwm"
	BackendPIO = "pio"
)

var (
	ErrZeroStepsPerRev  = errors.New("config: steps_per_rev must be positive")
	ErrUnknownBackend   = errors.New("config: unknown step backend")
	ErrDuplicatePin     = errors.New("config: pin assigned twice")
	ErrDisplayGeometry  = errors.New("config: display width and height must be positive")
	ErrZeroPollInterval = errors.New("config: poll_interval_ms must be positive")
)

// Pins is the RP2040 GPIO assignment
type Pins struct {
	DirLeft  uint8 `json:"dir_left"`
	DirRight uint8 `json:"dir_right"`
	Rapid    uint8 `json:"rapid"`
	Limit    uint8 `json:"limit"`
	Step     uint8 `json:"step"`
	Dir      uint8 `json:"dir"`
	EncoderA uint8 `json:"encoder_a"`
	EncoderB uint8 `json:"encoder_b"`
	SDA      uint8 `json:"sda"`
	SCL      uint8 `json:"scl"`
}

// DisplayConfig describes the SSD1306 panel
type DisplayConfig struct {
	Address      uint16 `json:"address"`
	Width        int16  `json:"width"`
	Height       int16  `json:"height"`
	I2CFrequency uint32 `json:"i2c_frequency"`
}

// TelemetryConfig controls the periodic status frame on USB
type TelemetryConfig struct {
	Enabled    bool   `json:"enabled"`
	IntervalMs uint32 `json:"interval_ms"`
}

// Config is the full power feed configuration
type Config struct {
	Pins Pins `json:"pins"`

	// InvertLimit is set for a normally-closed limit switch
	InvertLimit       bool `json:"invert_limit"`
	ActiveLowSwitches bool `json:"active_low_switches"`
	InvertDir         bool `json:"invert_dir"`

	StepsPerRev    uint16 `json:"steps_per_rev"`
	StepBackend    string `json:"step_backend"`
	PollIntervalMs uint32 `json:"poll_interval_ms"`

	Display   DisplayConfig   `json:"display"`
	Telemetry TelemetryConfig `json:"telemetry"`

	Debug bool `json:"debug"`
}

// LoadConfig parses a JSON configuration on top of DefaultConfig.
// Fields absent from the JSON keep their default values.
func LoadConfig(jsonData []byte) (*Config, error) {
	config := DefaultConfig()

	err := json.Unmarshal(jsonData, config)
	if err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills zero values that JSON explicitly cleared
func applyDefaults(config *Config) {
	if config.StepsPerRev == 0 {
		config.StepsPerRev = core.DefaultStepsPerRev
	}
	if config.StepBackend == "" {
		config.StepBackend = BackendPWM
	}
	if config.PollIntervalMs == 0 {
		config.PollIntervalMs = 25
	}

	if config.Display.Address == 0 {
		config.Display.Address = 0x3C
	}
	if config.Display.I2CFrequency == 0 {
		config.Display.I2CFrequency = 400000
	}

	if config.Telemetry.IntervalMs == 0 {
		config.Telemetry.IntervalMs = 500
	}
}

// DefaultConfig returns the wiring of the reference power feed board
func DefaultConfig() *Config {
	return &Config{
		Pins: Pins{
			DirLeft:  2,
			DirRight: 3,
			Rapid:    4,
			Limit:    5,
			Step:     6,
			Dir:      7,
			EncoderA: 10,
			EncoderB: 11,
			SDA:      12,
			SCL:      13,
		},
		InvertLimit:       true,
		ActiveLowSwitches: true,
		StepsPerRev:       core.DefaultStepsPerRev,
		StepBackend:       BackendPWM,
		PollIntervalMs:    25,
		Display: DisplayConfig{
			Address:      0x3C,
			Width:        128,
			Height:       64,
			I2CFrequency: 400000,
		},
		Telemetry: TelemetryConfig{
			Enabled:    true,
			IntervalMs: 500,
		},
	}
}

// Validate checks the configuration for values the firmware cannot run with
func (c *Config) Validate() error {
	if c.StepsPerRev == 0 {
		return ErrZeroStepsPerRev
	}
	if c.PollIntervalMs == 0 {
		return ErrZeroPollInterval
	}

	switch c.StepBackend {
	case BackendPWM, BackendPIO:
	default:
		return ErrUnknownBackend
	}

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return ErrDisplayGeometry
	}

	var used [256]bool
	for _, pin := range c.Pins.list() {
		if used[pin] {
			return ErrDuplicatePin
		}
		used[pin] = true
	}
	return nil
}

func (p Pins) list() []uint8 {
	return []uint8{p.DirLeft, p.DirRight, p.Rapid, p.Limit, p.Step, p.Dir, p.EncoderA, p.EncoderB, p.SDA, p.SCL}
}

// ControllerConfig converts the configuration to the core controller wiring
func (c *Config) ControllerConfig() core.ControllerConfig {
	sw := func(pin uint8, invert bool) core.SwitchInput {
		return core.SwitchInput{Pin: core.GPIOPin(pin), ActiveLow: c.ActiveLowSwitches, Invert: invert}
	}
	return core.ControllerConfig{
		DirLeft:     sw(c.Pins.DirLeft, false),
		DirRight:    sw(c.Pins.DirRight, false),
		Rapid:       sw(c.Pins.Rapid, false),
		Limit:       sw(c.Pins.Limit, c.InvertLimit),
		StepPin:     core.GPIOPin(c.Pins.Step),
		DirPin:      core.GPIOPin(c.Pins.Dir),
		InvertDir:   c.InvertDir,
		StepsPerRev: c.StepsPerRev,
	}
}
