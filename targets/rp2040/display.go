//go:build rp2040

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"powerfeed/config"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// SSD1306Display draws the two status lines centered on a monochrome OLED
type SSD1306Display struct {
	dev    *ssd1306.Device
	font   tinyfont.Fonter
	width  int16
	height int16
}

// NewSSD1306Display configures the I2C bus and the panel
func NewSSD1306Display(pins config.Pins, cfg config.DisplayConfig) (*SSD1306Display, error) {
	bus, err := i2cForPins(pins.SDA, pins.SCL)
	if err != nil {
		return nil, err
	}
	err = bus.Configure(machine.I2CConfig{
		Frequency: cfg.I2CFrequency,
		SDA:       machine.Pin(pins.SDA),
		SCL:       machine.Pin(pins.SCL),
	})
	if err != nil {
		return nil, err
	}

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Address: cfg.Address,
	})
	dev.ClearDisplay()

	return &SSD1306Display{
		dev:    dev,
		font:   &freemono.Regular9pt7b,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

// ShowStatus clears the frame buffer, draws both lines and flushes it
func (d *SSD1306Display) ShowStatus(line1, line2 string) error {
	d.dev.ClearBuffer()

	// Baselines at one third and two thirds of the panel height
	d.drawCentered(line1, d.height/3)
	d.drawCentered(line2, d.height*2/3)

	return d.dev.Display()
}

func (d *SSD1306Display) drawCentered(text string, baseline int16) {
	if text == "" {
		return
	}
	_, w := tinyfont.LineWidth(d.font, text)
	x := (d.width - int16(w)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(d.dev, d.font, x, baseline, text, white)
}

// i2cForPins picks the RP2040 I2C block that owns the given SDA/SCL pair
func i2cForPins(sda, scl uint8) (*machine.I2C, error) {
	// SDA is the even pin of each pair; the block alternates every two pins
	if sda%2 != 0 || scl != sda+1 {
		return nil, errI2CPins
	}
	if (sda/2)%2 == 0 {
		return machine.I2C0, nil
	}
	return machine.I2C1, nil
}
