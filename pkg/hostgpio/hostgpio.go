// Package hostgpio implements the hx711 pin interface on top of
// periph.io host GPIO, for boards whose pins are addressable by name
// (Raspberry Pi headers, sysfs numbers, and the like).
package hostgpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pins binds two named host GPIOs to the HX711's two-wire interface.
type Pins struct {
	clock gpio.PinIO // PD_SCK, output
	data  gpio.PinIO // DOUT, input
}

// Open resolves the clock and data pins by name, e.g. "GPIO6" and
// "GPIO5" on a Raspberry Pi, or plain numbers for sysfs pins.
func Open(clockName, dataName string) (*Pins, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	clock := gpioreg.ByName(clockName)
	if clock == nil {
		return nil, fmt.Errorf("no such pin: %q", clockName)
	}
	data := gpioreg.ByName(dataName)
	if data == nil {
		return nil, fmt.Errorf("no such pin: %q", dataName)
	}

	return &Pins{clock: clock, data: data}, nil
}

// Init configures the clock as a low output and the data line as an
// input with no pull; the HX711 drives DOUT push-pull.
func (p *Pins) Init() error {
	if err := p.clock.Out(gpio.Low); err != nil {
		return fmt.Errorf("config %s: %w", p.clock.Name(), err)
	}
	if err := p.data.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("config %s: %w", p.data.Name(), err)
	}
	return nil
}

// SetClock drives the PD_SCK line.
func (p *Pins) SetClock(level bool) error {
	return p.clock.Out(gpio.Level(level))
}

// ReadData samples the DOUT line.
func (p *Pins) ReadData() (bool, error) {
	return bool(p.data.Read()), nil
}

// Close parks the clock low so the device stays powered, and halts both
// pins.
func (p *Pins) Close() error {
	if err := p.clock.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.clock.Halt(); err != nil {
		return err
	}
	return p.data.Halt()
}
