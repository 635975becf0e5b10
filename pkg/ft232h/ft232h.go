// Package ft232h adapts an FTDI FT232H breakout to the two-wire
// clock/data interface the hx711 driver consumes, using the chip's GPIO
// pins for both lines.
package ft232h

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/yunginnanet/ft232h"
)

// FT232H represents an FT232H device wired to an HX711: one GPIO pin
// driving PD_SCK, one reading DOUT.
type FT232H struct {
	*ft232h.FT232H

	clockPin ft232h.CPin
	dataPin  ft232h.CPin
}

// SetClockPin assigns the GPIO pin driving the HX711's PD_SCK line.
func (ft *FT232H) SetClockPin(pin uint) error {
	ft.clockPin = ft232h.CPin(pin)
	return ft.GPIO.ConfigPin(ft.clockPin, ft232h.Output, false)
}

// SetDataPin assigns the GPIO pin sampling the HX711's DOUT line.
func (ft *FT232H) SetDataPin(pin uint) error {
	ft.dataPin = ft232h.CPin(pin)
	return ft.GPIO.ConfigPin(ft.dataPin, ft232h.Input, true)
}

// SetClock drives the PD_SCK line.
func (ft *FT232H) SetClock(level bool) error {
	return ft.GPIO.Set(ft.clockPin, level)
}

// ReadData samples the DOUT line.
func (ft *FT232H) ReadData() (bool, error) {
	level, err := ft.GPIO.Get(ft.dataPin)
	if err != nil {
		return false, fmt.Errorf("failed to read DOUT pin: %w", err)
	}
	return level, nil
}

// Init verifies both pins have been assigned and parks the clock low.
func (ft *FT232H) Init() error {
	if ft.clockPin == 0 {
		return fmt.Errorf("PD_SCK pin not set")
	}
	if ft.dataPin == 0 {
		return fmt.Errorf("DOUT pin not set")
	}
	return ft.GPIO.Set(ft.clockPin, false)
}

func (ft *FT232H) Close() error {
	return ft.FT232H.Close()
}

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String returns a string representation of the device information.
func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns a string representation of the FT232H device. It includes the vendor ID, product ID, and description.
func (ft *FT232H) String() string {
	return fmt.Sprintf("FT232H[%s:%s]: %s", ft.Info().VendorID, ft.Info().ProductID, ft.Desc())
}

func (ft *FT232H) vidPid() (vid string, pid string) {
	vid = strconv.Itoa(int(ft.VID()))
	pid = strconv.Itoa(int(ft.PID()))

	b := bytes.NewBuffer(nil)
	h := hex.NewEncoder(b)

	if err := binary.Write(h, binary.BigEndian, ft.VID()); err == nil && len(b.String()) > 5 {
		vid = b.String()[4:]
	}

	b.Reset()

	if err := binary.Write(h, binary.BigEndian, ft.PID()); err == nil && len(b.String()) > 5 {
		pid = b.String()[4:]
	}

	return vid, pid
}

// ConnectFT232h opens an FT232H device, optionally selected by a
// [Descriptor]. With no arguments the first device found is used.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
		return ft, err
	case 1:
		desc := choice[0]
		if err = desc.Validate(); err != nil {
			return nil, ErrBadDescriptor
		}
		ft.FT232H, err = ft232h.OpenMask(desc.Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	return ft, err
}
