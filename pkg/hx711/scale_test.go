package hx711

import (
	"math"
	"testing"
)

func TestReadAverage(t *testing.T) {
	s := NewScale(New(newFakePins(10, 20, 30)))

	avg, err := s.ReadAverage(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != 20 {
		t.Errorf("expected 20, got %f", avg)
	}
}

func TestTare(t *testing.T) {
	s := NewScale(New(newFakePins(100, 200, 160)))

	if err := s.Tare(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Offset() != 150 {
		t.Errorf("expected offset 150, got %d", s.Offset())
	}

	v, err := s.Value(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 10 {
		t.Errorf("expected offsetted value 10, got %f", v)
	}
}

func TestCalibrateThenUnits(t *testing.T) {
	// constant load: 10 samples for Calibrate, 1 for Units
	s := NewScale(New(newFakePins(repeat(1000, 11)...)))
	s.SetScale(2)

	const reference = 50.0

	if err := s.Calibrate(reference); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	units, err := s.Units(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(units-reference) > 1e-9 {
		t.Errorf("expected %f, got %f", reference, units)
	}
}

func TestWeigh(t *testing.T) {
	s := NewScale(New(newFakePins(160)))
	s.SetOffset(150)
	s.SetScale(2)

	raw, units, err := s.Weigh(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != 160 {
		t.Errorf("expected raw 160, got %f", raw)
	}
	if units != 5 {
		t.Errorf("expected units 5, got %f", units)
	}
}

func TestUnitsUncalibrated(t *testing.T) {
	// defaults: offset 0, scale 1, ratio 1 => Units is the raw average
	s := NewScale(New(newFakePins(1234)))

	units, err := s.Units(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units != 1234 {
		t.Errorf("expected 1234, got %f", units)
	}
}

func TestAccessors(t *testing.T) {
	pins := newFakePins()
	s := NewScale(New(pins))

	s.SetScale(7.5)
	if s.Scale() != 7.5 {
		t.Errorf("expected scale 7.5, got %f", s.Scale())
	}

	s.SetOffset(-42)
	if s.Offset() != -42 {
		t.Errorf("expected offset -42, got %d", s.Offset())
	}

	// zero scale is accepted verbatim
	s.SetScale(0)
	if s.Scale() != 0 {
		t.Errorf("expected scale 0, got %f", s.Scale())
	}

	if pins.polls != 0 {
		t.Errorf("accessors should not touch the device, saw %d polls", pins.polls)
	}
}
