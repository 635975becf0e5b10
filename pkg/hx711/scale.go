package hx711

import "runtime"

// calibrationSamples is the fixed sample count used by Calibrate.
const calibrationSamples = 10

// Scale layers load-cell calibration state on top of an HX711: a tare
// offset in raw counts, a user-chosen scale divisor, and a calibration
// ratio derived from a known reference weight. State lives for the
// lifetime of the Scale and is owned by it alone; nothing is persisted.
type Scale struct {
	adc *HX711

	offset int32   // raw code corresponding to zero load
	scale  float64 // user divisor, e.g. counts per unit before calibration
	ratio  float64 // derived so a known reference weight reads correctly
}

// NewScale wraps an HX711 with fresh calibration state (offset 0,
// scale 1, ratio 1).
func NewScale(adc *HX711) *Scale {
	return &Scale{adc: adc, scale: 1, ratio: 1}
}

// ReadAverage performs n conversions and returns their arithmetic mean.
// n must be >= 1. The scheduler gets a chance to run between samples so
// long averaging runs do not starve other goroutines.
func (s *Scale) ReadAverage(n int) (float64, error) {
	var sum int64
	for i := 0; i < n; i++ {
		code, err := s.adc.Read()
		if err != nil {
			return 0, err
		}
		sum += int64(code)
		runtime.Gosched()
	}
	return float64(sum) / float64(n), nil
}

// Value returns the n-sample average with the tare offset removed.
func (s *Scale) Value(n int) (float64, error) {
	avg, err := s.ReadAverage(n)
	if err != nil {
		return 0, err
	}
	return avg - float64(s.offset), nil
}

// Units returns the n-sample reading converted to physical units:
// offsetted value times the calibration ratio, divided by the scale.
func (s *Scale) Units(n int) (float64, error) {
	v, err := s.Value(n)
	if err != nil {
		return 0, err
	}
	return s.toUnits(v), nil
}

// Weigh performs one n-sample run and returns both the raw average and
// its unit conversion, so both come from the same conversions.
func (s *Scale) Weigh(n int) (raw float64, units float64, err error) {
	avg, err := s.ReadAverage(n)
	if err != nil {
		return 0, 0, err
	}
	return avg, s.toUnits(avg - float64(s.offset)), nil
}

func (s *Scale) toUnits(value float64) float64 {
	return value * s.ratio / s.scale
}

// Calibrate derives the calibration ratio from a known reference weight
// currently resting on the sensor. Tare first, with the sensor empty,
// or the ratio is meaningless. An offsetted value of zero produces an
// infinite ratio; no error is reported.
func (s *Scale) Calibrate(referenceWeight float64) error {
	v, err := s.Value(calibrationSamples)
	if err != nil {
		return err
	}
	s.ratio = referenceWeight / (v / s.scale)
	return nil
}

// Tare zeroes the scale under the current load by capturing the
// n-sample average as the new offset.
func (s *Scale) Tare(n int) error {
	avg, err := s.ReadAverage(n)
	if err != nil {
		return err
	}
	s.offset = int32(avg)
	return nil
}

// SetScale sets the scale divisor. Zero is accepted and will surface as
// a division by zero in Units and Calibrate.
func (s *Scale) SetScale(v float64) { s.scale = v }

// Scale returns the scale divisor.
func (s *Scale) Scale() float64 { return s.scale }

// SetOffset sets the tare offset in raw counts.
func (s *Scale) SetOffset(v int32) { s.offset = v }

// Offset returns the tare offset in raw counts.
func (s *Scale) Offset() int32 { return s.offset }
