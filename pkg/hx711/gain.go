package hx711

// Gain selects the input channel and PGA gain for the next conversion.
// The HX711 has no register map; the selection is encoded purely in the
// number of extra clock pulses sent after each 24-bit frame.
type Gain int

const (
	GainA128 Gain = iota // channel A, gain 128
	GainA64              // channel A, gain 64
	GainB32              // channel B, gain 32 (fixed)
)

// Pulses returns the trailing clock pulse count that programs the gain,
// or 0 if the Gain value is not one the device supports.
func (g Gain) Pulses() int {
	switch g {
	case GainA128:
		return 1
	case GainA64:
		return 3
	case GainB32:
		return 2
	default:
		return 0
	}
}

func (g Gain) String() string {
	switch g {
	case GainA128:
		return "GAIN_A_128"
	case GainA64:
		return "GAIN_A_64"
	case GainB32:
		return "GAIN_B_32"
	default:
		return "(invalid gain)"
	}
}
