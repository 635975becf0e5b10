package hx711

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// tClk is the hold time either side of a clock edge. The datasheet wants
// PD_SCK high for at least 0.2us; anything past 60us powers the chip down
// mid-frame and every remaining bit reads back as one.
const tClk = time.Microsecond

// PinInterface interface allows for different PinInterface implementations.
//
// The HX711 speaks a two-wire protocol: one clock output (PD_SCK) and one
// data input (DOUT). Backends own pin setup and level I/O, nothing else;
// all timing and framing lives in the driver.
type PinInterface interface {
	// SetClock drives the PD_SCK line.
	SetClock(level bool) error

	// ReadData samples the DOUT line.
	ReadData() (bool, error)

	Init() error

	// Close closes the interface.
	Close() error
}

// HX711 provides high-level control over an Avia HX711 load-cell ADC.
//
// It uses a PinInterface for the two-wire signaling and keeps the gain
// selection plus calibration-free conversion logic here. One conversion
// sequence is in flight at a time; the mutex serializes callers.
type HX711 struct {
	mu   sync.Mutex
	pins PinInterface

	gain   Gain
	pulses int // trailing pulses after each 24-bit frame

	poll time.Duration // delay between readiness checks inside Read
}

// Config represents user-level configuration parameters
type Config struct {
	Gain         Gain          // channel/gain for conversions after Initialize
	PollInterval time.Duration // readiness poll delay used by Read; 0 => yield only
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		Gain:         GainA128,
		PollInterval: 100 * time.Microsecond,
	}
}

// New constructs an HX711 object with the given PinInterface.
func New(pins PinInterface) *HX711 {
	return &HX711{
		pins:   pins,
		gain:   GainA128,
		pulses: GainA128.Pulses(),
	}
}

// Initialize sets up the device with the provided config.
// Call it once at start-up. The clock line is driven low (normal
// operation) and the configured gain is applied, which burns one full
// conversion: the HX711 latches a new gain only on the pulse train that
// follows a completed frame.
func (h *HX711) Initialize(cfg Config) error {
	h.mu.Lock()

	h.poll = cfg.PollInterval

	if err := h.pins.Init(); err != nil {
		h.mu.Unlock()
		return err
	}

	if err := h.pins.SetClock(false); err != nil {
		h.mu.Unlock()
		return err
	}

	err := h.setGain(cfg.Gain)
	h.mu.Unlock()
	return err
}

// Gain returns the currently selected channel/gain.
func (h *HX711) Gain() Gain {
	h.mu.Lock()
	g := h.gain
	h.mu.Unlock()
	return g
}

// SetGain selects the channel and gain for subsequent conversions.
// Gain values the device does not support are ignored and the previous
// selection stays in force. A full conversion is performed to apply the
// change, so the call blocks until the device is ready.
func (h *HX711) SetGain(g Gain) error {
	h.mu.Lock()
	err := h.setGain(g)
	h.mu.Unlock()
	return err
}

func (h *HX711) setGain(g Gain) error {
	// An unsupported value leaves the previous selection in force; the
	// clock parking and flush conversion below happen regardless.
	if p := g.Pulses(); p != 0 {
		h.gain = g
		h.pulses = p
	}

	if err := h.pins.SetClock(false); err != nil {
		return err
	}

	// The new selection only takes effect on the pulse train following a
	// completed frame. Burn one conversion so it is live for the caller's
	// next Read.
	_, err := h.read()
	return err
}

// IsReady reports whether a conversion result is waiting to be shifted
// out. DOUT low is the device's "conversion complete" signal. No side
// effects, does not block.
func (h *HX711) IsReady() (bool, error) {
	level, err := h.pins.ReadData()
	if err != nil {
		return false, err
	}
	return !level, nil
}

// WaitReady blocks until the device reports ready, checking every poll.
// A poll of zero yields to the scheduler between checks instead of
// sleeping. There is no internal timeout: if the device never becomes
// ready this never returns. Errors only surface from pin I/O.
func (h *HX711) WaitReady(poll time.Duration) error {
	for {
		ready, err := h.IsReady()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		idle(poll)
	}
}

// WaitReadyRetries polls for readiness at most maxAttempts times,
// sleeping poll between checks. It returns true on the first ready
// observation and false once the attempts are exhausted.
func (h *HX711) WaitReadyRetries(maxAttempts int, poll time.Duration) (bool, error) {
	for i := 0; i < maxAttempts; i++ {
		ready, err := h.IsReady()
		if err != nil {
			return false, err
		}
		if ready {
			return true, nil
		}
		idle(poll)
	}
	return false, nil
}

// WaitReadyTimeout polls for readiness until timeout has elapsed,
// sleeping poll between checks. The budget is measured from entry
// against the monotonic clock.
func (h *HX711) WaitReadyTimeout(timeout, poll time.Duration) (bool, error) {
	start := time.Now()
	for {
		ready, err := h.IsReady()
		if err != nil {
			return false, err
		}
		if ready {
			return true, nil
		}
		if time.Since(start) >= timeout {
			return false, nil
		}
		idle(poll)
	}
}

// Read performs one conversion: it waits for readiness, shifts in the
// 24-bit two's complement result MSB first, then issues the trailing
// pulses that program the channel/gain for the next conversion.
//
// The shift-in plus pulse train must not be stretched: a clock-high
// period past 60us puts the chip into power-down mid-frame. The
// goroutine is pinned to its OS thread for that window.
func (h *HX711) Read() (int32, error) {
	h.mu.Lock()
	n, err := h.read()
	h.mu.Unlock()
	return n, err
}

func (h *HX711) read() (int32, error) {
	if err := h.WaitReady(h.poll); err != nil {
		return 0, err
	}

	buf := get3Bytes()
	defer put3Bytes(buf)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for i := 0; i < 3; i++ {
		b, err := h.shiftInByte()
		if err != nil {
			return 0, err
		}
		buf[i] = b
	}

	for i := 0; i < h.pulses; i++ {
		if err := h.pulseClock(); err != nil {
			return 0, err
		}
	}

	return Convert24To32(buf), nil
}

// shiftInByte clocks in 8 bits, MSB first. Each bit: clock high, hold,
// sample DOUT, clock low, hold.
func (h *HX711) shiftInByte() (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		if err := h.pins.SetClock(true); err != nil {
			return 0, err
		}
		time.Sleep(tClk)

		level, err := h.pins.ReadData()
		if err != nil {
			// drop the clock so the chip is not left counting
			// toward power-down
			return 0, errors.Join(err, h.pins.SetClock(false))
		}
		b <<= 1
		if level {
			b |= 1
		}

		if err = h.pins.SetClock(false); err != nil {
			return 0, err
		}
		time.Sleep(tClk)
	}
	return b, nil
}

func (h *HX711) pulseClock() error {
	if err := h.pins.SetClock(true); err != nil {
		return err
	}
	time.Sleep(tClk)
	if err := h.pins.SetClock(false); err != nil {
		return err
	}
	time.Sleep(tClk)
	return nil
}

// PowerUp drives the clock line low, resuming normal operation.
func (h *HX711) PowerUp() error {
	h.mu.Lock()
	err := h.pins.SetClock(false)
	h.mu.Unlock()
	return err
}

// PowerDown drives the clock line low then high. The chip shuts down
// once PD_SCK has been held high for 60us; holding it there is the
// caller's responsibility, this call only starts the sequence.
func (h *HX711) PowerDown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.pins.SetClock(false); err != nil {
		return err
	}
	return h.pins.SetClock(true)
}

func (h *HX711) Close() error {
	err := h.PowerDown()
	return errors.Join(err, h.pins.Close())
}

func idle(poll time.Duration) {
	if poll > 0 {
		time.Sleep(poll)
		return
	}
	runtime.Gosched()
}
