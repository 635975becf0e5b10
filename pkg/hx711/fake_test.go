package hx711

// fakePins emulates the HX711 wire behavior for tests: DOUT goes low
// when a conversion is ready, the 24-bit code shifts out MSB first on
// rising clock edges, and any extra rising edges after the frame are
// counted as gain pulses.
type fakePins struct {
	clock bool
	level bool // DOUT while a frame is shifting

	queue []int32 // canned conversion codes, consumed in order
	cur   uint32
	bit   int
	extra int

	pulseLog []int // trailing pulse count recorded per completed frame
	notReady int   // readiness checks to answer "busy" before each frame
	polls    int   // readiness checks observed

	inited bool
	closed bool
}

func newFakePins(codes ...int32) *fakePins {
	f := &fakePins{queue: codes}
	f.arm()
	return f
}

func (f *fakePins) arm() {
	f.bit, f.extra = 0, 0
	if len(f.queue) > 0 {
		f.cur = uint32(f.queue[0]) & 0xFFFFFF
		f.queue = f.queue[1:]
	} else {
		f.cur = 0
	}
}

func (f *fakePins) SetClock(level bool) error {
	if level && !f.clock {
		if f.bit < 24 {
			f.level = (f.cur>>(23-uint(f.bit)))&1 == 1
			f.bit++
		} else {
			f.extra++
		}
	}
	f.clock = level
	return nil
}

func (f *fakePins) ReadData() (bool, error) {
	if f.clock {
		return f.level, nil
	}

	// Clock idle: the driver is polling readiness. A completed frame is
	// retired here so its trailing pulse count is on record before the
	// next one starts.
	if f.bit == 24 {
		f.pulseLog = append(f.pulseLog, f.extra)
		f.arm()
	}

	f.polls++
	if f.notReady > 0 {
		f.notReady--
		return true, nil // DOUT high: conversion still running
	}
	return false, nil // DOUT low: ready
}

func (f *fakePins) Init() error {
	f.inited = true
	return nil
}

func (f *fakePins) Close() error {
	f.closed = true
	return nil
}

func repeat(code int32, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = code
	}
	return out
}
