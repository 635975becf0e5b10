package hx711

// Convert24To32 sign-extends a 24-bit two's complement HX711 frame,
// shifted out as three bytes MSB first, into an int32.
func Convert24To32(data []byte) int32 {
	// the top bit of the first byte carries the sign
	var u32 uint32
	u32 |= uint32(data[0]) << 16
	u32 |= uint32(data[1]) << 8
	u32 |= uint32(data[2])

	if (u32 & 0x800000) != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}
