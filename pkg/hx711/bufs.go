package hx711

import "sync"

var threeBytes = &sync.Pool{New: func() interface{} { return make([]byte, 3) }}

func get3Bytes() []byte {
	return threeBytes.Get().([]byte)
}

func put3Bytes(b []byte) {
	b[0], b[1], b[2] = 0, 0, 0
	threeBytes.Put(b)
}
