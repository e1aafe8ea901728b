package vp8

// testEncoder is a VP8 boolean encoder used only by this package's golden
// tests, to synthesize bitstreams whose decode this package can then
// assert against. It mirrors VP8BitWriter's PutBit/Flush from libwebp
// (the same algorithm internal/bitio's BoolReader inverts), duplicated here
// rather than imported since it is test-only scaffolding, not part of this
// package's production decode path.
type testEncoder struct {
	vrange uint32
	value  uint64
	run    int
	nbBits int
	buf    []byte
}

func newTestEncoder() *testEncoder {
	return &testEncoder{vrange: 255 - 1, nbBits: -8}
}

// testLog2Range/testNewRange are the same range-normalization tables
// internal/bitio's BoolReader uses for decode; the encoder and decoder
// share them by construction of the arithmetic coder.
var testLog2Range = [128]uint8{
	7, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0,
}

var testNewRange = [128]uint8{
	127, 127, 191, 127, 159, 191, 223, 127, 143, 159, 175, 191, 207, 223, 239,
	127, 135, 143, 151, 159, 167, 175, 183, 191, 199, 207, 215, 223, 231, 239,
	247, 127, 131, 135, 139, 143, 147, 151, 155, 159, 163, 167, 171, 175, 179,
	183, 187, 191, 195, 199, 203, 207, 211, 215, 219, 223, 227, 231, 235, 239,
	243, 247, 251, 127, 129, 131, 133, 135, 137, 139, 141, 143, 145, 147, 149,
	151, 153, 155, 157, 159, 161, 163, 165, 167, 169, 171, 173, 175, 177, 179,
	181, 183, 185, 187, 189, 191, 193, 195, 197, 199, 201, 203, 205, 207, 209,
	211, 213, 215, 217, 219, 221, 223, 225, 227, 229, 231, 233, 235, 237, 239,
	241, 243, 245, 247, 249, 251, 253, 127,
}

func (e *testEncoder) putBit(bit int, prob uint8) {
	split := (e.vrange * uint32(prob)) >> 8
	if bit != 0 {
		e.value += uint64(split) + 1
		e.vrange -= split + 1
	} else {
		e.vrange = split
	}
	if e.vrange < 127 {
		shift := int(testLog2Range[e.vrange])
		e.vrange = uint32(testNewRange[e.vrange])
		e.value <<= uint(shift)
		e.nbBits += shift
		if e.nbBits > 0 {
			e.flush()
		}
	}
}

func (e *testEncoder) putBitUniform(bit int) {
	split := e.vrange >> 1
	if bit != 0 {
		e.value += uint64(split) + 1
		e.vrange -= split + 1
	} else {
		e.vrange = split
	}
	if e.vrange < 127 {
		e.vrange = uint32(testNewRange[e.vrange])
		e.value <<= 1
		e.nbBits++
		if e.nbBits > 0 {
			e.flush()
		}
	}
}

func (e *testEncoder) putBits(value uint32, nbBits int) {
	for mask := uint32(1) << uint(nbBits-1); mask != 0; mask >>= 1 {
		bit := 0
		if value&mask != 0 {
			bit = 1
		}
		e.putBitUniform(bit)
	}
}

func (e *testEncoder) putSignedValue(value int, numBits int) {
	if value < 0 {
		e.putBits(uint32(-value), numBits)
		e.putBitUniform(1)
	} else {
		e.putBits(uint32(value), numBits)
		e.putBitUniform(0)
	}
}

func (e *testEncoder) flush() {
	s := uint(8 + e.nbBits)
	bits := e.value >> s
	e.value -= bits << s
	e.nbBits -= 8

	if bits&0xff != 0xff {
		if bits&0x100 != 0 && len(e.buf) > 0 {
			e.buf[len(e.buf)-1]++
		}
		fill := byte(0xff)
		if bits&0x100 != 0 {
			fill = 0x00
		}
		for ; e.run > 0; e.run-- {
			e.buf = append(e.buf, fill)
		}
		e.buf = append(e.buf, byte(bits&0xff))
	} else {
		e.run++
	}
}

func (e *testEncoder) finish() []byte {
	e.putBits(0, 9-e.nbBits)
	e.nbBits = 0
	e.flush()
	return e.buf
}
