package vp8

// Intra prediction, covering all three mode families the bitstream can
// select: whole-macroblock luma (16x16), whole-macroblock chroma (8x8), and
// per-sub-block luma (4x4, 10 "B modes").
//
// Convention: every predictor receives the macroblock's reconstruction
// buffer (buf) and an offset (off) such that buf[off] is the block's
// top-left pixel. Reference pixels always sit before off:
//   buf[off-BPS+i]   top row
//   buf[off-1+j*BPS] left column
//   buf[off-BPS-1]   top-left corner
// Keeping the offset explicit (rather than negative slice indices) keeps
// every access within Go's bounds-checked range.

// Luma 16x16 modes.
const (
	predDC = iota
	predTM
	predVE
	predHE
	numLumaModes
)

// 4x4 B-modes (luma sub-blocks), in bitstream tree order.
const (
	bDC = iota
	bTM
	bVE
	bHE
	bRD
	bVR
	bLD
	bVL
	bHD
	bHU
	numBModes
)

func avg3(a, b, c uint8) uint8 { return uint8((int(a) + 2*int(b) + int(c) + 2) >> 2) }
func avg2(a, b uint8) uint8    { return uint8((int(a) + int(b) + 1) >> 1) }

// ---- 16x16 luma ----

func predLuma16(buf []byte, off, mode int, hasTop, hasLeft bool) {
	switch {
	case mode == predDC:
		predDC16(buf, off, hasTop, hasLeft)
	case mode == predTM:
		predTM16(buf, off)
	case mode == predVE:
		predVE16(buf, off)
	case mode == predHE:
		predHE16(buf, off)
	}
}

func predDC16(buf []byte, off int, hasTop, hasLeft bool) {
	var v uint8
	switch {
	case hasTop && hasLeft:
		dc := 0
		for i := 0; i < 16; i++ {
			dc += int(buf[off+i-BPS])
			dc += int(buf[off-1+i*BPS])
		}
		v = uint8((dc + 16) >> 5)
	case hasTop:
		dc := 0
		for i := 0; i < 16; i++ {
			dc += int(buf[off+i-BPS])
		}
		v = uint8((dc + 8) >> 4)
	case hasLeft:
		dc := 0
		for i := 0; i < 16; i++ {
			dc += int(buf[off-1+i*BPS])
		}
		v = uint8((dc + 8) >> 4)
	default:
		v = 128
	}
	fillBlock(buf, off, 16, 16, v)
}

func predTM16(buf []byte, off int) {
	tl := int(buf[off-1-BPS])
	for j := 0; j < 16; j++ {
		base := int(buf[off-1+j*BPS]) - tl
		row := off + j*BPS
		for i := 0; i < 16; i++ {
			buf[row+i] = clip8b(base + int(buf[off+i-BPS]))
		}
	}
}

func predVE16(buf []byte, off int) {
	for j := 0; j < 16; j++ {
		copy(buf[off+j*BPS:off+j*BPS+16], buf[off-BPS:off-BPS+16])
	}
}

func predHE16(buf []byte, off int) {
	for j := 0; j < 16; j++ {
		fillBlock(buf, off+j*BPS, 16, 1, buf[off-1+j*BPS])
	}
}

func fillBlock(buf []byte, off, w, h int, v uint8) {
	for j := 0; j < h; j++ {
		row := off + j*BPS
		for i := 0; i < w; i++ {
			buf[row+i] = v
		}
	}
}

// ---- 8x8 chroma ----

func predChroma8(buf []byte, off, mode int, hasTop, hasLeft bool) {
	switch mode {
	case predDC:
		predDC8(buf, off, hasTop, hasLeft)
	case predTM:
		predTM8(buf, off)
	case predVE:
		predVE8(buf, off)
	case predHE:
		predHE8(buf, off)
	}
}

func predDC8(buf []byte, off int, hasTop, hasLeft bool) {
	var v uint8
	switch {
	case hasTop && hasLeft:
		dc := 0
		for i := 0; i < 8; i++ {
			dc += int(buf[off+i-BPS])
			dc += int(buf[off-1+i*BPS])
		}
		v = uint8((dc + 8) >> 4)
	case hasTop:
		dc := 0
		for i := 0; i < 8; i++ {
			dc += int(buf[off+i-BPS])
		}
		v = uint8((dc + 4) >> 3)
	case hasLeft:
		dc := 0
		for i := 0; i < 8; i++ {
			dc += int(buf[off-1+i*BPS])
		}
		v = uint8((dc + 4) >> 3)
	default:
		v = 128
	}
	fillBlock(buf, off, 8, 8, v)
}

func predTM8(buf []byte, off int) {
	tl := int(buf[off-1-BPS])
	for j := 0; j < 8; j++ {
		base := int(buf[off-1+j*BPS]) - tl
		row := off + j*BPS
		for i := 0; i < 8; i++ {
			buf[row+i] = clip8b(base + int(buf[off+i-BPS]))
		}
	}
}

func predVE8(buf []byte, off int) {
	for j := 0; j < 8; j++ {
		copy(buf[off+j*BPS:off+j*BPS+8], buf[off-BPS:off-BPS+8])
	}
}

func predHE8(buf []byte, off int) {
	for j := 0; j < 8; j++ {
		fillBlock(buf, off+j*BPS, 8, 1, buf[off-1+j*BPS])
	}
}

// ---- 4x4 luma B-modes ----

func predLuma4(buf []byte, off, mode int) {
	switch mode {
	case bDC:
		b4dc(buf, off)
	case bTM:
		b4tm(buf, off)
	case bVE:
		b4ve(buf, off)
	case bHE:
		b4he(buf, off)
	case bRD:
		b4rd(buf, off)
	case bVR:
		b4vr(buf, off)
	case bLD:
		b4ld(buf, off)
	case bVL:
		b4vl(buf, off)
	case bHD:
		b4hd(buf, off)
	case bHU:
		b4hu(buf, off)
	}
}

func b4dc(buf []byte, off int) {
	dc := 0
	for i := 0; i < 4; i++ {
		dc += int(buf[off+i-BPS])
		dc += int(buf[off-1+i*BPS])
	}
	fillBlock(buf, off, 4, 4, uint8((dc+4)>>3))
}

func b4tm(buf []byte, off int) {
	tl := int(buf[off-1-BPS])
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			buf[off+i+j*BPS] = clip8b(int(buf[off-1+j*BPS]) + int(buf[off+i-BPS]) - tl)
		}
	}
}

func b4ve(buf []byte, off int) {
	tm1, t0, t1, t2, t3, t4 := buf[off-1-BPS], buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS], buf[off+3-BPS], buf[off+4-BPS]
	vals := [4]uint8{avg3(tm1, t0, t1), avg3(t0, t1, t2), avg3(t1, t2, t3), avg3(t2, t3, t4)}
	for j := 0; j < 4; j++ {
		copy(buf[off+j*BPS:off+j*BPS+4], vals[:])
	}
}

func b4he(buf []byte, off int) {
	tl, l0, l1, l2, l3 := buf[off-1-BPS], buf[off-1], buf[off-1+BPS], buf[off-1+2*BPS], buf[off-1+3*BPS]
	vals := [4]uint8{avg3(tl, l0, l1), avg3(l0, l1, l2), avg3(l1, l2, l3), avg3(l2, l3, l3)}
	for j := 0; j < 4; j++ {
		fillBlock(buf, off+j*BPS, 4, 1, vals[j])
	}
}

func b4rd(buf []byte, off int) {
	tl, t0, t1, t2, t3 := buf[off-1-BPS], buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS], buf[off+3-BPS]
	l0, l1, l2, l3 := buf[off-1], buf[off-1+BPS], buf[off-1+2*BPS], buf[off-1+3*BPS]

	buf[off+0+3*BPS] = avg3(l3, l2, l1)
	buf[off+0+2*BPS] = avg3(l2, l1, l0)
	buf[off+1+3*BPS] = buf[off+0+2*BPS]
	buf[off+0+1*BPS] = avg3(l1, l0, tl)
	buf[off+1+2*BPS] = buf[off+0+1*BPS]
	buf[off+2+3*BPS] = buf[off+0+1*BPS]
	buf[off+0+0*BPS] = avg3(l0, tl, t0)
	buf[off+1+1*BPS] = buf[off+0+0*BPS]
	buf[off+2+2*BPS] = buf[off+0+0*BPS]
	buf[off+3+3*BPS] = buf[off+0+0*BPS]
	buf[off+1+0*BPS] = avg3(tl, t0, t1)
	buf[off+2+1*BPS] = buf[off+1+0*BPS]
	buf[off+3+2*BPS] = buf[off+1+0*BPS]
	buf[off+2+0*BPS] = avg3(t0, t1, t2)
	buf[off+3+1*BPS] = buf[off+2+0*BPS]
	buf[off+3+0*BPS] = avg3(t1, t2, t3)
}

func b4vr(buf []byte, off int) {
	tl, t0, t1, t2, t3 := buf[off-1-BPS], buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS], buf[off+3-BPS]
	l0, l1, l2 := buf[off-1], buf[off-1+BPS], buf[off-1+2*BPS]

	buf[off+0+0*BPS] = avg2(tl, t0)
	buf[off+1+0*BPS] = avg2(t0, t1)
	buf[off+2+0*BPS] = avg2(t1, t2)
	buf[off+3+0*BPS] = avg2(t2, t3)

	buf[off+0+1*BPS] = avg3(l0, tl, t0)
	buf[off+1+1*BPS] = avg3(tl, t0, t1)
	buf[off+2+1*BPS] = avg3(t0, t1, t2)
	buf[off+3+1*BPS] = avg3(t1, t2, t3)

	buf[off+0+2*BPS] = avg3(l1, l0, tl)
	buf[off+1+2*BPS] = buf[off+0+0*BPS]
	buf[off+2+2*BPS] = buf[off+1+0*BPS]
	buf[off+3+2*BPS] = buf[off+2+0*BPS]

	buf[off+0+3*BPS] = avg3(l2, l1, l0)
	buf[off+1+3*BPS] = buf[off+0+1*BPS]
	buf[off+2+3*BPS] = buf[off+1+1*BPS]
	buf[off+3+3*BPS] = buf[off+2+1*BPS]
}

func b4ld(buf []byte, off int) {
	a, b, c, d := buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS], buf[off+3-BPS]
	e, f, g, h := buf[off+4-BPS], buf[off+5-BPS], buf[off+6-BPS], buf[off+7-BPS]

	buf[off+0+0*BPS] = avg3(a, b, c)
	buf[off+1+0*BPS] = avg3(b, c, d)
	buf[off+0+1*BPS] = buf[off+1+0*BPS]
	buf[off+2+0*BPS] = avg3(c, d, e)
	buf[off+1+1*BPS] = buf[off+2+0*BPS]
	buf[off+0+2*BPS] = buf[off+2+0*BPS]
	buf[off+3+0*BPS] = avg3(d, e, f)
	buf[off+2+1*BPS] = buf[off+3+0*BPS]
	buf[off+1+2*BPS] = buf[off+3+0*BPS]
	buf[off+0+3*BPS] = buf[off+3+0*BPS]
	buf[off+3+1*BPS] = avg3(e, f, g)
	buf[off+2+2*BPS] = buf[off+3+1*BPS]
	buf[off+1+3*BPS] = buf[off+3+1*BPS]
	buf[off+3+2*BPS] = avg3(f, g, h)
	buf[off+2+3*BPS] = buf[off+3+2*BPS]
	buf[off+3+3*BPS] = avg3(g, h, h)
}

func b4vl(buf []byte, off int) {
	a, b, c, d := buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS], buf[off+3-BPS]
	e, f, g, h := buf[off+4-BPS], buf[off+5-BPS], buf[off+6-BPS], buf[off+7-BPS]

	buf[off+0+0*BPS] = avg2(a, b)
	buf[off+1+0*BPS] = avg2(b, c)
	buf[off+0+2*BPS] = buf[off+1+0*BPS]
	buf[off+2+0*BPS] = avg2(c, d)
	buf[off+1+2*BPS] = buf[off+2+0*BPS]
	buf[off+3+0*BPS] = avg2(d, e)
	buf[off+2+2*BPS] = buf[off+3+0*BPS]

	buf[off+0+1*BPS] = avg3(a, b, c)
	buf[off+1+1*BPS] = avg3(b, c, d)
	buf[off+0+3*BPS] = buf[off+1+1*BPS]
	buf[off+2+1*BPS] = avg3(c, d, e)
	buf[off+1+3*BPS] = buf[off+2+1*BPS]
	buf[off+3+1*BPS] = avg3(d, e, f)
	buf[off+2+3*BPS] = buf[off+3+1*BPS]
	buf[off+3+2*BPS] = avg3(e, f, g)
	buf[off+3+3*BPS] = avg3(f, g, h)
}

func b4hd(buf []byte, off int) {
	tl, t0, t1, t2 := buf[off-1-BPS], buf[off-BPS], buf[off+1-BPS], buf[off+2-BPS]
	l0, l1, l2, l3 := buf[off-1], buf[off-1+BPS], buf[off-1+2*BPS], buf[off-1+3*BPS]

	buf[off+0+0*BPS] = avg2(tl, l0)
	buf[off+1+0*BPS] = avg3(l0, tl, t0)
	buf[off+2+0*BPS] = avg3(tl, t0, t1)
	buf[off+3+0*BPS] = avg3(t0, t1, t2)

	buf[off+0+1*BPS] = avg2(l0, l1)
	buf[off+1+1*BPS] = avg3(tl, l0, l1)
	buf[off+2+1*BPS] = buf[off+0+0*BPS]
	buf[off+3+1*BPS] = buf[off+1+0*BPS]

	buf[off+0+2*BPS] = avg2(l1, l2)
	buf[off+1+2*BPS] = avg3(l0, l1, l2)
	buf[off+2+2*BPS] = buf[off+0+1*BPS]
	buf[off+3+2*BPS] = buf[off+1+1*BPS]

	buf[off+0+3*BPS] = avg2(l2, l3)
	buf[off+1+3*BPS] = avg3(l1, l2, l3)
	buf[off+2+3*BPS] = buf[off+0+2*BPS]
	buf[off+3+3*BPS] = buf[off+1+2*BPS]
}

func b4hu(buf []byte, off int) {
	l0, l1, l2, l3 := buf[off-1], buf[off-1+BPS], buf[off-1+2*BPS], buf[off-1+3*BPS]

	buf[off+0+0*BPS] = avg2(l0, l1)
	buf[off+1+0*BPS] = avg3(l0, l1, l2)
	buf[off+2+0*BPS] = avg2(l1, l2)
	buf[off+3+0*BPS] = avg3(l1, l2, l3)

	buf[off+0+1*BPS] = buf[off+2+0*BPS]
	buf[off+1+1*BPS] = buf[off+3+0*BPS]
	buf[off+2+1*BPS] = avg2(l2, l3)
	buf[off+3+1*BPS] = avg3(l2, l3, l3)

	buf[off+0+2*BPS] = buf[off+2+1*BPS]
	buf[off+1+2*BPS] = buf[off+3+1*BPS]
	buf[off+2+2*BPS] = l3
	buf[off+3+2*BPS] = l3

	buf[off+0+3*BPS] = l3
	buf[off+1+3*BPS] = l3
	buf[off+2+3*BPS] = l3
	buf[off+3+3*BPS] = l3
}
