package vp8

// Motion-compensated prediction, implemented to whole- and half-pixel
// precision. Quarter-pixel positions round to the nearest half-pixel
// sample rather than running the real 6-tap sub-pel filter; that filter
// is a named follow-up (see predictInterBlock's doc comment), not a
// silent approximation mistaken for the real thing.
//
// Like the intra predictors in predict.go, every predictor here writes
// into the macroblock's BPS-strided scratch buffer rather than directly
// into a Raster, so residual reconstruction (transform.go) can run
// against it uniformly regardless of whether the block was intra- or
// inter-predicted.

// predictInterBlock copies a w x h block from ref's plane at (srcX, srcY)
// + mv (mv in quarter-pel units) into dst at stride bps, offset dstOff.
// ref must already have its border filled, so reads past the visible
// edge during large motion vectors stay in bounds.
//
// TODO(sub-pel): quarter-pel offsets are rounded to the nearest half-pel
// sample instead of run through RFC 6386 section 18.3's six-tap filter;
// replace this rounding with real six-tap interpolation once a test
// corpus is available to validate it against.
func predictInterBlock(ref *Raster, plane int, srcX, srcY int, mv MotionVector, dst []byte, bps, dstOff, w, h int) {
	srcBase, srcStride, srcOrigin := planeOf(ref, plane)

	// mv is in quarter-pel for luma, and already halved by the caller for
	// chroma (chroma motion uses half the luma vector's magnitude).
	fx := int(mv.Col) >> 1 // round quarter-pel to half-pel
	fy := int(mv.Row) >> 1
	wholeX := fx >> 1
	wholeY := fy >> 1
	halfX := fx & 1
	halfY := fy & 1

	sx := srcX + wholeX
	sy := srcY + wholeY

	for row := 0; row < h; row++ {
		srcRow := srcOrigin + (sy+row)*srcStride + sx
		dstRow := dstOff + row*bps
		for col := 0; col < w; col++ {
			p00 := int(srcBase[srcRow+col])
			v := p00
			if halfX != 0 || halfY != 0 {
				p10 := int(srcBase[srcRow+col+halfX])
				p01 := int(srcBase[srcRow+srcStride*halfY+col])
				p11 := int(srcBase[srcRow+srcStride*halfY+col+halfX])
				v = (p00 + p10 + p01 + p11 + 2) >> 2
			}
			dst[dstRow+col] = byte(v)
		}
	}
}

// planeOf returns the backing slice, stride, and visible-origin offset
// for one of a Raster's three planes.
func planeOf(r *Raster, plane int) ([]byte, int, int) {
	switch plane {
	case 0:
		return r.Y, r.YStride, r.yOrigin()
	case 1:
		return r.U, r.UVStride, r.uvOrigin()
	default:
		return r.V, r.UVStride, r.uvOrigin()
	}
}

// predictMacroblockInterLuma motion-compensates one macroblock's luma
// plane from ref into the scratch buffer's Y region, given either a
// single whole-block motion vector or sixteen per-4x4 SPLITMV vectors.
func predictMacroblockInterLuma(ref *Raster, mbX, mbY int, mv MotionVector, subMVs *[16]MotionVector, yuvB []byte) {
	lumaX, lumaY := mbX*16, mbY*16
	if subMVs == nil {
		predictInterBlock(ref, 0, lumaX, lumaY, mv, yuvB, BPS, YOff, 16, 16)
		return
	}
	for i := 0; i < 16; i++ {
		bx, by := lumaX+(i%4)*4, lumaY+(i/4)*4
		off := YOff + (i/4)*4*BPS + (i%4)*4
		predictInterBlock(ref, 0, bx, by, subMVs[i], yuvB, BPS, off, 4, 4)
	}
}

// predictMacroblockInterChroma motion-compensates one macroblock's chroma
// planes. For SPLITMV blocks, each 2x2 group of luma sub-vectors is
// averaged per RFC 6386 section 18.2's chroma MV derivation.
func predictMacroblockInterChroma(ref *Raster, mbX, mbY int, mv MotionVector, subMVs *[16]MotionVector, yuvB []byte) {
	chromaX, chromaY := mbX*8, mbY*8
	if subMVs == nil {
		chromaMV := MotionVector{Row: mv.Row / 2, Col: mv.Col / 2}
		predictInterBlock(ref, 1, chromaX, chromaY, chromaMV, yuvB, BPS, UOff, 8, 8)
		predictInterBlock(ref, 2, chromaX, chromaY, chromaMV, yuvB, BPS, VOff, 8, 8)
		return
	}
	for cy := 0; cy < 2; cy++ {
		for cx := 0; cx < 2; cx++ {
			var sumR, sumC int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					m := subMVs[(cy*2+dy)*4+(cx*2+dx)]
					sumR += int(m.Row)
					sumC += int(m.Col)
				}
			}
			avg := MotionVector{Row: int16(sumR / 8), Col: int16(sumC / 8)}
			bx, by := chromaX+cx*4, chromaY+cy*4
			uOff := UOff + cy*4*BPS + cx*4
			vOff := VOff + cy*4*BPS + cx*4
			predictInterBlock(ref, 1, bx, by, avg, yuvB, BPS, uOff, 4, 4)
			predictInterBlock(ref, 2, bx, by, avg, yuvB, BPS, vOff, 4, 4)
		}
	}
}
