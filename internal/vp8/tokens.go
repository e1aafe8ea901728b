package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// Residuals holds one macroblock's dequantized coefficients, in raster
// (not zigzag) order within each 4x4 block, ready for the inverse
// transform passes in transform.go.
type Residuals struct {
	Y     [16][16]int16
	Y2    [16]int16
	U     [4][16]int16
	V     [4][16]int16
	HasY2 bool

	// NZ records, per sub-block (16 Y + 4 U + 4 V, raster order, then Y2
	// at index 24), whether any coefficient was nonzero. The frame driver
	// threads these into the next macroblock's left/above context and
	// into the loop filter's inner-edge decision.
	NZ [25]bool
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// decodeBlock decodes one 4x4 block's coefficient tokens starting at scan
// position first (1 when the block's DC comes from the Y2 block, 0
// otherwise), given the initial context ctx (0..2, from neighbor nonzero
// flags at position 0 only -- RFC 6386 section 13.3).
func decodeBlock(br *bitio.BoolReader, probs *CoeffProbs, typ, first, ctx int) ([16]int16, bool) {
	var out [16]int16
	nz := false
	skipEOB := false
	for c := first; c < 16; c++ {
		band := coeffBands[c]
		p := probs.Probs[typ][band][ctx][:]

		var token int
		if skipEOB {
			token = bitio.TreeFrom(br, coeffTree, p, 2)
		} else {
			token = bitio.Tree(br, coeffTree, p)
		}
		if token == dctEOB {
			break
		}
		if token == dct0 {
			ctx = 0
			skipEOB = true
			continue
		}
		skipEOB = false

		var v int
		switch token {
		case dct1:
			v = 1
			ctx = 1
		case dct2:
			v = 2
			ctx = 2
		default:
			cat := token - dctCat1
			extra := 0
			for _, pr := range kCatProbs[cat] {
				extra = extra<<1 | br.GetBit(pr)
			}
			v = kCatBase[cat] + extra
			ctx = 2
		}
		if br.GetBit(128) != 0 {
			v = -v
		}
		out[zigzag[c]] = int16(v)
		nz = true
	}
	return out, nz
}

// decodeMBResiduals decodes every coefficient block of one macroblock:
// 16 luma blocks (plus, when hasY2, the second-order Y2 block supplying
// their DC terms), 4 U and 4 V blocks, applying dequantization in place.
// aboveNZ/leftNZ give the 25-entry nonzero context (Y 0..15, U 16..19,
// V 20..23, Y2 24) of the macroblock above and to the left; the returned
// Residuals.NZ is this macroblock's own context for its right/below
// neighbors.
func decodeMBResiduals(br *bitio.BoolReader, p *Probabilities, dqm *QuantMatrix, hasY2 bool, aboveNZ, leftNZ [25]bool) Residuals {
	var res Residuals
	res.HasY2 = hasY2

	first := 0
	yType := coeffTypeY1All
	if hasY2 {
		first = 1
		yType = coeffTypeY1

		ctx := b2i(aboveNZ[24]) + b2i(leftNZ[24])
		coeffs, nz := decodeBlock(br, &p.Coeff, coeffTypeY2, 0, ctx)
		dequantBlock(&coeffs, dqm.Y2[0], dqm.Y2[1])
		res.Y2 = coeffs
		res.NZ[24] = nz
	}

	for i := 0; i < 16; i++ {
		ctx := b2i(aboveNZ[i]) + b2i(leftNZ[i])
		coeffs, nz := decodeBlock(br, &p.Coeff, yType, first, ctx)
		dequantBlock(&coeffs, dqm.Y1[0], dqm.Y1[1])
		res.Y[i] = coeffs
		res.NZ[i] = nz
	}

	for i := 0; i < 4; i++ {
		idx := 16 + i
		ctx := b2i(aboveNZ[idx]) + b2i(leftNZ[idx])
		coeffs, nz := decodeBlock(br, &p.Coeff, coeffTypeUV, 0, ctx)
		dequantBlock(&coeffs, dqm.UV[0], dqm.UV[1])
		res.U[i] = coeffs
		res.NZ[idx] = nz
	}
	for i := 0; i < 4; i++ {
		idx := 20 + i
		ctx := b2i(aboveNZ[idx]) + b2i(leftNZ[idx])
		coeffs, nz := decodeBlock(br, &p.Coeff, coeffTypeUV, 0, ctx)
		dequantBlock(&coeffs, dqm.UV[0], dqm.UV[1])
		res.V[i] = coeffs
		res.NZ[idx] = nz
	}

	return res
}

// dequantBlock scales a freshly-decoded block's DC (position 0) and AC
// (positions 1..15) coefficients by their segment's quantization factors.
func dequantBlock(coeffs *[16]int16, dc, ac int) {
	coeffs[0] = int16(int(coeffs[0]) * dc)
	for i := 1; i < 16; i++ {
		coeffs[i] = int16(int(coeffs[i]) * ac)
	}
}
