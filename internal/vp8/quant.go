package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// QuantMatrix holds the dequantization factors for one segment.
type QuantMatrix struct {
	Y1   [2]int // luma DC / AC
	Y2   [2]int // second-order luma (WHT) DC / AC
	UV   [2]int // chroma DC / AC
	UVQ  int    // raw chroma quantizer index; recorded, not read by the decoder
}

func clipQ(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// parseQuantHeader reads the quantizer header and fills one QuantMatrix per
// segment (all four entries are filled even when segmentation is off, so
// downstream code never special-cases segment 0).
func parseQuantHeader(br *bitio.BoolReader, seg *SegmentHeader) [numSegments]QuantMatrix {
	var dqm [numSegments]QuantMatrix

	baseQ0 := int(br.GetValue(7))
	dqy1DC := readOptionalSigned(br, 4)
	dqy2DC := readOptionalSigned(br, 4)
	dqy2AC := readOptionalSigned(br, 4)
	dquvDC := readOptionalSigned(br, 4)
	dquvAC := readOptionalSigned(br, 4)

	for i := 0; i < numSegments; i++ {
		var q int
		if seg.Enabled {
			q = int(seg.Quantizer[i])
			if !seg.AbsoluteDelta {
				q += baseQ0
			}
		} else {
			q = baseQ0
		}

		m := &dqm[i]
		m.Y1[0] = int(kDCTable[clipQ(q+dqy1DC, 127)])
		m.Y1[1] = int(kACTable[clipQ(q, 127)])

		m.Y2[0] = int(kDCTable[clipQ(q+dqy2DC, 127)]) * 2
		m.Y2[1] = (int(kACTable[clipQ(q+dqy2AC, 127)]) * 101581) >> 16
		if m.Y2[1] < 8 {
			m.Y2[1] = 8
		}

		m.UV[0] = int(kDCTable[clipQ(q+dquvDC, 117)])
		m.UV[1] = int(kACTable[clipQ(q+dquvAC, 127)])
		m.UVQ = q + dquvAC
	}
	return dqm
}

func readOptionalSigned(br *bitio.BoolReader, numBits int) int {
	if br.GetBit(0x80) != 0 {
		return int(br.GetSignedValue(numBits))
	}
	return 0
}

// kDCTable/kACTable map a 0..127 quantizer index to its dequantization
// factor (RFC 6386 section 14.1).
var kDCTable = [128]int16{
	4, 5, 6, 7, 8, 9, 10, 10, 11, 12, 13, 14, 15, 16, 17, 17,
	18, 19, 20, 20, 21, 21, 22, 22, 23, 23, 24, 25, 25, 26, 27, 28,
	29, 30, 31, 32, 33, 34, 35, 36, 37, 37, 38, 39, 40, 41, 42, 43,
	44, 45, 46, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58,
	59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71, 72, 73, 74,
	75, 76, 76, 77, 78, 79, 80, 81, 82, 83, 84, 85, 86, 87, 88, 89,
	91, 93, 95, 96, 98, 100, 101, 102, 104, 106, 108, 110, 112, 114, 116, 118,
	122, 124, 126, 128, 130, 132, 134, 136, 138, 140, 143, 145, 148, 151, 154, 157,
}

var kACTable = [128]int16{
	4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19,
	20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35,
	36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51,
	52, 53, 54, 55, 56, 57, 58, 60, 62, 64, 66, 68, 70, 72, 74, 76,
	78, 80, 82, 84, 86, 88, 90, 92, 94, 96, 98, 100, 102, 104, 106, 108,
	110, 112, 114, 116, 119, 122, 125, 128, 131, 134, 137, 140, 143, 146, 149, 152,
	155, 158, 161, 164, 167, 170, 173, 177, 181, 185, 189, 193, 197, 201, 205, 209,
	213, 217, 221, 225, 229, 234, 239, 245, 249, 254, 259, 264, 269, 274, 279, 284,
}
