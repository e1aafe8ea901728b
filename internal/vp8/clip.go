package vp8

// Precomputed clip/abs lookup tables used by the inverse transforms and the
// loop filter. Negative-index access is emulated through fixed offsets into
// oversized arrays, matching the ranges the filter arithmetic and transform
// butterfly stages can actually produce.
var (
	sclip1 [893 + 892 + 1]int8
	sclip2 [112 + 112 + 1]int8
	clip1  [255 + 511 + 1]uint8
	abs0   [255 + 255 + 1]uint8
)

const (
	sclip1Offset = 893
	sclip2Offset = 112
	clip1Offset  = 255
	abs0Offset   = 255
)

// ksclip1 clips v to [-128, 127].
func ksclip1(v int) int8 { return sclip1[sclip1Offset+v] }

// ksclip2 clips v to [-16, 15].
func ksclip2(v int) int8 { return sclip2[sclip2Offset+v] }

// kclip1 clips v to [0, 255].
func kclip1(v int) uint8 { return clip1[clip1Offset+v] }

// kabs0 returns |v| for v in [-255, 255].
func kabs0(v int) uint8 { return abs0[abs0Offset+v] }

// clip8b clips v to [0, 255] with a single-branch fast path for the common
// in-range case.
func clip8b(v int) uint8 {
	if uint(v) <= 255 {
		return uint8(v)
	}
	return uint8(^(v >> 63) & 255)
}

func init() {
	for i := -893; i <= 892; i++ {
		v := i
		if v < -128 {
			v = -128
		} else if v > 127 {
			v = 127
		}
		sclip1[sclip1Offset+i] = int8(v)
	}
	for i := -112; i <= 112; i++ {
		v := i
		if v < -16 {
			v = -16
		} else if v > 15 {
			v = 15
		}
		sclip2[sclip2Offset+i] = int8(v)
	}
	for i := -255; i <= 511; i++ {
		v := i
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		clip1[clip1Offset+i] = uint8(v)
	}
	for i := -255; i <= 255; i++ {
		v := i
		if v < 0 {
			v = -v
		}
		abs0[abs0Offset+i] = uint8(v)
	}
}
