package vp8

// FInfo is the per-macroblock filter strength derived from the frame/segment
// filter header plus that macroblock's reference frame and prediction mode.
// Whether the inner 4x4 sub-block edges get filtered at all is a separate,
// per-macroblock decision made by the caller (see loopfilter.go), since it
// depends on skip_coeff and the macroblock's partitioning, not on strength.
type FInfo struct {
	Limit     uint8
	InnerLvl  uint8
	HevThresh uint8
}

// modeDeltaCategory maps a macroblock's decoded mode to the loop filter's
// mode-delta bucket (RFC 6386 section 9.4 / 15.2): B_PRED, ZEROMV, any other
// inter mode, or SPLITMV.
func modeDeltaCategory(isI4x4 bool, isInter bool, mode, mvMode int) int {
	switch {
	case isI4x4:
		return 0
	case !isInter:
		return -1 // no mode delta for whole-block intra modes
	case mvMode == mvZero:
		return 1
	case mvMode == mvSplit:
		return 3
	default:
		return 2
	}
}

// computeFilterInfo derives the filter strength for one macroblock, given
// its segment, reference frame, and mode-delta bucket (-1 if none applies).
func computeFilterInfo(seg *SegmentHeader, hdr *FilterHeader, segment int, ref ReferenceFrame, modeCat int, keyFrame bool) FInfo {
	var info FInfo
	if hdr.Level == 0 {
		return info
	}

	baseLevel := hdr.Level
	if seg.Enabled {
		if seg.AbsoluteDelta {
			baseLevel = int(seg.FilterStrength[segment])
		} else {
			baseLevel += int(seg.FilterStrength[segment])
		}
	}

	level := baseLevel
	if hdr.UseLFDelta {
		level += hdr.RefLFDelta[ref]
		if modeCat >= 0 {
			level += hdr.ModeLFDelta[modeCat]
		}
	}
	if level < 0 {
		level = 0
	} else if level > 63 {
		level = 63
	}
	if level == 0 {
		return info
	}

	ilevel := level
	if hdr.Sharpness > 0 {
		if hdr.Sharpness > 4 {
			ilevel >>= 2
		} else {
			ilevel >>= 1
		}
		if ilevel > 9-hdr.Sharpness {
			ilevel = 9 - hdr.Sharpness
		}
	}
	if ilevel < 1 {
		ilevel = 1
	}

	info.InnerLvl = uint8(ilevel)
	info.Limit = uint8(2*level + ilevel)

	// RFC 6386 section 15.2: hev_threshold = (level>=15) + (level>=40) +
	// (level>=20 and not key frame).
	var hev uint8
	if level >= 15 {
		hev++
	}
	if level >= 40 {
		hev++
	}
	if level >= 20 && !keyFrame {
		hev++
	}
	info.HevThresh = hev
	return info
}
