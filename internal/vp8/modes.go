package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// ModeInfo holds one macroblock's decoded prediction-mode data: either a
// single whole-block luma mode or sixteen per-sub-block B-modes, plus the
// chroma mode. Top/left B-mode context (used only within a row's decode
// pass) lives in the caller's Neighbor state, not here.
type ModeInfo struct {
	IsI4x4 bool
	YMode  int      // valid when !IsI4x4
	BModes [16]int  // valid when IsI4x4, raster order within the macroblock
	UVMode int
}

// Neighbor carries the subset of a macroblock's state that a later
// macroblock's context-dependent decode steps need from its above/left
// neighbor: B-mode (for key-frame intra context) and the inter fields the
// motion-vector census reads (IsInter, MV, RefFrame, SplitMV). HasNZ is
// not set by the frame driver; nonzero-coefficient context travels in the
// separate per-block arrays passed to decodeMBResiduals. A zero-value Neighbor with Valid
// false stands in for "off raster" (frame edge), matching the edge
// substitution the prediction functions apply via hasTop/hasLeft flags.
type Neighbor struct {
	Valid    bool
	BMode    [4]int // the 4 B-modes along the shared edge
	HasNZ    bool
	IsInter  bool
	MV       MotionVector
	RefFrame ReferenceFrame
	SplitMV  bool
}

// decodeKeyFrameModes decodes one macroblock's intra modes on a key frame,
// where B-mode context comes from the immediate above/left neighbors' edge
// B-modes and every other mode is drawn from a fixed probability table.
func decodeKeyFrameModes(br *bitio.BoolReader, above *Neighbor, left *Neighbor) ModeInfo {
	var mi ModeInfo
	mi.IsI4x4 = br.GetBit(kfIsI4x4Prob) == 0

	if !mi.IsI4x4 {
		mi.YMode = decodeKFYMode(br)
	} else {
		topRow := [4]int{predDC, predDC, predDC, predDC}
		if above != nil && above.Valid {
			topRow = above.BMode
		}
		leftCol := predDC
		var leftBModes [4]int
		if left != nil && left.Valid {
			leftBModes = left.BMode
		} else {
			leftBModes = [4]int{predDC, predDC, predDC, predDC}
		}

		for y := 0; y < 4; y++ {
			leftMode := leftBModes[y]
			for x := 0; x < 4; x++ {
				probs := kfBModeProbs[topRow[x]][leftMode][:]
				mode := bitio.Tree(br, bmodeTree, probs)
				mi.BModes[y*4+x] = mode
				topRow[x] = mode
				leftMode = mode
			}
			leftCol = leftMode
		}
		_ = leftCol
	}

	switch {
	case br.GetBit(142) == 0:
		mi.UVMode = predDC
	case br.GetBit(114) == 0:
		mi.UVMode = predVE
	case br.GetBit(183) != 0:
		mi.UVMode = predTM
	default:
		mi.UVMode = predHE
	}
	return mi
}

func decodeKFYMode(br *bitio.BoolReader) int {
	if br.GetBit(kfYModeTreeProbs[0]) != 0 {
		if br.GetBit(kfYModeTreeProbs[2]) != 0 {
			return predTM
		}
		return predHE
	}
	if br.GetBit(kfYModeTreeProbs[1]) != 0 {
		return predVE
	}
	return predDC
}

// decodeInterFrameIntraModes decodes the modes of an intra-coded
// macroblock within an inter frame: the mode probabilities are carried in
// the frame header (Probabilities.YMode/UVMode) rather than fixed, and
// B-mode context for 4x4 sub-blocks no longer depends on the neighbors
// (RFC 6386 section 16.1: inter-frame B-mode decode uses one fixed
// bmodeTree probability set, invariantBModeProbs, not a context table).
func decodeInterFrameIntraModes(br *bitio.BoolReader, p *Probabilities) ModeInfo {
	var mi ModeInfo
	mode := bitio.Tree(br, interYModeTree, p.YMode[:])
	if mode == predBPred {
		mi.IsI4x4 = true
		for i := 0; i < 16; i++ {
			mi.BModes[i] = bitio.Tree(br, bmodeTree, invariantBModeProbs)
		}
	} else {
		mi.YMode = mode
	}
	mi.UVMode = bitio.Tree(br, interUVModeTree, p.UVMode[:])
	return mi
}
