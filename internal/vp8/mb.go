package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// MBHeader is the per-macroblock header: segment, skip flag, and (inter
// frames only) reference-frame selection and sign-bias-derived MV flip.
type MBHeader struct {
	Segment        int
	SkipCoeff      bool
	IsInter        bool
	Ref            ReferenceFrame
	MVFlipped      bool
}

// parseMBHeaderCommon decodes the segment id and skip flag shared by key
// and inter frame macroblock headers.
func parseMBHeaderCommon(br *bitio.BoolReader, p *Probabilities, seg *SegmentHeader) MBHeader {
	var h MBHeader
	if seg.Enabled && seg.UpdateMap {
		h.Segment = bitio.Tree(br, segmentTree, p.Segments[:])
	}
	if p.UseSkip {
		h.SkipCoeff = br.GetBit(p.Skip) != 0
	}
	return h
}

// parseInterMBReference decodes is_inter_mb plus the two reference-frame
// selector bits and derives the motion-vector sign flip implied by the
// golden/altref sign-bias flags, per RFC 6386 section 9.10 /
// original_source's InterFrameMacroblockHeader.
func parseInterMBReference(br *bitio.BoolReader, inter InterHeader, h *MBHeader) {
	h.IsInter = br.GetBit(inter.ProbIntra) != 0
	if !h.IsInter {
		h.Ref = RefIntra
		return
	}
	sel1 := br.GetBit(inter.ProbLast) != 0
	if !sel1 {
		h.Ref = RefLast
	} else {
		sel2 := br.GetBit(inter.ProbGolden) != 0
		if !sel2 {
			h.Ref = RefGolden
		} else {
			h.Ref = RefAltRef
		}
	}
	h.MVFlipped = (h.Ref == RefGolden && inter.SignBiasGolden) ||
		(h.Ref == RefAltRef && inter.SignBiasAltRef)
}
