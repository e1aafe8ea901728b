package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// Per-macroblock scratch buffer layout, adapted from the teacher's
// yuvB/yuvT reconstruction cache: every macroblock is predicted and
// reconstructed into this fixed BPS-strided buffer (with a one-pixel
// border on top and left for prediction context) before being copied
// into the persistent Raster.
const (
	YOff = BPS + 8
	UOff = YOff + 16*BPS + 8
	VOff = UOff + 8*BPS + 8

	yuvSize = VOff + 8*BPS + 8
)

// topSamples stashes one macroblock column's bottom row/column, used as
// the next row's top prediction context, mirroring the teacher's
// TopSamples cache.
type topSamples struct {
	Y [16]byte
	U [8]byte
	V [8]byte
}

// FrameDecoder holds the state that persists across a VP8 bitstream's
// frames: entropy tables, the segment map and segment-tree probabilities,
// and the three reference-frame raster slots. The segmentation, filter and
// quantizer headers are parsed afresh from every frame; per-segment
// quantizer and filter values that a frame does not send read as zero
// rather than keeping an earlier frame's values.
type FrameDecoder struct {
	Width, Height int
	MBW, MBH      int

	probs      Probabilities
	savedProbs Probabilities
	segProbs   [mbFeatureProbs]uint8
	seg        SegmentHeader
	filter     FilterHeader
	quant      [numSegments]QuantMatrix
	segmentMap []int

	refs  RefSlots
	alloc RasterAllocator

	yuvB []byte
	topY []topSamples
}

// NewFrameDecoder returns a decoder with no frames processed yet; the
// first payload given to DecodeFrame must be a key frame.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{yuvB: make([]byte, yuvSize)}
}

// DecodeFrame decodes one VP8 frame payload (the bytes following any
// container framing) and returns the reconstructed, displayable raster.
// The returned Raster is retained on d's behalf as well (it may be a
// reference frame for later calls); callers that keep their own
// reference should call raster.retain()/release() accordingly, or simply
// treat the return value as borrowed until the next DecodeFrame call.
func (d *FrameDecoder) DecodeFrame(payload []byte) (*Raster, error) {
	tag, err := ParseFrameTag(payload)
	if err != nil {
		return nil, err
	}
	rest := payload[3:]

	var inter InterHeader
	if tag.KeyFrame {
		ph, n, err := parseKeyFrameDimensions(rest)
		if err != nil {
			return nil, err
		}
		rest = rest[n:]
		d.Width, d.Height = ph.Width, ph.Height
		d.MBW, d.MBH = (d.Width+15)>>4, (d.Height+15)>>4
		d.probs = defaultProbabilities()
		d.segProbs = [mbFeatureProbs]uint8{255, 255, 255}
		d.seg = SegmentHeader{}
		d.filter = FilterHeader{}
		d.segmentMap = make([]int, d.MBW*d.MBH)
	} else if d.Width == 0 {
		return nil, invalidStream("first frame must be a key frame")
	}

	if int(tag.PartitionLength) > len(rest) {
		return nil, invalidStream("first partition exceeds payload")
	}
	br := bitio.NewBoolReader(rest[:tag.PartitionLength])
	tail := rest[tag.PartitionLength:]

	if tag.KeyFrame {
		_ = br.GetBit(0x80) // color_space
		_ = br.GetBit(0x80) // clamping_type
	}

	seg, err := parseSegmentHeader(br, &d.segProbs)
	if err != nil {
		return nil, err
	}
	d.seg = seg
	d.probs.Segments = d.segProbs

	d.filter = parseFilterHeader(br)

	numPartsLog2 := int(br.GetValue(2))
	numParts := 1 << numPartsLog2

	d.quant = parseQuantHeader(br, &d.seg)

	refreshEntropy := true
	if tag.KeyFrame {
		refreshEntropy = br.GetBit(0x80) != 0
	} else {
		inter = parseInterHeader(br)
		refreshEntropy = inter.RefreshEntropy
	}
	if !refreshEntropy {
		d.savedProbs = d.probs
	}

	parseCoeffProbUpdates(br, &d.probs)
	parseSkipProb(br, &d.probs)

	if !tag.KeyFrame {
		parseMBRefProbs(br, &inter)
		parseInterModeProbUpdates(br, &d.probs)
		parseMVProbUpdates(br, &d.probs)
	}

	partitions, err := parsePartitionsFrom(tail, numParts)
	if err != nil {
		return nil, err
	}

	dst := d.alloc.NewRaster(d.Width, d.Height)
	d.reconstructFrame(partitions, dst, tag.KeyFrame, inter)

	d.refs.update(dst, inter, tag.KeyFrame)

	// refresh_entropy_probs=false means the updates applied above were for
	// this frame only; subsequent frames continue from the pre-update
	// snapshot taken above.
	if !refreshEntropy {
		d.probs = d.savedProbs
	}

	return dst, nil
}

// reconstructFrame decodes and reconstructs every macroblock row, applying
// the loop filter to each row immediately after it is reconstructed (its
// top/left neighbors are already finished by then).
func (d *FrameDecoder) reconstructFrame(partitions []*bitio.BoolReader, dst *Raster, keyFrame bool, inter InterHeader) {
	if cap(d.topY) < d.MBW {
		d.topY = make([]topSamples, d.MBW)
	} else {
		d.topY = d.topY[:d.MBW]
		for i := range d.topY {
			d.topY[i] = topSamples{}
		}
	}

	aboveNZ := make([][25]bool, d.MBW)
	aboveNeighbor := make([]Neighbor, d.MBW)
	aboveBMode := make([][4]int, d.MBW)

	modeCats := make([]int8, d.MBW*d.MBH)
	filterInfos := make([]FInfo, d.MBW*d.MBH)

	for mbY := 0; mbY < d.MBH; mbY++ {
		part := partitions[mbY%len(partitions)]

		var leftNZ [25]bool
		var leftNeighbor Neighbor
		leftBMode := [4]int{predDC, predDC, predDC, predDC}

		d.initRowBorders(mbY)

		for mbX := 0; mbX < d.MBW; mbX++ {
			var aboveLeftNeighbor Neighbor
			if mbX > 0 && mbY > 0 {
				aboveLeftNeighbor = aboveNeighbor[mbX-1]
			}

			hdr := parseMBHeaderCommon(part, &d.probs, &d.seg)
			if d.seg.Enabled && d.seg.UpdateMap {
				d.segmentMap[mbY*d.MBW+mbX] = hdr.Segment
			} else {
				hdr.Segment = d.segmentMap[mbY*d.MBW+mbX]
			}

			if !keyFrame {
				parseInterMBReference(part, inter, &hdr)
			} else {
				hdr.Ref = RefIntra
			}

			var mi ModeInfo
			var mv MotionVector
			var subMVs *[16]MotionVector
			var mvMode int

			if hdr.Ref == RefIntra {
				if keyFrame {
					var abovePtr, leftPtr *Neighbor
					an := Neighbor{Valid: mbY > 0, BMode: aboveBMode[mbX]}
					ln := Neighbor{Valid: mbX > 0, BMode: leftBMode}
					abovePtr, leftPtr = &an, &ln
					mi = decodeKeyFrameModes(part, abovePtr, leftPtr)
				} else {
					mi = decodeInterFrameIntraModes(part, &d.probs)
				}
			} else {
				flipped := hdr.MVFlipped
				mode, census := decodeMVRef(part, &aboveNeighbor[mbX], &leftNeighbor, &aboveLeftNeighbor, flipped)
				mvMode = mode
				switch mode {
				case mvZero:
					mv = MotionVector{}
				case mvNearest:
					mv = census.nearest
				case mvNear:
					mv = census.near
				case mvNew:
					pred := census.best
					mv = readMVResidual(part, &d.probs.MV, pred)
				case mvSplit:
					subMVs = d.decodeSplitMV(part, census.nearest)
					mv = subMVs[15]
				}
				mv = clampMV(mv, mbX, mbY, d.MBW, d.MBH)
			}

			modeCat := modeDeltaCategory(mi.IsI4x4, hdr.Ref != RefIntra, mi.YMode, mvMode)
			modeCats[mbY*d.MBW+mbX] = int8(modeCat)
			finfo := computeFilterInfo(&d.seg, &d.filter, hdr.Segment, hdr.Ref, modeCat, keyFrame)
			filterInfos[mbY*d.MBW+mbX] = finfo

			// Both B_PRED (intra 4x4) and SPLITMV macroblocks code each
			// luma block's DC directly; every other mode carries a second-
			// order Y2 block instead.
			hasY2 := !mi.IsI4x4 && mvMode != mvSplit

			var res Residuals
			if !hdr.SkipCoeff {
				res = decodeMBResiduals(part, &d.probs, &d.quant[hdr.Segment], hasY2, aboveNZ[mbX], leftNZ)
			} else {
				res.HasY2 = hasY2
			}

			d.reconstructMB(dst, mbX, mbY, hdr, mi, mv, subMVs, &res)

			aboveNZ[mbX] = res.NZ
			leftNZ = res.NZ
			if mi.IsI4x4 {
				aboveBMode[mbX] = [4]int{mi.BModes[12], mi.BModes[13], mi.BModes[14], mi.BModes[15]}
				leftBMode = [4]int{mi.BModes[3], mi.BModes[7], mi.BModes[11], mi.BModes[15]}
			} else {
				aboveBMode[mbX] = [4]int{predDC, predDC, predDC, predDC}
				leftBMode = [4]int{predDC, predDC, predDC, predDC}
			}

			n := Neighbor{
				Valid: true, IsInter: hdr.Ref != RefIntra, MV: mv,
				RefFrame: hdr.Ref, SplitMV: mvMode == mvSplit,
			}
			aboveNeighbor[mbX] = n
			leftNeighbor = n
		}

		d.filterRow(dst, mbY, filterInfos, modeCats)
	}
}

func (d *FrameDecoder) decodeSplitMV(br *bitio.BoolReader, nearest MotionVector) *[16]MotionVector {
	partMode := bitio.Tree(br, mvPartitionTree, []uint8{110, 111, 150})
	var subMVs [16]MotionVector

	assign := func(blocks []int) {
		sub := bitio.Tree(br, subMVRefTree, []uint8{180, 162, 25})
		var mv MotionVector
		switch sub {
		case subMVZero:
			mv = MotionVector{}
		case subMVNew:
			mv = readMVResidual(br, &d.probs.MV, nearest)
		default:
			mv = nearest
		}
		for _, b := range blocks {
			subMVs[b] = mv
		}
	}

	switch partMode {
	case splitPart16:
		assign([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	case splitPart2V:
		assign([]int{0, 1, 4, 5, 8, 9, 12, 13})
		assign([]int{2, 3, 6, 7, 10, 11, 14, 15})
	case splitPart2H:
		assign([]int{0, 1, 2, 3, 4, 5, 6, 7})
		assign([]int{8, 9, 10, 11, 12, 13, 14, 15})
	case splitPart4:
		assign([]int{0, 1, 4, 5})
		assign([]int{2, 3, 6, 7})
		assign([]int{8, 9, 12, 13})
		assign([]int{10, 11, 14, 15})
	}
	return &subMVs
}

// initRowBorders seeds the scratch buffer's left-column and top-left
// corner border pixels for a new row, matching the fixed 129/127 edge
// values RFC 6386 section 12.2 specifies for off-picture context.
func (d *FrameDecoder) initRowBorders(mbY int) {
	buf := d.yuvB
	for j := 0; j < 16; j++ {
		buf[YOff+j*BPS-1] = 129
	}
	for j := 0; j < 8; j++ {
		buf[UOff+j*BPS-1] = 129
		buf[VOff+j*BPS-1] = 129
	}
	if mbY > 0 {
		buf[YOff-BPS-1] = 129
		buf[UOff-BPS-1] = 129
		buf[VOff-BPS-1] = 129
	} else {
		for i := -1; i < 20; i++ {
			buf[YOff-BPS+i] = 127
		}
		for i := -1; i < 9; i++ {
			buf[UOff-BPS+i] = 127
			buf[VOff-BPS+i] = 127
		}
	}
}

// reconstructMB predicts and reconstructs one macroblock into the scratch
// buffer, then copies the result into dst at its raster position.
func (d *FrameDecoder) reconstructMB(dst *Raster, mbX, mbY int, hdr MBHeader, mi ModeInfo, mv MotionVector, subMVs *[16]MotionVector, res *Residuals) {
	buf := d.yuvB

	if mbX > 0 {
		for j := -1; j < 16; j++ {
			copy(buf[YOff+j*BPS-4:YOff+j*BPS], buf[YOff+j*BPS+12:YOff+j*BPS+16])
		}
		for j := -1; j < 8; j++ {
			copy(buf[UOff+j*BPS-4:UOff+j*BPS], buf[UOff+j*BPS+4:UOff+j*BPS+8])
			copy(buf[VOff+j*BPS-4:VOff+j*BPS], buf[VOff+j*BPS+4:VOff+j*BPS+8])
		}
	}
	if mbY > 0 {
		copy(buf[YOff-BPS:], d.topY[mbX].Y[:])
		copy(buf[UOff-BPS:], d.topY[mbX].U[:])
		copy(buf[VOff-BPS:], d.topY[mbX].V[:])
		if mbX < d.MBW-1 {
			copy(buf[YOff-BPS+16:YOff-BPS+20], d.topY[mbX+1].Y[:4])
		} else {
			fillBlock(buf, YOff-BPS+16, 4, 1, d.topY[mbX].Y[15])
		}
	}

	// B_PRED sub-blocks not in the macroblock's top row have no real
	// top-right neighbor yet (it belongs to the next, undecoded,
	// macroblock): RFC 6386 section 12.3 has them reuse the macroblock's
	// own top-right corner for every inner sub-block row.
	if hdr.Ref == RefIntra && mi.IsI4x4 {
		topRight := buf[YOff-BPS+16 : YOff-BPS+20]
		for r := 1; r <= 3; r++ {
			off := r * 4 * BPS
			copy(buf[YOff-BPS+16+off:YOff-BPS+20+off], topRight)
		}
	}

	hasTop, hasLeft := mbY > 0, mbX > 0

	if hdr.Ref != RefIntra {
		predictMacroblockInterLuma(d.refs.frame(hdr.Ref), mbX, mbY, mv, subMVs, buf)
		predictMacroblockInterChroma(d.refs.frame(hdr.Ref), mbX, mbY, mv, subMVs, buf)
	} else if mi.IsI4x4 {
		for n := 0; n < 16; n++ {
			bx, by := n%4, n/4
			off := YOff + by*4*BPS + bx*4
			predLuma4(buf, off, mi.BModes[n])
			d.applyLumaResidual(buf, off, res, n)
		}
	} else {
		predLuma16(buf, YOff, mi.YMode, hasTop, hasLeft)
	}

	if hdr.Ref == RefIntra {
		predChroma8(buf, UOff, mi.UVMode, hasTop, hasLeft)
		predChroma8(buf, VOff, mi.UVMode, hasTop, hasLeft)
	}

	if hdr.Ref == RefIntra && !mi.IsI4x4 {
		d.applyLuma16Residual(buf, res)
	}
	if hdr.Ref != RefIntra {
		d.applyLuma16Residual(buf, res)
	}
	d.applyChromaResidual(buf, UOff, res.U[:])
	d.applyChromaResidual(buf, VOff, res.V[:])

	if mbY < d.MBH-1 {
		copy(d.topY[mbX].Y[:], buf[YOff+15*BPS:YOff+15*BPS+16])
		copy(d.topY[mbX].U[:], buf[UOff+7*BPS:UOff+7*BPS+8])
		copy(d.topY[mbX].V[:], buf[VOff+7*BPS:VOff+7*BPS+8])
	}

	yOrigin := dst.yOrigin() + mbY*16*dst.YStride + mbX*16
	uvOrigin := dst.uvOrigin() + mbY*8*dst.UVStride + mbX*8
	for j := 0; j < 16; j++ {
		copy(dst.Y[yOrigin+j*dst.YStride:yOrigin+j*dst.YStride+16], buf[YOff+j*BPS:YOff+j*BPS+16])
	}
	for j := 0; j < 8; j++ {
		copy(dst.U[uvOrigin+j*dst.UVStride:uvOrigin+j*dst.UVStride+8], buf[UOff+j*BPS:UOff+j*BPS+8])
		copy(dst.V[uvOrigin+j*dst.UVStride:uvOrigin+j*dst.UVStride+8], buf[VOff+j*BPS:VOff+j*BPS+8])
	}
}

func (d *FrameDecoder) applyLumaResidual(buf []byte, off int, res *Residuals, n int) {
	coeffs := res.Y[n]
	if !res.NZ[n] {
		return
	}
	allZeroAC := true
	for i := 1; i < 16; i++ {
		if coeffs[i] != 0 {
			allZeroAC = false
			break
		}
	}
	if allZeroAC {
		inverseDCT4x4DC(coeffs[0], buf, off)
	} else {
		inverseDCT4x4(coeffs[:], buf, off)
	}
}

func (d *FrameDecoder) applyLuma16Residual(buf []byte, res *Residuals) {
	y := res.Y
	if res.HasY2 {
		var dc [16]int16
		inverseWHT4x4(res.Y2[:], dc[:])
		for n := 0; n < 16; n++ {
			y[n][0] = dc[n]
		}
	}
	for n := 0; n < 16; n++ {
		off := YOff + (n/4)*4*BPS + (n%4)*4
		anyAC := false
		for i := 1; i < 16; i++ {
			if y[n][i] != 0 {
				anyAC = true
				break
			}
		}
		if y[n][0] == 0 && !anyAC {
			continue
		}
		if !anyAC {
			inverseDCT4x4DC(y[n][0], buf, off)
		} else {
			inverseDCT4x4(y[n][:], buf, off)
		}
	}
}

func (d *FrameDecoder) applyChromaResidual(buf []byte, planeOff int, blocks [][16]int16) {
	for n := 0; n < 4; n++ {
		off := planeOff + (n/2)*4*BPS + (n%2)*4
		c := blocks[n]
		anyAC := false
		for i := 1; i < 16; i++ {
			if c[i] != 0 {
				anyAC = true
				break
			}
		}
		if c[0] == 0 && !anyAC {
			continue
		}
		if !anyAC {
			inverseDCT4x4DC(c[0], buf, off)
		} else {
			inverseDCT4x4(c[:], buf, off)
		}
	}
}

// filterRow applies the in-loop deblocking filter to every macroblock in
// row mbY, whose top and left neighbors are by now fully reconstructed.
func (d *FrameDecoder) filterRow(dst *Raster, mbY int, filterInfos []FInfo, modeCats []int8) {
	if d.filter.Level == 0 {
		return
	}
	for mbX := 0; mbX < d.MBW; mbX++ {
		info := filterInfos[mbY*d.MBW+mbX]
		modeCat := int(modeCats[mbY*d.MBW+mbX])
		filterInner := modeCat != -1
		filterMacroblock(dst, mbX, mbY, info, d.filter.Simple, filterInner)
	}
}
