package vp8

import (
	"encoding/binary"
	"testing"

	"github.com/raptorcodec/vp8/internal/bitio"
)

// Builds the minimal valid key-frame bitstream this package's decode path
// accepts: segmentation and the loop filter both off, every macroblock
// mb_skip_coeff=1 with y_mode=DC_PRED/uv_mode=DC_PRED, so no token
// partition bits are ever consumed. Mirrors the bit order DecodeFrame
// reads in internal/vp8/decode.go and internal/vp8/header.go.
func buildSkippedKeyFramePayload(width, height int) []byte {
	const skipProb = 200
	mbw, mbh := (width+15)>>4, (height+15)>>4

	e := newTestEncoder()
	e.putBitUniform(0) // color_space
	e.putBitUniform(0) // clamping_type
	e.putBitUniform(0) // segmentation_enabled

	e.putBitUniform(0) // filter_type: normal
	e.putBits(0, 6)    // filter_level
	e.putBits(0, 3)    // sharpness
	e.putBitUniform(0) // loop_filter_adj_enable

	e.putBits(0, 2) // log2_nbr_of_DCT_partitions -> 1 partition

	e.putBits(0, 7) // base_q0
	for i := 0; i < 5; i++ {
		e.putBitUniform(0) // no per-plane quant deltas
	}

	e.putBitUniform(1) // refresh_entropy_probs

	for t := 0; t < numCoeffTypes; t++ {
		for b := 0; b < numBands; b++ {
			for c := 0; c < numCtx3; c++ {
				for p := 0; p < numTokenProbs; p++ {
					e.putBit(0, coeffUpdateProbs.Probs[t][b][c][p])
				}
			}
		}
	}

	e.putBitUniform(1)     // mb_no_skip_coeff
	e.putBits(skipProb, 8) // skip probability

	firstPartition := e.finish()

	tok := newTestEncoder()
	for i := 0; i < mbw*mbh; i++ {
		tok.putBit(1, skipProb)             // mb_skip_coeff = true
		tok.putBit(1, kfIsI4x4Prob)          // is_i4x4 bit -> 1 means 16x16 mode
		tok.putBit(0, kfYModeTreeProbs[0])   // -> predDC
		tok.putBit(0, kfYModeTreeProbs[1])   // -> predDC
		tok.putBit(0, kfUVModeProbs[0])      // -> predDC
	}
	tokenPartition := tok.finish()

	header := make([]byte, 7)
	header[0], header[1], header[2] = 0x9d, 0x01, 0x2a
	binary.LittleEndian.PutUint16(header[3:5], uint16(width)&0x3fff)
	binary.LittleEndian.PutUint16(header[5:7], uint16(height)&0x3fff)

	tagBits := uint32(len(firstPartition))<<5 | 1<<4 // show=1, version=0, key_frame
	tag := []byte{byte(tagBits), byte(tagBits >> 8), byte(tagBits >> 16)}

	payload := append([]byte{}, tag...)
	payload = append(payload, header...)
	payload = append(payload, firstPartition...)
	payload = append(payload, tokenPartition...)
	return payload
}

// Scenario: key frame with loop_filter_level=0 and every MB mb_skip_coeff=1,
// y_mode=DC_PRED. The emitted Y plane is uniformly 128, the RFC 6386 default
// for 16x16 DC prediction when both the above and left edges are absent.
func TestDecodeFrame_SkipMBPassThrough(t *testing.T) {
	payload := buildSkippedKeyFramePayload(16, 16)

	fd := NewFrameDecoder()
	r, err := fd.DecodeFrame(payload)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	y := r.VisibleY()
	for i, v := range y {
		if v != 128 {
			t.Fatalf("Y[%d] = %d, want 128", i, v)
			break
		}
	}
}

// Scenario: a key frame declaring width=17, height=17 produces a Y plane
// of exactly 17x17 samples, with mb_cols=mb_rows=2.
func TestDecodeFrame_Dimensions(t *testing.T) {
	payload := buildSkippedKeyFramePayload(17, 17)

	fd := NewFrameDecoder()
	r, err := fd.DecodeFrame(payload)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if fd.MBW != 2 || fd.MBH != 2 {
		t.Errorf("MBW,MBH = %d,%d, want 2,2", fd.MBW, fd.MBH)
	}
	if r.Width != 17 || r.Height != 17 {
		t.Errorf("Width,Height = %d,%d, want 17,17", r.Width, r.Height)
	}
	y := r.VisibleY()
	if len(y) != 17*17 {
		t.Fatalf("len(VisibleY()) = %d, want %d", len(y), 17*17)
	}
}

// Scenario: any frame with loop_filter_level=0 leaves every macroblock's
// pre-filter reconstruction untouched.
func TestFilterRow_DisabledIsNoOp(t *testing.T) {
	d := &FrameDecoder{MBW: 1, MBH: 1, filter: FilterHeader{Level: 0}}
	r := newRaster(16, 16)
	for i := range r.Y {
		r.Y[i] = 0x42
	}
	before := append([]byte{}, r.Y...)

	d.filterRow(r, 0, []FInfo{{Limit: 30, InnerLvl: 10, HevThresh: 2}}, []int8{-1})

	for i := range r.Y {
		if r.Y[i] != before[i] {
			t.Fatalf("Y[%d] changed from %d to %d with filter_level=0", i, before[i], r.Y[i])
		}
	}
}

// Scenario: 2 segments, segment_feature_mode=absolute, segment 1
// filter_level=10, segment 0 filter_level=0. Segment-0 macroblocks are
// unfiltered; segment-1 macroblocks get mb_edge_limit=2*(10+2)+10=34 and
// sb_edge_limit=2*10+10=30.
func TestComputeFilterInfo_SegmentOverride(t *testing.T) {
	seg := SegmentHeader{
		Enabled:        true,
		AbsoluteDelta:  true,
		FilterStrength: [numSegments]int8{0, 10, 0, 0},
	}
	hdr := FilterHeader{Level: 10} // frame-level level, overridden per segment

	seg0 := computeFilterInfo(&seg, &hdr, 0, RefIntra, -1, true)
	if seg0.Limit != 0 {
		t.Errorf("segment 0: Limit = %d, want 0 (unfiltered)", seg0.Limit)
	}

	seg1 := computeFilterInfo(&seg, &hdr, 1, RefIntra, -1, true)
	sbEdgeLimit := int(seg1.Limit)
	mbEdgeLimit := int(seg1.Limit) + 4
	if sbEdgeLimit != 30 {
		t.Errorf("segment 1: sb_edge_limit = %d, want 30", sbEdgeLimit)
	}
	if mbEdgeLimit != 34 {
		t.Errorf("segment 1: mb_edge_limit = %d, want 34", mbEdgeLimit)
	}
}

// buildKeyFrameWithResidualPayload encodes a single 16x16-mode macroblock
// with mb_skip_coeff=0 and a real nonzero Y2 DC coefficient (token dct1,
// value +1), EOB everywhere else. Exercises decodeMBResiduals/decodeBlock
// against the literal defaultCoeffProbs table instead of every golden
// test taking the all-skip shortcut.
func buildKeyFrameWithResidualPayload() []byte {
	const skipProb = 200
	width, height := 16, 16

	e := newTestEncoder()
	e.putBitUniform(0) // color_space
	e.putBitUniform(0) // clamping_type
	e.putBitUniform(0) // segmentation_enabled

	e.putBitUniform(0) // filter_type: normal
	e.putBits(0, 6)    // filter_level
	e.putBits(0, 3)    // sharpness
	e.putBitUniform(0) // loop_filter_adj_enable

	e.putBits(0, 2) // log2_nbr_of_DCT_partitions -> 1 partition

	// base_q0 = 127: at index 0 a Y2 DC of 1 dequantizes to 8, which the
	// WHT and DC-only IDCT round away to a zero pixel change; at 127 it
	// dequantizes to 314 and lifts every luma pixel by 5.
	e.putBits(127, 7) // base_q0
	for i := 0; i < 5; i++ {
		e.putBitUniform(0)
	}

	e.putBitUniform(1) // refresh_entropy_probs

	for t := 0; t < numCoeffTypes; t++ {
		for b := 0; b < numBands; b++ {
			for c := 0; c < numCtx3; c++ {
				for p := 0; p < numTokenProbs; p++ {
					e.putBit(0, coeffUpdateProbs.Probs[t][b][c][p])
				}
			}
		}
	}

	e.putBitUniform(1)     // mb_no_skip_coeff
	e.putBits(skipProb, 8) // skip probability

	firstPartition := e.finish()

	tok := newTestEncoder()
	tok.putBit(0, skipProb)            // mb_skip_coeff = false
	tok.putBit(1, kfIsI4x4Prob)         // -> 16x16 mode
	tok.putBit(0, kfYModeTreeProbs[0])  // -> predDC
	tok.putBit(0, kfYModeTreeProbs[1])  // -> predDC
	tok.putBit(0, kfUVModeProbs[0])     // -> predDC

	// Y2 block (hasY2=true for 16x16, non-split): one nonzero DC (dct1,
	// value +1) at scan position 0, then EOB at position 1.
	y2p0 := defaultCoeffProbs.Probs[coeffTypeY2][coeffBands[0]][0]
	tok.putBit(1, y2p0[0]) // not EOB
	tok.putBit(1, y2p0[1]) // not dct0
	tok.putBit(0, y2p0[2]) // -> dct1 (value 1)
	tok.putBitUniform(0)   // positive sign
	y2p1 := defaultCoeffProbs.Probs[coeffTypeY2][coeffBands[1]][1]
	tok.putBit(0, y2p1[0]) // EOB

	// 16 Y blocks start at scan position 1 (DC comes from Y2): EOB at once.
	yp := defaultCoeffProbs.Probs[coeffTypeY1][coeffBands[1]][0]
	for i := 0; i < 16; i++ {
		tok.putBit(0, yp[0])
	}

	// 4 U + 4 V blocks: EOB at once.
	uvp := defaultCoeffProbs.Probs[coeffTypeUV][coeffBands[0]][0]
	for i := 0; i < 8; i++ {
		tok.putBit(0, uvp[0])
	}
	tokenPartition := tok.finish()

	header := make([]byte, 7)
	header[0], header[1], header[2] = 0x9d, 0x01, 0x2a
	binary.LittleEndian.PutUint16(header[3:5], uint16(width)&0x3fff)
	binary.LittleEndian.PutUint16(header[5:7], uint16(height)&0x3fff)

	tagBits := uint32(len(firstPartition))<<5 | 1<<4
	tag := []byte{byte(tagBits), byte(tagBits >> 8), byte(tagBits >> 16)}

	payload := append([]byte{}, tag...)
	payload = append(payload, header...)
	payload = append(payload, firstPartition...)
	payload = append(payload, tokenPartition...)
	return payload
}

// Scenario: a macroblock with a real nonzero Y2 DC coefficient must not
// decode as if it were skipped -- the reconstructed Y plane picks up the
// WHT'd/DCT'd DC offset and is no longer uniformly 128.
func TestDecodeFrame_NonSkipCoefficient(t *testing.T) {
	payload := buildKeyFrameWithResidualPayload()

	fd := NewFrameDecoder()
	r, err := fd.DecodeFrame(payload)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	y := r.VisibleY()
	allFlat := true
	for _, v := range y {
		if v != 128 {
			allFlat = false
			break
		}
	}
	if allFlat {
		t.Fatalf("Y plane is uniformly 128; the decoded Y2 DC coefficient had no effect")
	}
}

// buildKeyFrameBPredPayload encodes a single macroblock with is_i4x4=true
// and every 4x4 sub-block's mode decoding to B_DC_PRED, exercising
// kfBModeProbs (RFC 6386's kf_bmode_probs) on the key-frame B_PRED path.
func buildKeyFrameBPredPayload() []byte {
	const skipProb = 200
	width, height := 16, 16

	e := newTestEncoder()
	e.putBitUniform(0)
	e.putBitUniform(0)
	e.putBitUniform(0)

	e.putBitUniform(0)
	e.putBits(0, 6)
	e.putBits(0, 3)
	e.putBitUniform(0)

	e.putBits(0, 2)

	e.putBits(0, 7)
	for i := 0; i < 5; i++ {
		e.putBitUniform(0)
	}

	e.putBitUniform(1)

	for t := 0; t < numCoeffTypes; t++ {
		for b := 0; b < numBands; b++ {
			for c := 0; c < numCtx3; c++ {
				for p := 0; p < numTokenProbs; p++ {
					e.putBit(0, coeffUpdateProbs.Probs[t][b][c][p])
				}
			}
		}
	}

	e.putBitUniform(1)
	e.putBits(skipProb, 8)

	firstPartition := e.finish()

	tok := newTestEncoder()
	tok.putBit(1, skipProb)     // mb_skip_coeff = true
	tok.putBit(0, kfIsI4x4Prob) // -> B_PRED

	// Every sub-block context stays (bDC, bDC) as long as every decoded
	// mode is bDC, so the same single probability decodes all 16 leaves.
	p := kfBModeProbs[bDC][bDC]
	for i := 0; i < 16; i++ {
		tok.putBit(0, p[0])
	}
	tok.putBit(0, kfUVModeProbs[0]) // -> predDC chroma

	tokenPartition := tok.finish()

	header := make([]byte, 7)
	header[0], header[1], header[2] = 0x9d, 0x01, 0x2a
	binary.LittleEndian.PutUint16(header[3:5], uint16(width)&0x3fff)
	binary.LittleEndian.PutUint16(header[5:7], uint16(height)&0x3fff)

	tagBits := uint32(len(firstPartition))<<5 | 1<<4
	tag := []byte{byte(tagBits), byte(tagBits >> 8), byte(tagBits >> 16)}

	payload := append([]byte{}, tag...)
	payload = append(payload, header...)
	payload = append(payload, firstPartition...)
	payload = append(payload, tokenPartition...)
	return payload
}

// Scenario: a B_PRED macroblock at the top-left frame corner (both above
// and left edges absent) decodes all sixteen 4x4 sub-block modes without
// desyncing the boolean decoder, the mandatory B_PRED-at-frame-edge
// boundary case.
func TestDecodeFrame_BPredKeyFrame(t *testing.T) {
	payload := buildKeyFrameBPredPayload()

	fd := NewFrameDecoder()
	r, err := fd.DecodeFrame(payload)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if r.Width != 16 || r.Height != 16 {
		t.Errorf("Width,Height = %d,%d, want 16,16", r.Width, r.Height)
	}
}

// Scenario: RFC 6386 section 17.2's "long" motion-vector magnitude path
// reads bits 0..2 and 9..4 unconditionally, then must read bit 3 and add 8
// to the magnitude *only* when short-circuit evaluation reaches it (bits
// 4..9 were all zero, or bit 3 itself is set) -- not unconditionally add 8
// while also OR-ing bit 3 into the magnitude, which double-counts it.
// Hand-computed: bits0..2=0, bits9..4=0,0,0,0,0,1 (sets magnitude bit 4,
// raw value 16), bit3=1. Correct result: (16+8)*2 = 48. The pre-fix logic
// produced (16|8)+8, doubled = 64.
func TestReadMVComponent_LongPathBoundary(t *testing.T) {
	e := newTestEncoder()
	e.putBit(1, 128)     // is_short = false (long path)
	e.putBit(0, 128)     // bit 0
	e.putBit(0, 128)     // bit 1
	e.putBit(0, 128)     // bit 2
	e.putBit(0, 128)     // bit 9
	e.putBit(0, 128)     // bit 8
	e.putBit(0, 128)     // bit 7
	e.putBit(0, 128)     // bit 6
	e.putBit(0, 128)     // bit 5
	e.putBit(1, 128)     // bit 4 -> raw magnitude 16
	e.putBit(1, 128)     // bit 3 (read since 16&0xfff0 != 0) -> +8
	e.putBit(0, 128)     // positive sign
	data := e.finish()

	ctx := mvContext{
		isShort: [1]uint8{128},
		sign:    [1]uint8{128},
		bits:    [10]uint8{128, 128, 128, 128, 128, 128, 128, 128, 128, 128},
	}

	br := bitio.NewBoolReader(data)
	got := readMVComponent(br, &ctx)
	if got != 48 {
		t.Errorf("readMVComponent = %d, want 48 ((16+8)*2)", got)
	}
}

// Scenario: filter_level=20 on a non-key frame yields
// hev_threshold = 1 (>=15) + 0 (<40) + 1 (>=20 and not key) = 2.
func TestComputeFilterInfo_HEVThreshold(t *testing.T) {
	var seg SegmentHeader
	hdr := FilterHeader{Level: 20}

	info := computeFilterInfo(&seg, &hdr, 0, RefIntra, -1, false)
	if info.HevThresh != 2 {
		t.Errorf("HevThresh = %d, want 2", info.HevThresh)
	}

	// The same level on a key frame must NOT count the third term.
	infoKey := computeFilterInfo(&seg, &hdr, 0, RefIntra, -1, true)
	if infoKey.HevThresh != 1 {
		t.Errorf("HevThresh (key frame) = %d, want 1", infoKey.HevThresh)
	}
}
