package vp8

import "github.com/raptorcodec/vp8/internal/bitio"

// MotionVector is a (row, col) displacement in quarter-pel units.
type MotionVector struct {
	Row, Col int16
}

func (m MotionVector) isZero() bool { return m.Row == 0 && m.Col == 0 }

func (m MotionVector) negate() MotionVector { return MotionVector{-m.Row, -m.Col} }

// census implements the neighbor-vote motion-vector predictor (RFC 6386
// section 17.1's "Scorer"): above/left/above-left neighbors contribute
// weighted votes for their motion vector, sign-flipped to match this
// macroblock's own sign-bias convention if it differs from theirs, and a
// non-inter or missing neighbor contributes a vote for the zero vector.
type census struct {
	mvs    []MotionVector
	scores []uint8
	splitScore uint8
	flipped    bool
}

func newCensus(flipped bool) *census {
	return &census{flipped: flipped}
}

func (c *census) add(score uint8, n *Neighbor) {
	if n == nil || !n.Valid || !n.IsInter {
		c.vote(score, MotionVector{})
		return
	}
	mv := n.MV
	if n.flippedConvention() != c.flipped {
		mv = mv.negate()
	}
	c.vote(score, mv)
	if n.SplitMV {
		c.splitScore += score
	}
}

func (c *census) vote(score uint8, mv MotionVector) {
	for i, v := range c.mvs {
		if v == mv {
			c.scores[i] += score
			return
		}
	}
	c.mvs = append(c.mvs, mv)
	c.scores = append(c.scores, score)
}

// result is (best, nearest, near, splitScore): best is the top-scoring
// vote; when best is the zero vector, nearest/near are the second and
// third ranked votes, otherwise they are the first and second (votes are
// padded with zero-score zero vectors up to three).
type censusResult struct {
	best, nearest, near MotionVector
	bestScore, nearestScore, nearScore, splitScore uint8
}

func (c *census) calculate() censusResult {
	type scored struct {
		mv    MotionVector
		score uint8
	}
	all := make([]scored, len(c.mvs))
	for i, mv := range c.mvs {
		all[i] = scored{mv, c.scores[i]}
	}
	for len(all) < 3 {
		all = append(all, scored{})
	}
	// Stable descending sort by score (small N, insertion sort keeps this
	// grounded on the same "sort then pad to 3" shape as the source
	// without pulling in sort.Slice for 3-ish elements).
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].score > all[j-1].score; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}

	res := censusResult{
		best: all[0].mv, bestScore: all[0].score,
		splitScore: c.splitScore,
	}
	if all[0].mv.isZero() {
		res.nearest, res.nearestScore = all[1].mv, all[1].score
		res.near, res.nearScore = all[2].mv, all[2].score
	} else {
		res.nearest, res.nearestScore = all[0].mv, all[0].score
		res.near, res.nearScore = all[1].mv, all[1].score
	}
	return res
}

// flippedConvention reports whether the census counts n's motion vector as
// sign-flipped: true when n referenced GOLDEN or ALTREF.
func (n *Neighbor) flippedConvention() bool {
	return n.RefFrame == RefGolden || n.RefFrame == RefAltRef
}

// mvCountsToProbs maps a neighbor-vote score (0..5) to the probability of
// taking the "more complex" branch at the corresponding mv_ref_tree node.
// This is RFC 6386 section 17.2's mv_counts_to_probs constant, the same
// fixed table carried as vp8_mode_contexts in the libvpx/dixie reference
// decoder that the teacher's own fixed-probability tables (tables.go) are
// otherwise modeled on; ported here directly rather than approximated
// since it drives actual mode-decode probabilities, not a cost estimate.
var mvCountsToProbs = [6][4]uint8{
	{7, 1, 1, 143},
	{14, 18, 14, 107},
	{135, 64, 57, 68},
	{60, 56, 128, 65},
	{159, 134, 128, 34},
	{234, 188, 128, 28},
}

func clampCount(v uint8) uint8 {
	if int(v) >= len(mvCountsToProbs) {
		return uint8(len(mvCountsToProbs) - 1)
	}
	return v
}

// decodeMVRef runs the full neighbor census and decodes the mv_ref_tree
// symbol (NEAREST/NEAR/ZERO/NEW/SPLIT) for one inter-coded macroblock.
func decodeMVRef(br *bitio.BoolReader, above, left, aboveLeft *Neighbor, flipped bool) (int, censusResult) {
	c := newCensus(flipped)
	c.add(2, above)
	c.add(2, left)
	c.add(1, aboveLeft)
	res := c.calculate()

	probs := [4]uint8{
		mvCountsToProbs[clampCount(res.bestScore)][0],
		mvCountsToProbs[clampCount(res.nearestScore)][1],
		mvCountsToProbs[clampCount(res.nearScore)][2],
		mvCountsToProbs[clampCount(res.splitScore)][3],
	}
	mode := bitio.Tree(br, mvRefTree, probs[:])
	return mode, res
}

// readMVComponent decodes one signed motion-vector component (row or
// column) per RFC 6386 section 17.2: an is_short bit chooses between a
// short (0..7) magnitude read via a small tree (bit 0) and a 10-bit "long"
// magnitude read bit-by-bit (bit 1); a sign bit follows any nonzero
// magnitude. The magnitude from either path is doubled before the sign is
// applied.
func readMVComponent(br *bitio.BoolReader, ctx *mvContext) int16 {
	var mag int
	if br.GetBit(ctx.isShort[0]) == 0 {
		mag = bitio.Tree(br, shortVectorTree, ctx.short[:])
	} else {
		for i := 0; i < 3; i++ {
			mag |= br.GetBit(ctx.bits[i]) << uint(i)
		}
		for i := 9; i > 3; i-- {
			mag |= br.GetBit(ctx.bits[i]) << uint(i)
		}
		if mag&0xfff0 == 0 || br.GetBit(ctx.bits[3]) != 0 {
			mag += 8
		}
	}
	mag *= 2
	if mag != 0 && br.GetBit(ctx.sign[0]) != 0 {
		mag = -mag
	}
	return int16(mag)
}

// readMVResidual decodes a full NEWMV residual pair, added to a predictor
// (usually the census's "nearest" vector) to produce the actual vector.
func readMVResidual(br *bitio.BoolReader, p *[2]mvContext, pred MotionVector) MotionVector {
	dr := readMVComponent(br, &p[0])
	dc := readMVComponent(br, &p[1])
	return MotionVector{pred.Row + dr, pred.Col + dc}
}

// clampMV bounds a macroblock's motion vector so the referenced block stays
// within the frame's motion-search margin, per RFC 6386 section 17.2's
// mb_to_*_edge clamp.
func clampMV(mv MotionVector, mbX, mbY, mbW, mbH int) MotionVector {
	const margin = 16 << 3 // 16 pixels of slack, in eighth-pel units doubled to quarter-pel below
	toLeft := int16(-(mbX << 7) - margin)
	toRight := int16(((mbW - 1 - mbX) << 7) + margin)
	toTop := int16(-(mbY << 7) - margin)
	toBottom := int16(((mbH - 1 - mbY) << 7) + margin)

	clamp := func(v, lo, hi int16) int16 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return MotionVector{
		Row: clamp(mv.Row, toTop, toBottom),
		Col: clamp(mv.Col, toLeft, toRight),
	}
}
