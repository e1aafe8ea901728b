package bitio

import "testing"

// Mirrors the four-leaf intra-mode-shaped tree from the decoder's
// tree-decode determinism property: nodes=[2,4,-DC,-V,-H,-TM].
const (
	scenDC = 0
	scenV  = 1
	scenH  = 2
	scenTM = 3
)

var scenarioTree = []int8{2, 4, -scenDC, -scenV, -scenH, -scenTM}

func encodeBits(bits []int, probs []uint8) []byte {
	e := newTestEncoder()
	for i, bit := range bits {
		e.putBit(bit, probs[i])
	}
	return e.finish()
}

func TestTree_DeterminismAcrossBitSequences(t *testing.T) {
	probs := []uint8{200, 80, 180} // p0, p1, p2

	cases := []struct {
		bits []int
		want int
	}{
		{[]int{0, 0}, scenDC},
		{[]int{0, 1}, scenV},
		{[]int{1, 0}, scenH},
		{[]int{1, 1}, scenTM},
	}

	for _, c := range cases {
		// The probability driving the second bit depends on which branch the
		// first bit took: p1 under the left child, p2 under the right child.
		secondProb := probs[1]
		if c.bits[0] == 1 {
			secondProb = probs[2]
		}
		stream := encodeBits(c.bits, []uint8{probs[0], secondProb})

		br := NewBoolReader(stream)
		got := Tree(br, scenarioTree, probs)
		if got != c.want {
			t.Errorf("bits=%v: Tree() = %d, want %d", c.bits, got, c.want)
		}
	}
}
