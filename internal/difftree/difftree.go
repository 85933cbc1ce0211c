// Package difftree builds the temporal binary-tree differential
// representation: per-time-step residuals relative to two tree parents,
// plus the per-time-step symbol histograms that drive frequency
// quantization.
package difftree

import (
	"errors"
	"math"
	"math/bits"

	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

// ErrOverflow is returned when a residual doesn't fit in a signed 16-bit
// integer.
var ErrOverflow = errors.New("difftree: residual overflows int16")

// Node describes one interior node of the time-step tree: its own time
// index and tree level, and the time index/level of each of its two tree
// parents.
type Node struct {
	T     int
	Level int

	LeftT, LeftLevel   int
	RightT, RightLevel int
}

// Height returns the number of distinct levels in the tree over
// numTimesteps time steps, the size of the first dimension a query
// engine's scratch buffer needs.
//
// This counts bits rather than taking a log2, since log2 rounds the exact
// powers of two (numTimesteps-2 == 4, 8, 16, ...) down by one level short of
// what Traverse actually reaches.
func Height(numTimesteps int) int {
	n := numTimesteps - 2
	if n < 0 {
		n = 0
	}
	return 34 - bits.LeadingZeros32(uint32(n))
}

// Traverse returns the interior nodes of the time-step tree over
// [0, numTimesteps) in preorder (left subtree before right), mirroring the
// order the file writer encodes time steps in and the order the query
// engine must walk to reconstruct embeddings bottom-up from their parents.
//
// Root time steps (0 and numTimesteps-1) are not interior nodes and are
// not included; callers handle them separately as levels 0 and 1.
func Traverse(numTimesteps int) []Node {
	var nodes []Node

	var visit func(level, leftT, leftLevel, rightT, rightLevel int)
	visit = func(level, leftT, leftLevel, rightT, rightLevel int) {
		t := (leftT + rightT) / 2
		if t == leftT {
			return
		}
		nodes = append(nodes, Node{
			T: t, Level: level,
			LeftT: leftT, LeftLevel: leftLevel,
			RightT: rightT, RightLevel: rightLevel,
		})
		visit(level+1, leftT, leftLevel, t, level)
		visit(level+1, t, level, rightT, rightLevel)
	}
	visit(2, 0, 0, numTimesteps-1, 1)

	return nodes
}

// Build computes the diff tensor and per-time-step histograms for input,
// a (T, V, D) tensor of quantized embeddings. Root time steps (0, T-1)
// carry their raw values as residuals; every interior time step's residual
// is value - floor((parentLeft+parentRight)/2), computed in 32 bits and
// narrowed to 16 bits. Build returns ErrOverflow if any residual doesn't
// fit in int16.
func Build(input *tensor.Rank3[int16]) (diffs *tensor.Rank3[int16], histograms []map[int16]uint32, err error) {
	numT, v, d := input.Shape()
	diffs = tensor.NewRank3[int16](numT, v, d)
	histograms = make([]map[int16]uint32, numT)
	for i := range histograms {
		histograms[i] = make(map[int16]uint32)
	}

	for _, t := range [2]int{0, numT - 1} {
		src := input.Subview(t)
		dst := diffs.Subview(t)
		h := histograms[t]
		for i, s := range src {
			dst[i] = s
			h[s]++
		}
	}

	for _, n := range Traverse(numT) {
		left := input.Subview(n.LeftT)
		right := input.Subview(n.RightT)
		center := input.Subview(n.T)
		dst := diffs.Subview(n.T)
		h := histograms[n.T]

		for i := range center {
			mid := (int32(left[i]) + int32(right[i])) >> 1
			r := int32(center[i]) - mid
			if r < math.MinInt16 || r > math.MaxInt16 {
				return nil, nil, ErrOverflow
			}
			v16 := int16(r)
			dst[i] = v16
			h[v16]++
		}
	}

	return diffs, histograms, nil
}
