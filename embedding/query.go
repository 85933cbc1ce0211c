package embedding

import (
	"sort"

	"github.com/robamler/linguistic-flux-capacitor/internal/difftree"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

// ScoredWord pairs a vocabulary word index with a query score (a dot
// product, or a change-over-time difference).
type ScoredWord struct {
	Word  int
	Score float32
}

// uniqueSorted returns the deduplicated, ascending-sorted union of ws, and
// a map from word index to its position in that union - the (H, U, D)
// scratch buffer's second dimension and the index the traversal loops fill
// it in by.
func uniqueSorted(wordSets ...[]int) ([]int, map[int]int) {
	seen := make(map[int]struct{})
	for _, ws := range wordSets {
		for _, w := range ws {
			seen[w] = struct{}{}
		}
	}
	unique := make([]int, 0, len(seen))
	for w := range seen {
		unique = append(unique, w)
	}
	sort.Ints(unique)

	index := make(map[int]int, len(unique))
	for i, w := range unique {
		index[w] = i
	}
	return unique, index
}

// reconstructLevel decodes time step t's diffs for every word in unique and,
// for interior time steps, combines each with its two tree parents' rows
// already sitting in scratch, writing the true (non-diff) reconstructed
// vectors into scratch's row for level.
func reconstructLevel(r *Reader, scratch *tensor.Rank3[int16], unique []int, t, level int, leftLevel, rightLevel int, isRoot bool) {
	d := r.EmbeddingDim()
	cur := NewTimestepCursor(r, t)
	sink := make([]int16, d)

	if isRoot {
		for idx, w := range unique {
			cur.JumpTo(w)
			cur.ReadSingleEmbeddingVector(sink)
			copy(scratch.SubviewRow(level, idx), sink)
		}
		return
	}

	left, right, target := scratch.SubviewsRRW(leftLevel, rightLevel, level)
	for idx, w := range unique {
		cur.JumpTo(w)
		cur.ReadSingleEmbeddingVector(sink)
		lrow := left[idx*d : (idx+1)*d]
		rrow := right[idx*d : (idx+1)*d]
		trow := target[idx*d : (idx+1)*d]
		for k := 0; k < d; k++ {
			mid := (int32(lrow[k]) + int32(rrow[k])) >> 1
			trow[k] = int16(int32(sink[k]) + mid)
		}
	}
}

func dotProduct32(a, b []int16) int32 {
	var sum int32
	for i := range a {
		sum += int32(a[i]) * int32(b[i])
	}
	return sum
}

// PairwiseTrajectories returns, for each i, the trajectory across all time
// steps of dot(emb_t[words1[i]], emb_t[words2[i]]) scaled by scale_factor^2.
// The result has one row per pair (len(words1) rows), each of length
// NumTimesteps. Returns nil if the inputs are empty or of mismatched
// length; panics on out-of-range word indices.
func (r *Reader) PairwiseTrajectories(words1, words2 []int) [][]float32 {
	if len(words1) == 0 || len(words2) == 0 || len(words1) != len(words2) {
		return nil
	}

	numT := r.NumTimesteps()
	d := r.EmbeddingDim()
	scale2 := r.ScaleFactor() * r.ScaleFactor()

	unique, index := uniqueSorted(words1, words2)
	h := difftree.Height(numT)
	scratch := tensor.NewRank3[int16](h, len(unique), d)

	out := make([][]float32, len(words1))
	for i := range out {
		out[i] = make([]float32, numT)
	}

	storeDots := func(t, level int) {
		for pi := range words1 {
			i1, i2 := index[words1[pi]], index[words2[pi]]
			sum := dotProduct32(scratch.SubviewRow(level, i1), scratch.SubviewRow(level, i2))
			out[pi][t] = float32(sum) * scale2
		}
	}

	reconstructLevel(r, scratch, unique, 0, 0, 0, 0, true)
	storeDots(0, 0)
	reconstructLevel(r, scratch, unique, numT-1, 1, 0, 0, true)
	storeDots(numT-1, 1)

	for _, n := range difftree.Traverse(numT) {
		reconstructLevel(r, scratch, unique, n.T, n.Level, n.LeftLevel, n.RightLevel, false)
		storeDots(n.T, n.Level)
	}

	return out
}

// insertTopK maintains a length-k sorted-descending-by-score array in
// place: overwrite the last slot with the candidate, then bubble it toward
// the front, matching the swap-sort insertion the reconstruction loop
// performs for every candidate word.
func insertTopK(topK []ScoredWord, candidate ScoredWord) {
	k := len(topK)
	if k == 0 {
		return
	}
	if candidate.Score <= topK[k-1].Score {
		return
	}
	topK[k-1] = candidate
	for i := k - 1; i > 0 && topK[i].Score > topK[i-1].Score; i-- {
		topK[i], topK[i-1] = topK[i-1], topK[i]
	}
}

// reconstructFullTimestep decodes the entire (V, D) embedding matrix at
// time step t by bisecting the time-step tree from the two roots inward,
// combining each midpoint's diff with the interval's current left/right
// reconstructed slabs until the midpoint equals t.
func reconstructFullTimestep(r *Reader, t int) *tensor.Rank2[int16] {
	v, d := r.VocabSize(), r.EmbeddingDim()
	numT := r.NumTimesteps()

	decodeFullRow := func(at int) *tensor.Rank2[int16] {
		row := tensor.NewRank2[int16](v, d)
		cur := NewTimestepCursor(r, at)
		for word := 0; word < v; word++ {
			cur.ReadSingleEmbeddingVector(row.Row(word))
		}
		return row
	}

	left, right := 0, numT-1
	leftSlab, rightSlab := decodeFullRow(left), decodeFullRow(right)
	if t == left {
		return leftSlab
	}
	if t == right {
		return rightSlab
	}

	for {
		mid := (left + right) / 2
		diffRow := decodeFullRow(mid)
		combined := tensor.NewRank2[int16](v, d)
		for word := 0; word < v; word++ {
			diff := diffRow.Row(word)
			lrow := leftSlab.Row(word)
			rrow := rightSlab.Row(word)
			out := combined.Row(word)
			for k := 0; k < d; k++ {
				m := (int32(lrow[k]) + int32(rrow[k])) >> 1
				out[k] = int16(int32(diff[k]) + m)
			}
		}
		if mid == t {
			return combined
		}
		if t < mid {
			right, rightSlab = mid, combined
		} else {
			left, leftSlab = mid, combined
		}
	}
}

// MostRelatedToAtT reconstructs every word's embedding at time step t and
// returns, for each target (in the caller's original order), the top-k
// words by dot product excluding the target itself. Returns nil if targets
// is empty; panics if t or any target is out of range.
func (r *Reader) MostRelatedToAtT(targets []int, t, k int) [][]ScoredWord {
	if len(targets) == 0 || k <= 0 {
		return nil
	}
	if t < 0 || t >= r.NumTimesteps() {
		panic("embedding: time step out of range")
	}

	full := reconstructFullTimestep(r, t)
	v := r.VocabSize()
	scale2 := r.ScaleFactor() * r.ScaleFactor()

	uniqueTargets, index := uniqueSorted(targets)
	perTarget := make([][]ScoredWord, len(uniqueTargets))
	for i, target := range uniqueTargets {
		topK := make([]ScoredWord, k)
		for j := range topK {
			topK[j] = ScoredWord{Word: -1, Score: negInf}
		}
		targetRow := full.Row(target)
		for word := 0; word < v; word++ {
			if word == target {
				continue
			}
			sum := dotProduct32(targetRow, full.Row(word))
			insertTopK(topK, ScoredWord{Word: word, Score: float32(sum) * scale2})
		}
		perTarget[i] = topK
	}

	out := make([][]ScoredWord, len(targets))
	for i, target := range targets {
		out[i] = perTarget[index[target]]
	}
	return out
}

// negInf is a safely-comparable negative-infinity sentinel for an empty
// top-k slot: any real dot-product score sorts above it, so the initial
// top-k rows never survive unless fewer than k real candidates exist.
const negInf float32 = -1.0e38

// LargestChangesWrt ranks every other word by how much its dot product
// with word changes between t=0 and t=T-1, returning min_inc entries from
// the increasing side, min_dec from the decreasing side, then filling the
// remaining k-min_inc-min_dec slots from whichever side has the larger
// magnitude remaining, sorted descending by |diff|.
func (r *Reader) LargestChangesWrt(word, k, minInc, minDec int) []ScoredWord {
	if k <= 0 {
		return nil
	}

	v := r.VocabSize()
	scale2 := r.ScaleFactor() * r.ScaleFactor()
	numT := r.NumTimesteps()

	first := reconstructFullTimestep(r, 0)
	last := reconstructFullTimestep(r, numT-1)

	firstTarget := first.Row(word)
	lastTarget := last.Row(word)

	inc := make([]ScoredWord, minInc)
	dec := make([]ScoredWord, minDec)
	for i := range inc {
		inc[i] = ScoredWord{Word: -1, Score: negInf}
	}
	for i := range dec {
		dec[i] = ScoredWord{Word: -1, Score: negInf}
	}

	incAll := make([]ScoredWord, 0, v)

	for i := 0; i < v; i++ {
		if i == word {
			continue
		}
		d0 := float32(dotProduct32(firstTarget, first.Row(i))) * scale2
		d1 := float32(dotProduct32(lastTarget, last.Row(i))) * scale2
		diff := d1 - d0

		if minInc > 0 {
			insertTopK(inc, ScoredWord{Word: i, Score: diff})
		}
		if minDec > 0 {
			insertTopK(dec, ScoredWord{Word: i, Score: -diff})
		}
		// incAll doubles as the magnitude-ranked fill pool: |diff| is the
		// same value whichever direction it's framed as.
		incAll = append(incAll, ScoredWord{Word: i, Score: diff})
	}

	remaining := k - minInc - minDec
	out := make([]ScoredWord, 0, k)
	out = append(out, inc...)
	for _, s := range dec {
		// dec entries were ranked by -diff; report the true diff.
		out = append(out, ScoredWord{Word: s.Word, Score: -s.Score})
	}

	if remaining <= 0 {
		return out[:k]
	}

	used := make(map[int]struct{}, minInc+minDec)
	for _, s := range inc {
		used[s.Word] = struct{}{}
	}
	for _, s := range dec {
		used[s.Word] = struct{}{}
	}

	var fillers []ScoredWord
	for _, s := range incAll {
		if _, ok := used[s.Word]; ok {
			continue
		}
		fillers = append(fillers, s)
	}
	sort.Slice(fillers, func(a, b int) bool {
		return absFloat32(fillers[a].Score) > absFloat32(fillers[b].Score)
	})

	for i := 0; i < remaining && i < len(fillers); i++ {
		out = append(out, fillers[i])
	}
	return out
}

func absFloat32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
