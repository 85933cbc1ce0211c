package embedding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

func TestPairwiseTrajectoriesMatchesBruteForceReconstruction(t *testing.T) {
	r := require.New(t)
	numT, v, d := 6, 30, 8
	in := buildTestTensor(numT, v, d)

	data, err := Build(in, 0.5, 5)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	words1 := []int{0, 3, 29}
	words2 := []int{1, 3, 0}

	got := reader.PairwiseTrajectories(words1, words2)
	r.Len(got, len(words1))

	scale2 := float32(0.5 * 0.5)
	for ti := 0; ti < numT; ti++ {
		full := reconstructFullTimestep(reader, ti)
		for pi := range words1 {
			want := float32(dotProduct32(full.Row(words1[pi]), full.Row(words2[pi]))) * scale2
			r.InDelta(want, got[pi][ti], 1e-3, "pair %d time %d", pi, ti)
		}
	}
}

func TestPairwiseTrajectoriesEmptyInputs(t *testing.T) {
	r := require.New(t)
	in := buildTestTensor(4, 10, 4)
	data, err := Build(in, 1, 3)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	r.Nil(reader.PairwiseTrajectories(nil, nil))
	r.Nil(reader.PairwiseTrajectories([]int{0}, []int{0, 1}))
}

func TestMostRelatedToAtTExcludesTargetAndIsMonotone(t *testing.T) {
	r := require.New(t)
	numT, v, d := 5, 40, 6
	in := buildTestTensor(numT, v, d)
	data, err := Build(in, 1, 4)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	out := reader.MostRelatedToAtT([]int{5, 10}, 2, 5)
	r.Len(out, 2)
	for _, topK := range out {
		r.Len(topK, 5)
		for i := 1; i < len(topK); i++ {
			r.GreaterOrEqual(topK[i-1].Score, topK[i].Score)
		}
	}
	for _, sw := range out[0] {
		r.NotEqual(5, sw.Word)
	}
	for _, sw := range out[1] {
		r.NotEqual(10, sw.Word)
	}
}

func TestMostRelatedToAtTPreservesCallerOrder(t *testing.T) {
	r := require.New(t)
	numT, v, d := 5, 40, 6
	in := buildTestTensor(numT, v, d)
	data, err := Build(in, 1, 4)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	forward := reader.MostRelatedToAtT([]int{3, 7}, 1, 4)
	backward := reader.MostRelatedToAtT([]int{7, 3}, 1, 4)

	r.Equal(forward[0], backward[1])
	r.Equal(forward[1], backward[0])
}

func TestLargestChangesWrtOutputLengthAndSplit(t *testing.T) {
	r := require.New(t)
	numT, v, d := 5, 50, 6
	in := buildTestTensor(numT, v, d)
	data, err := Build(in, 1, 4)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	out := reader.LargestChangesWrt(0, 10, 3, 3)
	r.Len(out, 10)

	for _, sw := range out {
		r.NotEqual(0, sw.Word)
	}

	increasing := out[:3]
	for i := 1; i < len(increasing); i++ {
		r.GreaterOrEqual(increasing[i-1].Score, increasing[i].Score)
	}
	decreasing := out[3:6]
	for i := 1; i < len(decreasing); i++ {
		r.LessOrEqual(decreasing[i-1].Score, decreasing[i].Score)
	}
}

func TestReconstructFullTimestepMatchesSequentialDecode(t *testing.T) {
	r := require.New(t)
	numT, v, d := 5, 25, 6
	in := buildTestTensor(numT, v, d)

	data, err := Build(in, 1, 4)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	decodeDiffs := func(ti int) *tensor.Rank2[int16] {
		rows := tensor.NewRank2[int16](v, d)
		cur := NewTimestepCursor(reader, ti)
		for word := 0; word < v; word++ {
			cur.ReadSingleEmbeddingVector(rows.Row(word))
		}
		return rows
	}
	first, last := decodeDiffs(0), decodeDiffs(numT-1)

	for _, ti := range []int{0, 2, numT - 1} {
		want := decodeDiffs(ti)
		if ti == 2 {
			// t=2 is the midpoint of the two roots, so its decoded diff is
			// relative to the floor-average of their values.
			for i, x := range want.Slice() {
				mid := (int32(first.Slice()[i]) + int32(last.Slice()[i])) >> 1
				want.Slice()[i] = int16(int32(x) + mid)
			}
		}

		got := reconstructFullTimestep(reader, ti)
		if diff := cmp.Diff(want.Slice(), got.Slice()); diff != "" {
			t.Errorf("reconstructFullTimestep(t=%d) mismatch (-want +got):\n%s", ti, diff)
		}
	}
}

func TestLargestChangesWrtZeroK(t *testing.T) {
	r := require.New(t)
	in := buildTestTensor(4, 10, 4)
	data, err := Build(in, 1, 3)
	r.NoError(err)
	reader, err := Open(data)
	r.NoError(err)

	r.Nil(reader.LargestChangesWrt(0, 0, 0, 0))
}
