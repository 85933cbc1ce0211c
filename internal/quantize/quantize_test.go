package quantize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sumFreq(fs []SymbolFrequency) uint32 {
	var sum uint32
	for _, f := range fs {
		sum += uint32(f.Frequency)
	}
	return sum
}

func toMap(fs []SymbolFrequency) map[int16]uint16 {
	m := make(map[int16]uint16, len(fs))
	for _, f := range fs {
		m[f.Symbol] = f.Frequency
	}
	return m
}

func TestFrequenciesGolden(t *testing.T) {
	r := require.New(t)

	cases := []struct {
		counts   []uint32
		expected []uint16
	}{
		{[]uint32{2, 5, 9}, []uint16{0x0200, 0x0500, 0x0900}},
		{[]uint32{723, 1205, 2168}, nil},
		{[]uint32{3000, 5000, 9008}, nil},
		{[]uint32{3000, 5000, 9009}, nil},
	}

	for _, c := range cases {
		counts := make(map[int16]uint32, len(c.counts))
		for i, cnt := range c.counts {
			counts[int16(i)] = cnt
		}

		got := Frequencies(counts)
		r.EqualValues(freqSum, sumFreq(got))
		r.Len(got, len(c.counts))

		if c.expected != nil {
			gotMap := toMap(got)
			for i, f := range c.expected {
				r.EqualValues(f, gotMap[int16(i)], "symbol %d", i)
			}
		}
	}
}

func TestFrequenciesSingleSymbol(t *testing.T) {
	r := require.New(t)
	got := Frequencies(map[int16]uint32{42: 1000})
	r.Equal([]SymbolFrequency{{Symbol: 42, Frequency: 4095}, {Symbol: 43, Frequency: 1}}, got)
}

func TestFrequenciesSingleSymbolWrapsAtMaxInt16(t *testing.T) {
	r := require.New(t)
	got := Frequencies(map[int16]uint32{32767: 5})
	r.Equal([]SymbolFrequency{{Symbol: 32767, Frequency: 4095}, {Symbol: -32768, Frequency: 1}}, got)
}

func TestFrequenciesPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() { Frequencies(map[int16]uint32{}) })
}

func TestFrequenciesEveryWeightPositive(t *testing.T) {
	r := require.New(t)
	counts := map[int16]uint32{1: 1, 2: 1, 3: 1, 4: 100000, 5: 2}
	got := Frequencies(counts)
	for _, f := range got {
		r.Greater(f.Frequency, uint16(0))
	}
	r.EqualValues(freqSum, sumFreq(got))
}

func TestFrequenciesOutputSortedDeterministically(t *testing.T) {
	r := require.New(t)
	counts := map[int16]uint32{10: 50, 3: 50, 7: 200, 1: 1}

	got1 := Frequencies(counts)
	got2 := Frequencies(counts)
	r.Equal(got1, got2)

	for i := 1; i < len(got1); i++ {
		prevKey := freqSum - got1[i-1].Frequency
		curKey := freqSum - got1[i].Frequency
		r.True(prevKey < curKey || (prevKey == curKey && got1[i-1].Symbol < got1[i].Symbol))
	}
}
