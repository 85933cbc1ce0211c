package embedding

import (
	"github.com/robamler/linguistic-flux-capacitor/internal/ans"
	"github.com/robamler/linguistic-flux-capacitor/internal/bitpack"
	"github.com/robamler/linguistic-flux-capacitor/internal/quantize"
)

// wordsForModel returns the number of 16-bit words a serialized model with
// numSymbols entries occupies: a length prefix, one word per symbol, and
// the packed frequencies for all but the last symbol (whose frequency is
// implied by the 4096 total).
func wordsForModel(numSymbols int) int {
	return 1 + numSymbols + bitpack.PackedLen(numSymbols-1)
}

// encodeModel serializes freqs (sorted, summing to 4096) into its on-disk
// word form: [num_symbols][symbol...][packed frequencies for all but the
// last symbol].
func encodeModel(freqs []quantize.SymbolFrequency) []uint16 {
	k := len(freqs)
	words := make([]uint16, 0, wordsForModel(k))
	words = append(words, uint16(k))
	for _, f := range freqs {
		words = append(words, uint16(f.Symbol))
	}

	explicit := make([]uint16, k-1)
	for i := 0; i < k-1; i++ {
		explicit[i] = freqs[i].Frequency
	}
	words = append(words, bitpack.Pack(explicit)...)

	return words
}

// decodeModel parses one serialized model starting at words[0] and returns
// the reconstructed entropy model plus the number of 16-bit words it
// consumed.
func decodeModel(words []uint16) (*ans.Model, int, error) {
	if len(words) < 1 {
		return nil, 0, ErrMalformed
	}
	k := int(words[0])
	if k < 2 {
		return nil, 0, ErrMalformed
	}

	total := wordsForModel(k)
	if total > len(words) {
		return nil, 0, ErrMalformed
	}

	symbolWords := words[1 : 1+k]
	symbols := make([]int16, k)
	for i, w := range symbolWords {
		symbols[i] = int16(w)
	}

	packedStart := 1 + k
	packed := words[packedStart:total]
	explicit := bitpack.Unpack(packed, k-1)

	var sum uint32
	freqs := make([]uint16, k)
	for i, f := range explicit {
		freqs[i] = f
		sum += uint32(f)
	}
	if sum >= ans.FreqSum {
		return nil, 0, ErrMalformed
	}
	freqs[k-1] = uint16(ans.FreqSum - sum)

	return ans.NewModel(symbols, freqs), total, nil
}
