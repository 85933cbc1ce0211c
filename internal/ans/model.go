// Package ans implements a 12-bit fixed-point categorical rANS (range
// Asymmetric Numeral Systems) entropy codec: a single uint32 state, 16-bit
// compressed words, and a per-symbol categorical model over signed 16-bit
// symbols with frequencies summing to exactly 4096.
package ans

import (
	"errors"
	"math"
)

const (
	// FreqBits is the number of bits of frequency precision.
	FreqBits = 12
	// FreqSum is 2^FreqBits, the fixed total all frequencies in a model
	// sum to.
	FreqSum = 1 << FreqBits
	// MinState is the renormalization floor for the rANS state.
	MinState = 1 << 16
)

// ErrUnknownSymbol is returned when encoding a symbol absent from the
// model's alphabet.
var ErrUnknownSymbol = errors.New("ans: unknown symbol")

// CDFSymbol pairs a cumulative frequency with the symbol whose interval it
// starts.
type CDFSymbol struct {
	CDF    uint32
	Symbol int16
}

// Model is a categorical entropy model: an ordered table of
// (cumulative-frequency, symbol) pairs plus its inverse lookup from
// quantile to table index.
type Model struct {
	// cdfAndSymbols holds len(symbols)+1 entries; the last is the
	// sentinel (FreqSum, 0).
	cdfAndSymbols []CDFSymbol
	// inverseCDF[q] is the index i into cdfAndSymbols such that
	// cdfAndSymbols[i].CDF <= q < cdfAndSymbols[i+1].CDF.
	inverseCDF []uint16
	// index maps symbol -> (cdf, freq) for encoding lookups.
	index map[int16]symFreq
}

type symFreq struct {
	cdf  uint32
	freq uint32
}

// NewModel builds a Model from parallel symbol/frequency slices. Frequencies
// must be positive 12-bit values summing to exactly FreqSum; symbols must be
// distinct. The caller (the frequency quantizer) is responsible for the
// single-symbol degenerate case rewrite described in the file format.
func NewModel(symbols []int16, frequencies []uint16) *Model {
	if len(symbols) != len(frequencies) {
		panic("ans: symbols/frequencies length mismatch")
	}

	m := &Model{
		cdfAndSymbols: make([]CDFSymbol, len(symbols)+1),
		inverseCDF:    make([]uint16, FreqSum),
		index:         make(map[int16]symFreq, len(symbols)),
	}

	var cdf uint32
	for i, s := range symbols {
		f := uint32(frequencies[i])
		m.cdfAndSymbols[i] = CDFSymbol{CDF: cdf, Symbol: s}
		m.index[s] = symFreq{cdf: cdf, freq: f}
		for q := cdf; q < cdf+f; q++ {
			m.inverseCDF[q] = uint16(i)
		}
		cdf += f
	}
	m.cdfAndSymbols[len(symbols)] = CDFSymbol{CDF: FreqSum, Symbol: 0}

	if cdf != FreqSum {
		panic("ans: frequencies do not sum to FreqSum")
	}

	return m
}

// NumSymbols returns the size of the model's alphabet.
func (m *Model) NumSymbols() int { return len(m.cdfAndSymbols) - 1 }

// SymbolAt returns the (cdf, symbol) pair stored at table index i,
// including the sentinel at i == NumSymbols().
func (m *Model) SymbolAt(i int) CDFSymbol { return m.cdfAndSymbols[i] }

// Lookup returns the table index for quantile q in [0, FreqSum).
func (m *Model) Lookup(q uint32) int { return int(m.inverseCDF[q]) }

// Frequency returns the (cdf, freq) pair for encoding symbol s. The second
// return value is false if s is not in the model's alphabet.
func (m *Model) Frequency(s int16) (cdf, freq uint32, ok bool) {
	sf, ok := m.index[s]
	return sf.cdf, sf.freq, ok
}

// Entropy returns 12 - (sum_i f_i * log2(f_i)) / 4096, the model's entropy
// in bits per symbol.
func (m *Model) Entropy() float64 {
	var acc float64
	for i := 0; i < m.NumSymbols(); i++ {
		f := float64(m.cdfAndSymbols[i+1].CDF - m.cdfAndSymbols[i].CDF)
		if f > 0 {
			acc += f * math.Log2(f)
		}
	}
	return float64(FreqBits) - acc/FreqSum
}
