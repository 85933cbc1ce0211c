// Package quantize turns symbol occurrence counts into a 12-bit fixed-point
// categorical frequency table whose entries sum to exactly 4096, chosen to
// minimize cross-entropy relative to the true empirical distribution.
package quantize

import (
	"math"
	"sort"
)

const (
	maxWeight = (1 << 12) - 1
	freqSum   = 1 << 12
)

// SymbolFrequency pairs a symbol with its assigned 12-bit frequency.
type SymbolFrequency struct {
	Symbol    int16
	Frequency uint16
}

type candidate struct {
	symbol int16
	count  uint32
	weight uint16
	win    float64
	loss   float64
}

func win(count uint32, weight uint16) float64 {
	if weight == maxWeight {
		return math.Inf(-1)
	}
	return float64(count) * math.Log2(float64(weight+1)/float64(weight))
}

func loss(count uint32, weight uint16) float64 {
	if weight == 1 {
		return math.Inf(1)
	}
	return float64(count) * math.Log2(float64(weight)/float64(weight-1))
}

// Frequencies computes the optimal 12-bit frequency table for a multiset of
// symbol counts, per the greedy-exchange algorithm: start from a
// proportional allocation, then repeatedly move a unit of weight from the
// symbol with the smallest loss to the symbol with the largest win until
// neither improves the cross-entropy further.
//
// A single-symbol input is degenerate (a categorical model needs at least
// two symbols to have a meaningful CDF): it returns the input symbol at
// weight 4095 plus a synthetic symbol+1 at weight 1. Frequencies panics on
// empty input.
func Frequencies(counts map[int16]uint32) []SymbolFrequency {
	if len(counts) == 0 {
		panic("quantize: empty input")
	}

	if len(counts) == 1 {
		var only int16
		for s := range counts {
			only = s
		}
		return []SymbolFrequency{
			{Symbol: only, Frequency: maxWeight},
			{Symbol: only + 1, Frequency: 1},
		}
	}

	freeWeight := uint64(freqSum - len(counts))
	var totalCount uint64
	for _, c := range counts {
		totalCount += uint64(c)
	}

	cands := make([]candidate, 0, len(counts))
	var remainingWeight uint32 = freqSum
	for s, c := range counts {
		weight := uint16(1 + uint64(c)*freeWeight/totalCount)
		remainingWeight -= uint32(weight)
		cands = append(cands, candidate{
			symbol: s,
			count:  c,
			weight: weight,
			win:    win(c, weight),
			loss:   loss(c, weight),
		})
	}

	// Deterministic base order: ascending by symbol. Needed so later sorts
	// with tied keys are reproducible regardless of map iteration order.
	sort.Slice(cands, func(i, j int) bool { return cands[i].symbol < cands[j].symbol })

	// Distribute the remaining weight to the symbols with the greatest
	// marginal win, ties broken by symbol value.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].win != cands[j].win {
			return cands[i].win > cands[j].win
		}
		return cands[i].symbol < cands[j].symbol
	})
	for i := 0; i < int(remainingWeight); i++ {
		c := &cands[i]
		c.weight++
		c.win = win(c.count, c.weight)
		c.loss = loss(c.count, c.weight)
	}

	for {
		buyer := 0
		for i := 1; i < len(cands); i++ {
			if cands[i].win > cands[buyer].win {
				buyer = i
			}
		}
		seller := 0
		for i := 1; i < len(cands); i++ {
			if cands[i].loss < cands[seller].loss {
				seller = i
			}
		}

		if buyer == seller {
			break
		}
		if cands[buyer].win <= cands[seller].loss {
			break
		}

		s := &cands[seller]
		s.weight--
		s.win = win(s.count, s.weight)
		s.loss = loss(s.count, s.weight)

		b := &cands[buyer]
		b.weight++
		b.win = win(b.count, b.weight)
		b.loss = loss(b.count, b.weight)
	}

	out := make([]SymbolFrequency, len(cands))
	for i, c := range cands {
		out[i] = SymbolFrequency{Symbol: c.symbol, Frequency: c.weight}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := freqSum-out[i].Frequency, freqSum-out[j].Frequency
		if ki != kj {
			return ki < kj
		}
		return out[i].Symbol < out[j].Symbol
	})

	return out
}
