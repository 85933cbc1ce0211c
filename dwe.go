// Package dwe provides a compressed, random-access binary store for
// quantized dynamic word embeddings: embeddings that evolve over a
// sequence of discrete time steps (e.g. one per training epoch or corpus
// snapshot), as produced by dynamic word-embedding models.
//
// # Core design
//
// Rather than storing every time step's full (vocab x dim) embedding
// matrix, dwe exploits that embeddings drift slowly between adjacent time
// steps: it arranges time steps into a binary tree by midpoint and stores,
// for every non-root time step, only the residual against the average of
// its two tree parents. Residuals cluster tightly around zero and are
// entropy-coded with a 12-bit rANS codec, giving compression far below a
// dense per-time-step encoding while still supporting O(1)-ish random
// access to any (time step, word) vector via a jump table.
//
// # Basic usage
//
// Building a file from a quantized (T, V, D) int16 tensor:
//
//	data, err := dwe.Build(tensor, scaleFactor, jumpInterval)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("embeddings.dwe", data, 0o644)
//
// Opening and querying one:
//
//	reader, err := dwe.Open(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trajectories := reader.PairwiseTrajectories([]int{12}, []int{47})
//	related := reader.MostRelatedToAtT([]int{12}, reader.NumTimesteps()-1, 10)
//
// # Package structure
//
// This package re-exports the small surface most callers need from the
// embedding package, which does the actual file-format and query-engine
// work. For direct access to the entropy codec, the diff-tree builder or
// the tensor views, use the internal packages; for everything else, the
// embedding package itself is equally usable (dwe.Build is literally
// embedding.Build).
package dwe

import (
	"github.com/robamler/linguistic-flux-capacitor/embedding"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

// Reader is a random-access handle onto an opened compressed embedding
// file: header fields, per-time-step entropy models, the jump table and
// the query engine methods (PairwiseTrajectories, MostRelatedToAtT,
// LargestChangesWrt).
type Reader = embedding.Reader

// TimestepCursor decodes one time step's diff vectors word by word, in
// either sequential or jump-accelerated random-access order.
type TimestepCursor = embedding.TimestepCursor

// ScoredWord pairs a vocabulary word index with a query score.
type ScoredWord = embedding.ScoredWord

// Option configures BuildWithOptions's scale factor and jump interval.
type Option = embedding.Option

// WithScaleFactor overrides BuildWithOptions' default scale factor of 1.
func WithScaleFactor(s float32) Option { return embedding.WithScaleFactor(s) }

// WithJumpInterval overrides BuildWithOptions' default jump interval of
// 100 words.
func WithJumpInterval(interval uint32) Option { return embedding.WithJumpInterval(interval) }

// BuildWithOptions is Build with its scale factor and jump interval given
// as functional options instead of positional parameters.
func BuildWithOptions(input *tensor.Rank3[int16], opts ...Option) ([]byte, error) {
	return embedding.BuildWithOptions(input, opts...)
}

// Build serializes a quantized (T, V, D) embedding tensor into the
// compressed file format described in the package doc: diff tree, entropy
// models, rANS payload and jump table, wrapped in a fixed header.
//
// scaleFactor is the per-file quantization scale; callers multiply it by
// itself to turn integer dot products computed over the quantized tensor
// back into the original embeddings' approximate dot product. jumpInterval
// controls the random-access/size trade-off: a jump point is stored every
// jumpInterval words of each time step, so smaller intervals mean faster
// jump_to calls and a larger jump table.
func Build(input *tensor.Rank3[int16], scaleFactor float32, jumpInterval uint32) ([]byte, error) {
	return embedding.Build(input, scaleFactor, jumpInterval)
}

// Open validates and parses a complete file image into a Reader, ready for
// time-step cursors and query-engine calls.
func Open(data []byte) (*Reader, error) {
	return embedding.Open(data)
}

// NewTimestepCursor opens a cursor onto time step t of reader, positioned
// at word 0.
func NewTimestepCursor(reader *Reader, t int) *TimestepCursor {
	return embedding.NewTimestepCursor(reader, t)
}
