// Package embedding builds and reads the compressed dynamic word embedding
// file: diffing a quantized tensor against its temporal tree parents,
// entropy-coding each time step, and exposing a random-access reader and
// query engine over the result.
package embedding

import (
	"errors"

	"github.com/robamler/linguistic-flux-capacitor/internal/ans"
	"github.com/robamler/linguistic-flux-capacitor/internal/difftree"
	"github.com/robamler/linguistic-flux-capacitor/section"
)

// Malformed covers every structural validation failure on open: header
// checks, size mismatches, a model overrunning the models section, a
// jump-table address out of range, bad padding.
var ErrMalformed = section.ErrMalformed

// ErrOverflow is returned when diffing the input tensor produces a
// residual that doesn't fit in a signed 16-bit integer.
var ErrOverflow = difftree.ErrOverflow

// ErrUnknownSymbol surfaces only from lower-level direct-encode use; the
// build-from-tensor pipeline can't hit it because every model is built
// from the exact histogram of what it then encodes.
var ErrUnknownSymbol = ans.ErrUnknownSymbol

// ErrCorruptedData is returned when a decode reaches the expected
// end-of-stream position with a non-canonical state value.
var ErrCorruptedData = ans.ErrCorruptedData

// ErrDataLeft is returned when a decode finishes its expected number of
// symbols but compressed words remain.
var ErrDataLeft = ans.ErrDataLeft

// ErrEndOfFile is returned when a decode attempts to pull a word past the
// end of the compressed payload, the signature of a truncated file.
var ErrEndOfFile = ans.ErrEndOfFile

// ErrTooFewTimesteps is returned when building a file from a tensor with
// fewer than two time steps; the temporal tree requires at least a root
// pair.
var ErrTooFewTimesteps = errors.New("embedding: need at least 2 time steps")

// ErrInvalidJumpInterval is returned when building a file with a
// jump interval less than 1.
var ErrInvalidJumpInterval = errors.New("embedding: jump interval must be >= 1")
