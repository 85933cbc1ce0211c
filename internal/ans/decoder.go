package ans

import "errors"

// ErrCorruptedData is returned when a decode finishes with a state other
// than MinState, indicating the compressed stream doesn't match what an
// encoder would have produced.
var ErrCorruptedData = errors.New("ans: corrupted data")

// ErrDataLeft is returned when a decode consumes fewer words than the
// payload holds, indicating trailing garbage after the last symbol.
var ErrDataLeft = errors.New("ans: unconsumed data left in stream")

// ErrEndOfFile is returned when a decode's renormalization step needs a
// word past the end of the compressed stream, the signature of a truncated
// or corrupted payload.
var ErrEndOfFile = errors.New("ans: decode past end of stream")

// Decoder reads symbols off a compressed word stream produced by Encoder.
// A Decoder is positioned by (pos, state): pos indexes into words for the
// next renormalization read, advancing toward the tail as decoding
// proceeds. Once Decode hits ErrEndOfFile, err is sticky and every
// subsequent Decode call is a no-op returning 0.
type Decoder struct {
	model *Model
	words []uint16
	pos   int
	state uint32
	err   error
}

// NewDecoder constructs a decoder over words starting at pos with the
// given initial state. For a full stream, pos is 0 and state is the value
// recovered from the first two words (see Init).
func NewDecoder(model *Model, words []uint16, pos int, state uint32) *Decoder {
	return &Decoder{model: model, words: words, pos: pos, state: state}
}

// Init constructs a decoder for the start of a complete compressed stream.
// Encoder.Finish pushes the high half of its final state then the low
// half, then reverses the whole stream; so in read order the low half
// comes first.
func Init(model *Model, words []uint16) *Decoder {
	state := uint32(words[1])<<16 | uint32(words[0])
	return NewDecoder(model, words, 2, state)
}

// Seek repositions the decoder to an absolute word index.
func (d *Decoder) Seek(pos int, state uint32) {
	d.pos = pos
	d.state = state
}

// SeekOffset repositions the decoder using a jump pointer's
// offset-from-the-end convention: the next word read comes from
// words[len(words)-offsetFromEnd].
func (d *Decoder) SeekOffset(offsetFromEnd uint32, state uint32) {
	d.pos = len(d.words) - int(offsetFromEnd)
	d.state = state
}

// Pos returns the decoder's current (pos, state), mirroring Encoder.Pos.
func (d *Decoder) Pos() (pos int, state uint32) {
	return d.pos, d.state
}

// Decode reads and returns the next symbol, advancing the decoder's state.
// If renormalization would read past the end of the stream, Decode sets a
// sticky ErrEndOfFile (see Err) and leaves state unrenormalized instead of
// indexing out of bounds.
func (d *Decoder) Decode() int16 {
	if d.err != nil {
		return 0
	}

	q := d.state & (FreqSum - 1)
	i := d.model.Lookup(q)
	cs := d.model.SymbolAt(i)
	f := d.model.SymbolAt(i + 1).CDF - cs.CDF

	d.state = f*(d.state>>FreqBits) + q - cs.CDF

	if d.state < MinState {
		if d.pos >= len(d.words) {
			d.err = ErrEndOfFile
			return cs.Symbol
		}
		d.state = d.state<<16 | uint32(d.words[d.pos])
		d.pos++
	}

	return cs.Symbol
}

// Err returns the first error Decode encountered, or nil if decoding hasn't
// run past the end of the stream.
func (d *Decoder) Err() error {
	return d.err
}

// AtEnd reports whether the decoder has returned to its initial state with
// no words left unread, the condition a full round-trip decode must reach.
func (d *Decoder) AtEnd() bool {
	return d.state == MinState && d.pos == len(d.words)
}

// DecodeAll decodes exactly n symbols from a complete compressed stream and
// validates that doing so exactly exhausts it, returning ErrCorruptedData
// if the final state isn't MinState and ErrDataLeft if words remain
// unconsumed.
func DecodeAll(model *Model, words []uint16, n int) ([]int16, error) {
	d := Init(model, words)
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = d.Decode()
		if d.err != nil {
			return out, d.err
		}
	}
	if d.pos != len(d.words) {
		return out, ErrDataLeft
	}
	if d.state != MinState {
		return out, ErrCorruptedData
	}
	return out, nil
}
