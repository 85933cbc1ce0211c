package ans

// Encoder is a stack-based rANS encoder: symbols must be pushed in reverse
// of the order they should be read back in (callers typically drive this
// by iterating their symbol sequence back-to-front).
type Encoder struct {
	state uint32
	words []uint16
}

// NewEncoder returns an encoder with state initialized to MinState.
func NewEncoder() *Encoder {
	return &Encoder{state: MinState}
}

// Reset reinitializes the encoder for reuse, discarding any emitted words.
func (e *Encoder) Reset() {
	e.state = MinState
	e.words = e.words[:0]
}

// Encode pushes one symbol from model's alphabet onto the encoder's stack.
// Returns ErrUnknownSymbol if symbol is not in model's alphabet.
func (e *Encoder) Encode(model *Model, symbol int16) error {
	cdf, freq, ok := model.Frequency(symbol)
	if !ok {
		return ErrUnknownSymbol
	}

	threshold := uint64(freq) << 20
	for uint64(e.state) >= threshold {
		e.words = append(e.words, uint16(e.state))
		e.state >>= 16
	}

	e.state = (e.state/freq)*FreqSum + (e.state % freq) + cdf
	return nil
}

// Pos returns the number of renormalization words emitted so far together
// with the current state. Recorded at jump-table construction time, this
// pair lets a decoder resume exactly at this point once the stream is
// finalized and reversed (after that reversal, the number of words emitted
// so far is exactly this point's distance from the end of the stream, so the
// file writer stores it unchanged as the jump pointer's offset).
func (e *Encoder) Pos() (wordsEmitted int, state uint32) {
	return len(e.words), e.state
}

// Finish flushes the final state (high word then low word) and returns the
// compressed stream in forward-decodable order: the whole stack is reversed,
// so the oldest-emitted word comes last and a decoder consuming head-to-tail
// sees the symbols in the reverse of the order they were pushed.
func (e *Encoder) Finish() []uint16 {
	out := make([]uint16, 0, len(e.words)+2)
	out = append(out, e.words...)
	out = append(out, uint16(e.state>>16), uint16(e.state))

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
