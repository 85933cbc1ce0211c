package embedding

import "github.com/robamler/linguistic-flux-capacitor/internal/ans"

// TimestepCursor decodes one time step's diff vectors word by word,
// supporting O(jump_interval * D) random access via jump_to and O(D)
// sequential reads. Cheap and short-lived: callers create one per query
// need and let it go out of scope when done.
type TimestepCursor struct {
	reader *Reader
	t      int

	model       *ans.Model
	dec         *ans.Decoder
	currentWord int

	discardBuf []int16
}

// NewTimestepCursor opens a cursor onto time step t of reader, positioned
// at word 0 via jump point 0.
func NewTimestepCursor(reader *Reader, t int) *TimestepCursor {
	model := reader.models[t]
	dec := ans.NewDecoder(model, reader.payload, 0, 0)

	c := &TimestepCursor{reader: reader, t: t, model: model, dec: dec}
	c.seekToJumpPoint(0)
	return c
}

func (c *TimestepCursor) seekToJumpPoint(p int) {
	jp := c.reader.jumpTable.At(c.t, p)
	c.dec.SeekOffset(jp.Offset, jp.State)
	c.currentWord = p * int(c.reader.Header.JumpInterval)
}

// ReadSingleEmbeddingVector decodes the D symbols of the current word into
// sink, then advances the cursor to the next word.
func (c *TimestepCursor) ReadSingleEmbeddingVector(sink []int16) {
	for i := range sink {
		sink[i] = c.dec.Decode()
	}
	c.currentWord++
}

// JumpTo repositions the cursor to word index w. If w lies before the
// cursor's current position, or in a different jump-interval region, the
// decoder reseeds from the nearest preceding jump point; it then decodes
// and discards whatever vectors remain between that jump point and w.
func (c *TimestepCursor) JumpTo(w int) {
	j := int(c.reader.Header.JumpInterval)
	p := w / j

	if w < c.currentWord || p != c.currentWord/j {
		c.seekToJumpPoint(p)
	}

	if c.discardBuf == nil {
		c.discardBuf = make([]int16, c.reader.EmbeddingDim())
	}
	for c.currentWord < w {
		c.ReadSingleEmbeddingVector(c.discardBuf)
	}
}
