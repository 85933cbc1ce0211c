package embedding

import (
	"github.com/robamler/linguistic-flux-capacitor/endian"
	"github.com/robamler/linguistic-flux-capacitor/internal/ans"
	"github.com/robamler/linguistic-flux-capacitor/internal/difftree"
	"github.com/robamler/linguistic-flux-capacitor/internal/pool"
	"github.com/robamler/linguistic-flux-capacitor/internal/quantize"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
	"github.com/robamler/linguistic-flux-capacitor/section"
)

type chunkTask struct {
	t, chunk int
	lo, hi   int // vocab row range [lo, hi) covered by this chunk
}

// Build serializes a quantized (T, V, D) embedding tensor into the
// compressed file format: it diffs the tensor along the time-step tree and
// writes the header, the per-time-step entropy models, the jump table and
// the rANS payload, in that section order.
func Build(input *tensor.Rank3[int16], scaleFactor float32, jumpInterval uint32) ([]byte, error) {
	numT, v, d := input.Shape()
	if numT < 2 {
		return nil, ErrTooFewTimesteps
	}
	if jumpInterval < 1 {
		return nil, ErrInvalidJumpInterval
	}

	diffs, histograms, err := difftree.Build(input)
	if err != nil {
		return nil, err
	}

	models := make([]*ans.Model, numT)
	modelWords := make([][]uint16, numT)
	for t := 0; t < numT; t++ {
		freqs := quantize.Frequencies(histograms[t])
		symbols := make([]int16, len(freqs))
		frequencies := make([]uint16, len(freqs))
		for i, f := range freqs {
			symbols[i] = f.Symbol
			frequencies[i] = f.Frequency
		}
		models[t] = ans.NewModel(symbols, frequencies)
		modelWords[t] = encodeModel(freqs)
	}

	pointsPerRow := ceilDiv(v, int(jumpInterval))
	jt := section.NewJumpTable(numT, pointsPerRow)

	var tasks []chunkTask
	for t := 0; t < numT; t++ {
		for lo := 0; lo < v; lo += int(jumpInterval) {
			hi := lo + int(jumpInterval)
			if hi > v {
				hi = v
			}
			tasks = append(tasks, chunkTask{t: t, chunk: lo / int(jumpInterval), lo: lo, hi: hi})
		}
	}

	enc := ans.NewEncoder()
	for i := len(tasks) - 1; i >= 0; i-- {
		tk := tasks[i]
		row := diffs.Subview(tk.t)
		symbols := row[tk.lo*d : tk.hi*d]
		for k := len(symbols) - 1; k >= 0; k-- {
			if err := enc.Encode(models[tk.t], symbols[k]); err != nil {
				return nil, err
			}
		}

		// The chunk's first symbol was pushed last, so the state right after
		// encoding it is where a decoder must start to read the chunk.
		wordsEmitted, state := enc.Pos()
		jt.Set(tk.t, tk.chunk, section.JumpPointer{Offset: uint32(wordsEmitted), State: state})
	}
	payload := enc.Finish()

	var modelsSectionWords []uint16
	for _, mw := range modelWords {
		modelsSectionWords = append(modelsSectionWords, mw...)
	}
	if len(modelsSectionWords)%2 != 0 {
		modelsSectionWords = append(modelsSectionWords, 0)
	}

	// The payload is read tail-to-head and every jump pointer's offset is
	// counted from its end, so any padding needed to reach an even word
	// count must be a leading word: that preserves every real word's
	// distance from the end.
	payloadWords := payload
	if len(payloadWords)%2 != 0 {
		payloadWords = append([]uint16{0}, payloadWords...)
	}

	modelsBytes := len(modelsSectionWords) * 2
	jumpTableBytes := len(jt.Pointers) * section.JumpPointerSize
	payloadBytes := len(payloadWords) * 2

	jumpTableAddress := uint32((section.HeaderSize + modelsBytes) / 4)
	fileSizeWords := uint32((section.HeaderSize + modelsBytes + jumpTableBytes + payloadBytes) / 4)

	header := section.Header{
		MajorVersion:     section.MajorVersion,
		MinorVersion:     0,
		FileSize:         fileSizeWords,
		JumpTableAddress: jumpTableAddress,
		NumTimesteps:     uint32(numT),
		VocabSize:        uint32(v),
		EmbeddingDim:     uint32(d),
		JumpInterval:     jumpInterval,
		ScaleFactor:      scaleFactor,
	}

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)

	buf.MustWrite(header.Bytes())
	buf.MustWrite(words16ToBytes(modelsSectionWords))
	buf.MustWrite(jt.Bytes())
	buf.MustWrite(words16ToBytes(payloadWords))

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func words16ToBytes(words []uint16) []byte {
	b := make([]byte, len(words)*2)
	engine := endian.GetLittleEndianEngine()
	for i, w := range words {
		engine.PutUint16(b[i*2:i*2+2], w)
	}
	return b
}

func bytesToWords16(b []byte) []uint16 {
	engine := endian.GetLittleEndianEngine()
	words := make([]uint16, len(b)/2)
	for i := range words {
		words[i] = engine.Uint16(b[i*2 : i*2+2])
	}
	return words
}
