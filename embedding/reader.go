package embedding

import (
	"github.com/robamler/linguistic-flux-capacitor/internal/ans"
	"github.com/robamler/linguistic-flux-capacitor/internal/hash"
	"github.com/robamler/linguistic-flux-capacitor/section"
)

// Reader owns a fully-parsed compressed embedding file: the header, one
// decoder model per time step, the jump table, and a view of the
// compressed payload. It never mutates after construction and is safe to
// share across any number of concurrently-used TimestepCursors.
type Reader struct {
	Header section.Header

	models       []*ans.Model
	jumpTable    *section.JumpTable
	payload      []uint16
	payloadBytes []byte
	pointsPerRow int
}

// Open validates and parses a complete file image, per the checklist in
// the file format: minimum length, magic, major version, consistent file
// size, a jump table address inside the file, and positive dimensions.
func Open(data []byte) (*Reader, error) {
	if len(data)%4 != 0 || len(data) < section.HeaderSize {
		return nil, ErrMalformed
	}

	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	wordCount := uint32(len(data) / 4)
	if header.MajorVersion != section.MajorVersion {
		return nil, ErrMalformed
	}
	if header.FileSize != wordCount {
		return nil, ErrMalformed
	}
	if header.JumpTableAddress <= section.HeaderSize/4 || header.JumpTableAddress > header.FileSize {
		return nil, ErrMalformed
	}
	if header.NumTimesteps < 2 || header.VocabSize < 1 || header.EmbeddingDim < 1 {
		return nil, ErrMalformed
	}
	if header.JumpInterval < 1 {
		return nil, ErrMalformed
	}

	modelsSection := data[section.HeaderSize : header.JumpTableAddress*4]
	modelWords := bytesToWords16(modelsSection)

	numT := int(header.NumTimesteps)
	models := make([]*ans.Model, numT)
	cursor := 0
	for t := 0; t < numT; t++ {
		m, consumed, err := decodeModel(modelWords[cursor:])
		if err != nil {
			return nil, err
		}
		models[t] = m
		cursor += consumed
	}
	if len(modelWords)-cursor > 1 {
		return nil, ErrMalformed
	}

	pointsPerRow := ceilDiv(int(header.VocabSize), int(header.JumpInterval))
	jumpTableBytes := numT * pointsPerRow * section.JumpPointerSize
	jumpTableStart := header.JumpTableAddress * 4
	jumpTableEnd := jumpTableStart + uint32(jumpTableBytes)
	if jumpTableEnd > uint32(len(data)) {
		return nil, ErrMalformed
	}
	jumpTable := section.ParseJumpTable(data[jumpTableStart:jumpTableEnd], numT, pointsPerRow)

	payloadBytes := data[jumpTableEnd:]
	payload := bytesToWords16(payloadBytes)

	return &Reader{
		Header:       header,
		models:       models,
		jumpTable:    jumpTable,
		payload:      payload,
		payloadBytes: payloadBytes,
		pointsPerRow: pointsPerRow,
	}, nil
}

// NumTimesteps, VocabSize and EmbeddingDim expose the tensor dimensions
// recorded in the header.
func (r *Reader) NumTimesteps() int { return int(r.Header.NumTimesteps) }
func (r *Reader) VocabSize() int    { return int(r.Header.VocabSize) }
func (r *Reader) EmbeddingDim() int { return int(r.Header.EmbeddingDim) }

// ScaleFactor returns the factor raw dot products must be multiplied by
// (squared) to approximate the original real-valued embeddings' dot
// product.
func (r *Reader) ScaleFactor() float32 { return r.Header.ScaleFactor }

// Fingerprint returns the xxHash64 fingerprint of the compressed payload
// section (everything after the jump table), a stable content identifier
// for the file's actual entropy-coded data independent of its header.
func (r *Reader) Fingerprint() uint64 { return hash.ID(r.payloadBytes) }
