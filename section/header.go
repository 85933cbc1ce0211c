// Package section defines the fixed-layout pieces of the compressed
// embedding file: the header and the jump table entries. Everything here
// is little-endian and word-oriented (32-bit words), matching the file
// format's bit-exact layout.
package section

import (
	"errors"
	"math"

	"github.com/robamler/linguistic-flux-capacitor/endian"
)

// HeaderSize is the fixed size of the file header in bytes (10 32-bit
// words).
const HeaderSize = 40

// Magic is the 32-bit little-endian word whose bytes spell out the
// literal ASCII magic "\0dwe" at file offsets 0-3.
const Magic = 0x65776400

// MajorVersion is the only major version this package reads or writes.
const MajorVersion = 1

var (
	// ErrShortHeader is returned when fewer than HeaderSize bytes are
	// available to parse a header from.
	ErrShortHeader = errors.New("section: header shorter than 40 bytes")
)

// Header is the 10-word file header described in the file format: magic,
// version, total size, and the tensor dimensions needed to reconstruct
// everything that follows it.
type Header struct {
	MajorVersion uint32
	MinorVersion uint32

	// FileSize is the total file size in 32-bit words, including the
	// header itself.
	FileSize uint32
	// JumpTableAddress is the offset, in 32-bit words from the start of
	// the file, where the jump table section begins.
	JumpTableAddress uint32

	NumTimesteps uint32
	VocabSize    uint32
	EmbeddingDim uint32
	JumpInterval uint32

	ScaleFactor float32
}

// Bytes serializes h into a 40-byte little-endian buffer.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(b[0:4], Magic)
	engine.PutUint32(b[4:8], h.MajorVersion)
	engine.PutUint32(b[8:12], h.MinorVersion)
	engine.PutUint32(b[12:16], h.FileSize)
	engine.PutUint32(b[16:20], h.JumpTableAddress)
	engine.PutUint32(b[20:24], h.NumTimesteps)
	engine.PutUint32(b[24:28], h.VocabSize)
	engine.PutUint32(b[28:32], h.EmbeddingDim)
	engine.PutUint32(b[32:36], h.JumpInterval)
	engine.PutUint32(b[36:40], math.Float32bits(h.ScaleFactor))

	return b
}

// ParseHeader parses a Header from the first HeaderSize bytes of data. It
// does not validate field values beyond the magic number; the file reader
// is responsible for the rest of the checklist (major version, sizes,
// address ranges, dimension bounds).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrShortHeader
	}

	engine := endian.GetLittleEndianEngine()

	magic := engine.Uint32(data[0:4])
	if magic != Magic {
		return Header{}, ErrMalformed
	}

	h := Header{
		MajorVersion:     engine.Uint32(data[4:8]),
		MinorVersion:     engine.Uint32(data[8:12]),
		FileSize:         engine.Uint32(data[12:16]),
		JumpTableAddress: engine.Uint32(data[16:20]),
		NumTimesteps:     engine.Uint32(data[20:24]),
		VocabSize:        engine.Uint32(data[24:28]),
		EmbeddingDim:     engine.Uint32(data[28:32]),
		JumpInterval:     engine.Uint32(data[32:36]),
		ScaleFactor:      math.Float32frombits(engine.Uint32(data[36:40])),
	}

	return h, nil
}

// ErrMalformed is returned by ParseHeader when the magic number doesn't
// match; the reader package re-uses this sentinel for the rest of its
// validation checklist.
var ErrMalformed = errors.New("section: malformed file")
