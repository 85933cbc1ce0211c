// Package tensorio loads the CLI's raw quantized tensor input: a flat,
// little-endian int16 dump of a (T, V, D) tensor, optionally wrapped in
// gzip, S2 or LZ4 framing, auto-detected by magic bytes the way the
// teacher's compress package dispatches on a stored compression type.
package tensorio

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"

	"github.com/robamler/linguistic-flux-capacitor/endian"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	lz4Magic    = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic     = []byte{0xff, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	snappyMagic = []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// Decompress sniffs data's leading bytes for a gzip, S2 or LZ4 stream
// frame and returns the decompressed form; if none match it returns data
// unchanged, treating it as an already-uncompressed tensor dump.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("tensorio: gzip: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("tensorio: gzip: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, s2Magic) || bytes.HasPrefix(data, snappyMagic):
		out, err := io.ReadAll(s2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("tensorio: s2: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, lz4Magic):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("tensorio: lz4: %w", err)
		}
		return out, nil

	default:
		return data, nil
	}
}

// LoadRank3Int16 decodes a flat little-endian int16 dump (numT * v * d
// values, after any Decompress pass) into a (numT, v, d) tensor view. It
// returns an error if the byte count doesn't match the requested shape.
func LoadRank3Int16(data []byte, numT, v, d int) (*tensor.Rank3[int16], error) {
	want := numT * v * d * 2
	if len(data) != want {
		return nil, fmt.Errorf("tensorio: expected %d bytes for a %dx%dx%d int16 tensor, got %d", want, numT, v, d, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	flat := make([]int16, numT*v*d)
	for i := range flat {
		flat[i] = int16(engine.Uint16(data[i*2 : i*2+2]))
	}
	return tensor.FromFlattened(flat, numT, v, d), nil
}
