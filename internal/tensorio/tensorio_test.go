package tensorio

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func rawInt16Dump(values []int16) []byte {
	b := make([]byte, len(values)*2)
	for i, v := range values {
		b[i*2] = byte(uint16(v))
		b[i*2+1] = byte(uint16(v) >> 8)
	}
	return b
}

func TestLoadRank3Int16RoundTrip(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{1, -2, 3, 4, -5, 6, 7, -8, 9, 10, 11, 12})

	ten, err := LoadRank3Int16(raw, 2, 2, 3)
	r.NoError(err)
	numT, v, d := ten.Shape()
	r.Equal(2, numT)
	r.Equal(2, v)
	r.Equal(3, d)
	r.Equal([]int16{1, -2, 3, 4, -5, 6, 7, -8, 9, 10, 11, 12}, ten.Slice())
}

func TestLoadRank3Int16WrongSize(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{1, 2, 3})
	_, err := LoadRank3Int16(raw, 2, 2, 3)
	r.Error(err)
}

func TestDecompressPassesThroughUncompressed(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{1, 2, 3, 4})
	out, err := Decompress(raw)
	r.NoError(err)
	r.Equal(raw, out)
}

func TestDecompressGzip(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{10, -20, 30, -40})

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(raw)
	r.NoError(err)
	r.NoError(gw.Close())

	out, err := Decompress(buf.Bytes())
	r.NoError(err)
	r.Equal(raw, out)
}

func TestDecompressS2(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{10, -20, 30, -40})

	var buf bytes.Buffer
	sw := s2.NewWriter(&buf)
	_, err := sw.Write(raw)
	r.NoError(err)
	r.NoError(sw.Close())

	out, err := Decompress(buf.Bytes())
	r.NoError(err)
	r.Equal(raw, out)
}

func TestDecompressLZ4(t *testing.T) {
	r := require.New(t)
	raw := rawInt16Dump([]int16{10, -20, 30, -40})

	var buf bytes.Buffer
	lw := lz4.NewWriter(&buf)
	_, err := lw.Write(raw)
	r.NoError(err)
	r.NoError(lw.Close())

	out, err := Decompress(buf.Bytes())
	r.NoError(err)
	r.Equal(raw, out)
}
