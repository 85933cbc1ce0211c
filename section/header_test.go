package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	r := require.New(t)

	h := Header{
		MajorVersion:     1,
		MinorVersion:     0,
		FileSize:         1234,
		JumpTableAddress: 10,
		NumTimesteps:     6,
		VocabSize:        100,
		EmbeddingDim:     16,
		JumpInterval:     20,
		ScaleFactor:      0.125,
	}

	data := h.Bytes()
	r.Len(data, HeaderSize)
	r.Equal(byte(0x00), data[0])
	r.Equal(byte(0x64), data[1])
	r.Equal(byte(0x77), data[2])
	r.Equal(byte(0x65), data[3])

	parsed, err := ParseHeader(data)
	r.NoError(err)
	r.Equal(h, parsed)
}

func TestParseHeaderTooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrShortHeader)
}

func TestParseHeaderBadMagic(t *testing.T) {
	h := Header{MajorVersion: 1, NumTimesteps: 2, VocabSize: 1, EmbeddingDim: 1, JumpInterval: 1}
	data := h.Bytes()
	data[0] = 0xff

	_, err := ParseHeader(data)
	require.ErrorIs(t, err, ErrMalformed)
}
