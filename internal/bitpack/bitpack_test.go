package bitpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnpackGolden(t *testing.T) {
	r := require.New(t)

	r.Equal([]uint16{0x0123, 0x0456, 0x0789, 0x0abc, 0x0def},
		Unpack([]uint16{0x0123, 0x4567, 0x89ab, 0xcdef}, 5))

	r.Equal([]uint16{0x0456, 0x0789, 0x0abc, 0x0def},
		Unpack([]uint16{0x4567, 0x89ab, 0xcdef}, 4))

	r.Equal([]uint16{0x0a12, 0x0345, 0x0678},
		Unpack([]uint16{0x000a, 0x1234, 0x5678}, 3))

	r.Equal([]uint16{0x0abc, 0x0def}, Unpack([]uint16{0x00ab, 0xcdef}, 2))
	r.Equal([]uint16{0x0bcd}, Unpack([]uint16{0x0bcd}, 1))
	r.Empty(Unpack(nil, 0))
}

func TestPackGolden(t *testing.T) {
	r := require.New(t)

	r.Equal([]uint16{0x0123, 0x4567, 0x89ab, 0xcdef},
		Pack([]uint16{0x0123, 0x0456, 0x0789, 0x0abc, 0x0def}))

	r.Equal([]uint16{0x4567, 0x89ab, 0xcdef},
		Pack([]uint16{0x0456, 0x0789, 0x0abc, 0x0def}))

	r.Equal([]uint16{0x000a, 0x1234, 0x5678},
		Pack([]uint16{0x0a12, 0x0345, 0x0678}))

	r.Equal([]uint16{0x00ab, 0xcdef}, Pack([]uint16{0x0abc, 0x0def}))
	r.Equal([]uint16{0x0bcd}, Pack([]uint16{0x0bcd}))
	r.Empty(Pack(nil))

	// file-format spec example
	r.Equal([]uint16{0x0167, 0x2893, 0xab0c, 0xd5ef},
		Pack([]uint16{0x167, 0x289, 0x3ab, 0x0cd, 0x5ef}))
}

func TestPackUnpackIdempotent(t *testing.T) {
	r := require.New(t)

	for n := 0; n < 40; n++ {
		values := make([]uint16, n)
		for i := range values {
			values[i] = uint16((i*977 + 13) & 0x0fff)
		}

		packed := Pack(values)
		r.Len(packed, PackedLen(n))
		r.Equal(values, Unpack(packed, n))
	}
}
