package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJumpPointerRoundTrip(t *testing.T) {
	r := require.New(t)
	p := JumpPointer{Offset: 0xdeadbeef, State: 0x00010203}

	data := p.Bytes()
	r.Len(data, JumpPointerSize)
	r.Equal(p, ParseJumpPointer(data))
}

func TestJumpTableRoundTrip(t *testing.T) {
	r := require.New(t)
	jt := NewJumpTable(3, 5)

	for t0 := 0; t0 < 3; t0++ {
		for p := 0; p < 5; p++ {
			jt.Set(t0, p, JumpPointer{Offset: uint32(t0*100 + p), State: uint32(t0*1000 + p)})
		}
	}

	data := jt.Bytes()
	r.Len(data, 3*5*JumpPointerSize)

	parsed := ParseJumpTable(data, 3, 5)
	r.Equal(jt.Pointers, parsed.Pointers)

	r.Equal(JumpPointer{Offset: 203, State: 2003}, parsed.At(2, 3))
}
