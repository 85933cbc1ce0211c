package section

import "github.com/robamler/linguistic-flux-capacitor/endian"

// JumpPointerSize is the on-disk size of a single jump pointer (two 32-bit
// words).
const JumpPointerSize = 8

// JumpPointer lets a decoder resume mid-stream without replaying earlier
// time steps: Offset counts 16-bit words from the end of the compressed
// payload (rANS decodes tail toward head), and State is the rANS state to
// seed the decoder with at that point.
type JumpPointer struct {
	Offset uint32
	State  uint32
}

// Bytes serializes p as an 8-byte little-endian pair.
func (p JumpPointer) Bytes() []byte {
	var b [JumpPointerSize]byte
	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(b[0:4], p.Offset)
	engine.PutUint32(b[4:8], p.State)
	return b[:]
}

// ParseJumpPointer reads a single JumpPointer from the first 8 bytes of
// data.
func ParseJumpPointer(data []byte) JumpPointer {
	engine := endian.GetLittleEndianEngine()
	return JumpPointer{
		Offset: engine.Uint32(data[0:4]),
		State:  engine.Uint32(data[4:8]),
	}
}

// JumpTable is the full T x ceil(V/J) grid of jump pointers, row-major by
// time step then by jump-point index within that time step.
type JumpTable struct {
	Pointers     []JumpPointer
	PointsPerRow int
}

// NewJumpTable allocates a zeroed jump table for numTimesteps rows of
// pointsPerRow pointers each.
func NewJumpTable(numTimesteps, pointsPerRow int) *JumpTable {
	return &JumpTable{
		Pointers:     make([]JumpPointer, numTimesteps*pointsPerRow),
		PointsPerRow: pointsPerRow,
	}
}

// At returns the jump pointer for time step t, jump point p.
func (jt *JumpTable) At(t, p int) JumpPointer {
	return jt.Pointers[t*jt.PointsPerRow+p]
}

// Set stores the jump pointer for time step t, jump point p.
func (jt *JumpTable) Set(t, p int, ptr JumpPointer) {
	jt.Pointers[t*jt.PointsPerRow+p] = ptr
}

// Bytes serializes the whole table in row-major order.
func (jt *JumpTable) Bytes() []byte {
	out := make([]byte, 0, len(jt.Pointers)*JumpPointerSize)
	for _, p := range jt.Pointers {
		out = append(out, p.Bytes()...)
	}
	return out
}

// ParseJumpTable reads a jump table of numTimesteps x pointsPerRow
// pointers from data.
func ParseJumpTable(data []byte, numTimesteps, pointsPerRow int) *JumpTable {
	jt := NewJumpTable(numTimesteps, pointsPerRow)
	for i := range jt.Pointers {
		jt.Pointers[i] = ParseJumpPointer(data[i*JumpPointerSize : (i+1)*JumpPointerSize])
	}
	return jt
}
