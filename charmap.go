package typeset

import "math/bits"

// charMapBlock holds coverage bits for 256 consecutive code points.
type charMapBlock [32]byte

// CharacterMap is a sparse bit set over Unicode code points, used to track
// which characters a font covers. Blocks of 256 code points materialize on
// first use, so maps for typical fonts stay small.
type CharacterMap struct {
	blocks map[uint32]*charMapBlock
}

// NewCharacterMap returns an empty character map.
func NewCharacterMap() *CharacterMap {
	return &CharacterMap{blocks: make(map[uint32]*charMapBlock)}
}

// Test reports whether code point r is present.
func (m *CharacterMap) Test(r rune) bool {
	if r < 0 {
		return false
	}
	b, ok := m.blocks[uint32(r)>>8]
	if !ok {
		return false
	}
	return b[(r&0xFF)>>3]&(1<<(uint(r)&7)) != 0
}

// Set adds code point r.
func (m *CharacterMap) Set(r rune) {
	if r < 0 {
		return
	}
	blockIndex := uint32(r) >> 8
	b, ok := m.blocks[blockIndex]
	if !ok {
		b = &charMapBlock{}
		m.blocks[blockIndex] = b
	}
	b[(r&0xFF)>>3] |= 1 << (uint(r) & 7)
}

// SetRange adds every code point from start to end inclusive.
func (m *CharacterMap) SetRange(start, end rune) {
	for r := start; r <= end; r++ {
		m.Set(r)
	}
}

// Count returns the number of code points present.
func (m *CharacterMap) Count() int {
	n := 0
	for _, b := range m.blocks {
		for _, byteVal := range b {
			n += bits.OnesCount8(byteVal)
		}
	}
	return n
}
