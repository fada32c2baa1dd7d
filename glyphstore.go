package typeset

import "sort"

// dgRec associates a source character offset with the index where that
// character's detailed glyphs begin in the details slice.
type dgRec struct {
	offset uint32
	index  uint32
}

// DetailedGlyphStore holds the DetailedGlyph records of the characters
// whose glyph data does not fit a simple CompressedGlyph. The association
// from character offset to detail index lives in a sorted side array; the
// glyph count itself stays in the CompressedGlyph record.
type DetailedGlyphStore struct {
	details       []DetailedGlyph
	offsetToIndex []dgRec
	lastUsed      int
}

// Allocate reserves count DetailedGlyphs for the character at offset and
// returns the slice to fill in. Offsets are normally allocated in
// increasing order, so appending is the common case; allocating again for
// an existing offset repoints that offset at the fresh records.
func (s *DetailedGlyphStore) Allocate(offset, count uint32) []DetailedGlyph {
	detailIndex := uint32(len(s.details))
	s.details = append(s.details, make([]DetailedGlyph, count)...)
	n := len(s.offsetToIndex)
	switch {
	case n == 0 || offset > s.offsetToIndex[n-1].offset:
		s.offsetToIndex = append(s.offsetToIndex, dgRec{offset, detailIndex})
	default:
		i := sort.Search(n, func(i int) bool {
			return s.offsetToIndex[i].offset >= offset
		})
		if i < n && s.offsetToIndex[i].offset == offset {
			s.offsetToIndex[i].index = detailIndex
		} else {
			s.offsetToIndex = append(s.offsetToIndex, dgRec{})
			copy(s.offsetToIndex[i+1:], s.offsetToIndex[i:])
			s.offsetToIndex[i] = dgRec{offset, detailIndex}
		}
	}
	return s.details[detailIndex : detailIndex+count]
}

// Get returns the count DetailedGlyphs of the character at offset.
// The count comes from the caller's CompressedGlyph record, which must be
// complex with a glyph count greater than zero; calling Get for an offset
// that was never allocated panics.
//
// Access is most commonly sequential through a run, so the last-used index
// is checked first, then the neighbouring entries, before falling back to
// binary search.
func (s *DetailedGlyphStore) Get(offset, count uint32) []DetailedGlyph {
	if len(s.offsetToIndex) == 0 {
		panic("typeset: no detailed glyph records")
	}
	n := len(s.offsetToIndex)
	switch {
	case s.lastUsed < n-1 && offset == s.offsetToIndex[s.lastUsed+1].offset:
		s.lastUsed++
	case offset == s.offsetToIndex[0].offset:
		s.lastUsed = 0
	case offset == s.offsetToIndex[s.lastUsed].offset:
		// keep
	case s.lastUsed > 0 && offset == s.offsetToIndex[s.lastUsed-1].offset:
		s.lastUsed--
	default:
		i := sort.Search(n, func(i int) bool {
			return s.offsetToIndex[i].offset >= offset
		})
		if i == n || s.offsetToIndex[i].offset != offset {
			panic("typeset: detailed glyph record missing")
		}
		s.lastUsed = i
	}
	start := s.offsetToIndex[s.lastUsed].index
	return s.details[start : start+count]
}
