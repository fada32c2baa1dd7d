package typeset

import (
	"hash/fnv"
	"math"

	"github.com/go-text/typesetting/language"
)

// Font weight values. Any multiple of 100 from 100 to 900 is valid.
const (
	WeightNormal = 400
	WeightBold   = 700
)

// FontStyle describes the requested rendering of a font: size, weight and
// the other properties that select or synthesize a concrete Font from a
// FontEntry. Styles are value types and participate in FontCache keys.
type FontStyle struct {
	// Size is the font size in device pixels.
	Size float64

	// Weight is the requested weight, WeightNormal if zero.
	Weight int

	// Italic requests an italic or oblique rendering.
	Italic bool

	// Language is the content language, used to select language-specific
	// shaping behavior. Empty means unknown.
	Language language.Language

	// SizeAdjust scales the size so the adjusted font's x-height matches
	// SizeAdjust*Size. Zero means no adjustment.
	SizeAdjust float64
}

// normalized returns the style with defaults filled in.
func (s FontStyle) normalized() FontStyle {
	if s.Weight == 0 {
		s.Weight = WeightNormal
	}
	if s.Size < 0 {
		s.Size = 0
	}
	return s
}

// Equals reports whether two styles select the same font instance.
func (s *FontStyle) Equals(o *FontStyle) bool {
	a, b := s.normalized(), o.normalized()
	return a.Size == b.Size &&
		a.Weight == b.Weight &&
		a.Italic == b.Italic &&
		a.Language == b.Language &&
		a.SizeAdjust == b.SizeAdjust
}

// Hash returns a hash of the style for cache keying. Equal styles hash
// equally; the FontCache resolves collisions with Equals.
func (s *FontStyle) Hash() uint32 {
	n := s.normalized()
	h := fnv.New32a()
	var buf [8]byte
	putUint64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	putUint64(math.Float64bits(n.Size))
	putUint64(uint64(n.Weight))
	if n.Italic {
		putUint64(1)
	} else {
		putUint64(0)
	}
	putUint64(math.Float64bits(n.SizeAdjust))
	_, _ = h.Write([]byte(n.Language))
	return h.Sum32()
}
