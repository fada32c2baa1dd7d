package typeset

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// GlyphID identifies a glyph within a font. For missing glyphs the same
// width is used to carry the original Unicode code point, so it is wider
// than the 16-bit glyph indices most fonts use.
type GlyphID uint32

// Direction specifies text direction.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return unknownStr
	}
}

// Rect represents a rectangle for glyph bounds and text measurement.
// Y grows downward, so a glyph extending above the baseline has MinY < 0.
type Rect struct {
	// Min is the top-left corner
	MinX, MinY float64
	// Max is the bottom-right corner
	MaxX, MaxY float64
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Empty reports whether the rectangle is empty.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Union returns the smallest rectangle containing both r and s.
// An empty rectangle does not contribute to the result.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	u := r
	if s.MinX < u.MinX {
		u.MinX = s.MinX
	}
	if s.MinY < u.MinY {
		u.MinY = s.MinY
	}
	if s.MaxX > u.MaxX {
		u.MaxX = s.MaxX
	}
	if s.MaxY > u.MaxY {
		u.MaxY = s.MaxY
	}
	return u
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.MinX + dx, r.MinY + dy, r.MaxX + dx, r.MaxY + dy}
}

// Point is a 2D position in device pixels.
type Point struct {
	X, Y float64
}
