package typeset

import "fmt"

// FontBackend is an interface for font parsing backends.
// This abstraction allows swapping the font parsing library
// (e.g., golang.org/x/image/font/opentype vs a pure Go implementation).
//
// The default implementation uses golang.org/x/image/font/opentype for
// glyph queries and go-text/typesetting for raw table access.
type FontBackend interface {
	// Parse parses font data (TTF or OTF) and returns a ParsedFace.
	Parse(data []byte) (ParsedFace, error)
}

// ParsedFace represents a parsed font file.
// This interface abstracts the underlying font representation.
type ParsedFace interface {
	// Name returns the font family name.
	// Returns empty string if not available.
	Name() string

	// FullName returns the full font name.
	// Returns empty string if not available.
	FullName() string

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int

	// UnitsPerEm returns the units per em for the font.
	UnitsPerEm() int

	// GlyphIndex returns the glyph index for a rune.
	// Returns 0 if the glyph is not found.
	GlyphIndex(r rune) GlyphID

	// GlyphAdvance returns the advance width for a glyph at the given
	// ppem (pixels per em), in device pixels.
	GlyphAdvance(glyph GlyphID, ppem float64) float64

	// GlyphBounds returns the bounding box for a glyph at the given ppem,
	// in device pixels with Y growing downward.
	GlyphBounds(glyph GlyphID, ppem float64) Rect

	// Metrics returns the face metrics at the given ppem.
	Metrics(ppem float64) FaceMetrics

	// Table returns the raw bytes of the named font table.
	// Returns ErrTableNotFound if the font has no such table.
	Table(tag TableTag) ([]byte, error)
}

// FaceMetrics holds face-level metrics at a specific size, as reported by
// the parsing backend. Font.Metrics derives the richer FontMetrics from
// these plus per-glyph measurements.
type FaceMetrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float64

	// LineGap is the recommended extra gap between lines.
	LineGap float64

	// XHeight is the height of lowercase letters (like 'x').
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64
}

// TableTag names an OpenType font table, four ASCII bytes packed into a
// uint32 ("cmap", "OS/2", ...).
type TableTag uint32

// MakeTableTag packs a four-character table name into a TableTag.
// It panics if the name is not exactly four bytes.
func MakeTableTag(name string) TableTag {
	if len(name) != 4 {
		panic("typeset: table tag must be four bytes")
	}
	return TableTag(uint32(name[0])<<24 | uint32(name[1])<<16 | uint32(name[2])<<8 | uint32(name[3]))
}

// String returns the tag as its four-character name.
func (t TableTag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// backendRegistry holds registered font backends.
// The default backend is "sfnt" (golang.org/x/image).
var backendRegistry = map[string]FontBackend{
	"sfnt": &sfntBackend{},
}

// defaultBackendName is the name of the default backend.
const defaultBackendName = "sfnt"

// RegisterBackend registers a custom font backend.
// This allows users to provide their own parsing implementation.
func RegisterBackend(name string, backend FontBackend) {
	backendRegistry[name] = backend
}

// getBackend returns the backend by name.
func getBackend(name string) (FontBackend, error) {
	if b, ok := backendRegistry[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
