package typeset

import (
	"bytes"

	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sfntBackend implements FontBackend using golang.org/x/image/font/opentype
// for glyph queries and a go-text/typesetting loader for raw table access.
type sfntBackend struct{}

// Parse implements FontBackend.Parse.
func (b *sfntBackend) Parse(data []byte) (ParsedFace, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &FontParseError{Backend: "sfnt", Err: err}
	}
	ld, err := ot.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, &FontParseError{Backend: "sfnt", Err: err}
	}
	return &sfntFace{font: f, loader: ld}, nil
}

// sfntFace implements ParsedFace using sfnt.Font.
type sfntFace struct {
	font   *opentype.Font
	loader *ot.Loader
}

// Name implements ParsedFace.Name.
func (f *sfntFace) Name() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	return ""
}

// FullName implements ParsedFace.FullName.
func (f *sfntFace) FullName() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return ""
}

// NumGlyphs implements ParsedFace.NumGlyphs.
func (f *sfntFace) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// UnitsPerEm implements ParsedFace.UnitsPerEm.
func (f *sfntFace) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

// GlyphIndex implements ParsedFace.GlyphIndex.
func (f *sfntFace) GlyphIndex(r rune) GlyphID {
	idx, err := f.font.GlyphIndex(nil, r)
	if err != nil {
		return 0
	}
	return GlyphID(idx)
}

// GlyphAdvance implements ParsedFace.GlyphAdvance.
func (f *sfntFace) GlyphAdvance(glyph GlyphID, ppem float64) float64 {
	var buf sfnt.Buffer
	advance, err := f.font.GlyphAdvance(&buf, sfnt.GlyphIndex(glyph), fixed.Int26_6(ppem*64), font.HintingFull)
	if err != nil {
		return 0
	}
	return fixedToFloat64(advance)
}

// GlyphBounds implements ParsedFace.GlyphBounds.
func (f *sfntFace) GlyphBounds(glyph GlyphID, ppem float64) Rect {
	var buf sfnt.Buffer
	bounds, _, err := f.font.GlyphBounds(&buf, sfnt.GlyphIndex(glyph), fixed.Int26_6(ppem*64), font.HintingFull)
	if err != nil {
		return Rect{}
	}
	return Rect{
		MinX: fixedToFloat64(bounds.Min.X),
		MinY: fixedToFloat64(bounds.Min.Y),
		MaxX: fixedToFloat64(bounds.Max.X),
		MaxY: fixedToFloat64(bounds.Max.Y),
	}
}

// Metrics implements ParsedFace.Metrics.
func (f *sfntFace) Metrics(ppem float64) FaceMetrics {
	var buf sfnt.Buffer
	metrics, err := f.font.Metrics(&buf, fixed.Int26_6(ppem*64), font.HintingFull)
	if err != nil {
		return FaceMetrics{}
	}
	ascent := fixedToFloat64(metrics.Ascent)
	descent := fixedToFloat64(metrics.Descent)
	return FaceMetrics{
		Ascent:    ascent,
		Descent:   descent,
		LineGap:   fixedToFloat64(metrics.Height) - ascent - descent,
		XHeight:   fixedToFloat64(metrics.XHeight),
		CapHeight: fixedToFloat64(metrics.CapHeight),
	}
}

// Table implements ParsedFace.Table.
func (f *sfntFace) Table(tag TableTag) ([]byte, error) {
	raw, err := f.loader.RawTable(ot.Tag(tag))
	if err != nil {
		return nil, ErrTableNotFound
	}
	return raw, nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
