package typeset

import "math"

// BuiltinShaper maps each character to a single glyph through the font's
// parsing backend. It ignores kerning, ligatures and contextual forms, so
// it only suits simple scripts, but it needs nothing beyond the backend
// and never fails. It is the fallback when HarfBuzz shaping is
// unavailable, and the preferred path for words shaped with
// FlagOptimizeSpeed or FlagDisableOptionalLigatures.
type BuiltinShaper struct {
	font *Font
}

// NewBuiltinShaper creates a builtin shaper for the font.
func NewBuiltinShaper(f *Font) *BuiltinShaper {
	return &BuiltinShaper{font: f}
}

// ShapeWord implements Shaper.
func (s *BuiltinShaper) ShapeWord(word *ShapedWord) bool {
	size := s.font.AdjustedSize()
	scale := float64(word.AppUnitsPerDevUnit())
	runes, unitOffsets := wordText(word)

	for ri, r := range runes {
		unit := unitOffsets[ri]
		glyph := s.font.entry.MapCharToGlyph(r)
		if glyph == 0 {
			word.SetMissingGlyph(unit, r, s.font)
			continue
		}
		advance := int32(math.Round(s.font.entry.Face().GlyphAdvance(glyph, size) * scale))
		if IsSimpleAdvance(advance) && IsSimpleGlyphID(glyph) && word.glyphs[unit].IsClusterStart() {
			word.SetSimpleGlyph(unit, advance, glyph)
		} else {
			var g CompressedGlyph
			g.SetComplex(word.glyphs[unit].IsClusterStart(), true, 1)
			word.SetGlyphs(unit, g, []DetailedGlyph{{GlyphID: glyph, Advance: advance}})
		}
		// trailing surrogate units were already marked as continuations
	}
	return true
}
