package typeset

import (
	"bytes"
	"math"
	"sort"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// GoTextShaper provides HarfBuzz-level shaping using go-text/typesetting.
// It supports the OpenType machinery the builtin shaper skips:
//   - Ligature substitution (fi, fl, ffi, etc.)
//   - Kerning pairs (AV, To, etc.)
//   - Contextual alternates
//   - Right-to-left text (Arabic, Hebrew)
//   - Complex scripts (Devanagari, Thai, etc.)
//
// A GoTextShaper belongs to one Font. The font data is parsed once at
// construction; each ShapeWord call wraps the parsed font in a fresh
// font.Face, which is cheap and keeps the shaper usable after glyph cache
// resets.
type GoTextShaper struct {
	font   *Font
	otFont *font.Font
	shaper shaping.HarfbuzzShaper
}

// NewGoTextShaper creates a HarfBuzz shaper for the font. It fails if
// go-text/typesetting cannot parse the font data.
func NewGoTextShaper(f *Font) (*GoTextShaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(f.entry.Data()))
	if err != nil {
		return nil, &FontParseError{Backend: "gotext", Err: err}
	}
	return &GoTextShaper{font: f, otFont: face.Font}, nil
}

// ShapeWord implements Shaper.
func (s *GoTextShaper) ShapeWord(word *ShapedWord) bool {
	runes, unitOffsets := wordText(word)
	if len(runes) == 0 {
		return true
	}

	dir := di.DirectionLTR
	if word.Flags().IsRTL() {
		dir = di.DirectionRTL
	}
	lang := s.font.style.Language
	if lang == "" {
		lang = language.NewLanguage("en")
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(s.otFont),
		Size:      floatToFixed(s.font.AdjustedSize()),
		Script:    word.Script(),
		Language:  lang,
	}
	output := s.shaper.Shape(input)
	if len(output.Glyphs) == 0 {
		return false
	}
	s.setGlyphs(word, output.Glyphs, runes, unitOffsets)
	return true
}

// glyphCluster groups the output glyphs that map to one source cluster.
type glyphCluster struct {
	runeStart  int
	runeEnd    int
	glyphStart int
	glyphCount int
}

// clusterize groups shaped glyphs by their source cluster. HarfBuzz emits
// glyphs in visual order, so RTL output walks clusters backwards; the
// result here is sorted back into logical order.
func clusterize(glyphs []shaping.Glyph, runeCount int) []glyphCluster {
	var clusters []glyphCluster
	for i := 0; i < len(glyphs); {
		start := glyphs[i].TextIndex()
		j := i + 1
		for j < len(glyphs) && glyphs[j].TextIndex() == start {
			j++
		}
		clusters = append(clusters, glyphCluster{
			runeStart:  start,
			glyphStart: i,
			glyphCount: j - i,
		})
		i = j
	}
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].runeStart < clusters[b].runeStart
	})
	for i := range clusters {
		if i+1 < len(clusters) {
			clusters[i].runeEnd = clusters[i+1].runeStart
		} else {
			clusters[i].runeEnd = runeCount
		}
	}
	return clusters
}

// setGlyphs writes shaped output into the word's glyph records. Each
// cluster's glyphs land on its first code unit; the remaining units of the
// cluster become zero-glyph ligature continuations.
func (s *GoTextShaper) setGlyphs(word *ShapedWord, glyphs []shaping.Glyph, runes []rune, unitOffsets []int) {
	scale := float64(word.AppUnitsPerDevUnit())
	for _, c := range clusterize(glyphs, len(runes)) {
		unitStart := unitOffsets[c.runeStart]
		unitEnd := unitOffsets[c.runeEnd]

		g := glyphs[c.glyphStart]
		if c.glyphCount == 1 && c.runeEnd-c.runeStart == 1 {
			if g.GlyphID == 0 {
				word.SetMissingGlyph(unitStart, runes[c.runeStart], s.font)
				continue
			}
			advance := int32(math.Round(fixedToFloat(g.Advance) * scale))
			if unitEnd-unitStart == 1 &&
				g.XOffset == 0 && g.YOffset == 0 &&
				IsSimpleAdvance(advance) && IsSimpleGlyphID(GlyphID(g.GlyphID)) &&
				word.glyphs[unitStart].IsClusterStart() {
				word.SetSimpleGlyph(unitStart, advance, GlyphID(g.GlyphID))
				continue
			}
		}

		details := make([]DetailedGlyph, c.glyphCount)
		for k := 0; k < c.glyphCount; k++ {
			out := glyphs[c.glyphStart+k]
			details[k] = DetailedGlyph{
				GlyphID: GlyphID(out.GlyphID),
				Advance: int32(math.Round(fixedToFloat(out.Advance) * scale)),
				XOffset: float32(fixedToFloat(out.XOffset) * scale),
				YOffset: float32(-fixedToFloat(out.YOffset) * scale),
			}
		}
		var rec CompressedGlyph
		rec.SetComplex(word.glyphs[unitStart].IsClusterStart(), true, uint32(c.glyphCount))
		word.SetGlyphs(unitStart, rec, details)

		for unit := unitStart + 1; unit < unitEnd; unit++ {
			if word.glyphs[unit].CharIsLowSurrogate() {
				continue
			}
			var cont CompressedGlyph
			cont.SetComplex(false, false, 0)
			word.SetGlyphs(unit, cont, nil)
		}
	}
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
// The fixed-point representation uses 6 fractional bits, so we multiply by 64.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
