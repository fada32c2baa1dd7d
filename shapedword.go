package typeset

import (
	"unicode"

	"github.com/go-text/typesetting/language"
)

// ShapedWord is the cached result of shaping one word: per-character glyph
// records plus a copy of the source text. Words are immutable once shaped
// and are shared by every text run that contains the same word in the same
// font, so consumers must never mutate the records they read.
//
// The text is kept in the narrowest representation that holds it: Latin-1
// text stays in bytes, anything else is stored as UTF-16 code units. Glyph
// records are indexed by code unit either way.
type ShapedWord struct {
	text8  []byte
	text16 []uint16

	glyphs  []CompressedGlyph
	details *DetailedGlyphStore

	script             language.Script
	appUnitsPerDevUnit int32
	flags              ShapeFlags

	ageCounter uint32
}

// newShapedWord8 creates an unshaped word over 8-bit text. The glyph
// records start zeroed, which marks every character missing until a shaper
// fills them in.
func newShapedWord8(text []byte, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) *ShapedWord {
	w := &ShapedWord{
		text8:              append([]byte(nil), text...),
		glyphs:             make([]CompressedGlyph, len(text)),
		script:             script,
		appUnitsPerDevUnit: appUnitsPerDevUnit,
		flags:              flags | FlagTextIs8Bit,
	}
	return w
}

// newShapedWord16 creates an unshaped word over UTF-16 text and marks
// cluster boundaries: low surrogates and combining marks become cluster
// continuations before shaping ever sees the word.
func newShapedWord16(text []uint16, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) *ShapedWord {
	w := &ShapedWord{
		text16:             append([]uint16(nil), text...),
		glyphs:             make([]CompressedGlyph, len(text)),
		script:             script,
		appUnitsPerDevUnit: appUnitsPerDevUnit,
		flags:              flags &^ FlagTextIs8Bit,
	}
	w.setupClusterBoundaries()
	return w
}

// Length returns the number of code units in the word.
func (w *ShapedWord) Length() int {
	if w.text8 != nil {
		return len(w.text8)
	}
	return len(w.text16)
}

// TextIs8Bit reports whether the word stores its text as bytes.
func (w *ShapedWord) TextIs8Bit() bool {
	return w.text8 != nil
}

// CharAt returns the code unit at index i.
func (w *ShapedWord) CharAt(i int) uint16 {
	if w.text8 != nil {
		return uint16(w.text8[i])
	}
	return w.text16[i]
}

// Script returns the script the word was shaped for.
func (w *ShapedWord) Script() language.Script {
	return w.script
}

// AppUnitsPerDevUnit returns the scale the word was shaped at.
func (w *ShapedWord) AppUnitsPerDevUnit() int32 {
	return w.appUnitsPerDevUnit
}

// Flags returns the shaping flags the word was created with.
func (w *ShapedWord) Flags() ShapeFlags {
	return w.flags
}

// Glyphs returns the per-character glyph records. Callers must treat the
// slice as read-only.
func (w *ShapedWord) Glyphs() []CompressedGlyph {
	return w.glyphs
}

// DetailedGlyphs returns the detailed glyphs of the complex record at
// index i. The record's GlyphCount must be greater than zero.
func (w *ShapedWord) DetailedGlyphs(i int) []DetailedGlyph {
	return w.details.Get(uint32(i), w.glyphs[i].GlyphCount())
}

// SetSimpleGlyph stores a simple glyph record for the character at index i.
func (w *ShapedWord) SetSimpleGlyph(i int, advanceAppUnits int32, glyph GlyphID) {
	w.glyphs[i].SetSimpleGlyph(advanceAppUnits, glyph)
}

// SetGlyphs stores a complex glyph record for the character at index i
// along with its detailed glyphs. An empty details slice is allowed for
// zero-glyph records such as cluster continuations.
func (w *ShapedWord) SetGlyphs(i int, g CompressedGlyph, details []DetailedGlyph) {
	if g.IsSimpleGlyph() {
		panic("typeset: SetGlyphs needs a complex record")
	}
	if uint32(len(details)) != g.GlyphCount() {
		panic("typeset: detailed glyph count mismatch")
	}
	if len(details) > 0 {
		if w.details == nil {
			w.details = &DetailedGlyphStore{}
		}
		copy(w.details.Allocate(uint32(i), uint32(len(details))), details)
	}
	// preserve the break and identity flags already on the record
	keep := w.glyphs[i]
	keep.SetComplex(g.IsClusterStart(), g.IsLigatureGroupStart(), g.GlyphCount())
	if g.IsMissing() {
		keep.SetMissing(g.GlyphCount())
	}
	w.glyphs[i] = keep
}

// SetMissingGlyph records that the character at index i has no glyph in
// the font. A single detailed glyph carries the original code point so a
// renderer can draw a hexbox, advanced by the font's average character
// width. Default-ignorable characters get zero width.
func (w *ShapedWord) SetMissingGlyph(i int, ch rune, f *Font) {
	var advance int32
	if !isDefaultIgnorable(ch) && f != nil {
		advance = int32(f.Metrics().AveCharWidth*float64(w.appUnitsPerDevUnit) + 0.5)
	}
	if w.details == nil {
		w.details = &DetailedGlyphStore{}
	}
	d := w.details.Allocate(uint32(i), 1)
	d[0] = DetailedGlyph{GlyphID: GlyphID(ch), Advance: advance}
	w.glyphs[i].SetMissing(1)
}

// SetIsSpace marks the character at index i as a space.
func (w *ShapedWord) SetIsSpace(i int) {
	w.glyphs[i].SetIsSpace()
}

// setIsLowSurrogate replaces the record at index i with a zero-glyph
// cluster continuation flagged as a low surrogate.
func (w *ShapedWord) setIsLowSurrogate(i int) {
	var g CompressedGlyph
	g.SetComplex(false, false, 0)
	w.glyphs[i] = g
	w.glyphs[i].setIsLowSurrogate()
}

// setupClusterBoundaries marks cluster continuations in 16-bit text so
// records for low surrogates and combining marks never read as cluster
// starts, even if a shaper leaves them untouched.
func (w *ShapedWord) setupClusterBoundaries() {
	for i := 0; i < len(w.text16); i++ {
		u := w.text16[i]
		if isLowSurrogate(u) && i > 0 && isHighSurrogate(w.text16[i-1]) {
			w.setIsLowSurrogate(i)
			continue
		}
		if i > 0 && !isHighSurrogate(u) && !isLowSurrogate(u) &&
			unicode.In(rune(u), unicode.Mn, unicode.Me) {
			w.glyphs[i].SetClusterStart(false)
		}
	}
}

// incrementAge bumps and returns the word's age counter.
func (w *ShapedWord) incrementAge() uint32 {
	w.ageCounter++
	return w.ageCounter
}

// resetAge marks the word as recently used.
func (w *ShapedWord) resetAge() {
	w.ageCounter = 0
}

// isDefaultIgnorable reports whether ch renders as nothing when no glyph
// is available, so a missing-glyph hexbox must not be shown for it.
func isDefaultIgnorable(ch rune) bool {
	switch {
	case ch >= 0x200B && ch <= 0x200F: // ZWSP..RLM
		return true
	case ch >= 0x202A && ch <= 0x202E: // embedding controls
		return true
	case ch >= 0x2060 && ch <= 0x2064: // word joiner, invisible operators
		return true
	case ch == 0x00AD || ch == 0x034F || ch == 0xFEFF:
		return true
	case ch >= 0xFE00 && ch <= 0xFE0F: // variation selectors
		return true
	}
	return false
}
