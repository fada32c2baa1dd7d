package typeset

// Shaper fills in the glyph records of a ShapedWord from its text.
// Implementations provide different levels of text shaping support:
//   - BuiltinShaper: one glyph per character via the parsing backend,
//     no kerning or ligatures
//   - GoTextShaper: full HarfBuzz shaping via go-text/typesetting
//
// A shaper is created for one Font and reads size and glyph data from it.
// ShapeWord reports failure by returning false with the word's records
// left in their zeroed (missing) state; the Font then falls back to a
// simpler shaper.
type Shaper interface {
	ShapeWord(word *ShapedWord) bool
}

// wordText decodes a word's code units into runes plus a mapping from rune
// index to the code unit offset where that rune starts. unitOffsets has
// one extra entry holding the total unit count, so the units of rune i are
// [unitOffsets[i], unitOffsets[i+1]).
func wordText(word *ShapedWord) (runes []rune, unitOffsets []int) {
	n := word.Length()
	runes = make([]rune, 0, n)
	unitOffsets = make([]int, 0, n+1)
	for i := 0; i < n; {
		r, size := decodeWordChar(word, i)
		runes = append(runes, r)
		unitOffsets = append(unitOffsets, i)
		i += size
	}
	unitOffsets = append(unitOffsets, n)
	return runes, unitOffsets
}

// decodeWordChar returns the rune starting at code unit i of the word and
// how many units it spans.
func decodeWordChar(word *ShapedWord, i int) (rune, int) {
	u := word.CharAt(i)
	if !word.TextIs8Bit() && isHighSurrogate(u) && i+1 < word.Length() && isLowSurrogate(word.CharAt(i+1)) {
		high, low := rune(u), rune(word.CharAt(i + 1))
		return (high-surrHighStart)<<10 + (low - surrLowStart) + 0x10000, 2
	}
	if isHighSurrogate(u) || isLowSurrogate(u) {
		return 0xFFFD, 1
	}
	return rune(u), 1
}
