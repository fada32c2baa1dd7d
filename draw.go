package typeset

// GlyphSink receives the positioned glyphs of a TextRun. Rasterizers and
// path builders implement this; the run resolves fonts, positions and
// missing characters and hands over one call per glyph.
type GlyphSink interface {
	// DrawGlyph places one glyph with its origin on the baseline at pt,
	// in device pixels.
	DrawGlyph(f *Font, glyph GlyphID, pt Point)

	// DrawMissingGlyph asks for a placeholder (typically a hexbox) for a
	// character the font has no glyph for. advance is the placeholder
	// width in device pixels.
	DrawMissingGlyph(f *Font, ch rune, pt Point, advance float64)
}

// Draw emits the glyphs of [start, end) to sink with the baseline origin
// at pt. For right-to-left runs the text is laid out rightward from pt
// with the characters in visual order, so pt is the left edge either way.
func (t *TextRun) Draw(sink GlyphSink, pt Point, start, end int) {
	scale := float64(t.appUnitsPerDevUnit)
	total := t.AdvanceWidth(start, end)
	rtl := t.IsRightToLeft()

	x := 0.0
	for _, span := range t.glyphRunSpans(start, end) {
		for i := span.start; i < span.end; i++ {
			charAdvance := float64(t.advanceForGlyphs(i, i+1))
			xPos := x
			if rtl {
				xPos = total - x - charAdvance
			}
			t.drawChar(sink, span.font, i, Point{pt.X + xPos/scale, pt.Y}, scale)
			x += charAdvance
		}
	}
}

func (t *TextRun) drawChar(sink GlyphSink, f *Font, i int, origin Point, scale float64) {
	g := t.glyphs[i]
	switch {
	case g.IsSimpleGlyph():
		sink.DrawGlyph(f, g.SimpleGlyph(), origin)
	case g.GlyphCount() > 0:
		x := origin.X
		for _, d := range t.DetailedGlyphs(i) {
			pt := Point{x + float64(d.XOffset)/scale, origin.Y + float64(d.YOffset)/scale}
			if g.IsMissing() {
				sink.DrawMissingGlyph(f, rune(d.GlyphID), pt, float64(d.Advance)/scale)
			} else {
				sink.DrawGlyph(f, d.GlyphID, pt)
			}
			x += float64(d.Advance) / scale
		}
	}
}
