package typeset

// BoundingBoxType selects how much work measurement spends on ink extents.
type BoundingBoxType int

const (
	// LooseInkExtents returns a cheap box guaranteed to contain the ink:
	// glyphs known to stay inside their advance and the font's ascent and
	// descent contribute that box instead of their exact ink rectangle.
	LooseInkExtents BoundingBoxType = iota
	// TightInkExtents returns the exact ink rectangle of every glyph,
	// measuring glyphs through the font backend as needed.
	TightInkExtents
)

// RunMetrics is the result of measuring a range of a TextRun.
// All values are app units; the bounding box origin is the baseline at the
// start of the measured range.
type RunMetrics struct {
	AdvanceWidth float64
	Ascent       float64
	Descent      float64
	BoundingBox  Rect
}

// CombineWith accumulates metrics of a following range into m.
func (m *RunMetrics) CombineWith(other *RunMetrics) {
	if other.Ascent > m.Ascent {
		m.Ascent = other.Ascent
	}
	if other.Descent > m.Descent {
		m.Descent = other.Descent
	}
	m.BoundingBox = m.BoundingBox.Union(other.BoundingBox.Translate(m.AdvanceWidth, 0))
	m.AdvanceWidth += other.AdvanceWidth
}

// AdvanceWidth returns the advance of [start, end) in app units. Ranges
// that slice into a ligature group receive a proportional share of the
// ligature's advance, split evenly between its clusters.
func (t *TextRun) AdvanceWidth(start, end int) float64 {
	result := 0.0

	// leading partial ligature
	if start < end && !t.glyphs[start].IsLigatureGroupStart() {
		partEnd := start
		for partEnd < end && !t.glyphs[partEnd].IsLigatureGroupStart() {
			partEnd++
		}
		d := t.computeLigatureData(start, partEnd)
		result += d.partWidth
		start = partEnd
	}

	// trailing partial ligature
	if start < end && end < len(t.glyphs) && !t.glyphs[end].IsLigatureGroupStart() {
		partStart := end
		for partStart > start && !t.glyphs[partStart].IsLigatureGroupStart() {
			partStart--
		}
		d := t.computeLigatureData(partStart, end)
		result += d.partWidth
		end = partStart
	}

	return result + float64(t.advanceForGlyphs(start, end))
}

// MeasureText measures [start, end), combining the metrics of every glyph
// run the range touches.
func (t *TextRun) MeasureText(start, end int, boundingBoxType BoundingBoxType) RunMetrics {
	var m RunMetrics
	for _, span := range t.glyphRunSpans(start, end) {
		sm := t.measureSpan(span, boundingBoxType)
		m.CombineWith(&sm)
	}
	return m
}

func (t *TextRun) measureSpan(span glyphRunSpan, boundingBoxType BoundingBoxType) RunMetrics {
	f := span.font
	scale := float64(t.appUnitsPerDevUnit)
	fm := f.Metrics()
	ascent := fm.MaxAscent * scale
	descent := fm.MaxDescent * scale

	m := RunMetrics{
		AdvanceWidth: t.AdvanceWidth(span.start, span.end),
		Ascent:       ascent,
		Descent:      descent,
	}

	extents := f.GetGlyphExtents(t.appUnitsPerDevUnit)
	x := 0.0
	for i := span.start; i < span.end; i++ {
		g := t.glyphs[i]
		switch {
		case g.IsSimpleGlyph():
			advance := float64(g.SimpleAdvance())
			box := t.glyphInkBox(f, extents, g.SimpleGlyph(), advance, ascent, descent, boundingBoxType)
			m.BoundingBox = m.BoundingBox.Union(box.Translate(x, 0))
			x += advance
		case g.IsMissing():
			// hexbox: full advance times font height
			advance := 0.0
			if g.GlyphCount() > 0 {
				for _, d := range t.DetailedGlyphs(i) {
					advance += float64(d.Advance)
				}
			}
			if advance > 0 {
				m.BoundingBox = m.BoundingBox.Union(Rect{x, -ascent, x + advance, descent})
			}
			x += advance
		case g.GlyphCount() > 0:
			for _, d := range t.DetailedGlyphs(i) {
				advance := float64(d.Advance)
				box := t.glyphInkBox(f, extents, d.GlyphID, advance, ascent, descent, boundingBoxType)
				m.BoundingBox = m.BoundingBox.Union(box.Translate(x+float64(d.XOffset), float64(d.YOffset)))
				x += advance
			}
		}
	}
	return m
}

// glyphInkBox returns one glyph's contribution to the bounding box, at the
// glyph origin. Loose measurement keeps the cheap advance-wide font box
// for glyphs whose ink is known to stay inside it.
func (t *TextRun) glyphInkBox(f *Font, extents *GlyphExtents, glyph GlyphID, advance, ascent, descent float64, boundingBoxType BoundingBoxType) Rect {
	if boundingBoxType == LooseInkExtents {
		extents.ensureGlyph(f, glyph)
		if extents.ContainedGlyphWidthAppUnits(glyph) != InvalidGlyphWidth {
			return Rect{0, -ascent, advance, descent}
		}
		if r, ok := extents.TightGlyphExtentsAppUnits(f, glyph); ok {
			return r.Union(Rect{0, -ascent, advance, descent})
		}
		return Rect{0, -ascent, advance, descent}
	}
	if r, ok := extents.TightGlyphExtentsAppUnits(f, glyph); ok {
		return r
	}
	return Rect{}
}

// BreakAndMeasureText finds how much of [start, start+maxLength) fits in
// availWidth app units, breaking only where a break opportunity was
// recorded with SetLineBreaks. It returns the number of code units that
// fit and their advance; charsFit is zero when not even the first
// breakable prefix fits.
func (t *TextRun) BreakAndMeasureText(start, maxLength int, availWidth float64) (charsFit int, fitAdvance float64) {
	end := start + maxLength
	if end > len(t.glyphs) {
		end = len(t.glyphs)
	}
	advance := 0.0
	lastBreak := -1
	lastBreakAdvance := 0.0
	for i := start; i < end; i++ {
		if i > start && t.glyphs[i].CanBreakBefore() != BreakTypeNone &&
			t.glyphs[i].IsLigatureGroupStart() {
			if advance <= availWidth {
				lastBreak = i
				lastBreakAdvance = advance
			} else {
				break
			}
		}
		advance = t.AdvanceWidth(start, i+1)
	}
	if advance <= availWidth {
		return end - start, advance
	}
	if lastBreak < 0 {
		return 0, 0
	}
	return lastBreak - start, lastBreakAdvance
}
