package typeset

import "math"

// FontMetrics holds the resolved metrics of a Font at its adjusted size.
// All values are in device pixels. Ascents and descents are distances, so
// both are non-negative.
type FontMetrics struct {
	XHeight   float64
	CapHeight float64

	StrikeoutSize   float64
	StrikeoutOffset float64
	UnderlineSize   float64
	UnderlineOffset float64

	InternalLeading float64
	ExternalLeading float64

	EmHeight   float64
	EmAscent   float64
	EmDescent  float64
	MaxAscent  float64
	MaxDescent float64
	MaxAdvance float64

	AveCharWidth       float64
	SpaceWidth         float64
	ZeroOrAveCharWidth float64
}

// MaxHeight returns the maximum line height.
func (m *FontMetrics) MaxHeight() float64 {
	return m.MaxAscent + m.MaxDescent
}

// MetricsCorrection adjusts the computed metrics of a named face. Layout
// carries per-face corrections for fonts that ship with wrong metrics;
// corrections register on the FontCache and apply before sanitization.
type MetricsCorrection func(m *FontMetrics)

// computeMetrics derives the full metrics of f from its backend face.
func computeMetrics(f *Font) *FontMetrics {
	size := f.AdjustedSize()
	face := f.entry.Face().Metrics(size)

	m := &FontMetrics{
		XHeight:         face.XHeight,
		CapHeight:       face.CapHeight,
		EmHeight:        size,
		MaxAscent:       face.Ascent,
		MaxDescent:      face.Descent,
		ExternalLeading: face.LineGap,
	}

	// Apportion the em box between ascent and descent in proportion to
	// the face's overall ascent and descent.
	total := face.Ascent + face.Descent
	if total > 0 {
		m.EmAscent = size * face.Ascent / total
		m.EmDescent = size - m.EmAscent
	} else {
		m.EmAscent = size * 0.8
		m.EmDescent = size * 0.2
	}
	m.InternalLeading = math.Max(0, total-size)

	spaceGlyph := f.entry.MapCharToGlyph(' ')
	if spaceGlyph != 0 {
		m.SpaceWidth = f.entry.Face().GlyphAdvance(spaceGlyph, size)
	}
	if x := f.entry.MapCharToGlyph('x'); x != 0 {
		m.AveCharWidth = f.entry.Face().GlyphAdvance(x, size)
	}
	if m.AveCharWidth == 0 {
		m.AveCharWidth = m.SpaceWidth
	}
	if m.AveCharWidth == 0 {
		m.AveCharWidth = size / 2
	}
	if m.SpaceWidth == 0 {
		m.SpaceWidth = m.AveCharWidth
	}
	if zero := f.entry.MapCharToGlyph('0'); zero != 0 {
		m.ZeroOrAveCharWidth = f.entry.Face().GlyphAdvance(zero, size)
	}
	if m.ZeroOrAveCharWidth == 0 {
		m.ZeroOrAveCharWidth = m.AveCharWidth
	}
	m.MaxAdvance = math.Max(m.AveCharWidth, m.SpaceWidth)

	if m.XHeight == 0 {
		m.XHeight = 0.5 * size
	}
	if m.CapHeight == 0 {
		m.CapHeight = m.MaxAscent
	}

	m.UnderlineSize = math.Max(1, size/20)
	m.UnderlineOffset = -math.Max(1, m.UnderlineSize)
	m.StrikeoutSize = m.UnderlineSize
	m.StrikeoutOffset = m.XHeight / 2

	if c, ok := f.cache.metricsCorrection(f.entry.Name()); ok {
		c(m)
	}
	sanitizeMetrics(m, f.entry.IsBadUnderlineFont())
	return m
}

// sanitizeMetrics fixes up values that fonts commonly get wrong so layout
// never sees a zero line height or an underline above the baseline.
func sanitizeMetrics(m *FontMetrics, badUnderlineFont bool) {
	if m.MaxAscent < 1 && m.MaxDescent < 1 {
		m.MaxAscent = m.EmAscent
		m.MaxDescent = m.EmDescent
	}
	m.UnderlineSize = math.Max(1, m.UnderlineSize)
	m.StrikeoutSize = math.Max(1, m.StrikeoutSize)
	m.UnderlineOffset = math.Min(-1, m.UnderlineOffset)
	if badUnderlineFont {
		// Push the underline clear of the descender region.
		m.UnderlineOffset = math.Min(m.UnderlineOffset, -math.Ceil(m.MaxDescent*0.5)-1)
	}
	if m.UnderlineOffset < -m.MaxDescent-m.UnderlineSize {
		m.UnderlineOffset = -m.MaxDescent - m.UnderlineSize
	}
}
