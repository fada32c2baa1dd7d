package typeset

// Glyph width block parameters. Widths are cached in blocks of 128
// consecutive glyph IDs.
const (
	glyphWidthBlockSizeBits = 7
	glyphWidthBlockSize     = 1 << glyphWidthBlockSizeBits
	glyphWidthIndexMask     = glyphWidthBlockSize - 1
)

// InvalidGlyphWidth is the sentinel for "no contained width recorded".
const InvalidGlyphWidth uint16 = 0xFFFF

// widthBlockKind distinguishes the storage states of a width block.
type widthBlockKind uint8

const (
	// blockEmpty holds no widths.
	blockEmpty widthBlockKind = iota
	// blockSingle holds exactly one width, inline. Most blocks only ever
	// see one glyph, so the 128-entry array is deferred until a second
	// glyph in the same block needs recording.
	blockSingle
	// blockArray holds widths for any glyph in the block.
	blockArray
)

// widthBlock caches contained widths for 128 consecutive glyph IDs.
type widthBlock struct {
	kind         widthBlockKind
	singleOffset uint8
	singleWidth  uint16
	widths       []uint16
}

func (b *widthBlock) get(offset uint8) uint16 {
	switch b.kind {
	case blockSingle:
		if b.singleOffset == offset {
			return b.singleWidth
		}
	case blockArray:
		return b.widths[offset]
	}
	return InvalidGlyphWidth
}

func (b *widthBlock) set(offset uint8, width uint16) {
	switch b.kind {
	case blockEmpty:
		b.kind = blockSingle
		b.singleOffset = offset
		b.singleWidth = width
	case blockSingle:
		if b.singleOffset == offset {
			b.singleWidth = width
			return
		}
		widths := make([]uint16, glyphWidthBlockSize)
		for i := range widths {
			widths[i] = InvalidGlyphWidth
		}
		widths[b.singleOffset] = b.singleWidth
		widths[offset] = width
		b.kind = blockArray
		b.widths = widths
	case blockArray:
		b.widths[offset] = width
	}
}

// GlyphExtents caches per-glyph measurement data for one Font at one app
// unit scale. Glyphs whose ink stays inside the [0, advance] x
// [-ascent, descent] box only need their width ("contained"); the rest get
// a tight bounding rectangle.
type GlyphExtents struct {
	appUnitsPerDevUnit int32

	blocks       []widthBlock
	tightExtents map[GlyphID]Rect
}

func newGlyphExtents(appUnitsPerDevUnit int32) *GlyphExtents {
	return &GlyphExtents{
		appUnitsPerDevUnit: appUnitsPerDevUnit,
		tightExtents:       make(map[GlyphID]Rect),
	}
}

// AppUnitsPerDevUnit returns the scale this extents cache serves.
func (e *GlyphExtents) AppUnitsPerDevUnit() int32 {
	return e.appUnitsPerDevUnit
}

// ContainedGlyphWidthAppUnits returns the cached contained width of glyph
// in app units, or InvalidGlyphWidth if the glyph has none recorded.
func (e *GlyphExtents) ContainedGlyphWidthAppUnits(glyph GlyphID) uint16 {
	blockIndex := int(glyph >> glyphWidthBlockSizeBits)
	if blockIndex >= len(e.blocks) {
		return InvalidGlyphWidth
	}
	return e.blocks[blockIndex].get(uint8(glyph & glyphWidthIndexMask))
}

// SetContainedGlyphWidthAppUnits records the contained width of glyph.
func (e *GlyphExtents) SetContainedGlyphWidthAppUnits(glyph GlyphID, width uint16) {
	blockIndex := int(glyph >> glyphWidthBlockSizeBits)
	if blockIndex >= len(e.blocks) {
		grown := make([]widthBlock, blockIndex+1)
		copy(grown, e.blocks)
		e.blocks = grown
	}
	e.blocks[blockIndex].set(uint8(glyph&glyphWidthIndexMask), width)
}

// SetTightGlyphExtents records the tight ink rectangle of glyph, in app
// units relative to the glyph origin.
func (e *GlyphExtents) SetTightGlyphExtents(glyph GlyphID, r Rect) {
	e.tightExtents[glyph] = r
}

// IsGlyphKnown reports whether any extents data is recorded for glyph.
func (e *GlyphExtents) IsGlyphKnown(glyph GlyphID) bool {
	if _, ok := e.tightExtents[glyph]; ok {
		return true
	}
	return e.ContainedGlyphWidthAppUnits(glyph) != InvalidGlyphWidth
}

// TightGlyphExtentsAppUnits returns the tight ink rectangle of glyph,
// measuring it through the font's backend on a cache miss. It returns
// false when the font cannot measure the glyph.
func (e *GlyphExtents) TightGlyphExtentsAppUnits(f *Font, glyph GlyphID) (Rect, bool) {
	if r, ok := e.tightExtents[glyph]; ok {
		return r, true
	}
	if f == nil {
		return Rect{}, false
	}
	bounds := f.entry.Face().GlyphBounds(glyph, f.AdjustedSize())
	if bounds.Empty() && f.entry.Face().GlyphAdvance(glyph, f.AdjustedSize()) == 0 {
		return Rect{}, false
	}
	scale := float64(e.appUnitsPerDevUnit)
	r := Rect{
		MinX: bounds.MinX * scale,
		MinY: bounds.MinY * scale,
		MaxX: bounds.MaxX * scale,
		MaxY: bounds.MaxY * scale,
	}
	e.tightExtents[glyph] = r
	return r, true
}

// ensureGlyph makes sure glyph has extents recorded, classifying it as
// contained or tight against the font's ascent and descent box.
func (e *GlyphExtents) ensureGlyph(f *Font, glyph GlyphID) {
	if e.IsGlyphKnown(glyph) {
		return
	}
	size := f.AdjustedSize()
	bounds := f.entry.Face().GlyphBounds(glyph, size)
	advance := f.entry.Face().GlyphAdvance(glyph, size)
	m := f.Metrics()
	contained := bounds.MinX >= 0 && bounds.MaxX <= advance &&
		bounds.MinY >= -m.MaxAscent && bounds.MaxY <= m.MaxDescent
	widthAppUnits := advance*float64(e.appUnitsPerDevUnit) + 0.5
	if contained && widthAppUnits < float64(InvalidGlyphWidth) {
		e.SetContainedGlyphWidthAppUnits(glyph, uint16(widthAppUnits))
		return
	}
	scale := float64(e.appUnitsPerDevUnit)
	e.SetTightGlyphExtents(glyph, Rect{
		MinX: bounds.MinX * scale,
		MinY: bounds.MinY * scale,
		MaxX: bounds.MaxX * scale,
		MaxY: bounds.MaxY * scale,
	})
}
