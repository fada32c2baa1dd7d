package typeset

// Break opportunity values stored in a CompressedGlyph. At most one of the
// hyphen and normal values applies before a given character.
const (
	// BreakTypeNone means no line break is allowed before the character.
	BreakTypeNone uint8 = 0
	// BreakTypeNormal means a normal line break is allowed before the character.
	BreakTypeNormal uint8 = 1
	// BreakTypeHyphen means a break is allowed if a hyphen is inserted.
	BreakTypeHyphen uint8 = 2
)

// CompressedGlyph is the per-character glyph record. The common case, a
// single glyph whose advance is a small non-negative integer and whose
// offsets are zero, packs into the record itself ("simple"). Everything
// else ("complex") stores a glyph count here and spills the actual glyphs
// into a DetailedGlyphStore.
//
// Layout of the 32-bit value:
//
//	0x80000000  simple glyph flag
//	0x60000000  line break opportunity before this character (shift 29)
//	0x10000000  character is a space
//
// Simple records additionally pack:
//
//	0x0FFF0000  advance in app units (shift 16)
//	0x0000FFFF  glyph ID
//
// Complex records instead pack:
//
//	0x00000001  set when the character is NOT missing from the font
//	0x00000002  set when the character is NOT the start of a cluster
//	0x00000004  set when the character is NOT the start of a ligature group
//	0x00000008  character is a tab
//	0x00000010  character is a newline
//	0x00000020  character is a low surrogate
//	0x00FFFF00  detailed glyph count (shift 8)
//
// The zero value is a complex record for a missing character with zero
// glyphs, so freshly allocated glyph arrays are valid before shaping fills
// them in.
type CompressedGlyph struct {
	value uint32
}

const (
	flagIsSimpleGlyph = 0x80000000

	flagsCanBreakBefore = 0x60000000
	flagsCanBreakShift  = 29

	flagCharIsSpace = 0x10000000

	advanceMask  = 0x0FFF0000
	advanceShift = 16
	glyphMask    = 0x0000FFFF

	flagNotMissing            = 0x01
	flagNotClusterStart       = 0x02
	flagNotLigatureGroupStart = 0x04
	flagCharIsTab             = 0x08
	flagCharIsNewline         = 0x10
	flagCharIsLowSurrogate    = 0x20

	glyphCountMask  = 0x00FFFF00
	glyphCountShift = 8
)

// MaxSimpleAdvance is the largest app-unit advance a simple record can hold.
const MaxSimpleAdvance = advanceMask >> advanceShift

// IsSimpleAdvance reports whether the advance fits a simple record.
func IsSimpleAdvance(advance int32) bool {
	return advance >= 0 && uint32(advance)&(advanceMask>>advanceShift) == uint32(advance)
}

// IsSimpleGlyphID reports whether the glyph ID fits a simple record.
func IsSimpleGlyphID(glyph GlyphID) bool {
	return uint32(glyph)&glyphMask == uint32(glyph)
}

// IsSimpleGlyph reports whether this is a simple record.
func (g CompressedGlyph) IsSimpleGlyph() bool {
	return g.value&flagIsSimpleGlyph != 0
}

// SimpleAdvance returns the app-unit advance of a simple record.
func (g CompressedGlyph) SimpleAdvance() int32 {
	return int32((g.value & advanceMask) >> advanceShift)
}

// SimpleGlyph returns the glyph ID of a simple record.
func (g CompressedGlyph) SimpleGlyph() GlyphID {
	return GlyphID(g.value & glyphMask)
}

// IsMissing reports whether the character has no glyph in the font.
func (g CompressedGlyph) IsMissing() bool {
	return g.value&(flagNotMissing|flagIsSimpleGlyph) == 0
}

// IsClusterStart reports whether the character starts a glyph cluster.
// Simple records always do.
func (g CompressedGlyph) IsClusterStart() bool {
	return g.value&flagIsSimpleGlyph != 0 || g.value&flagNotClusterStart == 0
}

// IsLigatureGroupStart reports whether the character starts a ligature
// group. Simple records always do.
func (g CompressedGlyph) IsLigatureGroupStart() bool {
	return g.value&flagIsSimpleGlyph != 0 || g.value&flagNotLigatureGroupStart == 0
}

// IsLigatureContinuation reports whether the character is interior to a
// ligature: complex, not missing, and not a ligature group start.
func (g CompressedGlyph) IsLigatureContinuation() bool {
	return g.value&flagIsSimpleGlyph == 0 &&
		g.value&(flagNotLigatureGroupStart|flagNotMissing) ==
			flagNotLigatureGroupStart|flagNotMissing
}

// CharIsSpace reports whether the original character was a space.
func (g CompressedGlyph) CharIsSpace() bool {
	return g.value&flagCharIsSpace != 0
}

// CharIsTab reports whether the original character was a tab.
func (g CompressedGlyph) CharIsTab() bool {
	return !g.IsSimpleGlyph() && g.value&flagCharIsTab != 0
}

// CharIsNewline reports whether the original character was a newline.
func (g CompressedGlyph) CharIsNewline() bool {
	return !g.IsSimpleGlyph() && g.value&flagCharIsNewline != 0
}

// CharIsLowSurrogate reports whether the original character was the low
// half of a surrogate pair.
func (g CompressedGlyph) CharIsLowSurrogate() bool {
	return !g.IsSimpleGlyph() && g.value&flagCharIsLowSurrogate != 0
}

// charIdentityFlags returns the complex-only character identity bits.
// These must be zero before a record may become simple.
func (g CompressedGlyph) charIdentityFlags() uint32 {
	if g.IsSimpleGlyph() {
		return 0
	}
	return g.value & (flagCharIsTab | flagCharIsNewline | flagCharIsLowSurrogate)
}

// CanBreakBefore returns the break opportunity before this character, one
// of the BreakType values.
func (g CompressedGlyph) CanBreakBefore() uint8 {
	return uint8((g.value & flagsCanBreakBefore) >> flagsCanBreakShift)
}

// SetCanBreakBefore stores a break opportunity and reports whether the
// stored value changed.
func (g *CompressedGlyph) SetCanBreakBefore(breakType uint8) bool {
	breakBits := uint32(breakType) << flagsCanBreakShift
	toggle := breakBits ^ (g.value & flagsCanBreakBefore)
	g.value ^= toggle
	return toggle != 0
}

// SetClusterStart updates the cluster start flag of a complex record.
// Calling this on a simple record corrupts it; it is used only while
// setting up cluster boundaries on zero-initialized glyph arrays.
func (g *CompressedGlyph) SetClusterStart(clusterStart bool) {
	if clusterStart {
		g.value &^= flagNotClusterStart
	} else {
		g.value |= flagNotClusterStart
	}
}

// SetSimpleGlyph overwrites the record with a simple glyph, preserving the
// break opportunity and space flag. The advance and glyph must satisfy
// IsSimpleAdvance and IsSimpleGlyphID, and no character identity flags may
// be set.
func (g *CompressedGlyph) SetSimpleGlyph(advanceAppUnits int32, glyph GlyphID) {
	if !IsSimpleAdvance(advanceAppUnits) || !IsSimpleGlyphID(glyph) {
		panic("typeset: glyph record cannot be simple")
	}
	if g.charIdentityFlags() != 0 {
		panic("typeset: char identity flags lost")
	}
	g.value = g.value&(flagsCanBreakBefore|flagCharIsSpace) |
		flagIsSimpleGlyph |
		uint32(advanceAppUnits)<<advanceShift | uint32(glyph)
}

// SetComplex overwrites the record with a complex glyph holding glyphCount
// detailed glyphs, preserving the break opportunity, space flag and
// character identity flags.
func (g *CompressedGlyph) SetComplex(clusterStart, ligatureStart bool, glyphCount uint32) {
	v := g.value&(flagsCanBreakBefore|flagCharIsSpace) |
		flagNotMissing |
		g.charIdentityFlags() |
		glyphCount<<glyphCountShift
	if !clusterStart {
		v |= flagNotClusterStart
	}
	if !ligatureStart {
		v |= flagNotLigatureGroupStart
	}
	g.value = v
}

// SetMissing marks the character as having no glyph in the font, with
// glyphCount detailed glyphs describing what to draw in its place. The
// break opportunity, cluster flag, space flag and character identity flags
// are preserved.
func (g *CompressedGlyph) SetMissing(glyphCount uint32) {
	g.value = g.value&(flagsCanBreakBefore|flagNotClusterStart|flagCharIsSpace) |
		g.charIdentityFlags() |
		glyphCount<<glyphCountShift
}

// GlyphCount returns the number of detailed glyphs of a complex record.
// Callers must not use this on simple records.
func (g CompressedGlyph) GlyphCount() uint32 {
	return (g.value & glyphCountMask) >> glyphCountShift
}

// SetIsSpace marks the original character as a space.
func (g *CompressedGlyph) SetIsSpace() {
	g.value |= flagCharIsSpace
}

// setIsTab marks a complex record's character as a tab.
func (g *CompressedGlyph) setIsTab() {
	g.value |= flagCharIsTab
}

// setIsNewline marks a complex record's character as a newline.
func (g *CompressedGlyph) setIsNewline() {
	g.value |= flagCharIsNewline
}

// setIsLowSurrogate marks a complex record's character as a low surrogate.
func (g *CompressedGlyph) setIsLowSurrogate() {
	g.value |= flagCharIsLowSurrogate
}

// DetailedGlyph describes one glyph of a complex record.
type DetailedGlyph struct {
	// GlyphID is the font glyph index, or the Unicode code point for a
	// missing character.
	GlyphID GlyphID
	// Advance is the horizontal advance in app units. For ligature groups
	// the total advance sits on the first glyph of the group.
	Advance int32
	// XOffset and YOffset displace the glyph from its default position,
	// in app units. Positive YOffset moves the glyph down.
	XOffset, YOffset float32
}
