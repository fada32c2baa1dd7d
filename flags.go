package typeset

// ShapeFlags carries per-run options that affect shaping and glyph record
// construction. Flags participate in word cache keys, so two runs shaped
// with different flags never share cached words.
type ShapeFlags uint32

const (
	// FlagTextIsASCII marks text known to contain only ASCII characters.
	FlagTextIsASCII ShapeFlags = 1 << iota
	// FlagTextIsRTL marks right-to-left text.
	FlagTextIsRTL
	// FlagTextIs8Bit marks text stored in the 8-bit representation.
	// Word cache keys normalize this flag away so ASCII words shaped
	// from 8-bit and 16-bit text share entries.
	FlagTextIs8Bit
	// FlagNeedBoundingBox requests accurate glyph bounding boxes during
	// measurement instead of the cheap font-height approximation.
	FlagNeedBoundingBox
	// FlagDisableOptionalLigatures turns off discretionary ligatures,
	// as required when letter-spacing is in effect.
	FlagDisableOptionalLigatures
	// FlagOptimizeSpeed prefers the fast non-HarfBuzz shaping path at the
	// cost of typographic features.
	FlagOptimizeSpeed
	// FlagIsSimpleText marks runs built by the simple fast path with a
	// single glyph run and no detailed glyphs.
	FlagIsSimpleText
)

// shapeStateFlags is the subset of flags that record properties discovered
// while shaping rather than requested by the caller. They are masked out of
// word cache keys.
const shapeStateFlags = FlagIsSimpleText

// settableFlags is the subset of flags callers may change on a TextRun
// after construction. Everything else is fixed at creation because it
// took part in shaping or in word cache keys.
const settableFlags = FlagNeedBoundingBox

// cacheKeyFlags returns the flags as they participate in word cache keys.
func (f ShapeFlags) cacheKeyFlags() ShapeFlags {
	return (f &^ shapeStateFlags) &^ FlagTextIs8Bit
}

// IsRTL reports whether the right-to-left flag is set.
func (f ShapeFlags) IsRTL() bool {
	return f&FlagTextIsRTL != 0
}
