package typeset

import (
	"sort"

	"github.com/go-text/typesetting/language"
)

// FontMatchType records how a glyph run's font was chosen, so layout can
// tell deliberate group matches from last-resort fallback when deciding
// whether to report missing-font problems.
type FontMatchType uint8

const (
	// MatchFontGroup means the font came from the group's own entry list.
	MatchFontGroup FontMatchType = iota
	// MatchSystemFallback means the font was found by system fallback
	// outside the group.
	MatchSystemFallback
)

// GlyphRun records that a contiguous range of a TextRun's characters is
// rendered with one font. The range runs from CharacterOffset to the next
// run's offset (or the end of the text run).
type GlyphRun struct {
	Font            *Font
	MatchType       FontMatchType
	CharacterOffset int
}

// TextRunParams configures text run construction.
type TextRunParams struct {
	// AppUnitsPerDevUnit is the app units per device pixel scale for all
	// advances and offsets stored in the run.
	AppUnitsPerDevUnit int32

	// Flags are the shaping flags for the run.
	Flags ShapeFlags
}

// TextRun is an immutable-once-built sequence of positioned glyphs for a
// piece of text, with one glyph record per source code unit. It does not
// retain the text itself; character identities layout cares about (spaces,
// tabs, newlines) are flagged in the glyph records instead.
//
// A TextRun holds a reference on each glyph run's Font. Call Release when
// the run is no longer needed so the fonts can begin their cache grace
// period.
type TextRun struct {
	glyphs  []CompressedGlyph
	details *DetailedGlyphStore

	glyphRuns []GlyphRun

	flags              ShapeFlags
	appUnitsPerDevUnit int32
	released           bool
}

// NewTextRun creates an empty run for length code units. The glyph records
// start zeroed, marking every character missing until initialized.
func NewTextRun(length int, params *TextRunParams) *TextRun {
	appUnits := params.AppUnitsPerDevUnit
	if appUnits <= 0 {
		appUnits = 1
	}
	return &TextRun{
		glyphs:             make([]CompressedGlyph, length),
		flags:              params.Flags,
		appUnitsPerDevUnit: appUnits,
	}
}

// Length returns the number of code units the run covers.
func (t *TextRun) Length() int {
	return len(t.glyphs)
}

// Flags returns the run's shaping flags.
func (t *TextRun) Flags() ShapeFlags {
	return t.flags
}

// SetFlagBits sets flags on an existing run. Only flags in the settable
// range may change after construction; anything else panics.
func (t *TextRun) SetFlagBits(flags ShapeFlags) {
	if flags&^settableFlags != 0 {
		panic("typeset: flag not settable after construction")
	}
	t.flags |= flags
}

// ClearFlagBits clears flags on an existing run, under the same settable
// range restriction as SetFlagBits.
func (t *TextRun) ClearFlagBits(flags ShapeFlags) {
	if flags&^settableFlags != 0 {
		panic("typeset: flag not settable after construction")
	}
	t.flags &^= flags
}

// AppUnitsPerDevUnit returns the run's app unit scale.
func (t *TextRun) AppUnitsPerDevUnit() int32 {
	return t.appUnitsPerDevUnit
}

// IsRightToLeft reports whether the run is right-to-left.
func (t *TextRun) IsRightToLeft() bool {
	return t.flags.IsRTL()
}

// Direction returns the run's text direction.
func (t *TextRun) Direction() Direction {
	if t.IsRightToLeft() {
		return DirectionRTL
	}
	return DirectionLTR
}

// CharacterGlyphs returns the per-character glyph records. Callers must
// treat the slice as read-only.
func (t *TextRun) CharacterGlyphs() []CompressedGlyph {
	return t.glyphs
}

// DetailedGlyphs returns the detailed glyphs of the complex record at
// index i, whose GlyphCount must be greater than zero.
func (t *TextRun) DetailedGlyphs(i int) []DetailedGlyph {
	return t.details.Get(uint32(i), t.glyphs[i].GlyphCount())
}

// Release drops the run's font references. The run must not be used for
// drawing or measurement afterwards.
func (t *TextRun) Release() {
	if t.released {
		return
	}
	t.released = true
	for i := range t.glyphRuns {
		t.glyphRuns[i].Font.Release()
	}
}

// SetSimpleGlyph stores a simple glyph record for the character at index i.
func (t *TextRun) SetSimpleGlyph(i int, advanceAppUnits int32, glyph GlyphID) {
	t.glyphs[i].SetSimpleGlyph(advanceAppUnits, glyph)
}

// SetGlyphs stores a complex glyph record with its detailed glyphs.
func (t *TextRun) SetGlyphs(i int, g CompressedGlyph, details []DetailedGlyph) {
	if g.IsSimpleGlyph() {
		panic("typeset: SetGlyphs needs a complex record")
	}
	if uint32(len(details)) != g.GlyphCount() {
		panic("typeset: detailed glyph count mismatch")
	}
	if len(details) > 0 {
		copy(t.allocateDetails(i, len(details)), details)
	}
	keep := t.glyphs[i]
	keep.SetComplex(g.IsClusterStart(), g.IsLigatureGroupStart(), g.GlyphCount())
	if g.IsMissing() {
		keep.SetMissing(g.GlyphCount())
	}
	t.glyphs[i] = keep
}

// SetMissingGlyph records that the character at index i has no glyph,
// carrying the code point in a detailed glyph for hexbox rendering.
func (t *TextRun) SetMissingGlyph(i int, ch rune, f *Font) {
	var advance int32
	if !isDefaultIgnorable(ch) && f != nil {
		advance = int32(f.Metrics().AveCharWidth*float64(t.appUnitsPerDevUnit) + 0.5)
	}
	d := t.allocateDetails(i, 1)
	d[0] = DetailedGlyph{GlyphID: GlyphID(ch), Advance: advance}
	t.glyphs[i].SetMissing(1)
}

func (t *TextRun) allocateDetails(i, count int) []DetailedGlyph {
	if t.details == nil {
		t.details = &DetailedGlyphStore{}
	}
	return t.details.Allocate(uint32(i), uint32(count))
}

// SetIsTab flags the character at index i as a tab. Tab and newline flags
// only exist on complex records, so a simple record is first demoted to a
// one-glyph complex record with the same glyph and advance.
func (t *TextRun) SetIsTab(i int) {
	t.promoteToComplex(i)
	t.glyphs[i].setIsTab()
}

// SetIsNewline flags the character at index i as a newline, demoting a
// simple record the same way SetIsTab does.
func (t *TextRun) SetIsNewline(i int) {
	t.promoteToComplex(i)
	t.glyphs[i].setIsNewline()
}

func (t *TextRun) promoteToComplex(i int) {
	g := &t.glyphs[i]
	if !g.IsSimpleGlyph() {
		return
	}
	detail := DetailedGlyph{GlyphID: g.SimpleGlyph(), Advance: g.SimpleAdvance()}
	var rec CompressedGlyph
	rec.SetComplex(true, true, 1)
	t.SetGlyphs(i, rec, []DetailedGlyph{detail})
}

// AddGlyphRun declares that characters from startOffset onward use font f.
// Runs must be added in increasing offset order; adding a run at the same
// offset as the previous one replaces it, and a run for the same font as
// its predecessor merges into it. forceNewRun appends without any of those
// checks, for callers building runs out of order; they must call
// SanitizeGlyphRuns before any query. The run retains f.
func (t *TextRun) AddGlyphRun(f *Font, matchType FontMatchType, startOffset int, forceNewRun bool) {
	if n := len(t.glyphRuns); n > 0 && !forceNewRun {
		last := &t.glyphRuns[n-1]
		if last.CharacterOffset == startOffset {
			last.Font.Release()
			last.Font = f.Retain()
			last.MatchType = matchType
			return
		}
		if startOffset < last.CharacterOffset {
			panic("typeset: glyph runs must be added in order")
		}
		if last.Font == f {
			return
		}
	}
	t.glyphRuns = append(t.glyphRuns, GlyphRun{
		Font:            f.Retain(),
		MatchType:       matchType,
		CharacterOffset: startOffset,
	})
}

// GlyphRuns returns the run's font ranges.
func (t *TextRun) GlyphRuns() []GlyphRun {
	return t.glyphRuns
}

// FontAt returns the font rendering the character at index i, or nil if
// no glyph run covers it.
func (t *TextRun) FontAt(i int) *Font {
	var f *Font
	for _, run := range t.glyphRuns {
		if run.CharacterOffset > i {
			break
		}
		f = run.Font
	}
	return f
}

// SanitizeGlyphRuns drops glyph runs that cover no characters and merges
// adjacent runs that use the same font. Construction can legitimately
// produce both when fallback switches fonts around zero-length matches.
func (t *TextRun) SanitizeGlyphRuns() {
	if len(t.glyphRuns) <= 1 {
		return
	}
	sort.SliceStable(t.glyphRuns, func(a, b int) bool {
		return t.glyphRuns[a].CharacterOffset < t.glyphRuns[b].CharacterOffset
	})
	kept := t.glyphRuns[:0]
	for i, run := range t.glyphRuns {
		end := len(t.glyphs)
		if i+1 < len(t.glyphRuns) {
			end = t.glyphRuns[i+1].CharacterOffset
		}
		if run.CharacterOffset >= end ||
			(len(kept) > 0 && kept[len(kept)-1].Font == run.Font) {
			run.Font.Release()
			continue
		}
		kept = append(kept, run)
	}
	t.glyphRuns = kept
}

// glyphRunSpan is a glyph run clipped to a measurement range.
type glyphRunSpan struct {
	font       *Font
	start, end int
}

// glyphRunSpans returns the glyph runs overlapping [start, end), clipped.
func (t *TextRun) glyphRunSpans(start, end int) []glyphRunSpan {
	var spans []glyphRunSpan
	for i, run := range t.glyphRuns {
		runEnd := len(t.glyphs)
		if i+1 < len(t.glyphRuns) {
			runEnd = t.glyphRuns[i+1].CharacterOffset
		}
		s, e := run.CharacterOffset, runEnd
		if s < start {
			s = start
		}
		if e > end {
			e = end
		}
		if s < e {
			spans = append(spans, glyphRunSpan{font: run.Font, start: s, end: e})
		}
	}
	return spans
}

// copyGlyphDataFromWord copies a shaped word's glyph records into the run
// starting at offset. Break opportunities already recorded on the run are
// preserved; everything else comes from the word.
func (t *TextRun) copyGlyphDataFromWord(word *ShapedWord, offset int) {
	for i := 0; i < word.Length(); i++ {
		src := word.glyphs[i]
		dst := &t.glyphs[offset+i]
		breakType := dst.CanBreakBefore()
		*dst = src
		dst.SetCanBreakBefore(breakType)
		if !src.IsSimpleGlyph() && src.GlyphCount() > 0 {
			copy(t.allocateDetails(offset+i, int(src.GlyphCount())), word.DetailedGlyphs(i))
		}
	}
}

// setSpaceGlyph fills in the record for a space character at index i. When
// the font's space glyph and width fit a simple record it is set directly,
// bypassing shaping; otherwise the space is shaped as a one-character word
// through the word cache.
func (t *TextRun) setSpaceGlyph(f *Font, i int, script language.Script) {
	spaceGlyph := f.SpaceGlyph()
	advance := f.spaceWidthAppUnits(t.appUnitsPerDevUnit)
	if spaceGlyph != 0 && IsSimpleAdvance(advance) && IsSimpleGlyphID(spaceGlyph) {
		t.glyphs[i].SetSimpleGlyph(advance, spaceGlyph)
		t.glyphs[i].SetIsSpace()
		return
	}
	word := f.GetShapedWord8([]byte{' '}, script, t.appUnitsPerDevUnit, t.flags)
	if word != nil {
		t.copyGlyphDataFromWord(word, i)
	}
}

// SetLineBreaks records break opportunities before each character in
// [start, start+length) and reports whether any stored opportunity
// changed, which tells layout whether cached widths are now stale.
func (t *TextRun) SetLineBreaks(start, length int, breakBefore []uint8) bool {
	changed := false
	for i := 0; i < length; i++ {
		if t.glyphs[start+i].SetCanBreakBefore(breakBefore[i]) {
			changed = true
		}
	}
	return changed
}

// ClusterIterator steps through a range of the run cluster by cluster.
type ClusterIterator struct {
	run  *TextRun
	pos  int
	end  int
	cur  int
	curE int
}

// Clusters returns an iterator over the clusters intersecting [start, end).
func (t *TextRun) Clusters(start, end int) *ClusterIterator {
	return &ClusterIterator{run: t, pos: start, end: end}
}

// Next advances to the next cluster, returning false when exhausted.
func (c *ClusterIterator) Next() bool {
	if c.pos >= c.end {
		return false
	}
	c.cur = c.pos
	c.pos++
	for c.pos < c.end && !c.run.glyphs[c.pos].IsClusterStart() {
		c.pos++
	}
	c.curE = c.pos
	return true
}

// Cluster returns the [start, end) character range of the current cluster.
func (c *ClusterIterator) Cluster() (start, end int) {
	return c.cur, c.curE
}

// ligatureData describes how a measurement range intersects a ligature
// group. A ligature's single advance lives on its first character, so a
// partial range must take a proportional share, split evenly between the
// ligature's clusters.
type ligatureData struct {
	ligStart, ligEnd int

	partAdvance float64
	partWidth   float64
}

// computeLigatureData resolves the ligature group containing the partial
// range [partStart, partEnd), both inside the same group.
func (t *TextRun) computeLigatureData(partStart, partEnd int) ligatureData {
	d := ligatureData{ligStart: partStart}
	for d.ligStart > 0 && !t.glyphs[d.ligStart].IsLigatureGroupStart() {
		d.ligStart--
	}
	d.ligEnd = partEnd
	for d.ligEnd < len(t.glyphs) && !t.glyphs[d.ligEnd].IsLigatureGroupStart() {
		d.ligEnd++
	}

	totalAdvance := float64(t.advanceForGlyphs(d.ligStart, d.ligStart+1))
	clusterCount := 0
	partClusterIndex := 0
	partClusterCount := 0
	for i := d.ligStart; i < d.ligEnd; i++ {
		if !t.glyphs[i].IsClusterStart() {
			continue
		}
		if i < partStart {
			partClusterIndex++
		} else if i < partEnd {
			partClusterCount++
		}
		clusterCount++
	}
	if clusterCount == 0 {
		clusterCount = 1
	}
	perCluster := totalAdvance / float64(clusterCount)
	d.partAdvance = float64(partClusterIndex) * perCluster
	d.partWidth = float64(partClusterCount) * perCluster
	return d
}

// advanceForGlyphs sums the stored advances of [start, end) without any
// ligature apportionment.
func (t *TextRun) advanceForGlyphs(start, end int) int32 {
	var advance int32
	for i := start; i < end; i++ {
		g := t.glyphs[i]
		if g.IsSimpleGlyph() {
			advance += g.SimpleAdvance()
			continue
		}
		if g.GlyphCount() == 0 {
			continue
		}
		for _, d := range t.DetailedGlyphs(i) {
			advance += d.Advance
		}
	}
	return advance
}
