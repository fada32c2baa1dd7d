package typeset

import (
	"math"

	"github.com/go-text/typesetting/language"
)

// Font is a scaled instance of a FontEntry: one entry at one size and
// style. Fonts are created through FontEntry.FindOrMakeFont and live in a
// FontCache, which keeps them alive for a grace period after their last
// reference drops so bursty layout can reacquire them cheaply.
//
// Each Font owns a word cache of shaping results and the per-scale glyph
// extents caches used for measurement.
type Font struct {
	cache *FontCache
	entry *FontEntry
	style FontStyle

	refCount   int
	expiration expirationState
	destroyed  bool

	adjustedSize  float64
	syntheticBold bool
	metrics       *FontMetrics
	spaceGlyph    GlyphID
	spaceProbed   bool

	words *wordCache

	shaper        Shaper
	shaperInit    bool
	builtinShaper *BuiltinShaper

	extents []*GlyphExtents
}

// newFont creates a font for entry at the given style. The font starts
// with a zero reference count; FindOrMakeFont retains it for the caller.
func newFont(cache *FontCache, entry *FontEntry, style *FontStyle) (*Font, error) {
	f := &Font{
		cache: cache,
		entry: entry,
		style: style.normalized(),
	}
	f.adjustedSize = f.style.Size
	if f.style.SizeAdjust > 0 && f.style.Size > 0 {
		aspect := entry.Face().Metrics(f.style.Size).XHeight / f.style.Size
		if aspect > 0 {
			f.adjustedSize = f.style.Size * f.style.SizeAdjust / aspect
		}
	}
	f.syntheticBold = f.style.Weight >= 600 && entry.Weight() < 600
	return f, nil
}

// expirationState implements expirable.
func (f *Font) expirationState() *expirationState {
	return &f.expiration
}

// Retain adds a reference to the font, pulling it out of the expiration
// queue if its grace period had started. Returns the font for chaining.
func (f *Font) Retain() *Font {
	if f.expiration.tracked {
		f.cache.tracker.removeObject(f)
	}
	f.refCount++
	return f
}

// Release drops a reference. When the count reaches zero the font is not
// destroyed; ownership passes to the FontCache, which keeps it for a
// grace period in case it is looked up again.
func (f *Font) Release() {
	if f.refCount == 0 {
		panic("typeset: font released more times than retained")
	}
	f.refCount--
	if f.refCount == 0 {
		f.cache.notifyReleased(f)
	}
}

// RefCount returns the current reference count.
func (f *Font) RefCount() int {
	return f.refCount
}

// Entry returns the shared font resource this font was created from.
func (f *Font) Entry() *FontEntry {
	return f.entry
}

// Style returns the style the font was created for.
func (f *Font) Style() FontStyle {
	return f.style
}

// Name returns the entry's face name.
func (f *Font) Name() string {
	return f.entry.Name()
}

// AdjustedSize returns the size in device pixels the font actually renders
// at, after any SizeAdjust scaling.
func (f *Font) AdjustedSize() float64 {
	return f.adjustedSize
}

// IsSyntheticBold reports whether bold is being synthesized because the
// style asked for a weight the face does not have.
func (f *Font) IsSyntheticBold() bool {
	return f.syntheticBold
}

// Metrics returns the font's resolved metrics, computing them on first use.
func (f *Font) Metrics() *FontMetrics {
	if f.metrics == nil {
		f.metrics = computeMetrics(f)
	}
	return f.metrics
}

// SpaceGlyph returns the glyph for U+0020, 0 if the font has none.
func (f *Font) SpaceGlyph() GlyphID {
	if !f.spaceProbed {
		f.spaceGlyph = f.entry.MapCharToGlyph(' ')
		f.spaceProbed = true
	}
	return f.spaceGlyph
}

// getShaper picks the shaper for a word with the given flags. HarfBuzz
// shaping is the default; the builtin shaper serves speed-optimized words,
// words that must not ligate, and fonts go-text cannot parse.
func (f *Font) getShaper(flags ShapeFlags) Shaper {
	if f.builtinShaper == nil {
		f.builtinShaper = NewBuiltinShaper(f)
	}
	if flags&(FlagOptimizeSpeed|FlagDisableOptionalLigatures) != 0 {
		return f.builtinShaper
	}
	if !f.shaperInit {
		f.shaperInit = true
		if s, err := NewGoTextShaper(f); err == nil {
			f.shaper = s
		}
	}
	if f.shaper != nil {
		return f.shaper
	}
	return f.builtinShaper
}

// shapeWord runs the chosen shaper over the word and applies the
// post-shaping passes: space flagging and synthetic bold widening.
// Returns false if no shaper could handle the word.
func (f *Font) shapeWord(word *ShapedWord) bool {
	shaper := f.getShaper(word.Flags())
	ok := shaper.ShapeWord(word)
	if !ok && shaper != f.builtinShaper {
		ok = f.builtinShaper.ShapeWord(word)
	}
	if !ok {
		return false
	}
	for i := 0; i < word.Length(); i++ {
		if word.CharAt(i) == ' ' {
			word.SetIsSpace(i)
		}
	}
	if f.syntheticBold {
		f.widenForSyntheticBold(word)
	}
	return true
}

// widenForSyntheticBold adds one device pixel of advance to every cluster
// start, matching the smear a renderer applies when emboldening.
func (f *Font) widenForSyntheticBold(word *ShapedWord) {
	extra := word.AppUnitsPerDevUnit()
	for i := range word.glyphs {
		g := &word.glyphs[i]
		switch {
		case g.IsSimpleGlyph():
			advance := g.SimpleAdvance() + extra
			if IsSimpleAdvance(advance) {
				g.SetSimpleGlyph(advance, g.SimpleGlyph())
			}
		case g.GlyphCount() > 0 && g.IsClusterStart():
			details := word.DetailedGlyphs(i)
			details[len(details)-1].Advance += extra
		}
	}
}

// GetShapedWord16 returns the shaped word for 16-bit text, consulting the
// word cache first. Words longer than the cache limit are shaped without
// being cached. Returns nil only if shaping fails outright.
func (f *Font) GetShapedWord16(text []uint16, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) *ShapedWord {
	flags &^= FlagTextIs8Bit
	if len(text) > wordCacheMaxLength {
		w := newShapedWord16(text, script, appUnitsPerDevUnit, flags)
		if !f.shapeWord(w) {
			return nil
		}
		return w
	}
	if f.words == nil {
		f.words = newWordCache()
	}
	key := newWordCacheKey16(text, script, appUnitsPerDevUnit, flags)
	if w := f.words.lookup(key); w != nil {
		return w
	}
	w := newShapedWord16(text, script, appUnitsPerDevUnit, flags)
	if !f.shapeWord(w) {
		return nil
	}
	f.words.add(key, w)
	return w
}

// GetShapedWord8 is GetShapedWord16 for Latin-1 text. ASCII words shaped
// through either entry point share cache entries.
func (f *Font) GetShapedWord8(text []byte, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) *ShapedWord {
	flags |= FlagTextIs8Bit
	if len(text) > wordCacheMaxLength {
		w := newShapedWord8(text, script, appUnitsPerDevUnit, flags)
		if !f.shapeWord(w) {
			return nil
		}
		return w
	}
	if f.words == nil {
		f.words = newWordCache()
	}
	key := newWordCacheKey8(text, script, appUnitsPerDevUnit, flags)
	if w := f.words.lookup(key); w != nil {
		return w
	}
	w := newShapedWord8(text, script, appUnitsPerDevUnit, flags)
	if !f.shapeWord(w) {
		return nil
	}
	f.words.add(key, w)
	return w
}

// AgeCachedWords ages the font's word cache by one cycle, evicting words
// unused for more than shapedWordCacheMaxAge cycles.
func (f *Font) AgeCachedWords() {
	if f.words != nil {
		f.words.ageWords()
	}
}

// ClearCachedWords drops every cached word.
func (f *Font) ClearCachedWords() {
	if f.words != nil {
		f.words.clear()
	}
}

// CachedWordCount returns the number of words currently cached.
func (f *Font) CachedWordCount() int {
	if f.words == nil {
		return 0
	}
	return f.words.size()
}

// GetGlyphExtents returns the extents cache for the given scale, creating
// it on first use. A font is almost always used at one scale, so the
// caches live in a small slice rather than a map.
func (f *Font) GetGlyphExtents(appUnitsPerDevUnit int32) *GlyphExtents {
	for _, e := range f.extents {
		if e.appUnitsPerDevUnit == appUnitsPerDevUnit {
			return e
		}
	}
	e := newGlyphExtents(appUnitsPerDevUnit)
	f.extents = append(f.extents, e)
	return e
}

// SplitAndInitTextRun shapes text[start:start+length] word by word through
// the word cache and copies the results into the run at the same offsets.
// Spaces, tabs and newlines are word boundaries; spaces get their glyph
// set directly when it fits a simple record.
func (f *Font) SplitAndInitTextRun(run *TextRun, text []uint16, start, length int, script language.Script) bool {
	if length == 0 {
		return true
	}
	flags := run.Flags()
	appUnits := run.AppUnitsPerDevUnit()

	wordStart := 0
	for i := 0; i <= length; i++ {
		var ch uint16
		boundary := i == length
		if !boundary {
			ch = text[start+i]
			boundary = ch == ' ' || ch == '\t' || ch == '\n'
		}
		if !boundary {
			continue
		}
		if i > wordStart {
			word := f.getWordFor(text[start+wordStart:start+i], script, appUnits, flags)
			if word == nil {
				return false
			}
			run.copyGlyphDataFromWord(word, start+wordStart)
		}
		switch ch {
		case ' ':
			run.setSpaceGlyph(f, start+i, script)
		case '\t':
			run.SetIsTab(start + i)
		case '\n':
			run.SetIsNewline(start + i)
		}
		wordStart = i + 1
	}
	return true
}

// getWordFor shapes one word, routing Latin-1 text through the 8-bit
// representation so its cache entries stay narrow.
func (f *Font) getWordFor(text []uint16, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) *ShapedWord {
	is8bit := true
	for _, u := range text {
		if u >= 0x100 {
			is8bit = false
			break
		}
	}
	if is8bit {
		bytes8 := make([]byte, len(text))
		for i, u := range text {
			bytes8[i] = byte(u)
		}
		return f.GetShapedWord8(bytes8, script, appUnitsPerDevUnit, flags)
	}
	return f.GetShapedWord16(text, script, appUnitsPerDevUnit, flags)
}

// spaceWidthAppUnits returns the advance of a space at the given scale.
func (f *Font) spaceWidthAppUnits(appUnitsPerDevUnit int32) int32 {
	return int32(math.Round(f.Metrics().SpaceWidth * float64(appUnitsPerDevUnit)))
}
