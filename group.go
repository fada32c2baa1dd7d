package typeset

import "github.com/go-text/typesetting/language"

// FontGroup resolves text against an ordered list of font entries: the
// first entry is the primary font, the rest are fallbacks consulted per
// character. A group borrows its Font instances from a FontCache, so
// groups are cheap and can be created per style.
type FontGroup struct {
	cache   *FontCache
	style   FontStyle
	entries []*FontEntry
}

// NewFontGroup creates a group over the given entries in fallback order.
func NewFontGroup(cache *FontCache, style FontStyle, entries ...*FontEntry) (*FontGroup, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyFamilies
	}
	return &FontGroup{
		cache:   cache,
		style:   style.normalized(),
		entries: append([]*FontEntry(nil), entries...),
	}, nil
}

// Style returns the group's style.
func (g *FontGroup) Style() FontStyle {
	return g.style
}

// PrimaryFont returns the group's first font, retained for the caller.
func (g *FontGroup) PrimaryFont() (*Font, error) {
	return g.entries[0].FindOrMakeFont(g.cache, &g.style)
}

// EntryForChar returns the first entry that covers r, or the primary
// entry when none does, so missing characters still shape into hexboxes
// with primary metrics.
func (g *FontGroup) EntryForChar(r rune) *FontEntry {
	for _, e := range g.entries {
		if e.HasCharacter(r) {
			return e
		}
	}
	return g.entries[0]
}

// MakeTextRun shapes text into a new TextRun. The text is itemized by
// script and by the entry covering each character; every segment shapes
// word by word through the word cache of its font. The returned run holds
// references on its fonts and must be Released.
func (g *FontGroup) MakeTextRun(text []uint16, params *TextRunParams) (*TextRun, error) {
	run := NewTextRun(len(text), params)
	if len(text) == 0 {
		return run, nil
	}

	// single space fast path
	if len(text) == 1 && text[0] == ' ' {
		f, err := g.PrimaryFont()
		if err != nil {
			return nil, err
		}
		run.AddGlyphRun(f, MatchFontGroup, 0, false)
		run.setSpaceGlyph(f, 0, language.Latin)
		f.Release()
		return run, nil
	}

	for _, sr := range splitByScript(text) {
		if err := g.initScriptRun(run, text, sr.start, sr.length, sr.script); err != nil {
			run.Release()
			return nil, err
		}
	}
	run.SanitizeGlyphRuns()
	return run, nil
}

// MakeTextRun8 shapes Latin-1 text. The 8-bit flag keeps the per-word
// cache entries in their narrow representation.
func (g *FontGroup) MakeTextRun8(text []byte, params *TextRunParams) (*TextRun, error) {
	wide := make([]uint16, len(text))
	ascii := true
	for i, b := range text {
		wide[i] = uint16(b)
		if b >= 0x80 {
			ascii = false
		}
	}
	p := *params
	p.Flags |= FlagTextIs8Bit
	if ascii {
		p.Flags |= FlagTextIsASCII
	}
	return g.MakeTextRun(wide, &p)
}

// initScriptRun segments one script run by font coverage and shapes each
// contiguous same-font stretch.
func (g *FontGroup) initScriptRun(run *TextRun, text []uint16, start, length int, script language.Script) error {
	segStart := start
	var segEntry *FontEntry

	flush := func(end int) error {
		if segEntry == nil || segStart == end {
			return nil
		}
		f, err := segEntry.FindOrMakeFont(g.cache, &g.style)
		if err != nil {
			return err
		}
		run.AddGlyphRun(f, MatchFontGroup, segStart, false)
		ok := f.SplitAndInitTextRun(run, text, segStart, end-segStart, script)
		f.Release()
		if !ok {
			return ErrShapingFailed
		}
		return nil
	}

	for i := start; i < start+length; {
		r, size := decodeChar(text, i)
		entry := g.EntryForChar(r)
		if segEntry == nil {
			segEntry = entry
		} else if entry != segEntry {
			if err := flush(i); err != nil {
				return err
			}
			segStart = i
			segEntry = entry
		}
		i += size
	}
	return flush(start + length)
}
