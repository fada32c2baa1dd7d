package typeset

// FontEntry is the heavyweight, shared half of a font: the raw file bytes,
// the parsed face, character coverage and the raw-table cache. One entry
// serves every Font instance created from it, at any size or style, so
// expensive per-file state lives here rather than on Font.
type FontEntry struct {
	name        string
	data        []byte
	backendName string

	face ParsedFace

	// coverage and probed together memoize HasCharacter: probed records
	// which code points have been looked up, coverage which of those the
	// font maps to a real glyph.
	coverage *CharacterMap
	probed   *CharacterMap

	tables tableCache

	weight           int
	italic           bool
	badUnderlineFont bool
}

// FontEntryOption configures a FontEntry.
type FontEntryOption func(*FontEntry)

// WithBackend selects the parsing backend by registry name.
func WithBackend(name string) FontEntryOption {
	return func(e *FontEntry) {
		e.backendName = name
	}
}

// WithWeight records the face's intrinsic weight (as opposed to the weight
// a style requests).
func WithWeight(weight int) FontEntryOption {
	return func(e *FontEntry) {
		e.weight = weight
	}
}

// WithItalic records that the face is intrinsically italic.
func WithItalic(italic bool) FontEntryOption {
	return func(e *FontEntry) {
		e.italic = italic
	}
}

// WithBadUnderline marks a face whose underline metrics are known to be
// wrong, so they get sanitized more aggressively.
func WithBadUnderline() FontEntryOption {
	return func(e *FontEntry) {
		e.badUnderlineFont = true
	}
}

// NewFontEntry parses font data and returns an entry for it. The name is
// used for cache keys and diagnostics; if empty, the face's family name is
// used. The data slice is retained and must not be modified afterwards.
func NewFontEntry(name string, data []byte, opts ...FontEntryOption) (*FontEntry, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	e := &FontEntry{
		name:        name,
		data:        data,
		backendName: defaultBackendName,
		weight:      WeightNormal,
		coverage:    NewCharacterMap(),
		probed:      NewCharacterMap(),
	}
	for _, opt := range opts {
		opt(e)
	}
	backend, err := getBackend(e.backendName)
	if err != nil {
		return nil, err
	}
	face, err := backend.Parse(data)
	if err != nil {
		return nil, err
	}
	e.face = face
	if e.name == "" {
		e.name = face.Name()
	}
	return e, nil
}

// Name returns the entry's face name.
func (e *FontEntry) Name() string {
	return e.name
}

// Data returns the raw font file bytes. Callers must not modify them.
func (e *FontEntry) Data() []byte {
	return e.data
}

// Weight returns the face's intrinsic weight.
func (e *FontEntry) Weight() int {
	return e.weight
}

// IsItalic reports whether the face is intrinsically italic.
func (e *FontEntry) IsItalic() bool {
	return e.italic
}

// IsBadUnderlineFont reports whether the face's underline metrics are
// known bad.
func (e *FontEntry) IsBadUnderlineFont() bool {
	return e.badUnderlineFont
}

// Face returns the parsed face.
func (e *FontEntry) Face() ParsedFace {
	return e.face
}

// HasCharacter reports whether the font maps code point r to a glyph.
// Results are memoized, so steady-state fallback scans never hit the
// backend twice for the same code point.
func (e *FontEntry) HasCharacter(r rune) bool {
	if e.probed.Test(r) {
		return e.coverage.Test(r)
	}
	e.probed.Set(r)
	if e.face.GlyphIndex(r) != 0 {
		e.coverage.Set(r)
		return true
	}
	return false
}

// MapCharToGlyph returns the glyph index for code point r, 0 if unmapped.
func (e *FontEntry) MapCharToGlyph(r rune) GlyphID {
	g := e.face.GlyphIndex(r)
	e.probed.Set(r)
	if g != 0 {
		e.coverage.Set(r)
	}
	return g
}

// FontTable returns the raw bytes of the named table, shared and memoized
// across every Font using this entry. Missing tables return
// ErrTableNotFound, and the miss is cached as well.
func (e *FontEntry) FontTable(tag TableTag) ([]byte, error) {
	return e.tables.get(tag, e.face.Table)
}

// HasFontTable reports whether the font contains the named table.
func (e *FontEntry) HasFontTable(tag TableTag) bool {
	_, err := e.FontTable(tag)
	return err == nil
}

// FindOrMakeFont returns the cached Font for this entry and style,
// creating and caching it on a miss. The returned font is retained for
// the caller, which must balance with Release.
func (e *FontEntry) FindOrMakeFont(cache *FontCache, style *FontStyle) (*Font, error) {
	if f := cache.Lookup(e, style); f != nil {
		return f, nil
	}
	f, err := newFont(cache, e, style)
	if err != nil {
		return nil, err
	}
	if err := cache.AddNew(f); err != nil {
		return nil, err
	}
	f.Retain()
	return f, nil
}
