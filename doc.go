// Package typeset provides font shaping and glyph caching for text layout.
//
// # Overview
//
// typeset implements the lower half of a text pipeline: it turns code units
// into positioned glyphs and keeps the expensive intermediate results cached.
// It does not rasterize; rendering backends consume the glyph records that
// TextRun produces.
//
// The pipeline follows a separation of concerns:
//
//   - FontEntry: Heavyweight, shared font resource (raw bytes, cmap, tables)
//   - Font: Lightweight scaled instance at a specific size and style
//   - Shaper: Pluggable shaping backend (default: go-text/typesetting HarfBuzz)
//   - TextRun: Immutable sequence of positioned glyphs for a piece of text
//
// # Quick Start
//
//	cache := typeset.NewFontCache()
//	defer cache.Shutdown()
//
//	entry, err := typeset.NewFontEntry("Go Regular", goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	style := typeset.FontStyle{Size: 16}
//	group, err := typeset.NewFontGroup(cache, style, entry)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	run, err := group.MakeTextRun([]uint16{'H', 'i'}, &typeset.TextRunParams{
//	    AppUnitsPerDevUnit: 60,
//	})
//
// # Caching
//
// Two caches keep steady-state layout cheap. Each Font owns a word cache
// mapping shaped words to their glyph records, aged on a fixed cadence so
// idle entries expire. A FontCache keeps unreferenced Font instances alive
// across a short grace period so bursty layout does not rebuild them.
//
// # Compressed glyph records
//
// The common case (one glyph per character, small positive advance, no
// offsets) packs into a single 32-bit CompressedGlyph. Everything else
// spills into a DetailedGlyphStore side table. See CompressedGlyph for the
// exact layout.
package typeset
