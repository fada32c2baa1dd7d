package typeset

import (
	"testing"

	"github.com/go-text/typesetting/language"
)

// newLigatureRun builds a four character run where characters 0..2 form a
// ligature (one glyph, advance 600, on the first character) followed by a
// simple glyph of advance 900.
func newLigatureRun() *TextRun {
	run := NewTextRun(4, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	var lig CompressedGlyph
	lig.SetComplex(true, true, 1)
	run.SetGlyphs(0, lig, []DetailedGlyph{{GlyphID: 77, Advance: 600}})
	var cont CompressedGlyph
	cont.SetComplex(true, false, 0)
	run.SetGlyphs(1, cont, nil)
	run.SetGlyphs(2, cont, nil)
	run.SetSimpleGlyph(3, 900, 5)
	return run
}

func TestCopyGlyphDataFromWordPreservesBreaks(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	f := newTestFont(t, cache, 16)
	defer f.Release()

	word := f.GetShapedWord8([]byte("ab"), language.Latin, testAppUnits, 0)
	if word == nil {
		t.Fatal("shaping failed")
	}
	run := NewTextRun(2, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.CharacterGlyphs()[1].SetCanBreakBefore(BreakTypeNormal)
	run.copyGlyphDataFromWord(word, 0)

	glyphs := run.CharacterGlyphs()
	if glyphs[1].CanBreakBefore() != BreakTypeNormal {
		t.Error("copying a word must preserve recorded break opportunities")
	}
	if glyphs[0].CanBreakBefore() != BreakTypeNone {
		t.Error("characters without recorded breaks must stay unbreakable")
	}
	if glyphs[0].IsMissing() || glyphs[1].IsMissing() {
		t.Error("copied characters must carry the word's glyph data")
	}
}

func TestSetIsTabPromotesSimpleRecord(t *testing.T) {
	run := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.SetSimpleGlyph(0, 480, 3)
	run.SetIsTab(0)

	g := run.CharacterGlyphs()[0]
	if g.IsSimpleGlyph() {
		t.Fatal("tab flag requires a complex record")
	}
	if !g.CharIsTab() {
		t.Error("CharIsTab() = false after SetIsTab")
	}
	if g.GlyphCount() != 1 {
		t.Fatalf("GlyphCount() = %d, want 1", g.GlyphCount())
	}
	d := run.DetailedGlyphs(0)
	if d[0].GlyphID != 3 || d[0].Advance != 480 {
		t.Errorf("promoted detail = %+v, want glyph 3 advance 480", d[0])
	}
	if run.advanceForGlyphs(0, 1) != 480 {
		t.Errorf("advance = %d after promotion, want 480", run.advanceForGlyphs(0, 1))
	}
}

func TestSetIsNewlineOnZeroedRecord(t *testing.T) {
	run := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.SetIsNewline(0)
	if !run.CharacterGlyphs()[0].CharIsNewline() {
		t.Error("CharIsNewline() = false after SetIsNewline")
	}
}

func TestSetMissingGlyphRecordsChar(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	f := newTestFont(t, cache, 16)
	defer f.Release()

	run := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.SetMissingGlyph(0, 0x12345, f)

	g := run.CharacterGlyphs()[0]
	if !g.IsMissing() {
		t.Fatal("IsMissing() = false")
	}
	d := run.DetailedGlyphs(0)
	if rune(d[0].GlyphID) != 0x12345 {
		t.Errorf("stored char = %#x, want 0x12345", d[0].GlyphID)
	}
	if d[0].Advance <= 0 {
		t.Error("missing visible char must reserve hexbox advance")
	}
}

func TestAddGlyphRunMergeAndReplace(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	a := newTestFont(t, cache, 16)
	defer a.Release()
	b := newTestFont(t, cache, 24)
	defer b.Release()

	run := NewTextRun(10, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.AddGlyphRun(a, MatchFontGroup, 0, false)
	run.AddGlyphRun(a, MatchFontGroup, 4, false)
	if len(run.GlyphRuns()) != 1 {
		t.Fatalf("len(GlyphRuns()) = %d after same-font add, want 1", len(run.GlyphRuns()))
	}
	run.AddGlyphRun(b, MatchFontGroup, 4, false)
	if len(run.GlyphRuns()) != 2 {
		t.Fatalf("len(GlyphRuns()) = %d, want 2", len(run.GlyphRuns()))
	}
	// same offset replaces
	run.AddGlyphRun(a, MatchFontGroup, 4, false)
	if run.FontAt(7) != a {
		t.Error("FontAt(7) must be the replacing font")
	}
	run.SanitizeGlyphRuns()
	if len(run.GlyphRuns()) != 1 {
		t.Fatalf("len(GlyphRuns()) = %d after sanitize, want 1 merged run", len(run.GlyphRuns()))
	}
	run.Release()
}

func TestAddGlyphRunOutOfOrderPanics(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	f := newTestFont(t, cache, 16)
	defer f.Release()

	run := NewTextRun(10, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	defer run.Release()
	run.AddGlyphRun(f, MatchFontGroup, 5, false)
	defer func() {
		if recover() == nil {
			t.Error("adding a glyph run before the previous offset must panic")
		}
	}()
	run.AddGlyphRun(f, MatchFontGroup, 2, false)
}

func TestAddGlyphRunForceNewRunOutOfOrder(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	a := newTestFont(t, cache, 16)
	defer a.Release()
	b := newTestFont(t, cache, 24)
	defer b.Release()

	run := NewTextRun(10, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.AddGlyphRun(b, MatchSystemFallback, 5, true)
	run.AddGlyphRun(a, MatchFontGroup, 0, true)
	run.SanitizeGlyphRuns()

	runs := run.GlyphRuns()
	if len(runs) != 2 {
		t.Fatalf("len(GlyphRuns()) = %d after sanitize, want 2", len(runs))
	}
	if runs[0].Font != a || runs[0].CharacterOffset != 0 {
		t.Errorf("runs[0] = %+v, want font a at 0", runs[0])
	}
	if runs[1].Font != b || runs[1].CharacterOffset != 5 {
		t.Errorf("runs[1] = %+v, want font b at 5", runs[1])
	}
	if runs[1].MatchType != MatchSystemFallback {
		t.Errorf("runs[1].MatchType = %d, want MatchSystemFallback", runs[1].MatchType)
	}
	run.Release()
}

func TestSetFlagBits(t *testing.T) {
	run := NewTextRun(4, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	defer run.Release()

	run.SetFlagBits(FlagNeedBoundingBox)
	if run.Flags()&FlagNeedBoundingBox == 0 {
		t.Error("FlagNeedBoundingBox must be set")
	}
	run.ClearFlagBits(FlagNeedBoundingBox)
	if run.Flags()&FlagNeedBoundingBox != 0 {
		t.Error("FlagNeedBoundingBox must be cleared")
	}
	defer func() {
		if recover() == nil {
			t.Error("setting a creation-time flag after construction must panic")
		}
	}()
	run.SetFlagBits(FlagTextIsRTL)
}

func TestAddGlyphRunReplaceMergesIntoPredecessor(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	a := newTestFont(t, cache, 16)
	defer a.Release()
	b := newTestFont(t, cache, 24)
	defer b.Release()

	run := NewTextRun(10, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.AddGlyphRun(a, MatchFontGroup, 0, false)
	run.AddGlyphRun(b, MatchFontGroup, 4, false)
	run.AddGlyphRun(b, MatchFontGroup, 8, false)
	if len(run.GlyphRuns()) != 2 {
		t.Fatalf("len(GlyphRuns()) = %d, want 2", len(run.GlyphRuns()))
	}
	if run.FontAt(0) != a || run.FontAt(5) != b || run.FontAt(9) != b {
		t.Error("FontAt must follow glyph run offsets")
	}
	run.Release()
}

func TestSanitizeGlyphRuns(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	a := newTestFont(t, cache, 16)
	defer a.Release()
	b := newTestFont(t, cache, 24)
	defer b.Release()

	run := NewTextRun(6, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.glyphRuns = []GlyphRun{
		{Font: a.Retain(), CharacterOffset: 0},
		{Font: b.Retain(), CharacterOffset: 3},
		{Font: b.Retain(), CharacterOffset: 3},
		{Font: a.Retain(), CharacterOffset: 6},
	}
	run.SanitizeGlyphRuns()

	runs := run.GlyphRuns()
	if len(runs) != 2 {
		t.Fatalf("len(GlyphRuns()) = %d after sanitize, want 2", len(runs))
	}
	if runs[0].Font != a || runs[0].CharacterOffset != 0 {
		t.Errorf("runs[0] = %+v, want font a at 0", runs[0])
	}
	if runs[1].Font != b || runs[1].CharacterOffset != 3 {
		t.Errorf("runs[1] = %+v, want font b at 3", runs[1])
	}
	run.Release()
}

func TestReleaseDropsFontReferences(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	f := newTestFont(t, cache, 16)

	run := NewTextRun(4, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.AddGlyphRun(f, MatchFontGroup, 0, false)
	f.Release()
	if f.RefCount() != 1 {
		t.Fatalf("RefCount() = %d while held by the run, want 1", f.RefCount())
	}
	run.Release()
	if f.RefCount() != 0 {
		t.Errorf("RefCount() = %d after run release, want 0", f.RefCount())
	}
	// Release is idempotent
	run.Release()
}

func TestTextRunDirection(t *testing.T) {
	ltr := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	if ltr.Direction() != DirectionLTR || ltr.Direction().String() != "LTR" {
		t.Errorf("Direction() = %v, want LTR", ltr.Direction())
	}
	rtl := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits, Flags: FlagTextIsRTL})
	if rtl.Direction() != DirectionRTL || rtl.Direction().String() != "RTL" {
		t.Errorf("Direction() = %v, want RTL", rtl.Direction())
	}
}

func TestSetLineBreaksReportsChange(t *testing.T) {
	run := NewTextRun(4, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	breaks := []uint8{BreakTypeNone, BreakTypeNormal, BreakTypeNone, BreakTypeHyphen}
	if !run.SetLineBreaks(0, 4, breaks) {
		t.Error("first SetLineBreaks with real breaks must report a change")
	}
	if run.SetLineBreaks(0, 4, breaks) {
		t.Error("repeating identical breaks must report no change")
	}
	glyphs := run.CharacterGlyphs()
	if glyphs[1].CanBreakBefore() != BreakTypeNormal {
		t.Errorf("CanBreakBefore(1) = %d, want BreakTypeNormal", glyphs[1].CanBreakBefore())
	}
	if glyphs[3].CanBreakBefore() != BreakTypeHyphen {
		t.Errorf("CanBreakBefore(3) = %d, want BreakTypeHyphen", glyphs[3].CanBreakBefore())
	}
}

func TestClusterIterator(t *testing.T) {
	run := NewTextRun(4, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.SetSimpleGlyph(0, 100, 1)
	var cont CompressedGlyph
	cont.SetComplex(false, false, 0)
	run.SetGlyphs(1, cont, nil)
	run.SetSimpleGlyph(2, 100, 2)
	run.SetSimpleGlyph(3, 100, 3)

	var got [][2]int
	it := run.Clusters(0, 4)
	for it.Next() {
		s, e := it.Cluster()
		got = append(got, [2]int{s, e})
	}
	want := [][2]int{{0, 2}, {2, 3}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("clusters = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cluster %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAdvanceWidthApportionsLigature(t *testing.T) {
	run := newLigatureRun()

	cases := []struct {
		start, end int
		want       float64
	}{
		{0, 4, 1500},
		{0, 3, 600},
		{1, 2, 200},
		{0, 2, 400},
		{2, 4, 1100},
		{3, 4, 900},
		{1, 1, 0},
	}
	for _, c := range cases {
		if got := run.AdvanceWidth(c.start, c.end); got != c.want {
			t.Errorf("AdvanceWidth(%d, %d) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestComputeLigatureData(t *testing.T) {
	run := newLigatureRun()
	d := run.computeLigatureData(1, 2)
	if d.ligStart != 0 || d.ligEnd != 3 {
		t.Errorf("ligature bounds = [%d, %d), want [0, 3)", d.ligStart, d.ligEnd)
	}
	if d.partAdvance != 200 {
		t.Errorf("partAdvance = %v, want 200", d.partAdvance)
	}
	if d.partWidth != 200 {
		t.Errorf("partWidth = %v, want 200", d.partWidth)
	}
}

func TestBreakAndMeasureText(t *testing.T) {
	run := NewTextRun(5, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	for i := 0; i < 5; i++ {
		run.SetSimpleGlyph(i, 100, GlyphID(i+1))
	}
	run.SetLineBreaks(0, 5, []uint8{BreakTypeNone, BreakTypeNone, BreakTypeNormal, BreakTypeNone, BreakTypeNone})

	charsFit, fitAdvance := run.BreakAndMeasureText(0, 5, 250)
	if charsFit != 2 || fitAdvance != 200 {
		t.Errorf("BreakAndMeasureText(250) = (%d, %v), want (2, 200)", charsFit, fitAdvance)
	}

	charsFit, fitAdvance = run.BreakAndMeasureText(0, 5, 600)
	if charsFit != 5 || fitAdvance != 500 {
		t.Errorf("BreakAndMeasureText(600) = (%d, %v), want (5, 500)", charsFit, fitAdvance)
	}

	charsFit, fitAdvance = run.BreakAndMeasureText(0, 5, 150)
	if charsFit != 0 || fitAdvance != 0 {
		t.Errorf("BreakAndMeasureText(150) = (%d, %v), want (0, 0)", charsFit, fitAdvance)
	}
}

func TestSetGlyphsPreservesSpaceFlag(t *testing.T) {
	run := NewTextRun(1, &TextRunParams{AppUnitsPerDevUnit: testAppUnits})
	run.CharacterGlyphs()[0].SetIsSpace()

	var g CompressedGlyph
	g.SetComplex(true, true, 1)
	run.SetGlyphs(0, g, []DetailedGlyph{{GlyphID: 9, Advance: 300}})
	if !run.CharacterGlyphs()[0].CharIsSpace() {
		t.Error("SetGlyphs must preserve the space flag on the target record")
	}
}
