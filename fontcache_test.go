package typeset

import "testing"

func TestFontCacheLookupHitIdentity(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	a, err := entry.FindOrMakeFont(cache, &style)
	if err != nil {
		t.Fatalf("FindOrMakeFont failed: %v", err)
	}
	b, err := entry.FindOrMakeFont(cache, &style)
	if err != nil {
		t.Fatalf("FindOrMakeFont failed: %v", err)
	}
	if a != b {
		t.Error("same entry and style must return the identical Font")
	}
	if a.RefCount() != 2 {
		t.Errorf("RefCount() = %d, want 2", a.RefCount())
	}
	b.Release()
	a.Release()
}

func TestFontCacheDifferentStylesDifferentFonts(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	s16 := FontStyle{Size: 16}
	s24 := FontStyle{Size: 24}

	a, _ := entry.FindOrMakeFont(cache, &s16)
	b, _ := entry.FindOrMakeFont(cache, &s24)
	if a == b {
		t.Error("different sizes must produce different fonts")
	}
	a.Release()
	b.Release()
}

func TestFontCacheGracePeriod(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	f, _ := entry.FindOrMakeFont(cache, &style)
	f.Release()
	if cache.TrackedFontCount() != 1 {
		t.Fatalf("TrackedFontCount() = %d after release, want 1", cache.TrackedFontCount())
	}

	// within the grace period a lookup revives the same instance
	cache.AgeFontGeneration()
	g := cache.Lookup(entry, &style)
	if g != f {
		t.Fatal("lookup within the grace period must revive the same Font")
	}
	if cache.TrackedFontCount() != 0 {
		t.Errorf("revived font must leave the expiration queue")
	}
	if f.destroyed {
		t.Error("revived font must not be destroyed")
	}
	g.Release()
}

func TestFontCacheExpiresUnusedFont(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	f, _ := entry.FindOrMakeFont(cache, &style)
	f.Release()
	for i := 0; i < fontCacheGenerations; i++ {
		cache.AgeFontGeneration()
	}
	if !f.destroyed {
		t.Fatal("unreferenced font must be destroyed after all generations")
	}
	if cache.Lookup(entry, &style) == f {
		t.Error("destroyed font must not be returned by Lookup")
	}
}

func TestFontCacheRetainedFontNeverExpires(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	f, _ := entry.FindOrMakeFont(cache, &style)
	for i := 0; i < 10; i++ {
		cache.AgeFontGeneration()
	}
	if f.destroyed {
		t.Fatal("referenced font must never expire")
	}
	f.Release()
}

func TestFontCacheAddNewDisplaces(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	old, _ := entry.FindOrMakeFont(cache, &style)
	replacement, err := newFont(cache, entry, &style)
	if err != nil {
		t.Fatalf("newFont failed: %v", err)
	}
	if err := cache.AddNew(replacement); err != nil {
		t.Fatalf("AddNew failed: %v", err)
	}
	replacement.Retain()

	if got := cache.Lookup(entry, &style); got != replacement {
		t.Error("AddNew must displace the previous mapping")
	} else {
		got.Release()
	}
	// the displaced font keeps working and dies on release
	old.Release()
	for i := 0; i < fontCacheGenerations; i++ {
		cache.AgeFontGeneration()
	}
	if !old.destroyed {
		t.Error("displaced font must be destroyed after its holders release it")
	}
	replacement.Release()
}

func TestFontCacheFlush(t *testing.T) {
	cache := NewFontCache()
	defer cache.Shutdown()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}
	heldStyle := FontStyle{Size: 24}

	released, _ := entry.FindOrMakeFont(cache, &style)
	released.Release()
	// a same-style lookup here would revive released; a distinct style
	// leaves it unreferenced for Flush to reclaim
	held, _ := entry.FindOrMakeFont(cache, &heldStyle)
	if held == released {
		t.Fatal("distinct styles must yield distinct fonts")
	}

	cache.Flush()
	if !released.destroyed {
		t.Error("Flush must destroy unreferenced fonts")
	}
	if held.destroyed {
		t.Error("Flush must not destroy referenced fonts")
	}
	if cache.FontCount() != 0 {
		t.Errorf("FontCount() = %d after Flush, want 0", cache.FontCount())
	}
	held.Release()
}

func TestFontCacheShutdownDestroysOnRelease(t *testing.T) {
	cache := NewFontCache()
	entry := newTestEntry(t)
	style := FontStyle{Size: 16}

	f, _ := entry.FindOrMakeFont(cache, &style)
	cache.Shutdown()
	f.Release()
	if !f.destroyed {
		t.Error("release after shutdown must destroy immediately")
	}
	if err := cache.AddNew(f); err != ErrCacheShutdown {
		t.Errorf("AddNew after shutdown = %v, want ErrCacheShutdown", err)
	}
}

func TestGlobalFontCache(t *testing.T) {
	if GetFontCache() != nil {
		t.Fatal("global cache must start nil")
	}
	Init()
	if GetFontCache() == nil {
		t.Fatal("Init must install the global cache")
	}
	first := GetFontCache()
	Init()
	if GetFontCache() != first {
		t.Error("second Init must be a no-op")
	}
	Shutdown()
	if GetFontCache() != nil {
		t.Error("Shutdown must clear the global cache")
	}
	Shutdown()
}
