package typeset

import "time"

// Cache timing constants.
const (
	// fontCacheGenerations is the number of expiration generations an
	// unreferenced font passes through before destruction.
	fontCacheGenerations = 3

	// FontTimeoutSeconds is the nominal length of one font expiration
	// generation. An unreferenced font therefore survives between
	// (fontCacheGenerations-1) and fontCacheGenerations times this.
	FontTimeoutSeconds = 10

	// ShapedWordTimeoutSeconds is the cadence at which every font's word
	// cache ages by one cycle.
	ShapedWordTimeoutSeconds = 60
)

// fontCacheKey identifies a Font by its entry and a hash of its style.
// Hash collisions chain within the map value and resolve via FontStyle.Equals.
type fontCacheKey struct {
	entry     *FontEntry
	styleHash uint32
}

// FontCache interns Font instances and owns their lifetime. A font whose
// last reference is released is not destroyed immediately; the cache
// tracks it through fontCacheGenerations expiration generations, and only
// a font still unreferenced when its generation expires is destroyed.
// Looking a font up during the grace period revives it at full strength.
//
// The cache is also the aging driver for every font's shaped-word cache.
// All methods must be called from the owning thread; the cache does no
// locking of its own.
type FontCache struct {
	fonts   map[fontCacheKey][]*Font
	tracker *expirationTracker[*Font]

	corrections map[string]MetricsCorrection

	lastFontAge time.Time
	lastWordAge time.Time
	shutdown    bool
}

// NewFontCache creates an empty font cache.
func NewFontCache() *FontCache {
	c := &FontCache{
		fonts:       make(map[fontCacheKey][]*Font),
		corrections: make(map[string]MetricsCorrection),
		lastFontAge: time.Now(),
		lastWordAge: time.Now(),
	}
	c.tracker = newExpirationTracker[*Font](fontCacheGenerations, c.notifyExpired)
	return c
}

// Lookup returns the cached font for the entry and style, retained for the
// caller, or nil if there is no match. A hit on a font in its expiration
// grace period revives it.
func (c *FontCache) Lookup(entry *FontEntry, style *FontStyle) *Font {
	key := fontCacheKey{entry: entry, styleHash: style.Hash()}
	for _, f := range c.fonts[key] {
		if f.style.Equals(style) {
			return f.Retain()
		}
	}
	return nil
}

// AddNew puts a freshly created font in the cache. Adding a font whose key
// is already mapped silently displaces the old mapping; the displaced font
// keeps working for its holders and is destroyed once they release it.
func (c *FontCache) AddNew(f *Font) error {
	if c.shutdown {
		return ErrCacheShutdown
	}
	key := fontCacheKey{entry: f.entry, styleHash: f.style.Hash()}
	chain := c.fonts[key]
	for i, old := range chain {
		if old.style.Equals(&f.style) {
			chain[i] = f
			return nil
		}
	}
	c.fonts[key] = append(chain, f)
	return nil
}

// notifyReleased takes ownership of a zero-refcount font and starts its
// expiration grace period. After cache shutdown the font is destroyed
// immediately.
func (c *FontCache) notifyReleased(f *Font) {
	if c.shutdown {
		c.destroyFont(f)
		return
	}
	c.tracker.addObject(f)
}

// notifyExpired destroys a font whose grace period ran out.
func (c *FontCache) notifyExpired(f *Font) {
	c.destroyFont(f)
}

// destroyFont removes every cache structure's knowledge of f.
func (c *FontCache) destroyFont(f *Font) {
	key := fontCacheKey{entry: f.entry, styleHash: f.style.Hash()}
	chain := c.fonts[key]
	for i, cached := range chain {
		if cached == f {
			chain[i] = chain[len(chain)-1]
			chain = chain[:len(chain)-1]
			if len(chain) == 0 {
				delete(c.fonts, key)
			} else {
				c.fonts[key] = chain
			}
			break
		}
	}
	f.ClearCachedWords()
	f.destroyed = true
}

// AgeFontGeneration advances font expiration by one generation, destroying
// every font that stayed unreferenced through all of them.
func (c *FontCache) AgeFontGeneration() {
	c.tracker.ageOneGeneration()
}

// AgeCachedWords ages every cached font's word cache by one cycle.
func (c *FontCache) AgeCachedWords() {
	for _, chain := range c.fonts {
		for _, f := range chain {
			f.AgeCachedWords()
		}
	}
}

// Maintain drives both cache clocks from the caller's event loop. Call it
// periodically; it ages font generations every FontTimeoutSeconds and word
// caches every ShapedWordTimeoutSeconds, based on wall time elapsed since
// the previous call.
func (c *FontCache) Maintain() {
	now := time.Now()
	for now.Sub(c.lastFontAge) >= FontTimeoutSeconds*time.Second {
		c.lastFontAge = c.lastFontAge.Add(FontTimeoutSeconds * time.Second)
		c.AgeFontGeneration()
	}
	for now.Sub(c.lastWordAge) >= ShapedWordTimeoutSeconds*time.Second {
		c.lastWordAge = c.lastWordAge.Add(ShapedWordTimeoutSeconds * time.Second)
		c.AgeCachedWords()
	}
}

// Flush empties the lookup table and expires every unreferenced font.
// Fonts still referenced keep working; they are destroyed when released.
func (c *FontCache) Flush() {
	c.fonts = make(map[fontCacheKey][]*Font)
	c.tracker.ageAllGenerations()
}

// FlushShapedWordCaches clears the word cache of every cached font.
func (c *FontCache) FlushShapedWordCaches() {
	for _, chain := range c.fonts {
		for _, f := range chain {
			f.ClearCachedWords()
		}
	}
}

// RegisterMetricsCorrection installs a metrics correction for the named
// face. It applies to fonts whose metrics are computed afterwards.
func (c *FontCache) RegisterMetricsCorrection(faceName string, correction MetricsCorrection) {
	c.corrections[faceName] = correction
}

func (c *FontCache) metricsCorrection(faceName string) (MetricsCorrection, bool) {
	correction, ok := c.corrections[faceName]
	return correction, ok
}

// FontCount returns the number of fonts in the lookup table, including
// those in their expiration grace period.
func (c *FontCache) FontCount() int {
	n := 0
	for _, chain := range c.fonts {
		n += len(chain)
	}
	return n
}

// TrackedFontCount returns the number of unreferenced fonts awaiting
// expiration.
func (c *FontCache) TrackedFontCount() int {
	return c.tracker.count()
}

// Shutdown flushes the cache and rejects further AddNew calls. Fonts
// released afterwards are destroyed immediately.
func (c *FontCache) Shutdown() {
	c.Flush()
	c.shutdown = true
}
