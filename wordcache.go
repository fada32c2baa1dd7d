package typeset

import (
	"hash/fnv"

	"github.com/go-text/typesetting/language"
)

// Word cache tuning constants.
const (
	// shapedWordCacheMaxAge is how many aging cycles an unused word
	// survives before eviction.
	shapedWordCacheMaxAge = 3

	// wordCacheMaxLength is the longest word, in code units, that gets
	// cached. Longer stretches without spaces are shaped directly into
	// their text run.
	wordCacheMaxLength = 32
)

// wordCacheKey carries everything that must match for a cached ShapedWord
// to be reused. The text itself is compared against the stored word, so
// only its hash lives in the key.
type wordCacheKey struct {
	textHash           uint64
	text8              []byte
	text16             []uint16
	script             language.Script
	appUnitsPerDevUnit int32
	flags              ShapeFlags
}

// newWordCacheKey8 builds a lookup key for 8-bit text.
func newWordCacheKey8(text []byte, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) wordCacheKey {
	return wordCacheKey{
		textHash:           hashChars8(text),
		text8:              text,
		script:             script,
		appUnitsPerDevUnit: appUnitsPerDevUnit,
		flags:              flags.cacheKeyFlags(),
	}
}

// newWordCacheKey16 builds a lookup key for 16-bit text.
func newWordCacheKey16(text []uint16, script language.Script, appUnitsPerDevUnit int32, flags ShapeFlags) wordCacheKey {
	return wordCacheKey{
		textHash:           hashChars16(text),
		text16:             text,
		script:             script,
		appUnitsPerDevUnit: appUnitsPerDevUnit,
		flags:              flags.cacheKeyFlags(),
	}
}

// length returns the key's text length in code units.
func (k *wordCacheKey) length() int {
	if k.text8 != nil {
		return len(k.text8)
	}
	return len(k.text16)
}

// charAt returns the key's code unit at index i.
func (k *wordCacheKey) charAt(i int) uint16 {
	if k.text8 != nil {
		return uint16(k.text8[i])
	}
	return k.text16[i]
}

// hashChars8 hashes 8-bit text code unit by code unit, widening each to
// two little-endian bytes so ASCII text hashes identically in the 8-bit
// and 16-bit representations.
func hashChars8(text []byte) uint64 {
	h := fnv.New64a()
	buf := [2]byte{}
	for _, c := range text {
		buf[0] = c
		buf[1] = 0
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// hashChars16 hashes 16-bit text as two little-endian bytes per code unit.
func hashChars16(text []uint16) uint64 {
	h := fnv.New64a()
	buf := [2]byte{}
	for _, c := range text {
		buf[0] = byte(c)
		buf[1] = byte(c >> 8)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// matches reports whether the cached word w was shaped from the same text
// with the same parameters the key describes. Hash equality is not enough;
// the stored text is compared unit by unit.
func (k *wordCacheKey) matches(w *ShapedWord) bool {
	if w.script != k.script ||
		w.appUnitsPerDevUnit != k.appUnitsPerDevUnit ||
		w.flags.cacheKeyFlags() != k.flags {
		return false
	}
	n := k.length()
	if w.Length() != n {
		return false
	}
	for i := 0; i < n; i++ {
		if w.CharAt(i) != k.charAt(i) {
			return false
		}
	}
	return true
}

// wordCache maps shaped-word keys to cached ShapedWords. Hash collisions
// chain within a bucket and are resolved by full key comparison, so a
// colliding insert never displaces an unrelated word.
type wordCache struct {
	buckets map[uint64][]*ShapedWord
}

func newWordCache() *wordCache {
	return &wordCache{buckets: make(map[uint64][]*ShapedWord)}
}

// lookup returns the cached word for key, or nil. A hit resets the word's
// age so the next sweep sees it as fresh.
func (c *wordCache) lookup(key wordCacheKey) *ShapedWord {
	for _, w := range c.buckets[key.textHash] {
		if key.matches(w) {
			w.resetAge()
			return w
		}
	}
	return nil
}

// add stores a freshly shaped word under key. If an equal key is already
// present its word is silently displaced; callers racing to shape the same
// word both succeed and the last one in wins.
func (c *wordCache) add(key wordCacheKey, w *ShapedWord) {
	chain := c.buckets[key.textHash]
	for i, old := range chain {
		if key.matches(old) {
			chain[i] = w
			return
		}
	}
	c.buckets[key.textHash] = append(chain, w)
}

// ageWords bumps the age of every cached word and drops the ones that have
// gone unused for more than shapedWordCacheMaxAge cycles.
func (c *wordCache) ageWords() {
	for hash, chain := range c.buckets {
		kept := chain[:0]
		for _, w := range chain {
			if w.incrementAge() <= shapedWordCacheMaxAge {
				kept = append(kept, w)
			}
		}
		if len(kept) == 0 {
			delete(c.buckets, hash)
		} else {
			c.buckets[hash] = kept
		}
	}
}

// clear drops every cached word.
func (c *wordCache) clear() {
	c.buckets = make(map[uint64][]*ShapedWord)
}

// size returns the number of cached words.
func (c *wordCache) size() int {
	n := 0
	for _, chain := range c.buckets {
		n += len(chain)
	}
	return n
}
