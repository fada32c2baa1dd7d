package typeset

// globalFontCache is the process-wide cache installed by Init. Libraries
// embedding typeset can ignore it and pass their own FontCache everywhere;
// the global exists for applications that want one shared cache without
// plumbing.
var globalFontCache *FontCache

// Init installs the global font cache. Calling it again is a no-op.
func Init() {
	if globalFontCache == nil {
		globalFontCache = NewFontCache()
	}
}

// Shutdown tears down the global font cache. It is safe to call even if
// Init was never called.
func Shutdown() {
	if globalFontCache != nil {
		globalFontCache.Shutdown()
		globalFontCache = nil
	}
}

// GetFontCache returns the global font cache, or nil before Init.
func GetFontCache() *FontCache {
	return globalFontCache
}
