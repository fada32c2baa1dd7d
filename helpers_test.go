package typeset

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// testAppUnits is the app units per device pixel used throughout the tests.
const testAppUnits = 60

func newTestEntry(t *testing.T) *FontEntry {
	t.Helper()
	entry, err := NewFontEntry("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontEntry failed: %v", err)
	}
	return entry
}

func newTestFont(t *testing.T, cache *FontCache, size float64) *Font {
	t.Helper()
	style := FontStyle{Size: size}
	f, err := newTestEntry(t).FindOrMakeFont(cache, &style)
	if err != nil {
		t.Fatalf("FindOrMakeFont failed: %v", err)
	}
	return f
}

func encodeUTF16(s string) []uint16 {
	var units []uint16
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			units = append(units, uint16(surrHighStart+(r>>10)), uint16(surrLowStart+(r&0x3FF)))
		} else {
			units = append(units, uint16(r))
		}
	}
	return units
}
