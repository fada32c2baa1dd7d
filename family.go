package typeset

// FontFamily groups the faces of one family name (regular, bold, italic,
// bold-italic, intermediate weights) and picks the face closest to a
// requested style.
type FontFamily struct {
	name    string
	entries []*FontEntry
}

// NewFontFamily creates an empty family.
func NewFontFamily(name string) *FontFamily {
	return &FontFamily{name: name}
}

// Name returns the family name.
func (f *FontFamily) Name() string {
	return f.name
}

// AddEntry adds a face to the family.
func (f *FontFamily) AddEntry(e *FontEntry) {
	f.entries = append(f.entries, e)
}

// Entries returns the family's faces.
func (f *FontFamily) Entries() []*FontEntry {
	return f.entries
}

// FindEntryForStyle returns the face best matching the style, or nil for
// an empty family. Italic mismatch costs more than any weight distance,
// so an italic request only falls back to an upright face when the family
// has no italic at all.
func (f *FontFamily) FindEntryForStyle(style FontStyle) *FontEntry {
	style = style.normalized()
	var best *FontEntry
	bestScore := int(^uint(0) >> 1)
	for _, e := range f.entries {
		score := weightDistance(e.Weight(), style.Weight)
		if e.IsItalic() != style.Italic {
			score += 1000
		}
		if score < bestScore {
			bestScore = score
			best = e
		}
	}
	return best
}

// weightDistance scores how far a face weight is from the requested one.
// Heavier-than-requested faces are slightly preferred when the request is
// bold, lighter ones when it is not.
func weightDistance(have, want int) int {
	d := have - want
	switch {
	case d == 0:
		return 0
	case d < 0:
		d = -d
		if want >= 600 {
			d++
		}
	default:
		if want < 600 {
			d++
		}
	}
	return d
}
