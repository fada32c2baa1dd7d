package typeset

import (
	"unicode/utf16"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// Surrogate range constants for UTF-16 handling.
const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrLowEnd    = 0xDFFF
)

// isHighSurrogate reports whether u is the high half of a surrogate pair.
func isHighSurrogate(u uint16) bool {
	return u >= surrHighStart && u < surrLowStart
}

// isLowSurrogate reports whether u is the low half of a surrogate pair.
func isLowSurrogate(u uint16) bool {
	return u >= surrLowStart && u <= surrLowEnd
}

// decodeChar returns the rune starting at text[i] and the number of code
// units it occupies. Unpaired surrogates decode as utf16.DecodeRune does,
// to U+FFFD of length one.
func decodeChar(text []uint16, i int) (rune, int) {
	u := text[i]
	if isHighSurrogate(u) && i+1 < len(text) && isLowSurrogate(text[i+1]) {
		return utf16.DecodeRune(rune(u), rune(text[i+1])), 2
	}
	if isHighSurrogate(u) || isLowSurrogate(u) {
		return 0xFFFD, 1
	}
	return rune(u), 1
}

// DirectionOf resolves the paragraph direction of text from its first
// strongly directional character, per the Unicode bidi algorithm. Text with
// no strong characters is left-to-right.
func DirectionOf(text []uint16) Direction {
	if len(text) == 0 {
		return DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(string(utf16.Decode(text))); err != nil {
		return DirectionLTR
	}
	if _, err := p.Order(); err != nil {
		return DirectionLTR
	}
	if p.IsLeftToRight() {
		return DirectionLTR
	}
	return DirectionRTL
}

// scriptRun is a maximal substring whose characters share one script.
type scriptRun struct {
	start  int
	length int
	script language.Script
}

// splitByScript segments text into runs of uniform script. Characters of
// the Common and Inherited scripts attach to the run in progress, so
// punctuation and digits never break a run on their own. Text that never
// leaves Common (for example "123, 456") comes back as a single Latin run.
func splitByScript(text []uint16) []scriptRun {
	if len(text) == 0 {
		return nil
	}
	var runs []scriptRun
	current := scriptRun{script: language.Common}
	for i := 0; i < len(text); {
		r, n := decodeChar(text, i)
		s := language.LookupScript(r)
		switch {
		case s == language.Common || s == language.Inherited || s == current.script:
			// extend
		case current.script == language.Common:
			// first concrete script seen claims the leading common prefix
			current.script = s
		default:
			current.length = i - current.start
			runs = append(runs, current)
			current = scriptRun{start: i, script: s}
		}
		i += n
	}
	current.length = len(text) - current.start
	if current.script == language.Common {
		current.script = language.Latin
	}
	return append(runs, current)
}
