package typeset

import (
	"testing"

	"github.com/go-text/typesetting/language"
)

func TestSplitByScriptSingleRun(t *testing.T) {
	runs := splitByScript(encodeUTF16("Hello, world!"))
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].script != language.Latin {
		t.Errorf("script = %v, want Latin", runs[0].script)
	}
	if runs[0].start != 0 || runs[0].length != 13 {
		t.Errorf("run = [%d:%d]", runs[0].start, runs[0].start+runs[0].length)
	}
}

func TestSplitByScriptMixed(t *testing.T) {
	text := encodeUTF16("abcאב")
	runs := splitByScript(text)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].script != language.Latin || runs[0].length != 3 {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].script != language.Hebrew || runs[1].start != 3 || runs[1].length != 2 {
		t.Errorf("second run = %+v", runs[1])
	}
}

func TestSplitByScriptCommonOnly(t *testing.T) {
	runs := splitByScript(encodeUTF16("123 456"))
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].script != language.Latin {
		t.Errorf("common-only text must default to Latin, got %v", runs[0].script)
	}
}

func TestSplitByScriptLeadingCommon(t *testing.T) {
	runs := splitByScript(encodeUTF16("\"אב\""))
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].script != language.Hebrew {
		t.Errorf("leading punctuation must join the Hebrew run, got %v", runs[0].script)
	}
}

func TestSplitByScriptEmpty(t *testing.T) {
	if runs := splitByScript(nil); runs != nil {
		t.Errorf("empty text must produce no runs, got %d", len(runs))
	}
}

func TestDecodeChar(t *testing.T) {
	text := encodeUTF16("a\U0001F600")
	r, n := decodeChar(text, 0)
	if r != 'a' || n != 1 {
		t.Errorf("decodeChar(0) = %#x,%d", r, n)
	}
	r, n = decodeChar(text, 1)
	if r != 0x1F600 || n != 2 {
		t.Errorf("decodeChar(1) = %#x,%d, want U+1F600,2", r, n)
	}
	// unpaired high surrogate
	r, n = decodeChar([]uint16{0xD83D}, 0)
	if r != 0xFFFD || n != 1 {
		t.Errorf("unpaired surrogate = %#x,%d, want U+FFFD,1", r, n)
	}
}
