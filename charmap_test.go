package typeset

import "testing"

func TestCharacterMapSetTest(t *testing.T) {
	m := NewCharacterMap()
	if m.Test('A') {
		t.Error("empty map must not contain anything")
	}
	m.Set('A')
	m.Set(0x4E2D)
	m.Set(0x1F600)
	for _, r := range []rune{'A', 0x4E2D, 0x1F600} {
		if !m.Test(r) {
			t.Errorf("Test(%#x) = false after Set", r)
		}
	}
	if m.Test('B') || m.Test(0x4E2E) {
		t.Error("neighbouring code points must not be set")
	}
}

func TestCharacterMapSetRange(t *testing.T) {
	m := NewCharacterMap()
	m.SetRange('a', 'z')
	if got := m.Count(); got != 26 {
		t.Errorf("Count() = %d, want 26", got)
	}
	if !m.Test('a') || !m.Test('z') || m.Test('A') {
		t.Error("range bounds wrong")
	}
}

func TestCharacterMapBlockBoundary(t *testing.T) {
	m := NewCharacterMap()
	m.SetRange(0xFF, 0x100)
	if !m.Test(0xFF) || !m.Test(0x100) {
		t.Error("set must work across block boundaries")
	}
	if got := m.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
