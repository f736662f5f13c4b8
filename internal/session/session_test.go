package session

import "testing"

func TestManager_Reset(t *testing.T) {
	m := NewManager()
	first := m.Current()
	if first == "" {
		t.Fatal("expected non-empty session id")
	}
	if m.Current() != first {
		t.Fatal("session id must be stable between calls")
	}
	second := m.Reset()
	if second == first {
		t.Fatal("reset must produce a fresh session id")
	}
	if m.Current() != second {
		t.Fatal("current id must reflect the reset")
	}
}
