package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := HistoryFile(t.TempDir())

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"x = 1", modeEval},
		{"  ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"x = 1", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got := string(data); got != "C:list\nE:x + 1\nE:x = 1\n" {
		t.Errorf("file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_SameLineDifferentMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("list", modeEval)
	_ = h.Add("list", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("a", modeEval)

	if e, err := h.Entry(0); err != nil || e.Line != "a" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	if err := os.WriteFile(path, []byte("plain\n\nC:quit\nE:y\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []HistoryEntry{{"plain", modeEval}, {"quit", modeCtrl}, {"y", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistoryFile(t *testing.T) {
	if got := HistoryFile(""); got != "" {
		t.Errorf(`HistoryFile("") = %q`, got)
	}

	if got := HistoryFile("/c"); got != filepath.Join("/c", baseHistory) {
		t.Errorf("HistoryFile(/c) = %q", got)
	}
}
