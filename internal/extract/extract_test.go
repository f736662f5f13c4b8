package extract

import (
	"context"
	"errors"
	"testing"

	appErr "github.com/docforge/docforge/internal/pkg/errors"
)

func TestExtract_PlainText(t *testing.T) {
	e := New()
	text, fileType, err := e.Extract(context.Background(), "notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fileType != "text" {
		t.Fatalf("unexpected file type: %s", fileType)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtract_Latin1Fallback(t *testing.T) {
	e := New()
	// 0xE9 is not valid UTF-8 on its own but decodes as 'é' in latin-1.
	text, _, err := e.Extract(context.Background(), "legacy.txt", []byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("decode fallback must not fail: %v", err)
	}
	if text != "café" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtract_MalformedPDF(t *testing.T) {
	e := New()
	_, fileType, err := e.Extract(context.Background(), "broken.PDF", []byte("this is not a pdf"))
	if fileType != "pdf" {
		t.Fatalf("unexpected file type: %s", fileType)
	}
	if !errors.Is(err, appErr.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestIsPDF(t *testing.T) {
	cases := map[string]bool{
		"a.pdf":    true,
		"A.PDF":    true,
		"a.pdf.gz": false,
		"a.txt":    false,
		"pdf":      false,
	}
	for name, want := range cases {
		if got := IsPDF(name); got != want {
			t.Fatalf("IsPDF(%q) = %v, want %v", name, got, want)
		}
	}
}
