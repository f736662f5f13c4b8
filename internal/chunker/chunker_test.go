package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_RoundTrip(t *testing.T) {
	inputs := []string{
		"hello world",
		strings.Repeat("a", 999),
		strings.Repeat("b", 1000),
		strings.Repeat("c", 1001),
		strings.Repeat("0123456789", 350),
	}
	for _, input := range inputs {
		for _, window := range []int{1, 7, 1000} {
			chunks := Split(input, window)
			if got := strings.Join(chunks, ""); got != input {
				t.Fatalf("window=%d: concatenated chunks do not reproduce input (len %d vs %d)", window, len(got), len(input))
			}
			want := (len(input) + window - 1) / window
			if len(chunks) != want {
				t.Fatalf("window=%d: got %d chunks, want %d", window, len(chunks), want)
			}
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	for _, window := range []int{1, 100, 1000} {
		if chunks := Split("", window); len(chunks) != 0 {
			t.Fatalf("window=%d: expected no chunks for empty input, got %d", window, len(chunks))
		}
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	chunks := Split("hello world", DefaultWindow)
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestSplit_LastChunkShorter(t *testing.T) {
	chunks := Split(strings.Repeat("x", 2500), DefaultWindow)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 1000 || len(chunks[1]) != 1000 || len(chunks[2]) != 500 {
		t.Fatalf("unexpected chunk sizes: %d %d %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestSplit_MultiByteRunesStayIntact(t *testing.T) {
	input := strings.Repeat("héllo wörld ", 200) + "café 日本語"
	for _, window := range []int{1, 3, 1000} {
		chunks := Split(input, window)
		for i, chunk := range chunks {
			if !utf8.ValidString(chunk) {
				t.Fatalf("window=%d: chunk %d contains invalid UTF-8", window, i)
			}
		}
		if got := strings.Join(chunks, ""); got != input {
			t.Fatalf("window=%d: concatenated chunks do not reproduce input", window)
		}
		runeCount := utf8.RuneCountInString(input)
		want := (runeCount + window - 1) / window
		if len(chunks) != want {
			t.Fatalf("window=%d: got %d chunks, want %d", window, len(chunks), want)
		}
	}
}

func TestSplit_InvalidWindow(t *testing.T) {
	if chunks := Split("text", 0); chunks != nil {
		t.Fatalf("expected nil for zero window, got %#v", chunks)
	}
}
