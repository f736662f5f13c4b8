// Package chunker splits extracted document text into the fixed-size
// windows that get embedded and indexed.
package chunker

// DefaultWindow is the chunk size in characters used for indexing.
const DefaultWindow = 1000

// Split cuts text into consecutive non-overlapping windows of up to
// `window` characters (runes, so a multi-byte character is never split
// across chunks); the final chunk may be shorter. Concatenating the result
// in order reproduces text exactly. Empty text yields nil.
func Split(text string, window int) []string {
	if window <= 0 || len(text) == 0 {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+window-1)/window)
	for start := 0; start < len(runes); start += window {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
