// Package chunker splits document text into size-bounded pieces for the
// embedding model.
package chunker

import "unicode/utf8"

// DefaultChunkSize is the default maximum chunk length in bytes.
const DefaultChunkSize = 10000

// Split cuts text into consecutive, non-overlapping chunks of at most
// maxSize bytes. Joining the chunks in order reproduces text exactly.
// Empty text yields no chunks. A maxSize of zero or less uses
// DefaultChunkSize.
//
// Chunk boundaries never fall inside a UTF-8 sequence. When a boundary would
// split a rune it moves back to the start of that rune, so a chunk of
// non-ASCII text may be shorter than maxSize.
func Split(text string, maxSize int) []string {
	if text == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	chunks := make([]string, 0, (len(text)+maxSize-1)/maxSize)
	for start := 0; start < len(text); {
		end := start + maxSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		cut := end
		for cut > start && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == start {
			// A single rune wider than maxSize; emit it whole.
			_, size := utf8.DecodeRuneInString(text[start:])
			cut = start + size
		}
		chunks = append(chunks, text[start:cut])
		start = cut
	}
	return chunks
}
