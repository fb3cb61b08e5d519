// Package segment splits document text into retrieval-sized chunks. Every
// chunk is an exact substring of the input and concatenating all chunks in
// order reproduces the input byte for byte, so no text is lost or altered
// on the way into an index.
package segment

import "strings"

// Segmenter splits text into ordered chunks.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// BoundaryModel reports positions in text where a split is allowed. Offsets
// are byte offsets just past a boundary, ascending, each in (0, len(text)].
type BoundaryModel interface {
	Boundaries(text string) []int
}

// isBlank reports whether text contains no non-whitespace characters.
func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// split cuts text at every nth boundary. The tail past the last used
// boundary becomes the final chunk.
func split(text string, boundaries []int, every int) []string {
	if every <= 0 {
		every = 1
	}

	var chunks []string
	start := 0
	for i := every - 1; i < len(boundaries); i += every {
		end := boundaries[i]
		if end <= start {
			continue
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}
