package segment

import "strings"

// DefaultLinesPerChunk is how many lines a chunk holds when the caller
// does not choose.
const DefaultLinesPerChunk = 20

// LineGroupSegmenter chunks text by line count. It suits log-like or
// pre-formatted documents where sentence detection is meaningless.
type LineGroupSegmenter struct {
	linesPerChunk int
}

// NewLineGroupSegmenter creates a segmenter grouping n lines per chunk.
// Non-positive n falls back to the default.
func NewLineGroupSegmenter(n int) *LineGroupSegmenter {
	if n <= 0 {
		n = DefaultLinesPerChunk
	}
	return &LineGroupSegmenter{linesPerChunk: n}
}

// Segment splits text at every nth newline. Chunks keep their trailing
// newlines so concatenation reproduces the input exactly.
func (s *LineGroupSegmenter) Segment(text string) ([]string, error) {
	if isBlank(text) {
		return nil, nil
	}

	var boundaries []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			boundaries = append(boundaries, i+1)
		}
	}
	if n := len(boundaries); n > 0 && boundaries[n-1] == len(text) {
		// A trailing newline ends the last line; it is not the start of
		// another one.
		boundaries = boundaries[:n-1]
	}

	return split(text, boundaries, s.linesPerChunk), nil
}

var _ Segmenter = (*SentenceSegmenter)(nil)
var _ Segmenter = (*LineGroupSegmenter)(nil)

// ForContent picks a segmenter by a rough shape heuristic: text where most
// lines are short and unpunctuated chunks by lines, prose chunks by
// sentences.
func ForContent(text string) Segmenter {
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		return NewSentenceSegmenter()
	}

	short := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 0 && len(trimmed) < 60 && !strings.ContainsAny(trimmed, ".!?") {
			short++
		}
	}
	if short*2 > len(lines) {
		return NewLineGroupSegmenter(DefaultLinesPerChunk)
	}
	return NewSentenceSegmenter()
}
