package segment

import "unicode/utf8"

// DefaultSentencesPerChunk is how many sentences a chunk holds when the
// caller does not choose.
const DefaultSentencesPerChunk = 5

// SentenceBoundaryModel finds sentence ends. It recognizes ASCII
// terminators followed by whitespace or end of text, and CJK full-width
// terminators unconditionally.
type SentenceBoundaryModel struct{}

// Boundaries returns byte offsets just past each detected sentence end.
func (SentenceBoundaryModel) Boundaries(text string) []int {
	var offsets []int

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		switch r {
		case '.', '!', '?':
			// Consume closing quotes or brackets attached to the
			// terminator, then require whitespace or end of text so
			// "3.14" and "v1.2" stay whole.
			end := next
			for end < len(text) {
				cr, csize := utf8.DecodeRuneInString(text[end:])
				if cr == '"' || cr == '\'' || cr == ')' || cr == ']' {
					end += csize
					continue
				}
				break
			}
			if end >= len(text) || isSpace(text, end) {
				offsets = append(offsets, advancePastSpace(text, end))
			}
			i = end
		case '。', '！', '？':
			offsets = append(offsets, advancePastSpace(text, next))
			i = next
		default:
			i = next
		}
	}

	// Boundary offsets must stay within the text so the tail chunk is
	// never empty.
	if n := len(offsets); n > 0 && offsets[n-1] > len(text) {
		offsets[n-1] = len(text)
	}
	return offsets
}

func isSpace(text string, i int) bool {
	switch text[i] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// advancePastSpace extends a boundary over trailing whitespace so the
// whitespace belongs to the preceding chunk and concatenation stays exact.
func advancePastSpace(text string, i int) int {
	for i < len(text) && isSpace(text, i) {
		i++
	}
	return i
}

// SentenceSegmenter groups sentences into chunks.
type SentenceSegmenter struct {
	model             BoundaryModel
	sentencesPerChunk int
}

// SentenceOption configures a SentenceSegmenter.
type SentenceOption func(*SentenceSegmenter)

// WithSentencesPerChunk sets how many sentences each chunk holds.
func WithSentencesPerChunk(n int) SentenceOption {
	return func(s *SentenceSegmenter) {
		if n > 0 {
			s.sentencesPerChunk = n
		}
	}
}

// WithBoundaryModel replaces the sentence boundary detector.
func WithBoundaryModel(m BoundaryModel) SentenceOption {
	return func(s *SentenceSegmenter) {
		if m != nil {
			s.model = m
		}
	}
}

// NewSentenceSegmenter creates a segmenter that chunks by sentence count.
func NewSentenceSegmenter(opts ...SentenceOption) *SentenceSegmenter {
	s := &SentenceSegmenter{
		model:             SentenceBoundaryModel{},
		sentencesPerChunk: DefaultSentencesPerChunk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment splits text into chunks of up to sentencesPerChunk sentences.
// Blank input yields no chunks. Text without any detectable sentence
// boundary comes back as a single chunk.
func (s *SentenceSegmenter) Segment(text string) ([]string, error) {
	if isBlank(text) {
		return nil, nil
	}
	return split(text, s.model.Boundaries(text), s.sentencesPerChunk), nil
}
