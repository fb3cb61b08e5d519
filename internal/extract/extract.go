// Package extract turns source documents into plain text for segmentation.
// Only plain-text formats are handled here; binary formats like PDF are
// expected to be converted by an external tool before ingestion.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor produces plain text from a document file.
type Extractor interface {
	Extract(path string) (string, error)
	Supports(path string) bool
}

// TextExtractor reads plain-text documents as-is.
type TextExtractor struct{}

// Supports reports whether the file extension is a plain-text format.
func (TextExtractor) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text", ".markdown":
		return true
	}
	return false
}

// Extract reads the file and normalizes its line endings.
func (e TextExtractor) Extract(path string) (string, error) {
	if !e.Supports(path) {
		return "", fmt.Errorf("extract: unsupported format %q; convert to plain text first", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract: read %s: %w", path, err)
	}

	return NormalizeLines(string(data)), nil
}

// NormalizeLines converts CRLF and lone CR line endings to LF so downstream
// segmentation sees one newline convention.
func NormalizeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ForFile returns an extractor for the given path, or an error naming the
// unsupported format.
func ForFile(path string) (Extractor, error) {
	e := TextExtractor{}
	if e.Supports(path) {
		return e, nil
	}
	return nil, fmt.Errorf("extract: no extractor for %q; PDF and other binary formats must be converted to text externally", filepath.Ext(path))
}
