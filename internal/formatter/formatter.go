// Package formatter renders command output for terminals and pipelines.
package formatter

// Report is the renderable outcome of one command: an answer from the
// agent, a list of search results, or a set of labeled facts.
type Report struct {
	Title   string   `json:"title,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Results []string `json:"results,omitempty"`
	Facts   []Fact   `json:"facts,omitempty"`
}

// Fact is one labeled value in a report.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns a formatter for the named format. Unknown names fall back to
// the terminal formatter.
func New(format string, color, emoji bool) Formatter {
	switch format {
	case "json":
		return NewJSON()
	default:
		return NewTerminal(color, emoji)
	}
}
