package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color and
// emoji support
func NewTerminal(color, emoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("formatter: nil report")
	}

	var b strings.Builder

	if report.Title != "" {
		symbol := termfmt.GetEmoji("summary", f.opts)
		b.WriteString(symbol + " " + report.Title + "\n\n")
	}

	if report.Answer != "" {
		b.WriteString(report.Answer)
		if !strings.HasSuffix(report.Answer, "\n") {
			b.WriteString("\n")
		}
	}

	if len(report.Results) > 0 {
		f.writeResults(&b, report.Results)
	}

	if len(report.Facts) > 0 {
		f.writeFacts(&b, report.Facts)
	}

	return []byte(b.String()), nil
}

// writeResults renders search results as a numbered tree
func (f *terminalFormatter) writeResults(b *strings.Builder, results []string) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(fmt.Sprintf("%s Results (%d)\n", symbol, len(results)))

	items := make([]termfmt.TreeItem, 0, len(results))
	for i, r := range results {
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%d", i+1),
			Value: truncate(r, 200),
			Last:  i == len(results)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts))
	b.WriteString("\n")
}

func (f *terminalFormatter) writeFacts(b *strings.Builder, facts []Fact) {
	items := make([]termfmt.TreeItem, 0, len(facts))
	for i, fact := range facts {
		items = append(items, termfmt.TreeItem{
			Label: fact.Label,
			Value: fact.Value,
			Last:  i == len(facts)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts))
	b.WriteString("\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
