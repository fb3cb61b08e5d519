package formatter

import (
	"encoding/json"
	"fmt"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("formatter: nil report")
	}
	return json.MarshalIndent(report, "", "  ")
}
