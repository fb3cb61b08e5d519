// Package dataset loads and models the job-posting collection that search
// runs over. Records keep their file order; index row i always refers to
// record i.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Record is one job posting. Postings arrive as loosely-typed JSON objects
// and are kept that way; Field stringifies values on access.
type Record map[string]interface{}

// Field returns the named field rendered as a string. Missing fields come
// back empty. Numbers render without a float suffix so "4" never becomes
// "4.000000".
func (r Record) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Fields lists the searchable record fields in their canonical order.
func Fields() []string {
	return []string{
		"company",
		"rating",
		"location",
		"positionName",
		"description",
		"salary",
		"jobType",
	}
}

// Load reads a JSON array of postings from path. Every record must carry a
// position name and a description; anything else is a malformed dataset,
// not a record to skip, because silent skips would shift positional ids.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}

	for i, r := range records {
		if strings.TrimSpace(r.Field("positionName")) == "" {
			return nil, fmt.Errorf("dataset: record %d in %s has no positionName", i, path)
		}
		if strings.TrimSpace(r.Field("description")) == "" {
			return nil, fmt.Errorf("dataset: record %d in %s has no description", i, path)
		}
	}

	return records, nil
}
