// Package match answers keyword queries over the posting collection. Fields
// with a vector index are searched by embedding similarity; everything else
// falls back to case-insensitive substring scanning.
package match

import "errors"

// DefaultMaxResults caps result counts when the caller does not choose.
const DefaultMaxResults = 5

// ErrEmptyKeyword is returned when a query has no keyword after trimming.
var ErrEmptyKeyword = errors.New("match: keyword is empty")

// Query describes one search.
type Query struct {
	// Keyword is the search text. Required.
	Keyword string

	// Category names the record field to search. Empty or unknown names
	// fall back to a substring scan over all fields.
	Category string

	// MaxResults caps how many results come back. Non-positive values use
	// DefaultMaxResults.
	MaxResults int
}
