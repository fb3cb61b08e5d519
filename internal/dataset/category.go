package dataset

import "strings"

// Category identifies which record field a search targets. Only position
// names and descriptions carry enough text to embed usefully; everything
// else is matched by substring.
type Category int

const (
	// CategoryOther covers fields without a vector index, and any name
	// that is not a known field at all.
	CategoryOther Category = iota

	// CategoryPositionName targets the positionName field.
	CategoryPositionName

	// CategoryDescription targets the description field.
	CategoryDescription
)

// ParseCategory maps a field name to its category. Unknown and empty names
// map to CategoryOther rather than an error; the caller falls back to
// substring search for those.
func ParseCategory(name string) Category {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "positionname":
		return CategoryPositionName
	case "description":
		return CategoryDescription
	default:
		return CategoryOther
	}
}

// Field returns the record field name a category targets, or empty for
// CategoryOther.
func (c Category) Field() string {
	switch c {
	case CategoryPositionName:
		return "positionName"
	case CategoryDescription:
		return "description"
	default:
		return ""
	}
}

// Indexed reports whether the category has a vector index.
func (c Category) Indexed() bool {
	return c == CategoryPositionName || c == CategoryDescription
}

// IndexedCategories lists the categories that get vector indexes.
func IndexedCategories() []Category {
	return []Category{CategoryPositionName, CategoryDescription}
}
