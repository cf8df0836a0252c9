package domain

import (
	"fmt"
	"strings"
)

// Category is the label assigned to a document at ingest time.
type Category string

const (
	CategoryMarketing Category = "Marketing"
	CategoryProduct   Category = "Product"
	CategoryInternal  Category = "Internal"
	CategoryGeneral   Category = "General"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryMarketing,
	CategoryProduct,
	CategoryInternal,
	CategoryGeneral,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a stored label back into a Category. Matching is
// case-insensitive so that labels persisted by other tools still load.
func ParseCategory(s string) (Category, error) {
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
