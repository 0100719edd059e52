package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter selects which tasks are fetched: all of them, or one category.
// The zero value is FilterAll.
type Filter struct {
	categoryID int64
}

// FilterAll is the sentinel selection for every category.
var FilterAll = Filter{}

// FilterCategory returns a filter scoped to a single category.
func FilterCategory(id int64) Filter {
	return Filter{categoryID: id}
}

// CategoryID returns the selected category and true, or 0 and false for FilterAll.
func (f Filter) CategoryID() (int64, bool) {
	if f.categoryID == 0 {
		return 0, false
	}
	return f.categoryID, true
}

// IsAll reports whether f selects every category.
func (f Filter) IsAll() bool {
	return f.categoryID == 0
}

// Includes reports whether a task in categoryID belongs to the filtered list.
// A nil category only matches FilterAll.
func (f Filter) Includes(categoryID *int64) bool {
	if f.IsAll() {
		return true
	}
	return categoryID != nil && *categoryID == f.categoryID
}

// String returns "all" or the category id.
func (f Filter) String() string {
	if f.IsAll() {
		return "all"
	}
	return strconv.FormatInt(f.categoryID, 10)
}

// ParseFilter parses "all" (or an empty string) or a positive category id.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return FilterAll, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return Filter{}, fmt.Errorf("invalid category filter: %s", s)
	}
	return FilterCategory(id), nil
}
