package storage

import (
	"fmt"
	"strings"
)

// Task represents a single todo item. A task has no identity beyond its
// position in the owning Store.
type Task struct {
	Description string
	Done        bool
}

// Filter selects which tasks a view shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterDone
	FilterUndone
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterDone, FilterUndone}

// Matches reports whether t belongs to the view selected by f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterDone:
		return t.Done
	case FilterUndone:
		return !t.Done
	default:
		return true
	}
}

func (f Filter) String() string {
	switch f {
	case FilterDone:
		return "Done"
	case FilterUndone:
		return "Undone"
	default:
		return "All"
	}
}

// ParseFilter accepts "all", "done" or "undone" in any case.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "done":
		return FilterDone, nil
	case "undone", "todo", "pending":
		return FilterUndone, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, done or undone)", s)
}
