package state

import "sort"

// Loading tracks in-flight operations. Toggles and deletions are tracked
// per task id, so requests for distinct tasks may overlap.
type Loading struct {
	Categories  bool
	Tasks       bool
	AddCategory bool
	AddTask     bool

	updating idSet
	deleting idSet
}

// IsUpdating reports whether a toggle for id is in flight.
func (l Loading) IsUpdating(id int64) bool {
	return l.updating.has(id)
}

// IsDeleting reports whether a deletion for id is in flight.
func (l Loading) IsDeleting(id int64) bool {
	return l.deleting.has(id)
}

// Updating returns the ids with a toggle in flight, sorted.
func (l Loading) Updating() []int64 {
	return l.updating.sorted()
}

// Deleting returns the ids with a deletion in flight, sorted.
func (l Loading) Deleting() []int64 {
	return l.deleting.sorted()
}

// Busy reports whether any request is in flight.
func (l Loading) Busy() bool {
	return l.Categories || l.Tasks || l.AddCategory || l.AddTask ||
		len(l.updating) > 0 || len(l.deleting) > 0
}

type idSet map[int64]struct{}

func (s idSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s *idSet) add(id int64) {
	if *s == nil {
		*s = make(idSet)
	}
	(*s)[id] = struct{}{}
}

func (s *idSet) remove(id int64) {
	delete(*s, id)
}

func (s idSet) sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
