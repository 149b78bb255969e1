package listview

import (
	"sort"
	"sync"
)

// Selection tracks the ids ticked in a list. It is independent of the
// active query: changing search or filters never unticks anything, only
// the explicit calls here do.
type Selection struct {
	mu  sync.Mutex
	ids map[string]bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle flips one id and returns its new state.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

// Set forces one id to the given state.
func (s *Selection) Set(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.ids[id] = true
		return
	}
	delete(s.ids, id)
}

// Selected reports whether the id is ticked.
func (s *Selection) Selected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// IDs returns the ticked ids in stable (sorted) order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of ticked ids.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear unticks everything.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.ids = make(map[string]bool)
	s.mu.Unlock()
}
