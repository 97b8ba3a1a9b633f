package registry

import (
	"iter"
	"sort"

	"github.com/paul-ooi/skillet/pkg/bundle"
)

// Snapshot is an immutable view of the loaded bundle set. Once built
// it is safe for concurrent read-only use by any number of callers.
type Snapshot struct {
	bundles map[string]*bundle.Bundle
	ids     []string // ascending, fixes iteration order
}

func newSnapshot(bundles map[string]*bundle.Bundle) *Snapshot {
	ids := make([]string, 0, len(bundles))
	for id := range bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Snapshot{bundles: bundles, ids: ids}
}

// Get returns the bundle for an id, or a NotFoundError.
func (s *Snapshot) Get(id string) (*bundle.Bundle, error) {
	b, exists := s.bundles[id]
	if !exists {
		return nil, &NotFoundError{ID: id}
	}
	return b, nil
}

// All returns a restartable sequence of all bundles in ascending-id
// order. The order is deterministic across loads of the same input
// set; downstream ranking relies on it for stable tie-breaks.
func (s *Snapshot) All() iter.Seq[*bundle.Bundle] {
	return func(yield func(*bundle.Bundle) bool) {
		for _, id := range s.ids {
			if !yield(s.bundles[id]) {
				return
			}
		}
	}
}

// IDs returns all bundle ids in ascending order.
func (s *Snapshot) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of bundles in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Subtopics returns the inspectable bundle id -> subtopic tag table
// the resolver's deference rules operate on. Tags are sorted.
func (s *Snapshot) Subtopics() map[string][]string {
	table := make(map[string][]string, len(s.ids))
	for _, id := range s.ids {
		tags := s.bundles[id].SubtopicTags()
		sort.Strings(tags)
		table[id] = tags
	}
	return table
}
