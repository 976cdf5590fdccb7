package shape

import "slices"

// Selection is the ordered set of selected shape ids. It is owned by the
// interaction controller and is not safe for concurrent use.
type Selection struct {
	ids []string
}

// Track prunes ids from the selection when the store deletes them.
func (s *Selection) Track(store *Store) {
	store.OnChange(func(c Change) {
		if c.Op == OpDelete {
			s.Remove(c.ID)
		}
	})
}

// Set replaces the selection.
func (s *Selection) Set(ids ...string) {
	s.ids = s.ids[:0]
	s.Add(ids...)
}

// Add appends ids that are not selected yet.
func (s *Selection) Add(ids ...string) {
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Remove drops id and reports whether it was selected.
func (s *Selection) Remove(id string) bool {
	n := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return len(s.ids) != n
}

// Toggle adds id if absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if !s.Remove(id) {
		s.ids = append(s.ids, id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return slices.Contains(s.ids, id) }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }
