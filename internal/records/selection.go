package records

// Selection tracks the record currently opened in a detail view. The zero
// value has nothing selected.
type Selection struct {
	id string
}

// RestoreSelection rebuilds a selection from a stored identifier; "" means
// nothing is selected.
func RestoreSelection(id string) Selection {
	return Selection{id: id}
}

// Select marks id as selected. It reports false when id was already selected.
func (s *Selection) Select(id string) bool {
	if id == "" || s.id == id {
		return false
	}
	s.id = id
	return true
}

// Clear closes the detail view.
func (s *Selection) Clear() {
	s.id = ""
}

// Selected returns the selected identifier, if any.
func (s *Selection) Selected() (string, bool) {
	return s.id, s.id != ""
}
