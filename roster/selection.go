package roster

import "sort"

// Selection is the set of selected row IDs for a table. It lives independently
// of filtering and sorting: hiding a row does not deselect it.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

func (s *Selection) Toggle(id int64) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// ToggleAll implements the header checkbox over the currently visible rows
// only: if every visible row is selected, the visible rows are deselected,
// otherwise all visible rows become selected. Hidden rows are untouched
// either way.
func (s *Selection) ToggleAll(visible []int64) {
	all := true
	for _, id := range visible {
		if !s.Has(id) {
			all = false
			break
		}
	}
	for _, id := range visible {
		if all {
			delete(s.ids, id)
		} else {
			s.ids[id] = struct{}{}
		}
	}
}

func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}

func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected IDs in ascending order so downstream bulk
// operations process them deterministically.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
