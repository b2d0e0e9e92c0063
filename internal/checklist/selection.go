package checklist

import "sort"

// Selection records which checklist items are ticked for one journal entry.
// A missing key and a false value both mean "not selected"; both are kept so
// a stored selection round-trips exactly.
type Selection map[ItemID]bool

// NewSelection returns a selection with the given items ticked.
func NewSelection(ids ...ItemID) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// IsSelected reports whether id is ticked.
func (s Selection) IsSelected(id ItemID) bool {
	return s[id]
}

// AnySelected reports whether at least one of items is ticked.
func (s Selection) AnySelected(items []CheckItem) bool {
	for _, it := range items {
		if s[it.ID] {
			return true
		}
	}
	return false
}

// Toggle returns a copy of s with id flipped.
func (s Selection) Toggle(id ItemID) Selection {
	out := s.Clone()
	out[id] = !s[id]
	return out
}

// Clone returns an independent copy of s. A nil selection clones to an
// empty, non-nil one.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Selected returns the ticked item ids in sorted order.
func (s Selection) Selected() []ItemID {
	var ids []ItemID
	for id, on := range s {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Filter returns the subset of s whose items belong to kind in cat.
func (s Selection) Filter(cat *Catalog, kind Kind) Selection {
	out := make(Selection)
	for id, on := range s {
		if k, ok := cat.Kind(id); ok && k == kind {
			out[id] = on
		}
	}
	return out
}

// Equal reports whether s and other hold exactly the same entries.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
