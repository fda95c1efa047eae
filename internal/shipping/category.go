package shipping

// CategoryID is a product category identifier.
type CategoryID int64

// CategorySet is an unordered collection of category ids.
type CategorySet []CategoryID

// Contains reports whether id is in the set.
func (s CategorySet) Contains(id CategoryID) bool {
	for _, candidate := range s {
		if candidate == id {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one category.
func (s CategorySet) Intersects(other CategorySet) bool {
	if len(s) == 0 || len(other) == 0 {
		return false
	}
	for _, id := range s {
		if other.Contains(id) {
			return true
		}
	}
	return false
}

// Union returns a new set containing s and every other set, without duplicates.
func (s CategorySet) Union(others ...CategorySet) CategorySet {
	out := make(CategorySet, 0, len(s))
	seen := make(map[CategoryID]struct{}, len(s))
	add := func(set CategorySet) {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	add(s)
	for _, other := range others {
		add(other)
	}
	return out
}

// CartCategories holds one category set per cart line item.
type CartCategories []CategorySet
