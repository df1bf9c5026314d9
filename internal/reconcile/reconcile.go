// Package reconcile computes the delta between two sets of reference ids.
// Used by the storefront service to prune the checkout selection when the cart
// is replaced, and to log what a refresh changed.
package reconcile

// ReferenceDiff describes how desired differs from current.
type ReferenceDiff struct {
	Added   []string // In desired but not current
	Removed []string // In current but not desired
}

// IsEmpty returns true if both sets hold the same ids.
func (d *ReferenceDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffReferences computes the delta between current and desired reference ids.
// Duplicates count once. Output order follows input order so diffs are stable.
//
// Algorithm:
//  1. Build lookup sets for O(1) access
//  2. For each desired id: if not in current → added
//  3. For each current id: if not in desired → removed
func DiffReferences(current, desired []string) *ReferenceDiff {
	diff := &ReferenceDiff{}

	currentSet := toSet(current)
	desiredSet := toSet(desired)

	seen := make(map[string]bool)
	for _, id := range desired {
		if !currentSet[id] && !seen[id] {
			diff.Added = append(diff.Added, id)
		}
		seen[id] = true
	}

	seen = make(map[string]bool)
	for _, id := range current {
		if !desiredSet[id] && !seen[id] {
			diff.Removed = append(diff.Removed, id)
		}
		seen[id] = true
	}

	return diff
}

// Retain returns the ids of selected that are still present in available,
// in selected order. An empty id is never retained.
func Retain(selected, available []string) []string {
	availableSet := toSet(available)
	kept := make([]string, 0, len(selected))
	for _, id := range selected {
		if id != "" && availableSet[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
