package addressing

import "errors"

// ErrNilGroup is returned when a diff is requested against an absent group.
// This is a hard precondition, not a soft default.
var ErrNilGroup = errors.New("addressing: diff requires both groups")

// Diff is the added/removed result of a set comparison. No ordering is
// guaranteed; consumers must use membership checks.
type Diff struct {
	Added   []string
	Removed []string
}

// Empty reports whether the diff carries no changes.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// GroupDiff compares two groups by member name. Added holds names present
// in desired but not existing; Removed holds names present in existing but
// not desired.
func GroupDiff(existing, desired *Group) (Diff, error) {
	if existing == nil || desired == nil {
		return Diff{}, ErrNilGroup
	}
	return ListDiff(existing.Members, desired.Members), nil
}

// ListDiff compares raw string values with the same added/removed semantics,
// over de-duplicated inputs.
func ListDiff(existing, desired []string) Diff {
	existingSet := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		existingSet[v] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, v := range desired {
		desiredSet[v] = struct{}{}
	}

	var diff Diff
	for _, v := range Dedup(desired) {
		if _, ok := existingSet[v]; !ok {
			diff.Added = append(diff.Added, v)
		}
	}
	for _, v := range Dedup(existing) {
		if _, ok := desiredSet[v]; !ok {
			diff.Removed = append(diff.Removed, v)
		}
	}

	return diff
}
