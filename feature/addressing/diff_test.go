package addressing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupDiff_AddedAndRemoved(t *testing.T) {
	existing := &Group{Name: "grp_x", Members: []string{"a1", "a2"}}
	desired := &Group{Name: "grp_x", Members: []string{"a1", "a3", "a4"}}

	diff, err := GroupDiff(existing, desired)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a3", "a4"}, diff.Added)
	assert.ElementsMatch(t, []string{"a2"}, diff.Removed)
}

func TestGroupDiff_Identity(t *testing.T) {
	g := &Group{Name: "grp_x", Members: []string{"a", "b", "c"}}

	diff, err := GroupDiff(g, g)
	require.NoError(t, err)

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	assert.True(t, diff.Empty())
}

func TestGroupDiff_Antisymmetric(t *testing.T) {
	a := &Group{Members: []string{"a1", "a2", "a3"}}
	b := &Group{Members: []string{"a2", "a4"}}

	ab, err := GroupDiff(a, b)
	require.NoError(t, err)
	ba, err := GroupDiff(b, a)
	require.NoError(t, err)

	assert.ElementsMatch(t, ab.Added, ba.Removed)
	assert.ElementsMatch(t, ab.Removed, ba.Added)
}

func TestGroupDiff_NilGroup(t *testing.T) {
	g := &Group{Members: []string{"a"}}

	_, err := GroupDiff(nil, g)
	assert.ErrorIs(t, err, ErrNilGroup)

	_, err = GroupDiff(g, nil)
	assert.ErrorIs(t, err, ErrNilGroup)
}

func TestListDiff(t *testing.T) {
	diff := ListDiff([]string{"10.0.0.1"}, []string{"10.0.0.2"})

	assert.ElementsMatch(t, []string{"10.0.0.2"}, diff.Added)
	assert.ElementsMatch(t, []string{"10.0.0.1"}, diff.Removed)
}

func TestListDiff_DuplicatesInExisting(t *testing.T) {
	// Observed values can repeat across expressions; diff works over the
	// de-duplicated set.
	diff := ListDiff(
		[]string{"10.0.0.1", "10.0.0.1", "10.0.0.2"},
		[]string{"10.0.0.2"},
	)

	assert.Empty(t, diff.Added)
	assert.ElementsMatch(t, []string{"10.0.0.1"}, diff.Removed)
}

func TestListDiff_NoChange(t *testing.T) {
	diff := ListDiff([]string{"a", "b"}, []string{"b", "a"})
	assert.True(t, diff.Empty())
}

func TestListDiff_EmptySides(t *testing.T) {
	diff := ListDiff(nil, []string{"a"})
	assert.ElementsMatch(t, []string{"a"}, diff.Added)
	assert.Empty(t, diff.Removed)

	diff = ListDiff([]string{"a"}, nil)
	assert.Empty(t, diff.Added)
	assert.ElementsMatch(t, []string{"a"}, diff.Removed)
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedup([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Dedup(nil))
}
