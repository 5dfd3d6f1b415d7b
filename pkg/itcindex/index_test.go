package itcindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/itcclock/pkg/itc"
)

func TestInsertAddsMember(t *testing.T) {
	idx := New[string]()
	require.NoError(t, idx.Insert(itc.Path{0}, "alice"))
	require.NoError(t, idx.Insert(itc.Path{0}, "bob"))

	members, ok := idx.Members(itc.Path{0})
	require.True(t, ok)
	assert.Len(t, members, 2)
	_, hasAlice := members["alice"]
	_, hasBob := members["bob"]
	assert.True(t, hasAlice)
	assert.True(t, hasBob)
}

func TestGetPartialOnlyIncludesChangedPaths(t *testing.T) {
	idx := New[string]()
	require.NoError(t, idx.Insert(itc.Path{0}, "alice"))
	mid := idx.Timestamp()
	require.NoError(t, idx.Insert(itc.Path{1}, "bob"))

	partial := idx.GetPartial(mid)
	assert.Len(t, partial.entries, 1)
	assert.Equal(t, itc.Path{1}, partial.entries[0].Path)
}

func TestSyncMergesMembershipAcrossReplicas(t *testing.T) {
	a := New[string]()
	b := &ItcIndex[string]{backing: a.backing.Fork()}

	require.NoError(t, a.Insert(itc.Path{0}, "alice"))
	require.NoError(t, b.Insert(itc.Path{0}, "bob"))

	partial := b.GetPartial(itc.New())
	a.Sync(partial)

	members, ok := a.Members(itc.Path{0})
	require.True(t, ok)
	assert.Len(t, members, 2, "concurrent inserts at the same path must union, not overwrite")
}

func TestKeysReturnsEveryIndexedPath(t *testing.T) {
	idx := New[string]()
	require.NoError(t, idx.Insert(itc.Path{0}, "alice"))
	require.NoError(t, idx.Insert(itc.Path{1}, "bob"))

	keys := idx.Keys()
	assert.Len(t, keys, 2)
}
