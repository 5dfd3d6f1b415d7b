package itcmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/itcclock/pkg/itc"
)

func TestSetAndGetOwnPath(t *testing.T) {
	m := New[int](nil)
	require.NoError(t, m.Set(42))

	path, err := itc.PathOf(m.idForTest())
	require.NoError(t, err)

	v, stamp, ok := m.Get(path)
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Greater(t, itc.Max(stamp), uint64(0))
}

func TestForkGivesDisjointAuthorityAndCopiesEntries(t *testing.T) {
	m := New[string](nil)
	require.NoError(t, m.Set("hello"))

	clone := m.Fork()
	assert.Equal(t, m.GetAll(), clone.GetAll())

	_, err := itc.Sum(m.idForTest(), clone.idForTest())
	assert.NoError(t, err, "forked maps must not share authority")
}

func TestDiffOnlyIncludesEntriesNewerThanRemoteTime(t *testing.T) {
	m := New[int](nil)
	require.NoError(t, m.Insert(itc.Path{0}, 1))
	mid := m.Timestamp()
	require.NoError(t, m.Insert(itc.Path{1}, 2))

	patch := m.Diff(mid)
	require.Len(t, patch.Entries, 1)
	assert.Equal(t, itc.Path{1}, patch.Entries[0].Path)
}

func TestDiffAndApplyRoundTrip(t *testing.T) {
	ma := New[int](nil)
	mb := ma.Fork()

	require.NoError(t, ma.Set(207))
	require.NoError(t, mb.Set(324))

	pa := mb.Diff(ma.Timestamp())
	pb := ma.Diff(mb.Timestamp())

	ma.Apply(pa)
	mb.Apply(pb)

	assert.Len(t, ma.GetAll(), 2)
	assert.Len(t, mb.GetAll(), 2)
	assert.Equal(t, ma.GetAll(), mb.GetAll())
}

func TestApplyIgnoresStrictlyOlderEntry(t *testing.T) {
	m := New[int](nil)
	require.NoError(t, m.Insert(itc.Path{0}, 1))
	stale := m.Diff(itc.New())

	require.NoError(t, m.Insert(itc.Path{0}, 2))
	before := m.GetAll()

	m.Apply(stale)
	assert.Equal(t, before, m.GetAll(), "an older patch must not overwrite a newer local entry")
}

func TestApplyResolvesConcurrentWriteDeterministically(t *testing.T) {
	m1 := New[int](nil)
	m2 := m1.Fork()

	require.NoError(t, m1.Insert(itc.Path{0}, 1))
	require.NoError(t, m2.Insert(itc.Path{0}, 2))

	_, localStamp, _ := m1.Get(itc.Path{0})
	_, remoteStamp, _ := m2.Get(itc.Path{0})
	winner, winStamp := defaultMerge(1, localStamp, 2, remoteStamp)

	m1.Apply(m2.Diff(itc.New()))
	got, gotStamp, _ := m1.Get(itc.Path{0})
	assert.Equal(t, winner, got)
	assert.True(t, gotStamp.Equal(winStamp))
}

func TestApplyAdvancesAggregateTimeEvenWithoutNewEntries(t *testing.T) {
	m1 := New[int](nil)
	m2 := m1.Fork()
	require.NoError(t, m2.Set(1))

	patch := m2.Diff(m2.Timestamp())
	require.Empty(t, patch.Entries)
	m1.Apply(patch)
	assert.True(t, itc.Leq(m2.Timestamp(), m1.Timestamp()))
}

func TestCustomMergeFuncOverridesDefault(t *testing.T) {
	alwaysKeepLocal := func(local int, localStamp itc.EventTree, remote int, remoteStamp itc.EventTree) (int, itc.EventTree) {
		return local, localStamp
	}
	m1 := New[int](alwaysKeepLocal)
	m2 := m1.Fork()

	require.NoError(t, m1.Insert(itc.Path{0}, 100))
	require.NoError(t, m2.Insert(itc.Path{0}, 200))

	m1.Apply(m2.Diff(itc.New()))
	v, _, _ := m1.Get(itc.Path{0})
	assert.Equal(t, 100, v)
}

// idForTest exposes the map's current id for assertions that need to reason
// about authority directly; production callers never need this.
func (m *ItcMap[V]) idForTest() itc.IdTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}
