// Package itcmap implements a delta-CRDT key/value register keyed by
// identity path, synchronized via event-tree diffs. It is the map-valued
// sibling of ItcPair: instead of one holder tracking one history, ItcMap
// tracks one (value, stamp) per path and lets two replicas reconcile with a
// minimal diff/apply round trip.
package itcmap

import (
	"bytes"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/itcclock/pkg/identityindex"
	"github.com/ssargent/itcclock/pkg/itc"
)

// MergeFunc resolves a concurrent write to the same path: neither stamp is
// leq the other, so ordering alone can't decide a winner. It returns the
// value and stamp to keep. The zero value selects defaultMerge.
type MergeFunc[V any] func(localValue V, localStamp itc.EventTree, remoteValue V, remoteStamp itc.EventTree) (V, itc.EventTree)

type entry[V any] struct {
	value V
	stamp itc.EventTree
}

// PatchEntry is one (path, value, stamp) triple carried by a Patch.
type PatchEntry[V any] struct {
	Path  itc.Path
	Value V
	Stamp itc.EventTree
}

// Patch is what Diff produces and Apply consumes: every entry the sender
// believes the receiver hasn't seen, plus the sender's aggregate time so the
// receiver's own time advances even for paths it already holds.
type Patch[V any] struct {
	Entries []PatchEntry[V]
	Time    itc.EventTree
}

// ItcMap is a mapping from identity paths to (value, stamp) pairs, plus an
// aggregate EventTree that is the pointwise max of every stamp ever written
// or observed through Apply. It holds its own IdTree seat the same way
// ItcPair does, so writes it makes are distinguishable from a peer's.
type ItcMap[V any] struct {
	mu      sync.RWMutex
	id      itc.IdTree
	time    itc.EventTree
	entries map[string]*entry[V]
	order   *identityindex.Index
	merge   MergeFunc[V]
}

// New returns an empty map with full authority and empty history. A nil
// merge falls back to defaultMerge.
func New[V any](merge MergeFunc[V]) *ItcMap[V] {
	if merge == nil {
		merge = defaultMerge[V]
	}
	return &ItcMap[V]{
		id:      itc.SeedID(),
		time:    itc.New(),
		entries: make(map[string]*entry[V]),
		order:   identityindex.New(identityindex.DefaultOrder),
		merge:   merge,
	}
}

func defaultMerge[V any](local V, localStamp itc.EventTree, remote V, remoteStamp itc.EventTree) (V, itc.EventTree) {
	lm, rm := itc.Max(localStamp), itc.Max(remoteStamp)
	if rm > lm {
		return remote, remoteStamp
	}
	if rm < lm {
		return local, localStamp
	}
	if bytes.Compare(itc.EncodeEventTree(remoteStamp), itc.EncodeEventTree(localStamp)) > 0 {
		return remote, remoteStamp
	}
	return local, localStamp
}

// Fork splits the map's owned identity in half: m keeps one half, the
// returned map gets the other half and its own copy of every current entry;
// the values themselves are copied by assignment, not deep-copied.
func (m *ItcMap[V]) Fork() *ItcMap[V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	mine, theirs := itc.Split(m.id)
	m.id = mine

	clone := &ItcMap[V]{
		id:      theirs,
		time:    m.time,
		entries: make(map[string]*entry[V], len(m.entries)),
		order:   identityindex.New(identityindex.DefaultOrder),
		merge:   m.merge,
	}
	for k, v := range m.entries {
		clone.entries[k] = &entry[V]{value: v.value, stamp: v.stamp}
		clone.order.Insert([]byte(k), ksuid.New())
	}
	return clone
}

// Insert records one new event against the map's own id, then stores value
// at path stamped with the resulting aggregate time. It fails with
// ErrNoAuthority if the map's id is anonymous.
func (m *ItcMap[V]) Insert(path itc.Path, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grown, err := itc.Event(m.time, m.id)
	if err != nil {
		return err
	}
	m.time = grown
	m.setLocked(path, value, grown)
	return nil
}

// Set is Insert addressed at the map's own path (derived from its id),
// for the common case of a single participant owning exactly one entry.
func (m *ItcMap[V]) Set(value V) error {
	m.mu.RLock()
	id := m.id
	m.mu.RUnlock()

	path, err := itc.PathOf(id)
	if err != nil {
		return err
	}
	return m.Insert(path, value)
}

func (m *ItcMap[V]) setLocked(path itc.Path, value V, stamp itc.EventTree) {
	key := string(path)
	if _, exists := m.entries[key]; !exists {
		m.order.Insert([]byte(key), ksuid.New())
	}
	m.entries[key] = &entry[V]{value: value, stamp: stamp}
}

// Get returns the value and stamp stored at path, if any.
func (m *ItcMap[V]) Get(path itc.Path) (V, itc.EventTree, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[string(path)]
	if !ok {
		var zero V
		return zero, itc.EventTree{}, false
	}
	return e.value, e.stamp, true
}

// GetAll returns every entry in ascending path order.
func (m *ItcMap[V]) GetAll() []PatchEntry[V] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PatchEntry[V], 0, len(m.entries))
	for _, k := range m.order.Keys() {
		e := m.entries[string(k)]
		out = append(out, PatchEntry[V]{Path: itc.Path(k), Value: e.value, Stamp: e.stamp})
	}
	return out
}

// Timestamp returns the map's aggregate EventTree.
func (m *ItcMap[V]) Timestamp() itc.EventTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.time
}

// Diff returns every entry whose stamp is not leq remoteTime, i.e. the
// entries a peer holding remoteTime hasn't seen yet, plus this map's
// current aggregate time.
func (m *ItcMap[V]) Diff(remoteTime itc.EventTree) Patch[V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []PatchEntry[V]
	for _, k := range m.order.Keys() {
		e := m.entries[string(k)]
		if !itc.Leq(e.stamp, remoteTime) {
			entries = append(entries, PatchEntry[V]{Path: itc.Path(k), Value: e.value, Stamp: e.stamp})
		}
	}
	return Patch[V]{Entries: entries, Time: m.time}
}

// Apply merges patch into m. Each incoming entry replaces the local one if
// strictly newer, is dropped if strictly older, and otherwise (concurrent)
// is resolved by m.merge. The map's aggregate time always advances to
// include the patch's time, even for paths it already held.
func (m *ItcMap[V]) Apply(patch Patch[V]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pe := range patch.Entries {
		m.applyEntryLocked(pe)
	}
	m.time = itc.Join(m.time, patch.Time)
}

func (m *ItcMap[V]) applyEntryLocked(pe PatchEntry[V]) {
	key := string(pe.Path)
	local, exists := m.entries[key]
	if !exists {
		m.setLocked(pe.Path, pe.Value, pe.Stamp)
		return
	}
	if local.stamp.Equal(pe.Stamp) {
		return
	}
	if itc.Leq(local.stamp, pe.Stamp) {
		m.setLocked(pe.Path, pe.Value, pe.Stamp)
		return
	}
	if itc.Leq(pe.Stamp, local.stamp) {
		return
	}
	winValue, winStamp := m.merge(local.value, local.stamp, pe.Value, pe.Stamp)
	m.setLocked(pe.Path, winValue, winStamp)
}
