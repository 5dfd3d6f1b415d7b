// Package itcindex implements the set-valued projection layer suggested
// alongside ItcMap: an index from identity path to a set of member ids,
// built as a thin wrapper over ItcMap[map[V]struct{}] rather than a
// separate data structure, so it inherits diff/apply for free.
package itcindex

import (
	"github.com/ssargent/itcclock/pkg/itc"
	"github.com/ssargent/itcclock/pkg/itcmap"
)

// PartialIndex is the result of GetPartial: every path whose member set
// changed since the supplied EventTree, paired with the members at the
// time of the snapshot.
type PartialIndex[V comparable] struct {
	entries []itcmap.PatchEntry[map[V]struct{}]
	time    itc.EventTree
}

// ItcIndex maps identity paths to sets of member ids, synchronized the same
// way ItcMap synchronizes scalar values: GetPartial plays the role of
// ItcMap.Diff, Sync plays the role of ItcMap.Apply.
type ItcIndex[V comparable] struct {
	backing *itcmap.ItcMap[map[V]struct{}]
}

// New returns an empty index.
func New[V comparable]() *ItcIndex[V] {
	return &ItcIndex[V]{backing: itcmap.New[map[V]struct{}](mergeSets[V])}
}

// mergeSets is the concurrent-write resolution for two member sets
// contributed to the same path: union them rather than picking a winner,
// since losing a concurrently-added member would violate the index's
// purpose of tracking membership.
func mergeSets[V comparable](local map[V]struct{}, localStamp itc.EventTree, remote map[V]struct{}, remoteStamp itc.EventTree) (map[V]struct{}, itc.EventTree) {
	merged := make(map[V]struct{}, len(local)+len(remote))
	for k := range local {
		merged[k] = struct{}{}
	}
	for k := range remote {
		merged[k] = struct{}{}
	}
	return merged, itc.Join(localStamp, remoteStamp)
}

// Insert adds id to the member set stored at path.
func (x *ItcIndex[V]) Insert(path itc.Path, id V) error {
	members, _, ok := x.backing.Get(path)
	next := make(map[V]struct{}, len(members)+1)
	if ok {
		for k := range members {
			next[k] = struct{}{}
		}
	}
	next[id] = struct{}{}
	return x.backing.Insert(path, next)
}

// Members returns the member set stored at path.
func (x *ItcIndex[V]) Members(path itc.Path) (map[V]struct{}, bool) {
	members, _, ok := x.backing.Get(path)
	return members, ok
}

// Keys returns every path currently present in the index, in ascending order.
func (x *ItcIndex[V]) Keys() []itc.Path {
	all := x.backing.GetAll()
	out := make([]itc.Path, len(all))
	for i, e := range all {
		out[i] = e.Path
	}
	return out
}

// Timestamp returns the index's aggregate EventTree.
func (x *ItcIndex[V]) Timestamp() itc.EventTree {
	return x.backing.Timestamp()
}

// GetPartial computes the projection of entries whose member set changed
// since remoteTime: the set-valued analogue of ItcMap.Diff.
func (x *ItcIndex[V]) GetPartial(remoteTime itc.EventTree) PartialIndex[V] {
	patch := x.backing.Diff(remoteTime)
	return PartialIndex[V]{entries: patch.Entries, time: patch.Time}
}

// Sync merges a PartialIndex produced by GetPartial into x.
func (x *ItcIndex[V]) Sync(p PartialIndex[V]) {
	x.backing.Apply(itcmap.Patch[map[V]struct{}]{Entries: p.entries, Time: p.time})
}
