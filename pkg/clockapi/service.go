package clockapi

import (
	"sync"

	"github.com/ssargent/itcclock/pkg/itc"
	"github.com/ssargent/itcclock/pkg/itcmap"
)

// ClockService holds one served ItcPair and its companion ItcMap, guarded by
// a single mutex: unlike ItcMap, ItcPair has no internal locking of its own,
// so every access to the pair goes through here.
type ClockService struct {
	mu         sync.RWMutex
	pair       itc.ItcPair
	kv         *itcmap.ItcMap[MapValue]
	actorLabel string
}

// NewClockService seeds a fresh pair and an empty map.
func NewClockService(actorLabel string) *ClockService {
	return &ClockService{
		pair:       itc.Seed(),
		kv:         itcmap.New[MapValue](nil),
		actorLabel: actorLabel,
	}
}

// ActorLabel returns the free-text label attached to this service for
// observability; it never participates in clock comparison.
func (s *ClockService) ActorLabel() string {
	return s.actorLabel
}

// LoadPair replaces the held pair outright, e.g. when resuming from a
// persisted state file. Unlike Join, it does not try to merge authority
// with whatever the service already held.
func (s *ClockService) LoadPair(pair itc.ItcPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}

// Fork splits the held pair's authority and returns the child.
func (s *ClockService) Fork() itc.ItcPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair.Fork()
}

// Event records a local event against the held pair and returns its new
// timestamp.
func (s *ClockService) Event() (itc.EventTree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pair.Event(); err != nil {
		return itc.EventTree{}, err
	}
	return s.pair.Timestamp(), nil
}

// Join reunites remote's authority and history with the held pair.
func (s *ClockService) Join(remote itc.ItcPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair.Join(remote)
}

// Sync merges a remote EventTree into the held pair's history without
// touching authority.
func (s *ClockService) Sync(remote itc.EventTree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.Sync(remote)
}

// Peek returns an anonymous snapshot of the held pair.
func (s *ClockService) Peek() itc.ItcPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Peek()
}

// MapSet writes value at the given identity path.
func (s *ClockService) MapSet(path itc.Path, value MapValue) error {
	return s.kv.Insert(path, value)
}

// MapDiff returns every map entry not yet reflected in remoteTime.
func (s *ClockService) MapDiff(remoteTime itc.EventTree) itcmap.Patch[MapValue] {
	return s.kv.Diff(remoteTime)
}

// MapApply merges a patch produced by a peer's MapDiff.
func (s *ClockService) MapApply(patch itcmap.Patch[MapValue]) {
	s.kv.Apply(patch)
}
