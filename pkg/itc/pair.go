package itc

import "github.com/segmentio/ksuid"

// ItcPair is the canonical interval tree clock stamp: an IdTree bounding
// where this holder is authorized to record new events, and an EventTree
// recording history observed so far (valid regardless of the identity).
type ItcPair struct {
	id    IdTree
	event EventTree

	// ActorID correlates a served pair across logs and HTTP responses.
	// It plays no role in the algebra or in Compare.
	ActorID ksuid.KSUID
}

// Seed returns a fresh pair: full authority, empty history.
func Seed() ItcPair {
	return ItcPair{id: SeedID(), event: New(), ActorID: ksuid.New()}
}

// NewPair builds a pair from an explicit identity and history, e.g. when
// decoding one off the wire.
func NewPair(id IdTree, event EventTree) ItcPair {
	return ItcPair{id: id, event: event, ActorID: ksuid.New()}
}

// Id returns p's identity.
func (p ItcPair) Id() IdTree { return p.id }

// Timestamp returns p's current EventTree.
func (p ItcPair) Timestamp() EventTree { return p.event }

// Fork splits p's identity in half: p keeps one half, the returned pair
// gets the other half and a copy of p's current history. Both pairs can
// now record events independently without overlapping.
func (p *ItcPair) Fork() ItcPair {
	mine, theirs := Split(p.id)
	p.id = mine
	return ItcPair{id: theirs, event: p.event, ActorID: ksuid.New()}
}

// Event inflates p's history by one new event, authorized by p's identity.
// It fails with ErrNoAuthority if that identity is anonymous (Leaf 0).
func (p *ItcPair) Event() error {
	grown, err := Event(p.event, p.id)
	if err != nil {
		return err
	}
	p.event = grown
	return nil
}

// Join merges another pair into p: identities are summed (failing with
// ErrOverlappingIds if they overlap) and histories are joined.
func (p *ItcPair) Join(other ItcPair) error {
	id, err := Sum(p.id, other.id)
	if err != nil {
		return err
	}
	p.id = id
	p.event = Join(p.event, other.event)
	return nil
}

// Sync merges only a remote history into p, without claiming any identity.
// Use this to accept another process's observations while keeping p's
// authority unchanged, the counterpart to Join when no ownership transfer
// is intended.
func (p *ItcPair) Sync(remote EventTree) {
	p.event = Join(p.event, remote)
}

// Peek returns an anonymous snapshot of p's history: Leaf 0 identity paired
// with a copy of the current EventTree, suitable for handing to an observer
// that should never be authorized to record events.
func (p ItcPair) Peek() ItcPair {
	return ItcPair{id: Leaf0(), event: p.event, ActorID: p.ActorID}
}

// Order classifies the causal relation between two pairs' histories.
type Order int

const (
	// Concurrent means neither history happened-before the other.
	Concurrent Order = iota
	// Before means a happened-before b.
	Before
	// After means b happened-before a.
	After
	// Equal means a and b observed exactly the same events.
	Equal
)

// Compare reports the causal relation between a and b's histories.
// Identity plays no part in the comparison, only the event history does.
func Compare(a, b ItcPair) Order {
	aLeqB := Leq(a.event, b.event)
	bLeqA := Leq(b.event, a.event)
	switch {
	case aLeqB && bLeqA:
		return Equal
	case aLeqB:
		return Before
	case bLeqA:
		return After
	default:
		return Concurrent
	}
}
