package itc

// evtKind tags the two shapes an EventTree can take.
type evtKind uint8

const (
	evtLeaf evtKind = iota
	evtNode
)

// EventTree counts causally observed events as a tree of relative base
// values: a Leaf(n) applies n uniformly over its interval; a Node(n, l, r)
// adds base n to whatever l and r separately count, recursively. Values are
// always in normal form (Node(n, 0, 0) collapses to Leaf(n); for any Node,
// min(left) == 0 or min(right) == 0) and are never mutated in place.
type EventTree struct {
	kind        evtKind
	val         int64 // leaf count, valid when kind == evtLeaf
	base        int64 // node base, valid when kind == evtNode
	left, right *EventTree
}

// Tuning constants for the minimal-cost event growth search. Any monotone
// scheme preferring depth over scalar magnitude works here; growOwned always
// prefers descending into the child holding the maximum over inflating a leaf.
const (
	leafIncrementCost = 1000
	descendCost       = 1
	noGrowCost        = 1 << 30 // effectively "cannot grow here"
)

func nodeCreationCost(depth int) int { return 1000 + depth }

// New returns the zero event history: Leaf(0).
func New() EventTree { return EventTree{kind: evtLeaf} }

func evtLeafOf(n int64) EventTree { return EventTree{kind: evtLeaf, val: n} }

// nodeRaw builds a Node without re-checking normal form; callers must
// already hold normalized children and a correctly lifted base.
func nodeRaw(n int64, l, r EventTree) EventTree {
	return EventTree{kind: evtNode, base: n, left: &l, right: &r}
}

func isZeroLeaf(t EventTree) bool { return t.kind == evtLeaf && t.val == 0 }

// asNode views t uniformly as (base, left, right), treating a leaf as a
// node whose children are both zero, for recursing over EventTree/IdTree
// shapes that don't line up one-to-one.
func asNode(t EventTree) (int64, EventTree, EventTree) {
	if t.kind == evtLeaf {
		return t.val, evtLeafOf(0), evtLeafOf(0)
	}
	return t.base, *t.left, *t.right
}

// evtLift adds delta to t's root value only; children are left untouched,
// since they are already expressed relative to that root.
func evtLift(t EventTree, delta int64) EventTree {
	if t.kind == evtLeaf {
		return evtLeafOf(t.val + delta)
	}
	return nodeRaw(t.base+delta, *t.left, *t.right)
}

func minOf(t EventTree) int64 {
	if t.kind == evtLeaf {
		return t.val
	}
	return t.base + minI64(minOf(*t.left), minOf(*t.right))
}

func maxOf(t EventTree) int64 {
	if t.kind == evtLeaf {
		return t.val
	}
	return t.base + maxI64(maxOf(*t.left), maxOf(*t.right))
}

// Min returns the minimum effective event count anywhere in t.
func Min(t EventTree) uint64 { return uint64(minOf(t)) }

// Max returns the maximum effective event count anywhere in t.
func Max(t EventTree) uint64 { return uint64(maxOf(t)) }

// evtNorm applies EventTree's normal-form rules: lift the common minimum of
// l and r into n, then collapse to a leaf if both children are now zero.
func evtNorm(n int64, l, r EventTree) EventTree {
	if m := minI64(minOf(l), minOf(r)); m > 0 {
		l = evtLift(l, -m)
		r = evtLift(r, -m)
		n += m
	}
	if isZeroLeaf(l) && isZeroLeaf(r) {
		return evtLeafOf(n)
	}
	return nodeRaw(n, l, r)
}

// isNormal reports whether t already satisfies EventTree's normal-form
// rules at every level: no Node whose children are both zero leaves, and
// for every Node, at least one child has a zero minimum. Used to reject
// malformed wire values without silently renormalizing them.
func (t EventTree) isNormal() bool {
	if t.kind == evtLeaf {
		return true
	}
	l, r := *t.left, *t.right
	if isZeroLeaf(l) && isZeroLeaf(r) {
		return false
	}
	if minOf(l) != 0 && minOf(r) != 0 {
		return false
	}
	return l.isNormal() && r.isNormal()
}

// Equal reports whether a and b are the same normalized tree.
func (a EventTree) Equal(b EventTree) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == evtLeaf {
		return a.val == b.val
	}
	return a.base == b.base && a.left.Equal(*b.left) && a.right.Equal(*b.right)
}

// Leq reports whether a <= b pointwise over every leaf's effective count.
func Leq(a, b EventTree) bool {
	switch {
	case a.kind == evtLeaf && b.kind == evtLeaf:
		return a.val <= b.val
	case a.kind == evtLeaf && b.kind == evtNode:
		return a.val <= b.base
	case a.kind == evtNode && b.kind == evtLeaf:
		return a.base <= b.val &&
			Leq(evtLift(*a.left, a.base), b) &&
			Leq(evtLift(*a.right, a.base), b)
	default:
		return a.base <= b.base &&
			Leq(evtLift(*a.left, a.base), evtLift(*b.left, b.base)) &&
			Leq(evtLift(*a.right, a.base), evtLift(*b.right, b.base))
	}
}

// Join returns the pointwise maximum of a and b, normalized. It is
// commutative, associative, and idempotent, and is the semilattice join
// used by both ItcPair.Join/Sync and ItcMap's time aggregation.
func Join(a, b EventTree) EventTree {
	if a.kind == evtLeaf && b.kind == evtLeaf {
		if a.val >= b.val {
			return evtLeafOf(a.val)
		}
		return evtLeafOf(b.val)
	}
	an, al, ar := asNode(a)
	bn, bl, br := asNode(b)
	base := maxI64(an, bn)
	l := Join(evtLift(al, an-base), evtLift(bl, bn-base))
	r := Join(evtLift(ar, an-base), evtLift(br, bn-base))
	return evtNorm(base, l, r)
}

// Diff returns a tree whose effective value at each leaf is
// max(0, a_leaf - b_leaf), the excess of a's history over b's. ItcMap does
// not call it; ItcMap.Diff compares entry stamps with Leq.
func Diff(a, b EventTree) EventTree { return diffAbs(a, 0, b, 0) }

func diffAbs(a EventTree, aBase int64, b EventTree, bBase int64) EventTree {
	if a.kind == evtLeaf && b.kind == evtLeaf {
		return evtLeafOf(maxI64(0, (aBase+a.val)-(bBase+b.val)))
	}
	an, al, ar := asNode(a)
	bn, bl, br := asNode(b)
	l := diffAbs(al, aBase+an, bl, bBase+bn)
	r := diffAbs(ar, aBase+an, br, bBase+bn)
	return evtNorm(0, l, r)
}

// Event inflates e by one new event, authorized only within the region id
// owns. It first tries Fill (a free rewrite that raises counts already
// permitted by full ownership) and falls back to Grow (a minimal-cost
// structural deepening) only if Fill didn't strictly increase Max.
func Event(e EventTree, id IdTree) (EventTree, error) {
	if id.IsAnonymous() {
		return EventTree{}, ErrNoAuthority
	}
	if filled := Fill(id, e); maxOf(filled) > maxOf(e) {
		return filled, nil
	}
	grown, _ := grow(id, e, 0)
	return grown, nil
}

// Fill rewrites e, raising counts within regions id owns outright up to
// the subtree's current maximum, without adding depth. It never fails and
// never decreases any count; it may leave e unchanged if id owns nothing
// that is currently behind the subtree's maximum.
func Fill(id IdTree, e EventTree) EventTree {
	switch {
	case id.IsLeafZero():
		return e
	case id.IsLeafOne():
		return evtLeafOf(maxOf(e))
	default:
		en, el, er := asNode(e)
		fl := Fill(id.Left(), el)
		fr := Fill(id.Right(), er)
		return evtNorm(en, fl, fr)
	}
}

// grow deepens e at minimal cost within the region id owns, raising the count
// at one owned point by one. Max increases only when the owned region it
// picks already held e's maximum. It returns the grown tree and the cost of
// the cheapest strategy found; depth tracks recursion depth for the
// node-creation cost.
func grow(id IdTree, e EventTree, depth int) (EventTree, int) {
	switch {
	case id.IsLeafZero():
		return e, noGrowCost
	case id.IsLeafOne():
		return growOwned(e, depth)
	default:
		wasLeaf := e.kind == evtLeaf
		en, el, er := asNode(e)
		il, ir := id.Left(), id.Right()

		gl, costL := el, noGrowCost
		if !il.IsLeafZero() {
			gl, costL = grow(il, el, depth+1)
			if wasLeaf {
				costL += nodeCreationCost(depth)
			} else {
				costL += descendCost
			}
		}

		gr, costR := er, noGrowCost
		if !ir.IsLeafZero() {
			gr, costR = grow(ir, er, depth+1)
			if wasLeaf {
				costR += nodeCreationCost(depth)
			} else {
				costR += descendCost
			}
		}

		if costL <= costR {
			return evtNorm(en, gl, er), costL
		}
		return evtNorm(en, el, gr), costR
	}
}

// growOwned grows e by one event within a region owned outright (id ==
// Leaf1), always picking the child currently holding the subtree's maximum
// so the new event lands as deep as possible rather than inflating a
// scalar leaf.
func growOwned(e EventTree, depth int) (EventTree, int) {
	if e.kind == evtLeaf {
		return evtLeafOf(e.val + 1), leafIncrementCost
	}
	l, r := *e.left, *e.right
	if maxOf(l) >= maxOf(r) {
		gl, cost := growOwned(l, depth+1)
		return evtNorm(e.base, gl, r), cost + descendCost
	}
	gr, cost := growOwned(r, depth+1)
	return evtNorm(e.base, l, gr), cost + descendCost
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
