package itc

import "errors"

// Sentinel errors returned by the clock algebra. Callers should compare
// with errors.Is; wrapped forms carry call-site context via fmt.Errorf.
var (
	// ErrOverlappingIds is returned by Sum when the two IdTrees being
	// combined own overlapping regions of the identity space.
	ErrOverlappingIds = errors.New("itc: overlapping identities")

	// ErrNoAuthority is returned by ItcPair.Event when the pair's id is
	// anonymous (Leaf 0) and therefore has no region to record an event in.
	ErrNoAuthority = errors.New("itc: no authority to record event")

	// ErrMalformedInput is returned while decoding a tree whose encoded
	// bytes are corrupt or that violates normal form.
	ErrMalformedInput = errors.New("itc: malformed encoded value")

	// ErrIncompatibleJoin names a patch whose stamp structure cannot be
	// reconciled with local state. ItcMap.Apply has no error result and
	// never returns it.
	ErrIncompatibleJoin = errors.New("itc: incompatible join")
)
