package itc

import "fmt"

// Path addresses a single IdTree leaf from the root: each element is 0 or 1,
// choosing left or right at that depth. ItcMap uses Path as its key type and
// the identity index stores it directly as an ordered byte key.
type Path []byte

// PathOf walks id's authorized region down to the leftmost owned leaf and
// returns the path to it. It is meant for addressing a specific sub-identity
// of a pair's own seat, not for general tree inspection.
func PathOf(id IdTree) (Path, error) {
	var p Path
	for id.IsNode() {
		l := id.Left()
		if !l.IsLeafZero() {
			p = append(p, 0)
			id = l
			continue
		}
		p = append(p, 1)
		id = id.Right()
	}
	if id.IsLeafZero() {
		return nil, fmt.Errorf("itc: anonymous identity has no path: %w", ErrNoAuthority)
	}
	return p, nil
}

// EncodePath serializes a path into a CRC32-framed byte slice.
func EncodePath(p Path) []byte {
	payload := make([]byte, len(p))
	copy(payload, p)
	return frame(payload)
}

// DecodePath parses a frame produced by EncodePath, rejecting any byte that
// isn't 0 or 1.
func DecodePath(data []byte) (Path, error) {
	payload, err := unframe(data)
	if err != nil {
		return nil, err
	}
	p := make(Path, len(payload))
	for i, b := range payload {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("itc: bad path element %d: %w", b, ErrMalformedInput)
		}
		p[i] = b
	}
	return p, nil
}
