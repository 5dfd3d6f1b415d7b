package itc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/segmentio/ksuid"
)

// Wire format: [CRC32(4)][PayloadSize(4)][Payload]. The payload is a
// self-describing tag stream (no external length table), so IdTree and
// EventTree of arbitrary depth round-trip without a schema. This mirrors the
// checksum-then-length-then-data framing used for on-disk records elsewhere
// in this codebase, adapted to a recursive rather than flat payload.
const (
	tagIdLeaf0 byte = iota
	tagIdLeaf1
	tagIdNode
)

const (
	tagEvtLeaf byte = iota
	tagEvtNode
)

func frame(payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	copy(out[8:], payload)
	crc := crc32.ChecksumIEEE(out[4:])
	binary.LittleEndian.PutUint32(out[0:4], crc)
	return out
}

func unframe(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("itc: short frame: %w", ErrMalformedInput)
	}
	wantCRC := binary.LittleEndian.Uint32(data[0:4])
	size := binary.LittleEndian.Uint32(data[4:8])
	if uint64(8+size) > uint64(len(data)) {
		return nil, fmt.Errorf("itc: truncated frame: %w", ErrMalformedInput)
	}
	payload := data[8 : 8+size]
	if crc32.ChecksumIEEE(data[4:8+size]) != wantCRC {
		return nil, fmt.Errorf("itc: crc mismatch: %w", ErrMalformedInput)
	}
	return payload, nil
}

// EncodeIdTree serializes an identity into a CRC32-framed byte slice.
func EncodeIdTree(t IdTree) []byte {
	return frame(appendIdTree(nil, t))
}

func appendIdTree(buf []byte, t IdTree) []byte {
	switch {
	case t.IsLeafZero():
		return append(buf, tagIdLeaf0)
	case t.IsLeafOne():
		return append(buf, tagIdLeaf1)
	default:
		buf = append(buf, tagIdNode)
		buf = appendIdTree(buf, t.Left())
		return appendIdTree(buf, t.Right())
	}
}

// DecodeIdTree parses a frame produced by EncodeIdTree. It fails with
// ErrMalformedInput on truncated input, a bad checksum, or an unknown tag;
// it does not attempt to repair or re-normalize a malformed value.
func DecodeIdTree(data []byte) (IdTree, error) {
	payload, err := unframe(data)
	if err != nil {
		return IdTree{}, err
	}
	t, rest, err := readIdTree(payload)
	if err != nil {
		return IdTree{}, err
	}
	if len(rest) != 0 {
		return IdTree{}, fmt.Errorf("itc: trailing bytes: %w", ErrMalformedInput)
	}
	if !t.isNormal() {
		return IdTree{}, fmt.Errorf("itc: non-normal id tree: %w", ErrMalformedInput)
	}
	return t, nil
}

func readIdTree(buf []byte) (IdTree, []byte, error) {
	if len(buf) == 0 {
		return IdTree{}, nil, fmt.Errorf("itc: empty id payload: %w", ErrMalformedInput)
	}
	switch buf[0] {
	case tagIdLeaf0:
		return Leaf0(), buf[1:], nil
	case tagIdLeaf1:
		return Leaf1(), buf[1:], nil
	case tagIdNode:
		l, rest, err := readIdTree(buf[1:])
		if err != nil {
			return IdTree{}, nil, err
		}
		r, rest, err := readIdTree(rest)
		if err != nil {
			return IdTree{}, nil, err
		}
		return idNodeOf(l, r), rest, nil
	default:
		return IdTree{}, nil, fmt.Errorf("itc: unknown id tag %d: %w", buf[0], ErrMalformedInput)
	}
}

// EncodeEventTree serializes a history into a CRC32-framed byte slice.
func EncodeEventTree(t EventTree) []byte {
	return frame(appendEventTree(nil, t))
}

func appendEventTree(buf []byte, t EventTree) []byte {
	var scratch [binary.MaxVarintLen64]byte
	if t.kind == evtLeaf {
		buf = append(buf, tagEvtLeaf)
		n := binary.PutVarint(scratch[:], t.val)
		return append(buf, scratch[:n]...)
	}
	buf = append(buf, tagEvtNode)
	n := binary.PutVarint(scratch[:], t.base)
	buf = append(buf, scratch[:n]...)
	buf = appendEventTree(buf, *t.left)
	return appendEventTree(buf, *t.right)
}

// DecodeEventTree parses a frame produced by EncodeEventTree. It fails with
// ErrMalformedInput on truncated input, a bad checksum, or an unknown tag.
func DecodeEventTree(data []byte) (EventTree, error) {
	payload, err := unframe(data)
	if err != nil {
		return EventTree{}, err
	}
	t, rest, err := readEventTree(payload)
	if err != nil {
		return EventTree{}, err
	}
	if len(rest) != 0 {
		return EventTree{}, fmt.Errorf("itc: trailing bytes: %w", ErrMalformedInput)
	}
	if !t.isNormal() {
		return EventTree{}, fmt.Errorf("itc: non-normal event tree: %w", ErrMalformedInput)
	}
	return t, nil
}

func readEventTree(buf []byte) (EventTree, []byte, error) {
	if len(buf) == 0 {
		return EventTree{}, nil, fmt.Errorf("itc: empty event payload: %w", ErrMalformedInput)
	}
	switch buf[0] {
	case tagEvtLeaf:
		v, n := binary.Varint(buf[1:])
		if n <= 0 {
			return EventTree{}, nil, fmt.Errorf("itc: bad leaf varint: %w", ErrMalformedInput)
		}
		return evtLeafOf(v), buf[1+n:], nil
	case tagEvtNode:
		base, n := binary.Varint(buf[1:])
		if n <= 0 {
			return EventTree{}, nil, fmt.Errorf("itc: bad node varint: %w", ErrMalformedInput)
		}
		rest := buf[1+n:]
		l, rest, err := readEventTree(rest)
		if err != nil {
			return EventTree{}, nil, err
		}
		r, rest, err := readEventTree(rest)
		if err != nil {
			return EventTree{}, nil, err
		}
		return nodeRaw(base, l, r), rest, nil
	default:
		return EventTree{}, nil, fmt.Errorf("itc: unknown event tag %d: %w", buf[0], ErrMalformedInput)
	}
}

// EncodePair serializes a full stamp (identity, history, and actor id) into
// a single CRC32-framed byte slice: [idLen(4)][id frame][event frame][actor(20)].
func EncodePair(p ItcPair) []byte {
	idBytes := EncodeIdTree(p.id)
	evtBytes := EncodeEventTree(p.event)

	payload := make([]byte, 0, 4+len(idBytes)+len(evtBytes)+len(p.ActorID))
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(idBytes)))
	payload = append(payload, lenBuf[:]...)
	payload = append(payload, idBytes...)
	payload = append(payload, evtBytes...)
	payload = append(payload, p.ActorID.Bytes()...)
	return frame(payload)
}

// DecodePair parses a frame produced by EncodePair.
func DecodePair(data []byte) (ItcPair, error) {
	payload, err := unframe(data)
	if err != nil {
		return ItcPair{}, err
	}
	if len(payload) < 4 {
		return ItcPair{}, fmt.Errorf("itc: short pair payload: %w", ErrMalformedInput)
	}
	idLen := binary.LittleEndian.Uint32(payload[0:4])
	rest := payload[4:]
	if uint64(idLen) > uint64(len(rest)) {
		return ItcPair{}, fmt.Errorf("itc: truncated id frame: %w", ErrMalformedInput)
	}
	id, err := DecodeIdTree(rest[:idLen])
	if err != nil {
		return ItcPair{}, err
	}
	rest = rest[idLen:]

	// The event frame's own length prefix tells us where it ends within rest.
	if len(rest) < 8 {
		return ItcPair{}, fmt.Errorf("itc: short event frame: %w", ErrMalformedInput)
	}
	evtPayloadLen := binary.LittleEndian.Uint32(rest[4:8])
	evtFrameLen := 8 + int(evtPayloadLen)
	if evtFrameLen > len(rest) {
		return ItcPair{}, fmt.Errorf("itc: truncated event frame: %w", ErrMalformedInput)
	}
	event, err := DecodeEventTree(rest[:evtFrameLen])
	if err != nil {
		return ItcPair{}, err
	}
	rest = rest[evtFrameLen:]

	if len(rest) != ksuid.ByteLength {
		return ItcPair{}, fmt.Errorf("itc: bad actor id length: %w", ErrMalformedInput)
	}
	actorID, err := ksuid.FromBytes(rest)
	if err != nil {
		return ItcPair{}, fmt.Errorf("itc: bad actor id: %w", err)
	}
	return ItcPair{id: id, event: event, ActorID: actorID}, nil
}
