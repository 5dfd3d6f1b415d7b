package itcmap

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/itcclock/pkg/itc"
)

// frameWithCRC and unframeWithCRC apply the same
// [CRC32(4)][size(4)][payload] discipline as the itc package's internal
// tree framing, kept local since itc's frame/unframe aren't exported.
func frameWithCRC(payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	copy(out[8:], payload)
	binary.LittleEndian.PutUint32(out[0:4], crc32.ChecksumIEEE(out[4:]))
	return out
}

func unframeWithCRC(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("itcmap: short frame: %w", itc.ErrMalformedInput)
	}
	wantCRC := binary.LittleEndian.Uint32(data[0:4])
	size := binary.LittleEndian.Uint32(data[4:8])
	if uint64(8+size) > uint64(len(data)) {
		return nil, fmt.Errorf("itcmap: truncated frame: %w", itc.ErrMalformedInput)
	}
	payload := data[8 : 8+size]
	if crc32.ChecksumIEEE(data[4:8+size]) != wantCRC {
		return nil, fmt.Errorf("itcmap: crc mismatch: %w", itc.ErrMalformedInput)
	}
	return payload, nil
}

// EncodePatch serializes a Patch into a CRC32-framed byte slice, using
// encodeValue to turn each entry's V into bytes. Format:
// [entryCount(4)][entries...][time frame], where each entry is
// [pathLen(4)][path frame][stampLen(4)][stamp frame][valueLen(4)][value bytes].
func EncodePatch[V any](p Patch[V], encodeValue func(V) []byte) []byte {
	var payload []byte
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(p.Entries)))
	payload = append(payload, countBuf[:]...)

	for _, e := range p.Entries {
		pathFrame := itc.EncodePath(e.Path)
		stampFrame := itc.EncodeEventTree(e.Stamp)
		valueBytes := encodeValue(e.Value)

		payload = append(payload, lengthPrefixed(pathFrame)...)
		payload = append(payload, lengthPrefixed(stampFrame)...)
		payload = append(payload, lengthPrefixed(valueBytes)...)
	}

	payload = append(payload, itc.EncodeEventTree(p.Time)...)
	return frameWithCRC(payload)
}

func lengthPrefixed(b []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	return append(lenBuf[:], b...)
}

// DecodePatch parses a frame produced by EncodePatch, using decodeValue to
// reconstruct each entry's V.
func DecodePatch[V any](data []byte, decodeValue func([]byte) (V, error)) (Patch[V], error) {
	payload, err := unframeWithCRC(data)
	if err != nil {
		return Patch[V]{}, err
	}
	if len(payload) < 4 {
		return Patch[V]{}, fmt.Errorf("itcmap: short patch payload: %w", itc.ErrMalformedInput)
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	rest := payload[4:]

	entries := make([]PatchEntry[V], 0, count)
	for i := uint32(0); i < count; i++ {
		pathFrame, tail, err := readLengthPrefixed(rest)
		if err != nil {
			return Patch[V]{}, err
		}
		path, err := itc.DecodePath(pathFrame)
		if err != nil {
			return Patch[V]{}, err
		}
		rest = tail

		stampFrame, tail, err := readLengthPrefixed(rest)
		if err != nil {
			return Patch[V]{}, err
		}
		stamp, err := itc.DecodeEventTree(stampFrame)
		if err != nil {
			return Patch[V]{}, err
		}
		rest = tail

		valueBytes, tail, err := readLengthPrefixed(rest)
		if err != nil {
			return Patch[V]{}, err
		}
		value, err := decodeValue(valueBytes)
		if err != nil {
			return Patch[V]{}, fmt.Errorf("itcmap: bad entry value: %w", err)
		}
		rest = tail

		entries = append(entries, PatchEntry[V]{Path: path, Value: value, Stamp: stamp})
	}

	time, err := itc.DecodeEventTree(rest)
	if err != nil {
		return Patch[V]{}, err
	}
	return Patch[V]{Entries: entries, Time: time}, nil
}

func readLengthPrefixed(buf []byte) ([]byte, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("itcmap: truncated length prefix: %w", itc.ErrMalformedInput)
	}
	n := binary.LittleEndian.Uint32(buf[0:4])
	if uint64(4+n) > uint64(len(buf)) {
		return nil, nil, fmt.Errorf("itcmap: truncated field: %w", itc.ErrMalformedInput)
	}
	return buf[4 : 4+n], buf[4+n:], nil
}
