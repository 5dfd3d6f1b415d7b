package itc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdTreeEncodeDecodeRoundTrip(t *testing.T) {
	cases := []IdTree{
		Leaf0(),
		Leaf1(),
		idNodeOf(Leaf1(), Leaf0()),
		idNodeOf(idNodeOf(Leaf1(), Leaf0()), idNodeOf(Leaf0(), Leaf1())),
	}
	for _, id := range cases {
		encoded := EncodeIdTree(id)
		decoded, err := DecodeIdTree(encoded)
		require.NoError(t, err)
		assert.True(t, id.Equal(decoded))
	}
}

func TestEventTreeEncodeDecodeRoundTrip(t *testing.T) {
	cases := []EventTree{
		New(),
		evtLeafOf(42),
		nodeRaw(3, evtLeafOf(0), nodeRaw(1, evtLeafOf(2), evtLeafOf(0))),
	}
	for _, e := range cases {
		encoded := EncodeEventTree(e)
		decoded, err := DecodeEventTree(encoded)
		require.NoError(t, err)
		assert.True(t, e.Equal(decoded))
	}
}

func TestPairEncodeDecodeRoundTrip(t *testing.T) {
	p := Seed()
	require.NoError(t, p.Event())
	q := p.Fork()
	require.NoError(t, q.Event())

	encoded := EncodePair(q)
	decoded, err := DecodePair(encoded)
	require.NoError(t, err)

	assert.True(t, q.Id().Equal(decoded.Id()))
	assert.True(t, q.Timestamp().Equal(decoded.Timestamp()))
	assert.Equal(t, q.ActorID, decoded.ActorID)
}

func TestDecodeRejectsCorruptedChecksum(t *testing.T) {
	encoded := EncodeIdTree(Leaf1())
	encoded[0] ^= 0xFF
	_, err := DecodeIdTree(encoded)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	encoded := EncodeEventTree(nodeRaw(1, evtLeafOf(2), evtLeafOf(0)))
	_, err := DecodeEventTree(encoded[:len(encoded)-1])
	assert.Error(t, err)
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := DecodeIdTree(nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeRejectsNonNormalIdTree(t *testing.T) {
	// Hand-build a Node(Leaf0, Leaf0) payload directly, bypassing idNorm.
	payload := []byte{tagIdNode, tagIdLeaf0, tagIdLeaf0}
	_, err := DecodeIdTree(frame(payload))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeRejectsNonNormalEventTree(t *testing.T) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutVarint(scratch[:], 0)
	payload := []byte{tagEvtNode}
	payload = append(payload, scratch[:n]...)
	payload = append(payload, tagEvtLeaf)
	payload = append(payload, scratch[:n]...)
	payload = append(payload, tagEvtLeaf)
	payload = append(payload, scratch[:n]...)
	_, err := DecodeEventTree(frame(payload))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	encoded := EncodeIdTree(Leaf1())
	// The payload is a single tag byte at offset 8; corrupt it to an
	// unused value, which also invalidates the checksum.
	encoded[8] = 0x7F
	_, err := DecodeIdTree(encoded)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
