package itcmap

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/itcclock/pkg/itc"
)

func encodeIntValue(v int) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func decodeIntValue(b []byte) (int, error) {
	return int(binary.LittleEndian.Uint64(b)), nil
}

func TestPatchEncodeDecodeRoundTrip(t *testing.T) {
	m := New[int](nil)
	require.NoError(t, m.Insert(itc.Path{0}, 1))
	require.NoError(t, m.Insert(itc.Path{1}, 2))
	patch := m.Diff(itc.New())

	encoded := EncodePatch(patch, encodeIntValue)
	decoded, err := DecodePatch(encoded, decodeIntValue)
	require.NoError(t, err)

	require.Len(t, decoded.Entries, len(patch.Entries))
	for i, e := range patch.Entries {
		assert.Equal(t, e.Path, decoded.Entries[i].Path)
		assert.Equal(t, e.Value, decoded.Entries[i].Value)
		assert.True(t, e.Stamp.Equal(decoded.Entries[i].Stamp))
	}
	assert.True(t, patch.Time.Equal(decoded.Time))
}

func TestPatchEncodeDecodeEmptyPatch(t *testing.T) {
	patch := Patch[int]{Entries: nil, Time: itc.New()}
	encoded := EncodePatch(patch, encodeIntValue)
	decoded, err := DecodePatch(encoded, decodeIntValue)
	require.NoError(t, err)
	assert.Empty(t, decoded.Entries)
	assert.True(t, patch.Time.Equal(decoded.Time))
}

func TestDecodePatchRejectsCorruptedChecksum(t *testing.T) {
	patch := Patch[int]{Entries: nil, Time: itc.New()}
	encoded := EncodePatch(patch, encodeIntValue)
	encoded[0] ^= 0xFF
	_, err := DecodePatch(encoded, decodeIntValue)
	assert.ErrorIs(t, err, itc.ErrMalformedInput)
}
