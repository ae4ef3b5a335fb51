package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionedBelowMinimum(t *testing.T) {
	r := NewReader([]byte{0xaa, 0xbb, 0xcc, 0xdd}, 2)

	v, err := ReadVersioned(r, 3, (*Reader).ReadU32)
	require.NoError(t, err)
	assert.False(t, v.Supported())
	assert.Equal(t, 4, r.Remaining(), "no bytes may be consumed below the minimum version")

	_, ok := v.Value()
	assert.False(t, ok)
	assert.Equal(t, uint32(7), v.Or(7))
}

func TestVersionedAtMinimum(t *testing.T) {
	r := NewReader([]byte{0x2a, 0, 0, 0}, 3)

	v, err := ReadVersioned(r, 3, (*Reader).ReadU32)
	require.NoError(t, err)
	require.True(t, v.Supported())

	got, ok := v.Value()
	assert.True(t, ok)
	assert.Equal(t, uint32(42), got)
	assert.Equal(t, 0, r.Remaining())
}

func TestVersionedEncodesToZeroBytesBelowMinimum(t *testing.T) {
	writeU32 := func(w *Writer, v uint32) error { w.WriteU32(v); return nil }
	sizeU32 := func(uint32) int { return 4 }

	w := NewWriter(2)
	require.NoError(t, WriteVersioned(w, 3, VersionedOf(uint32(42)), writeU32))
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0, VersionedSize(2, 3, VersionedOf(uint32(42)), sizeU32))

	w = NewWriter(3)
	require.NoError(t, WriteVersioned(w, 3, VersionedOf(uint32(42)), writeU32))
	assert.Equal(t, []byte{42, 0, 0, 0}, w.Bytes())
	assert.Equal(t, 4, VersionedSize(3, 3, VersionedOf(uint32(42)), sizeU32))
}
