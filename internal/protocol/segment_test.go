package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentRoundTrip(t *testing.T) {
	seg := SegmentData{Name: "Top", Type: 1, StartIdx: 3, LEDCount: 9}

	w := NewWriter(4)
	require.NoError(t, w.WriteValue(seg))
	assert.Equal(t, seg.Size(4), w.Len())

	r := NewReader(w.Bytes(), 4)
	got, err := ReadValue[SegmentData](r)
	require.NoError(t, err)
	assert.Equal(t, seg, got)
	assert.Equal(t, 0, r.Remaining())
}

func TestSegmentRejectsOldSessions(t *testing.T) {
	// Segments did not exist before protocol 4; there is no sensible
	// zero-byte fallback, so both directions refuse outright.
	seg := SegmentData{Name: "Top"}

	w := NewWriter(3)
	err := w.WriteValue(seg)
	require.Error(t, err)
	var perr *ProtocolError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, w.Len())

	r := NewReader([]byte{4, 0, 'T', 'o', 'p', 0}, 3)
	_, err = ReadValue[SegmentData](r)
	require.Error(t, err)
	assert.ErrorAs(t, err, &perr)
}

func TestPluginDecode(t *testing.T) {
	w := NewWriter(4)
	require.NoError(t, w.WriteString("Effects"))
	require.NoError(t, w.WriteString("Visual effects engine"))
	require.NoError(t, w.WriteString("1.0"))
	w.WriteU32(0)
	w.WriteU32(1)

	r := NewReader(w.Bytes(), 4)
	got, err := ReadValue[PluginData](r)
	require.NoError(t, err)
	assert.Equal(t, PluginData{
		Name:            "Effects",
		Description:     "Visual effects engine",
		Version:         "1.0",
		Index:           0,
		ProtocolVersion: 1,
	}, got)
	assert.Equal(t, 0, r.Remaining())
}
