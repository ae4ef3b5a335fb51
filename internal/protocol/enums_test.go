package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func TestDeviceTypeKnown(t *testing.T) {
	var dt DeviceType
	require.NoError(t, dt.Decode(NewReader(u32le(8), 0)))
	assert.Equal(t, DeviceHeadset, dt)
}

func TestDeviceTypeUnknownMapsToUnknown(t *testing.T) {
	var dt DeviceType
	require.NoError(t, dt.Decode(NewReader(u32le(100), 0)))
	assert.Equal(t, DeviceUnknown, dt)
	assert.Equal(t, "Unknown", dt.String())
}

func TestZoneTypeUnknownIsError(t *testing.T) {
	var zt ZoneType
	err := zt.Decode(NewReader(u32le(100), 0))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestDirectionUnknownIsError(t *testing.T) {
	var d Direction
	err := d.Decode(NewReader(u32le(100), 0))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestColorModeUnknownIsError(t *testing.T) {
	var m ColorMode
	err := m.Decode(NewReader(u32le(100), 0))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestDirectionRoundTrip(t *testing.T) {
	w := NewWriter(0)
	require.NoError(t, w.WriteValue(DirectionHorizontal))

	var d Direction
	require.NoError(t, d.Decode(NewReader(w.Bytes(), 0)))
	assert.Equal(t, DirectionHorizontal, d)
}

func TestModeFlagsUndeclaredBits(t *testing.T) {
	var f ModeFlags
	err := f.Decode(NewReader(u32le(1<<15), 0))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestModeFlagsRoundTrip(t *testing.T) {
	flags := ModeHasSpeed | ModeHasBrightness | ModeHasDirectionLR

	w := NewWriter(0)
	require.NoError(t, w.WriteValue(flags))

	var got ModeFlags
	require.NoError(t, got.Decode(NewReader(w.Bytes(), 0)))
	assert.Equal(t, flags, got)
	assert.True(t, got.Has(ModeHasSpeed))
	assert.True(t, got.HasAny(ModeHasDirection))
	assert.False(t, got.Has(ModeHasRandomColor))
}

func TestPacketIDMinVersions(t *testing.T) {
	assert.Equal(t, uint32(0), PacketRequestControllerData.MinVersion())
	assert.Equal(t, uint32(2), PacketRequestProfileList.MinVersion())
	assert.Equal(t, uint32(3), PacketSaveMode.MinVersion())
	assert.Equal(t, uint32(4), PacketRequestPluginList.MinVersion())
	// SegmentData exists from protocol 4, but the segment operations
	// are only accepted from protocol 5.
	assert.Equal(t, uint32(5), PacketAddSegment.MinVersion())
	assert.Equal(t, uint32(5), PacketClearSegments.MinVersion())
	assert.Equal(t, uint32(5), PacketRequestRescanDevices.MinVersion())
}
