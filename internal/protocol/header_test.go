package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{DeviceID: 3, PacketID: PacketUpdateMode, PayloadLen: 42}

	buf := h.Encode()
	require.Len(t, buf, HeaderSize)
	assert.Equal(t, []byte("ORGB"), buf[0:4])

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestHeaderBadMagic(t *testing.T) {
	buf := Header{PacketID: PacketSetClientName}.Encode()
	buf[0] = 'X'

	_, err := DecodeHeader(buf)
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestHeaderUnknownPacketID(t *testing.T) {
	buf := Header{PacketID: PacketID(9999), PayloadLen: 0}.Encode()

	_, err := DecodeHeader(buf)
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader([]byte("ORGB"))
	require.Error(t, err)
}

func TestReadPacketValidatesIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePacket(&buf, 2, PacketRequestControllerData, []byte{1, 2, 3}))

	// Wrong packet type.
	cp := bytes.NewBuffer(append([]byte(nil), buf.Bytes()...))
	_, err := ReadPacket(cp, 2, PacketRequestControllerCount)
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)

	// Wrong device id.
	cp = bytes.NewBuffer(append([]byte(nil), buf.Bytes()...))
	_, err = ReadPacket(cp, 7, PacketRequestControllerData)
	require.Error(t, err)

	// Matching expectations.
	payload, err := ReadPacket(&buf, 2, PacketRequestControllerData)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, payload)
}

func TestReadPacketTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{DeviceID: 0, PacketID: PacketRequestControllerCount, PayloadLen: 8}))
	buf.Write([]byte{1, 2}) // short

	_, err := ReadPacket(&buf, 0, PacketRequestControllerCount)
	require.Error(t, err)
}

func TestSizePrefixedEmbedsOwnLength(t *testing.T) {
	w := NewWriter(2)
	require.NoError(t, w.WriteValue(SizePrefixed{Inner: Color{R: 1, G: 2, B: 3}}))

	// 4 bytes of length field (4+4=8) then the color.
	assert.Equal(t, []byte{8, 0, 0, 0, 1, 2, 3, 0}, w.Bytes())
}
