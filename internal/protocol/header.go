package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
)

// HeaderSize is the fixed size of every packet header.
const HeaderSize = 16

// Magic is the 4-byte constant that prefixes every packet header.
var Magic = [4]byte{'O', 'R', 'G', 'B'}

// Header is the fixed 16-byte packet header: magic, device id, packet
// type id, payload length. The payload length counts only the payload,
// not the header. The header layout is constant across protocol
// versions.
type Header struct {
	DeviceID   uint32
	PacketID   PacketID
	PayloadLen uint32
}

// Encode serializes the header into its 16-byte wire form.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.DeviceID)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.PacketID))
	binary.LittleEndian.PutUint32(buf[12:16], h.PayloadLen)
	return buf
}

// DecodeHeader parses a 16-byte header, validating the magic and the
// packet type against the known enumeration.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, protoErrorf("header requires %d bytes, got %d", HeaderSize, len(buf))
	}
	if !bytes.Equal(buf[0:4], Magic[:]) {
		return Header{}, protoErrorf("expected ORGB magic, got %q", buf[0:4])
	}
	h := Header{
		DeviceID:   binary.LittleEndian.Uint32(buf[4:8]),
		PacketID:   PacketID(binary.LittleEndian.Uint32(buf[8:12])),
		PayloadLen: binary.LittleEndian.Uint32(buf[12:16]),
	}
	if !h.PacketID.Valid() {
		return Header{}, protoErrorf("unknown packet type id %d", uint32(h.PacketID))
	}
	return h, nil
}

// ReadHeader reads exactly one header from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	return DecodeHeader(buf)
}

// WriteHeader writes the header to w.
func WriteHeader(w io.Writer, h Header) error {
	_, err := w.Write(h.Encode())
	return err
}
