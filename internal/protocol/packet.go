package protocol

import (
	"fmt"
	"io"
)

// WritePacket frames payload with a header and writes the whole packet
// to w as one unit.
func WritePacket(w io.Writer, deviceID uint32, id PacketID, payload []byte) error {
	h := Header{DeviceID: deviceID, PacketID: id, PayloadLen: uint32(len(payload))}
	if err := WriteHeader(w, h); err != nil {
		return fmt.Errorf("failed to write %s header: %w", id, err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("failed to write %s payload: %w", id, err)
		}
	}
	return nil
}

// ReadPacket reads exactly one framed packet from r and returns its
// payload. The header must match the expected device id and packet
// type; a mismatch is a protocol error since the session never has more
// than one exchange in flight.
func ReadPacket(r io.Reader, deviceID uint32, id PacketID) ([]byte, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if h.PacketID != id {
		return nil, protoErrorf("expected %s response, got %s", id, h.PacketID)
	}
	if h.DeviceID != deviceID {
		return nil, protoErrorf("expected response for device %d, got device %d", deviceID, h.DeviceID)
	}
	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read %s payload (%d bytes): %w", id, h.PayloadLen, err)
	}
	return payload, nil
}

// SizePrefixed wraps a payload whose wire form begins with a redundant
// embedded size field: a uint32 equal to the inner byte count plus the
// four bytes of the field itself, followed by the inner bytes. Several
// RGBController operations require this quirk for compatibility; it is
// reproduced exactly, not corrected.
type SizePrefixed struct {
	Inner Encodable
}

func (p SizePrefixed) Size(version uint32) int {
	return 4 + p.Inner.Size(version)
}

func (p SizePrefixed) Encode(w *Writer) error {
	w.WriteU32(uint32(4 + p.Inner.Size(w.Version())))
	return w.WriteValue(p.Inner)
}
