package client

import (
	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// Encodable adapters for the RGBController request payloads. Each mirrors
// the exact field order the server expects after the embedded size field.

type colorList []protocol.Color

func (l colorList) Size(version uint32) int {
	return protocol.ListSize(version, l)
}

func (l colorList) Encode(w *protocol.Writer) error {
	return protocol.WriteList(w, []protocol.Color(l))
}

type zoneColors struct {
	zoneID uint32
	colors []protocol.Color
}

func (p zoneColors) Size(version uint32) int {
	return 4 + protocol.ListSize(version, p.colors)
}

func (p zoneColors) Encode(w *protocol.Writer) error {
	w.WriteU32(p.zoneID)
	return protocol.WriteList(w, p.colors)
}

type modeUpdate struct {
	id   int32
	mode protocol.ModeData
}

func (p modeUpdate) Size(version uint32) int {
	return 4 + p.mode.Size(version)
}

func (p modeUpdate) Encode(w *protocol.Writer) error {
	w.WriteI32(p.id)
	return w.WriteValue(p.mode)
}

type segmentAdd struct {
	zoneID  uint32
	segment protocol.SegmentData
}

func (p segmentAdd) Size(version uint32) int {
	return 4 + p.segment.Size(version)
}

func (p segmentAdd) Encode(w *protocol.Writer) error {
	w.WriteU32(p.zoneID)
	return w.WriteValue(p.segment)
}

type zoneRef uint32

func (z zoneRef) Size(version uint32) int { return 4 }

func (z zoneRef) Encode(w *protocol.Writer) error {
	w.WriteU32(uint32(z))
	return nil
}
