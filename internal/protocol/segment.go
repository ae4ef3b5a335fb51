package protocol

// SegmentData is a named sub-range of a zone's LEDs. Segments entered
// the protocol at version 4; encoding or decoding one on an older
// session is a hard error, never a default.
type SegmentData struct {
	Name     string
	Type     int32
	StartIdx uint32
	LEDCount uint32
}

// segmentMinVersion is the protocol revision that introduced the
// segment data type. The AddSegment/ClearSegments operations are gated
// separately at version 5.
const segmentMinVersion = 4

func (s *SegmentData) Decode(r *Reader) error {
	if r.Version() < segmentMinVersion {
		return protoErrorf("segment data requires protocol version %d, session negotiated %d",
			segmentMinVersion, r.Version())
	}
	var err error
	if s.Name, err = r.ReadString(); err != nil {
		return err
	}
	if s.Type, err = r.ReadI32(); err != nil {
		return err
	}
	if s.StartIdx, err = r.ReadU32(); err != nil {
		return err
	}
	s.LEDCount, err = r.ReadU32()
	return err
}

func (s SegmentData) Size(version uint32) int {
	return StringSize(s.Name) + 4 + 4 + 4
}

func (s SegmentData) Encode(w *Writer) error {
	if w.Version() < segmentMinVersion {
		return protoErrorf("segment data requires protocol version %d, session negotiated %d",
			segmentMinVersion, w.Version())
	}
	if err := w.WriteString(s.Name); err != nil {
		return err
	}
	w.WriteI32(s.Type)
	w.WriteU32(s.StartIdx)
	w.WriteU32(s.LEDCount)
	return nil
}
