package protocol

// NoLED marks a matrix cell with no LED behind it.
const NoLED = ^uint32(0)

// Matrix is the 2-D spatial layout of a matrix zone: row-major LED
// indices relative to the zone, NoLED where a position is empty.
type Matrix struct {
	Height uint32
	Width  uint32
	Cells  []uint32
}

// At returns the LED index at the given row and column.
func (m *Matrix) At(row, col int) uint32 {
	return m.Cells[row*int(m.Width)+col]
}

// Row returns one row of the matrix.
func (m *Matrix) Row(row int) []uint32 {
	start := row * int(m.Width)
	return m.Cells[start : start+int(m.Width)]
}

// ZoneData is one zone of a controller.
type ZoneData struct {
	// ID of the zone: its position in the controller's zone list.
	// Not carried on the wire; assigned after decode.
	ID uint32

	Name      string
	Type      ZoneType
	LEDsMin   uint32
	LEDsMax   uint32
	LEDsCount uint32

	// Matrix is nil unless the zone reported a non-zero matrix length.
	Matrix *Matrix

	// Segments within this zone. Protocol 4+.
	Segments Versioned[[]SegmentData]

	// Zone flags bitfield. Protocol 5+.
	Flags Versioned[uint32]
}

func (z *ZoneData) Decode(r *Reader) error {
	var err error
	if z.Name, err = r.ReadString(); err != nil {
		return err
	}
	if err = z.Type.Decode(r); err != nil {
		return err
	}
	if z.LEDsMin, err = r.ReadU32(); err != nil {
		return err
	}
	if z.LEDsMax, err = r.ReadU32(); err != nil {
		return err
	}
	if z.LEDsCount, err = r.ReadU32(); err != nil {
		return err
	}

	// A zero matrix byte length means no matrix data follows. The
	// length itself is otherwise not validated against height*width,
	// matching what servers actually send.
	matrixLen, err := r.ReadU16()
	if err != nil {
		return err
	}
	if matrixLen > 0 {
		m := &Matrix{}
		if m.Height, err = r.ReadU32(); err != nil {
			return err
		}
		if m.Width, err = r.ReadU32(); err != nil {
			return err
		}
		// Each cell is 4 bytes on the wire, so height*width can never
		// exceed the bytes left in the payload. Checking first keeps a
		// corrupt pair of dimensions from allocating unbounded memory
		// (or overflowing int and panicking in make).
		size := uint64(m.Height) * uint64(m.Width)
		if size > uint64(r.Remaining())/4 {
			return protoErrorf("matrix dimensions %dx%d exceed remaining payload (%d bytes)",
				m.Height, m.Width, r.Remaining())
		}
		m.Cells = make([]uint32, 0, size)
		for i := uint64(0); i < size; i++ {
			cell, err := r.ReadU32()
			if err != nil {
				return err
			}
			m.Cells = append(m.Cells, cell)
		}
		z.Matrix = m
	}

	if z.Segments, err = ReadVersioned(r, segmentMinVersion, readSegmentList); err != nil {
		return err
	}
	z.Flags, err = ReadVersioned(r, 5, (*Reader).ReadU32)
	return err
}

func readSegmentList(r *Reader) ([]SegmentData, error) {
	return ReadList[SegmentData](r)
}
