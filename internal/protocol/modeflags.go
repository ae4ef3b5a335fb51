package protocol

// ModeFlags is the bit-flag set describing which parameters a mode
// supports. The flag bits gate whether the mode's numeric fields carry
// meaning; the fields themselves are always present on the wire.
type ModeFlags uint32

const (
	ModeHasSpeed             ModeFlags = 1 << 0
	ModeHasDirectionLR       ModeFlags = 1 << 1
	ModeHasDirectionUD       ModeFlags = 1 << 2
	ModeHasDirectionHV       ModeFlags = 1 << 3
	ModeHasBrightness        ModeFlags = 1 << 4
	ModeHasPerLEDColor       ModeFlags = 1 << 5
	ModeHasModeSpecificColor ModeFlags = 1 << 6
	ModeHasRandomColor       ModeFlags = 1 << 7
	ModeManualSave           ModeFlags = 1 << 8
	ModeAutomaticSave        ModeFlags = 1 << 9

	// ModeHasDirection is set when any direction axis is supported.
	ModeHasDirection = ModeHasDirectionLR | ModeHasDirectionUD | ModeHasDirectionHV
)

// modeFlagsAll is the universe of declared flag bits.
const modeFlagsAll = ModeFlags(1<<10 - 1)

// Has reports whether all bits of flag are set.
func (f ModeFlags) Has(flag ModeFlags) bool {
	return f&flag == flag
}

// HasAny reports whether any bit of flag is set.
func (f ModeFlags) HasAny(flag ModeFlags) bool {
	return f&flag != 0
}

func (f ModeFlags) Size(version uint32) int { return 4 }

func (f ModeFlags) Encode(w *Writer) error {
	w.WriteU32(uint32(f))
	return nil
}

func (f *ModeFlags) Decode(r *Reader) error {
	raw, err := r.ReadU32()
	if err != nil {
		return err
	}
	if unknown := ModeFlags(raw) &^ modeFlagsAll; unknown != 0 {
		return protoErrorf("mode flags %#x contain undeclared bits %#x", raw, uint32(unknown))
	}
	*f = ModeFlags(raw)
	return nil
}
