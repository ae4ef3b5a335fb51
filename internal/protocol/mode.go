package protocol

// ModeData is one lighting mode of a controller. The numeric parameter
// fields are always present on the wire as raw bytes; whether they carry
// meaning depends on Flags, so Decode reads Flags before any of them and
// the accessor methods gate on it. Brightness entered the protocol at
// version 3 and occupies zero bytes on older sessions.
//
// Wire order: name, value, flags, speed min/max, brightness min/max
// (v3+), colors min/max, speed, brightness (v3+), direction, color
// mode, colors.
type ModeData struct {
	// Index of this mode in the controller's mode list. Not carried on
	// the wire; assigned by position after decode.
	Index uint32

	Name  string
	Value int32
	Flags ModeFlags

	SpeedMin uint32
	SpeedMax uint32
	Speed    uint32

	BrightnessMin Versioned[uint32]
	BrightnessMax Versioned[uint32]
	Brightness    Versioned[uint32]

	ColorsMin uint32
	ColorsMax uint32

	Direction Direction
	ColorMode ColorMode
	Colors    []Color
}

// brightnessMinVersion is the protocol revision that added the
// brightness fields to mode data.
const brightnessMinVersion = 3

func (m *ModeData) Decode(r *Reader) error {
	var err error
	if m.Name, err = r.ReadString(); err != nil {
		return err
	}
	if m.Value, err = r.ReadI32(); err != nil {
		return err
	}
	if err = m.Flags.Decode(r); err != nil {
		return err
	}
	if m.SpeedMin, err = r.ReadU32(); err != nil {
		return err
	}
	if m.SpeedMax, err = r.ReadU32(); err != nil {
		return err
	}
	if m.BrightnessMin, err = ReadVersioned(r, brightnessMinVersion, (*Reader).ReadU32); err != nil {
		return err
	}
	if m.BrightnessMax, err = ReadVersioned(r, brightnessMinVersion, (*Reader).ReadU32); err != nil {
		return err
	}
	if m.ColorsMin, err = r.ReadU32(); err != nil {
		return err
	}
	if m.ColorsMax, err = r.ReadU32(); err != nil {
		return err
	}
	if m.Speed, err = r.ReadU32(); err != nil {
		return err
	}
	if m.Brightness, err = ReadVersioned(r, brightnessMinVersion, (*Reader).ReadU32); err != nil {
		return err
	}
	if err = m.Direction.Decode(r); err != nil {
		return err
	}
	if err = m.ColorMode.Decode(r); err != nil {
		return err
	}
	m.Colors, err = ReadList[Color](r)
	return err
}

func (m ModeData) Size(version uint32) int {
	n := StringSize(m.Name)
	n += 4 // value
	n += 4 // flags
	n += 4 + 4
	n += VersionedSize(version, brightnessMinVersion, m.BrightnessMin, func(uint32) int { return 4 })
	n += VersionedSize(version, brightnessMinVersion, m.BrightnessMax, func(uint32) int { return 4 })
	n += 4 + 4
	n += 4 // speed
	n += VersionedSize(version, brightnessMinVersion, m.Brightness, func(uint32) int { return 4 })
	n += 4 // direction
	n += 4 // color mode
	n += ListSize(version, m.Colors)
	return n
}

func (m ModeData) Encode(w *Writer) error {
	if err := w.WriteString(m.Name); err != nil {
		return err
	}
	w.WriteI32(m.Value)
	if err := w.WriteValue(m.Flags); err != nil {
		return err
	}
	w.WriteU32(m.SpeedMin)
	w.WriteU32(m.SpeedMax)
	writeU32 := func(w *Writer, v uint32) error { w.WriteU32(v); return nil }
	if err := WriteVersioned(w, brightnessMinVersion, m.BrightnessMin, writeU32); err != nil {
		return err
	}
	if err := WriteVersioned(w, brightnessMinVersion, m.BrightnessMax, writeU32); err != nil {
		return err
	}
	w.WriteU32(m.ColorsMin)
	w.WriteU32(m.ColorsMax)
	w.WriteU32(m.Speed)
	if err := WriteVersioned(w, brightnessMinVersion, m.Brightness, writeU32); err != nil {
		return err
	}
	if err := w.WriteValue(m.Direction); err != nil {
		return err
	}
	if err := w.WriteValue(m.ColorMode); err != nil {
		return err
	}
	return WriteList(w, m.Colors)
}

// SpeedRange returns the speed bounds and current value when the mode
// supports a speed parameter.
func (m *ModeData) SpeedRange() (min, max, cur uint32, ok bool) {
	if !m.Flags.Has(ModeHasSpeed) {
		return 0, 0, 0, false
	}
	return m.SpeedMin, m.SpeedMax, m.Speed, true
}

// BrightnessValue returns the current brightness when the mode supports
// brightness and the session's protocol carries the field.
func (m *ModeData) BrightnessValue() (uint32, bool) {
	if !m.Flags.Has(ModeHasBrightness) {
		return 0, false
	}
	return m.Brightness.Value()
}

// SetBrightness updates the brightness when the mode supports it.
func (m *ModeData) SetBrightness(v uint32) {
	if m.Flags.Has(ModeHasBrightness) && m.Brightness.Supported() {
		m.Brightness = VersionedOf(v)
	}
}

// SetSpeed updates the speed when the mode supports it.
func (m *ModeData) SetSpeed(v uint32) {
	if m.Flags.Has(ModeHasSpeed) {
		m.Speed = v
	}
}

// DirectionValue returns the direction when the mode supports one.
func (m *ModeData) DirectionValue() (Direction, bool) {
	if !m.Flags.HasAny(ModeHasDirection) {
		return 0, false
	}
	return m.Direction, true
}

// ColorRange returns the min/max color count when the mode carries a
// color list.
func (m *ModeData) ColorRange() (min, max uint32, ok bool) {
	if len(m.Colors) == 0 {
		return 0, 0, false
	}
	return m.ColorsMin, m.ColorsMax, true
}
