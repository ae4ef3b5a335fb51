package protocol

// ControllerData is the full data block of one RGB controller as
// returned by RequestControllerData. It is an immutable snapshot:
// every fetch reconstructs it from the wire, including the positional
// mode indexes and zone ids.
type ControllerData struct {
	// ID of the controller: the device index the request was addressed
	// to. Not carried in the payload; set by the session after decode.
	ID uint32

	Type        DeviceType
	Name        string
	Vendor      string
	Description string
	FWVersion   string
	Serial      string
	Location    string

	// ActiveMode is the index of the currently active mode.
	ActiveMode int32

	Modes []ModeData
	Zones []ZoneData
	LEDs  []LED

	// Colors holds the current color of each LED, parallel to LEDs.
	Colors []Color

	// LEDAltNames carries alternate LED names. Protocol 5+.
	LEDAltNames Versioned[[]string]

	// Flags is the controller flags bitfield. Protocol 5+.
	Flags Versioned[uint32]
}

// Decode reads a controller data block. The field order is fixed by the
// protocol and must not be reordered. The leading payload size field is
// read and discarded without validating it against the bytes actually
// consumed; servers are known to send slightly inconsistent sizes.
func (c *ControllerData) Decode(r *Reader) error {
	if _, err := r.ReadU32(); err != nil { // embedded payload size
		return err
	}
	if err := c.Type.Decode(r); err != nil {
		return err
	}
	var err error
	for _, field := range []*string{&c.Name, &c.Vendor, &c.Description, &c.FWVersion, &c.Serial, &c.Location} {
		if *field, err = r.ReadString(); err != nil {
			return err
		}
	}

	numModes, err := r.ReadU16()
	if err != nil {
		return err
	}
	if c.ActiveMode, err = r.ReadI32(); err != nil {
		return err
	}
	if c.Modes, err = ReadValues[ModeData](r, int(numModes)); err != nil {
		return err
	}
	for i := range c.Modes {
		c.Modes[i].Index = uint32(i)
	}

	if c.Zones, err = ReadList[ZoneData](r); err != nil {
		return err
	}
	for i := range c.Zones {
		c.Zones[i].ID = uint32(i)
	}

	if c.LEDs, err = ReadList[LED](r); err != nil {
		return err
	}
	if c.Colors, err = ReadList[Color](r); err != nil {
		return err
	}

	if c.LEDAltNames, err = ReadVersioned(r, 5, readStringList); err != nil {
		return err
	}
	c.Flags, err = ReadVersioned(r, 5, (*Reader).ReadU32)
	return err
}

func readStringList(r *Reader) ([]string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < int(n); i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Mode returns the mode with the given name, or nil.
func (c *ControllerData) Mode(name string) *ModeData {
	for i := range c.Modes {
		if c.Modes[i].Name == name {
			return &c.Modes[i]
		}
	}
	return nil
}

// CurrentMode returns the active mode, or nil when the active index is
// out of range.
func (c *ControllerData) CurrentMode() *ModeData {
	if c.ActiveMode < 0 || int(c.ActiveMode) >= len(c.Modes) {
		return nil
	}
	return &c.Modes[c.ActiveMode]
}

// Zone returns the zone with the given id, or nil.
func (c *ControllerData) Zone(id uint32) *ZoneData {
	if int(id) >= len(c.Zones) {
		return nil
	}
	return &c.Zones[id]
}

// LEDCount returns the number of LEDs on the controller.
func (c *ControllerData) LEDCount() int {
	return len(c.LEDs)
}
