package protocol

import "fmt"

// DeviceType classifies a controller. Unlike the other enumerations, an
// unrecognized discriminant decodes to DeviceUnknown instead of failing:
// servers grow new device classes faster than clients learn them.
type DeviceType uint32

const (
	DeviceMotherboard  DeviceType = 0
	DeviceDRAM         DeviceType = 1
	DeviceGPU          DeviceType = 2
	DeviceCooler       DeviceType = 3
	DeviceLEDStrip     DeviceType = 4
	DeviceKeyboard     DeviceType = 5
	DeviceMouse        DeviceType = 6
	DeviceMouseMat     DeviceType = 7
	DeviceHeadset      DeviceType = 8
	DeviceHeadsetStand DeviceType = 9
	DeviceGamepad      DeviceType = 10
	DeviceLight        DeviceType = 11
	DeviceSpeaker      DeviceType = 12
	DeviceVirtual      DeviceType = 13

	// DeviceUnknown is the catch-all for discriminants this client does
	// not recognize. It is never written back to the wire.
	DeviceUnknown DeviceType = 0xffffffff
)

var deviceTypeNames = map[DeviceType]string{
	DeviceMotherboard:  "Motherboard",
	DeviceDRAM:         "DRAM",
	DeviceGPU:          "GPU",
	DeviceCooler:       "Cooler",
	DeviceLEDStrip:     "LEDStrip",
	DeviceKeyboard:     "Keyboard",
	DeviceMouse:        "Mouse",
	DeviceMouseMat:     "MouseMat",
	DeviceHeadset:      "Headset",
	DeviceHeadsetStand: "HeadsetStand",
	DeviceGamepad:      "Gamepad",
	DeviceLight:        "Light",
	DeviceSpeaker:      "Speaker",
	DeviceVirtual:      "Virtual",
	DeviceUnknown:      "Unknown",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", uint32(t))
}

func (t *DeviceType) Decode(r *Reader) error {
	raw, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, ok := deviceTypeNames[DeviceType(raw)]; ok {
		*t = DeviceType(raw)
	} else {
		*t = DeviceUnknown
	}
	return nil
}

// ZoneType describes the spatial layout of a zone.
type ZoneType uint32

const (
	ZoneSingle ZoneType = 0
	ZoneLinear ZoneType = 1
	ZoneMatrix ZoneType = 2
)

var zoneTypeNames = map[ZoneType]string{
	ZoneSingle: "Single",
	ZoneLinear: "Linear",
	ZoneMatrix: "Matrix",
}

func (t ZoneType) String() string {
	if name, ok := zoneTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ZoneType(%d)", uint32(t))
}

func (t *ZoneType) Decode(r *Reader) error {
	raw, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, ok := zoneTypeNames[ZoneType(raw)]; !ok {
		return protoErrorf("unknown zone type %d, expected 0..2", raw)
	}
	*t = ZoneType(raw)
	return nil
}

func (t ZoneType) Size(version uint32) int { return 4 }

func (t ZoneType) Encode(w *Writer) error {
	w.WriteU32(uint32(t))
	return nil
}

// ColorMode describes how a mode sources its colors.
type ColorMode uint32

const (
	ColorModeNone         ColorMode = 0
	ColorModePerLED       ColorMode = 1
	ColorModeModeSpecific ColorMode = 2
	ColorModeRandom       ColorMode = 3
)

var colorModeNames = map[ColorMode]string{
	ColorModeNone:         "None",
	ColorModePerLED:       "PerLED",
	ColorModeModeSpecific: "ModeSpecific",
	ColorModeRandom:       "Random",
}

func (m ColorMode) String() string {
	if name, ok := colorModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ColorMode(%d)", uint32(m))
}

func (m *ColorMode) Decode(r *Reader) error {
	raw, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, ok := colorModeNames[ColorMode(raw)]; !ok {
		return protoErrorf("unknown color mode %d, expected 0..3", raw)
	}
	*m = ColorMode(raw)
	return nil
}

func (m ColorMode) Size(version uint32) int { return 4 }

func (m ColorMode) Encode(w *Writer) error {
	w.WriteU32(uint32(m))
	return nil
}

// Direction is the animation direction of a mode.
type Direction uint32

const (
	DirectionLeft       Direction = 0
	DirectionRight      Direction = 1
	DirectionUp         Direction = 2
	DirectionDown       Direction = 3
	DirectionHorizontal Direction = 4
	DirectionVertical   Direction = 5
)

var directionNames = map[Direction]string{
	DirectionLeft:       "Left",
	DirectionRight:      "Right",
	DirectionUp:         "Up",
	DirectionDown:       "Down",
	DirectionHorizontal: "Horizontal",
	DirectionVertical:   "Vertical",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", uint32(d))
}

func (d *Direction) Decode(r *Reader) error {
	raw, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, ok := directionNames[Direction(raw)]; !ok {
		return protoErrorf("unknown direction %d, expected 0..5", raw)
	}
	*d = Direction(raw)
	return nil
}

func (d Direction) Size(version uint32) int { return 4 }

func (d Direction) Encode(w *Writer) error {
	w.WriteU32(uint32(d))
	return nil
}
