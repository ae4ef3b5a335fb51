package client

import (
	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// SetClientName announces this client's name to the server. The payload is
// a bare NUL-terminated string with no length prefix, unlike every other
// string on the wire.
func (c *Client) SetClientName(name string) error {
	return c.send(0, protocol.PacketSetClientName, append([]byte(name), 0))
}

// ControllerCount returns the number of controllers the server exposes.
func (c *Client) ControllerCount() (uint32, error) {
	payload, err := c.exchange(0, protocol.PacketRequestControllerCount, nil)
	if err != nil {
		return 0, err
	}
	return protocol.NewReader(payload, c.version).ReadU32()
}

// Controller fetches the full data block of one controller. The request
// payload carries the session version; the response is decoded at that
// same version and the controller id, absent from the wire, is filled in
// from the request.
func (c *Client) Controller(id uint32) (*protocol.ControllerData, error) {
	w := protocol.NewWriter(c.version)
	w.WriteU32(c.version)
	payload, err := c.exchange(id, protocol.PacketRequestControllerData, w.Bytes())
	if err != nil {
		return nil, err
	}
	ctrl, err := protocol.ReadValue[protocol.ControllerData](protocol.NewReader(payload, c.version))
	if err != nil {
		return nil, err
	}
	ctrl.ID = id
	return &ctrl, nil
}

// Controllers fetches every controller the server exposes, in id order.
func (c *Client) Controllers() ([]*protocol.ControllerData, error) {
	count, err := c.ControllerCount()
	if err != nil {
		return nil, err
	}
	out := make([]*protocol.ControllerData, 0, count)
	for id := uint32(0); id < count; id++ {
		ctrl, err := c.Controller(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ctrl)
	}
	return out, nil
}

// ResizeZone changes the LED count of a resizable zone.
func (c *Client) ResizeZone(controllerID uint32, zoneID, newSize int32) error {
	w := protocol.NewWriter(c.version)
	w.WriteI32(zoneID)
	w.WriteI32(newSize)
	return c.send(controllerID, protocol.PacketResizeZone, w.Bytes())
}

// UpdateLEDs pushes a full color frame to a controller: one color per LED,
// in LED order. Fire-and-forget.
func (c *Client) UpdateLEDs(controllerID uint32, colors []protocol.Color) error {
	payload, err := c.encode(protocol.SizePrefixed{Inner: colorList(colors)})
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketUpdateLEDs, payload)
}

// UpdateZoneLEDs pushes colors to a single zone. Fire-and-forget.
func (c *Client) UpdateZoneLEDs(controllerID, zoneID uint32, colors []protocol.Color) error {
	payload, err := c.encode(protocol.SizePrefixed{Inner: zoneColors{zoneID: zoneID, colors: colors}})
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketUpdateZoneLEDs, payload)
}

// UpdateSingleLED sets the color of one LED. Fire-and-forget, and the one
// LED update whose payload carries no embedded size field.
func (c *Client) UpdateSingleLED(controllerID uint32, ledID int32, color protocol.Color) error {
	w := protocol.NewWriter(c.version)
	w.WriteI32(ledID)
	if err := w.WriteValue(color); err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketUpdateSingleLED, w.Bytes())
}

// SetCustomMode switches a controller to its direct-control ("Custom")
// mode so pushed colors are displayed as-is.
func (c *Client) SetCustomMode(controllerID uint32) error {
	return c.send(controllerID, protocol.PacketSetCustomMode, nil)
}

// UpdateMode applies new parameters to a controller mode and makes it the
// active mode.
func (c *Client) UpdateMode(controllerID uint32, modeID int32, mode protocol.ModeData) error {
	payload, err := c.encode(protocol.SizePrefixed{Inner: modeUpdate{id: modeID, mode: mode}})
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketUpdateMode, payload)
}

// SaveMode persists a mode's parameters to the device's onboard memory.
// Requires protocol 3.
func (c *Client) SaveMode(controllerID uint32, mode protocol.ModeData) error {
	if err := c.requireVersion("mode saving", protocol.PacketSaveMode); err != nil {
		return err
	}
	payload, err := c.encode(mode)
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketSaveMode, payload)
}

// Profiles lists the server's stored profiles. Requires protocol 2.
func (c *Client) Profiles() ([]string, error) {
	if err := c.requireVersion("profile control", protocol.PacketRequestProfileList); err != nil {
		return nil, err
	}
	payload, err := c.exchange(0, protocol.PacketRequestProfileList, nil)
	if err != nil {
		return nil, err
	}
	r := protocol.NewReader(payload, c.version)
	if _, err := r.ReadU32(); err != nil { // embedded payload size
		return nil, err
	}
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	profiles := make([]string, 0, n)
	for i := 0; i < int(n); i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, name)
	}
	return profiles, nil
}

// SaveProfile stores the current lighting state as a named profile on the
// server. Requires protocol 2.
func (c *Client) SaveProfile(name string) error {
	if err := c.requireVersion("profile control", protocol.PacketRequestSaveProfile); err != nil {
		return err
	}
	w := protocol.NewWriter(c.version)
	if err := w.WriteString(name); err != nil {
		return err
	}
	return c.send(0, protocol.PacketRequestSaveProfile, w.Bytes())
}

// LoadProfile applies a stored profile. Requires protocol 2. Like
// SetClientName, the name travels as a bare NUL-terminated string.
func (c *Client) LoadProfile(name string) error {
	if err := c.requireVersion("profile control", protocol.PacketRequestLoadProfile); err != nil {
		return err
	}
	return c.send(0, protocol.PacketRequestLoadProfile, append([]byte(name), 0))
}

// DeleteProfile removes a stored profile. Requires protocol 2.
func (c *Client) DeleteProfile(name string) error {
	if err := c.requireVersion("profile control", protocol.PacketRequestDeleteProfile); err != nil {
		return err
	}
	w := protocol.NewWriter(c.version)
	if err := w.WriteString(name); err != nil {
		return err
	}
	return c.send(0, protocol.PacketRequestDeleteProfile, w.Bytes())
}

// AddSegment appends a segment to a zone. Requires protocol 5, even though
// the segment data type itself exists from protocol 4.
func (c *Client) AddSegment(controllerID, zoneID uint32, segment protocol.SegmentData) error {
	if err := c.requireVersion("segment control", protocol.PacketAddSegment); err != nil {
		return err
	}
	payload, err := c.encode(protocol.SizePrefixed{Inner: segmentAdd{zoneID: zoneID, segment: segment}})
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketAddSegment, payload)
}

// ClearSegments removes all segments from a zone. Requires protocol 5.
func (c *Client) ClearSegments(controllerID, zoneID uint32) error {
	if err := c.requireVersion("segment control", protocol.PacketClearSegments); err != nil {
		return err
	}
	payload, err := c.encode(protocol.SizePrefixed{Inner: zoneRef(zoneID)})
	if err != nil {
		return err
	}
	return c.send(controllerID, protocol.PacketClearSegments, payload)
}

// Plugins lists the server's loaded SDK plugins. Requires protocol 4.
func (c *Client) Plugins() ([]protocol.PluginData, error) {
	if err := c.requireVersion("plugin discovery", protocol.PacketRequestPluginList); err != nil {
		return nil, err
	}
	payload, err := c.exchange(0, protocol.PacketRequestPluginList, nil)
	if err != nil {
		return nil, err
	}
	r := protocol.NewReader(payload, c.version)
	if _, err := r.ReadU32(); err != nil { // embedded payload size
		return nil, err
	}
	return protocol.ReadList[protocol.PluginData](r)
}

// PluginSpecific sends an opaque payload to a plugin, addressed by plugin
// index. The plugin defines the bytes; the client passes them through.
func (c *Client) PluginSpecific(pluginID uint32, data []byte) error {
	if err := c.requireVersion("plugin passthrough", protocol.PacketPluginSpecific); err != nil {
		return err
	}
	return c.send(pluginID, protocol.PacketPluginSpecific, data)
}

// RescanDevices asks the server to re-detect hardware. Requires protocol 5.
// The server answers with a DeviceListUpdated notification when the rescan
// completes; callers refetch controllers at their own pace.
func (c *Client) RescanDevices() error {
	if err := c.requireVersion("device rescan", protocol.PacketRequestRescanDevices); err != nil {
		return err
	}
	return c.send(0, protocol.PacketRequestRescanDevices, nil)
}
