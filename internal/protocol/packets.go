// Package protocol implements the OpenRGB SDK network protocol: the
// little-endian wire codec, the 16-byte ORGB packet framing, and the
// device data model (controllers, zones, segments, modes, LEDs).
// All multi-byte integers are little-endian.
package protocol

import "fmt"

// MaxProtocolVersion is the highest SDK protocol revision this client speaks.
// The session negotiates min(MaxProtocolVersion, server version) at connect.
const MaxProtocolVersion uint32 = 5

// DefaultAddress is the standard OpenRGB SDK server address.
const DefaultAddress = "127.0.0.1:6742"

// PacketID identifies the type of a packet. Values are fixed by the OpenRGB
// network protocol and are part of the compatibility contract.
type PacketID uint32

const (
	// Request the number of controllers from the server.
	PacketRequestControllerCount PacketID = 0

	// Request the full data block of one controller.
	PacketRequestControllerData PacketID = 1

	// Request the server's SDK protocol version.
	PacketRequestProtocolVersion PacketID = 40

	// Send this client's name to the server.
	PacketSetClientName PacketID = 50

	// Server notification that the device list changed.
	PacketDeviceListUpdated PacketID = 100

	// Ask the server to re-detect devices. Protocol 5+.
	PacketRequestRescanDevices PacketID = 140

	// Profile management. Protocol 2+.
	PacketRequestProfileList   PacketID = 150
	PacketRequestSaveProfile   PacketID = 151
	PacketRequestLoadProfile   PacketID = 152
	PacketRequestDeleteProfile PacketID = 153

	// Plugin discovery and passthrough. Protocol 4+.
	PacketRequestPluginList PacketID = 200
	PacketPluginSpecific    PacketID = 201

	// RGBController operations.
	PacketResizeZone      PacketID = 1000
	PacketClearSegments   PacketID = 1001
	PacketAddSegment      PacketID = 1002
	PacketUpdateLEDs      PacketID = 1050
	PacketUpdateZoneLEDs  PacketID = 1051
	PacketUpdateSingleLED PacketID = 1052
	PacketSetCustomMode   PacketID = 1100
	PacketUpdateMode      PacketID = 1101
	PacketSaveMode        PacketID = 1102
)

var packetNames = map[PacketID]string{
	PacketRequestControllerCount: "RequestControllerCount",
	PacketRequestControllerData:  "RequestControllerData",
	PacketRequestProtocolVersion: "RequestProtocolVersion",
	PacketSetClientName:          "SetClientName",
	PacketDeviceListUpdated:      "DeviceListUpdated",
	PacketRequestRescanDevices:   "RequestRescanDevices",
	PacketRequestProfileList:     "RequestProfileList",
	PacketRequestSaveProfile:     "RequestSaveProfile",
	PacketRequestLoadProfile:     "RequestLoadProfile",
	PacketRequestDeleteProfile:   "RequestDeleteProfile",
	PacketRequestPluginList:      "RequestPluginList",
	PacketPluginSpecific:         "PluginSpecific",
	PacketResizeZone:             "ResizeZone",
	PacketClearSegments:          "ClearSegments",
	PacketAddSegment:             "AddSegment",
	PacketUpdateLEDs:             "UpdateLEDs",
	PacketUpdateZoneLEDs:         "UpdateZoneLEDs",
	PacketUpdateSingleLED:        "UpdateSingleLED",
	PacketSetCustomMode:          "SetCustomMode",
	PacketUpdateMode:             "UpdateMode",
	PacketSaveMode:               "SaveMode",
}

// Minimum protocol version required before a packet type may be sent.
// The server rejects (or mangles) these on older sessions, so the client
// refuses them before any bytes hit the wire. Note the asymmetry with
// SegmentData: the data type exists from protocol 4, but the segment
// mutation operations are only accepted from protocol 5.
var packetMinVersions = map[PacketID]uint32{
	PacketRequestProfileList:   2,
	PacketRequestSaveProfile:   2,
	PacketRequestLoadProfile:   2,
	PacketRequestDeleteProfile: 2,
	PacketSaveMode:             3,
	PacketRequestPluginList:    4,
	PacketPluginSpecific:       4,
	PacketClearSegments:        5,
	PacketAddSegment:           5,
	PacketRequestRescanDevices: 5,
}

// Valid reports whether id is a known packet type.
func (id PacketID) Valid() bool {
	_, ok := packetNames[id]
	return ok
}

// MinVersion returns the lowest protocol version at which this packet
// type may be used. Zero means the packet exists in every revision.
func (id PacketID) MinVersion() uint32 {
	return packetMinVersions[id]
}

// String returns the packet type name, or a numeric fallback for
// unknown values.
func (id PacketID) String() string {
	if name, ok := packetNames[id]; ok {
		return name
	}
	return fmt.Sprintf("PacketID(%d)", uint32(id))
}
