package client

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// fakeServer scripts one side of a net.Pipe as an OpenRGB server. Server
// assertions run on a background goroutine, so they use assert (record the
// failure) rather than require (which must not FailNow off the test
// goroutine).
type fakeServer struct {
	t    *testing.T
	conn net.Conn
}

func (s *fakeServer) readPacket(wantID protocol.PacketID) (uint32, []byte) {
	h, err := protocol.ReadHeader(s.conn)
	if !assert.NoError(s.t, err) {
		return 0, nil
	}
	assert.Equal(s.t, wantID, h.PacketID)
	payload := make([]byte, h.PayloadLen)
	_, err = io.ReadFull(s.conn, payload)
	assert.NoError(s.t, err)
	return h.DeviceID, payload
}

func (s *fakeServer) writePacket(deviceID uint32, id protocol.PacketID, payload []byte) {
	assert.NoError(s.t, protocol.WritePacket(s.conn, deviceID, id, payload))
}

func (s *fakeServer) negotiate(serverVersion uint32) {
	_, payload := s.readPacket(protocol.PacketRequestProtocolVersion)
	if advertised, err := protocol.NewReader(payload, protocol.MaxProtocolVersion).ReadU32(); assert.NoError(s.t, err) {
		assert.Equal(s.t, protocol.MaxProtocolVersion, advertised)
	}
	w := protocol.NewWriter(serverVersion)
	w.WriteU32(serverVersion)
	s.writePacket(0, protocol.PacketRequestProtocolVersion, w.Bytes())
}

// newTestSession negotiates a session against a scripted server. The
// script runs on its own goroutine and must consume exactly the packets
// the test sends.
func newTestSession(t *testing.T, serverVersion uint32, script func(*fakeServer)) *Client {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})

	srv := &fakeServer{t: t, conn: serverConn}
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.negotiate(serverVersion)
		if script != nil {
			script(srv)
		}
	}()
	t.Cleanup(func() {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server script did not finish")
		}
	})

	c, err := NewClient(clientConn)
	require.NoError(t, err)
	return c
}

func TestNegotiationAdoptsMinimum(t *testing.T) {
	c := newTestSession(t, 2, nil)
	assert.Equal(t, uint32(2), c.Version())
}

func TestNegotiationCapsAtClientMaximum(t *testing.T) {
	c := newTestSession(t, 9, nil)
	assert.Equal(t, protocol.MaxProtocolVersion, c.Version())
}

func TestNegotiationFailureReturnsConnectionError(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	serverConn.Close()

	_, err := NewClient(clientConn)
	require.Error(t, err)
	var cerr *protocol.ConnectionError
	assert.ErrorAs(t, err, &cerr)
}

func TestVersionGateFailsBeforeSendingBytes(t *testing.T) {
	c := newTestSession(t, 2, nil)

	err := c.SaveMode(0, protocol.ModeData{Name: "Static"})
	require.Error(t, err)
	var uerr *protocol.UnsupportedOperationError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, uint32(3), uerr.Required)
	assert.Equal(t, uint32(2), uerr.Negotiated)

	// Nothing reached the wire: the pipe stays silent past negotiation.
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	buf := make([]byte, 1)
	_, rerr := c.conn.Read(buf)
	assert.Error(t, rerr)
}

func TestVersionGatesPerOperation(t *testing.T) {
	c := newTestSession(t, 4, nil)

	// Plugin operations are open at 4; segment mutation and rescan are not.
	var uerr *protocol.UnsupportedOperationError
	err := c.ClearSegments(0, 0)
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, uint32(5), uerr.Required)

	err = c.AddSegment(0, 0, protocol.SegmentData{Name: "Top"})
	require.ErrorAs(t, err, &uerr)

	err = c.RescanDevices()
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, uint32(4), uerr.Negotiated)
}

func TestSetClientNameWireFormat(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		deviceID, payload := s.readPacket(protocol.PacketSetClientName)
		assert.Equal(t, uint32(0), deviceID)
		assert.Equal(t, []byte("test\x00"), payload)
	})
	require.NoError(t, c.SetClientName("test"))
}

func TestControllerCount(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketRequestControllerCount)
		assert.Empty(t, payload)
		w := protocol.NewWriter(5)
		w.WriteU32(3)
		s.writePacket(0, protocol.PacketRequestControllerCount, w.Bytes())
	})

	count, err := c.ControllerCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), count)
}

// minimalController builds the smallest well-formed controller payload at
// the given version.
func minimalController(t *testing.T, version uint32) []byte {
	t.Helper()
	w := protocol.NewWriter(version)
	w.WriteU32(0) // embedded size, ignored by receivers
	w.WriteU32(6) // mouse
	for _, s := range []string{"Test Mouse", "ACME", "", "1.0", "", "USB"} {
		require.NoError(t, w.WriteString(s))
	}
	w.WriteU16(0) // modes
	w.WriteI32(0) // active mode
	w.WriteU16(0) // zones
	w.WriteU16(0) // leds
	w.WriteU16(0) // colors
	if version >= 5 {
		w.WriteU16(0) // alternate led names
		w.WriteU32(0) // controller flags
	}
	return w.Bytes()
}

func TestControllerFetchAssignsID(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		deviceID, payload := s.readPacket(protocol.PacketRequestControllerData)
		assert.Equal(t, uint32(7), deviceID)
		if v, err := protocol.NewReader(payload, 5).ReadU32(); assert.NoError(t, err) {
			assert.Equal(t, uint32(5), v, "request carries the session version")
		}
		s.writePacket(7, protocol.PacketRequestControllerData, minimalController(s.t, 5))
	})

	ctrl, err := c.Controller(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), ctrl.ID)
	assert.Equal(t, "Test Mouse", ctrl.Name)
	assert.Equal(t, protocol.DeviceMouse, ctrl.Type)
}

func TestControllersFetchesAll(t *testing.T) {
	c := newTestSession(t, 3, func(s *fakeServer) {
		_, _ = s.readPacket(protocol.PacketRequestControllerCount)
		w := protocol.NewWriter(3)
		w.WriteU32(2)
		s.writePacket(0, protocol.PacketRequestControllerCount, w.Bytes())
		for id := uint32(0); id < 2; id++ {
			_, _ = s.readPacket(protocol.PacketRequestControllerData)
			s.writePacket(id, protocol.PacketRequestControllerData, minimalController(s.t, 3))
		}
	})

	ctrls, err := c.Controllers()
	require.NoError(t, err)
	require.Len(t, ctrls, 2)
	assert.Equal(t, uint32(0), ctrls[0].ID)
	assert.Equal(t, uint32(1), ctrls[1].ID)
}

func TestUpdateLEDsPayload(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		deviceID, payload := s.readPacket(protocol.PacketUpdateLEDs)
		assert.Equal(t, uint32(1), deviceID)
		want := []byte{
			14, 0, 0, 0, // embedded size: itself + count + 2 colors
			2, 0, // color count
			255, 0, 0, 0,
			0, 0, 255, 0,
		}
		assert.Equal(t, want, payload)
	})

	colors := []protocol.Color{{R: 255}, {B: 255}}
	require.NoError(t, c.UpdateLEDs(1, colors))
}

func TestUpdateZoneLEDsPayload(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketUpdateZoneLEDs)
		want := []byte{
			14, 0, 0, 0, // embedded size: itself + zone id + count + 1 color
			3, 0, 0, 0, // zone id
			1, 0, // color count
			37, 54, 126, 0,
		}
		assert.Equal(t, want, payload)
	})

	require.NoError(t, c.UpdateZoneLEDs(0, 3, []protocol.Color{{R: 37, G: 54, B: 126}}))
}

func TestUpdateSingleLEDPayload(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketUpdateSingleLED)
		assert.Equal(t, []byte{9, 0, 0, 0, 0, 255, 0, 0}, payload)
	})

	require.NoError(t, c.UpdateSingleLED(0, 9, protocol.Color{G: 255}))
}

func TestResizeZonePayload(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		deviceID, payload := s.readPacket(protocol.PacketResizeZone)
		assert.Equal(t, uint32(2), deviceID)
		assert.Equal(t, []byte{1, 0, 0, 0, 24, 0, 0, 0}, payload)
	})

	require.NoError(t, c.ResizeZone(2, 1, 24))
}

func TestSetCustomMode(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		deviceID, payload := s.readPacket(protocol.PacketSetCustomMode)
		assert.Equal(t, uint32(4), deviceID)
		assert.Empty(t, payload)
	})

	require.NoError(t, c.SetCustomMode(4))
}

func TestUpdateModePayload(t *testing.T) {
	mode := protocol.ModeData{Name: "Static", Flags: protocol.ModeHasPerLEDColor, ColorMode: protocol.ColorModePerLED}

	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketUpdateMode)
		r := protocol.NewReader(payload, 5)
		size, err := r.ReadU32()
		if !assert.NoError(s.t, err) {
			return
		}
		assert.Equal(t, len(payload), int(size), "embedded size spans the whole payload")
		modeID, err := r.ReadI32()
		assert.NoError(s.t, err)
		assert.Equal(t, int32(1), modeID)
		got, err := protocol.ReadValue[protocol.ModeData](r)
		assert.NoError(s.t, err)
		assert.Equal(t, "Static", got.Name)
	})

	require.NoError(t, c.UpdateMode(0, 1, mode))
}

func TestProfileOperations(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketRequestProfileList)
		assert.Empty(t, payload)

		w := protocol.NewWriter(5)
		w.WriteU32(0) // embedded size, ignored
		w.WriteU16(2)
		assert.NoError(s.t, w.WriteString("gaming"))
		assert.NoError(s.t, w.WriteString("office"))
		s.writePacket(0, protocol.PacketRequestProfileList, w.Bytes())

		_, payload = s.readPacket(protocol.PacketRequestSaveProfile)
		assert.Equal(t, []byte{6, 0, 'n', 'i', 'g', 'h', 't', 0}, payload)

		_, payload = s.readPacket(protocol.PacketRequestLoadProfile)
		assert.Equal(t, []byte("gaming\x00"), payload, "load uses a bare NUL string")

		_, payload = s.readPacket(protocol.PacketRequestDeleteProfile)
		assert.Equal(t, []byte{7, 0, 'o', 'f', 'f', 'i', 'c', 'e', 0}, payload)
	})

	profiles, err := c.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"gaming", "office"}, profiles)

	require.NoError(t, c.SaveProfile("night"))
	require.NoError(t, c.LoadProfile("gaming"))
	require.NoError(t, c.DeleteProfile("office"))
}

func TestSegmentOperations(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, payload := s.readPacket(protocol.PacketAddSegment)
		r := protocol.NewReader(payload, 5)
		size, err := r.ReadU32()
		assert.NoError(s.t, err)
		assert.Equal(t, len(payload), int(size))
		zoneID, err := r.ReadU32()
		assert.NoError(s.t, err)
		assert.Equal(t, uint32(1), zoneID)
		seg, err := protocol.ReadValue[protocol.SegmentData](r)
		assert.NoError(s.t, err)
		assert.Equal(t, "Top", seg.Name)

		_, payload = s.readPacket(protocol.PacketClearSegments)
		assert.Equal(t, []byte{8, 0, 0, 0, 1, 0, 0, 0}, payload)
	})

	require.NoError(t, c.AddSegment(0, 1, protocol.SegmentData{Name: "Top", StartIdx: 0, LEDCount: 3}))
	require.NoError(t, c.ClearSegments(0, 1))
}

func TestPluginList(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, _ = s.readPacket(protocol.PacketRequestPluginList)
		w := protocol.NewWriter(5)
		w.WriteU32(0) // embedded size, ignored
		w.WriteU16(1)
		assert.NoError(s.t, w.WriteString("Effects"))
		assert.NoError(s.t, w.WriteString("Visual effects engine"))
		assert.NoError(s.t, w.WriteString("1.0"))
		w.WriteU32(0)
		w.WriteU32(1)
		s.writePacket(0, protocol.PacketRequestPluginList, w.Bytes())

		deviceID, payload := s.readPacket(protocol.PacketPluginSpecific)
		assert.Equal(t, uint32(0), deviceID)
		assert.Equal(t, []byte{1, 2, 3}, payload)

		_, payload = s.readPacket(protocol.PacketRequestRescanDevices)
		assert.Empty(t, payload)
	})

	plugins, err := c.Plugins()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.Equal(t, "Effects", plugins[0].Name)

	require.NoError(t, c.PluginSpecific(0, []byte{1, 2, 3}))
	require.NoError(t, c.RescanDevices())
}

func TestResponseForWrongPacketIsAProtocolError(t *testing.T) {
	c := newTestSession(t, 5, func(s *fakeServer) {
		_, _ = s.readPacket(protocol.PacketRequestControllerCount)
		w := protocol.NewWriter(5)
		w.WriteU32(1)
		s.writePacket(0, protocol.PacketDeviceListUpdated, w.Bytes())
	})

	_, err := c.ControllerCount()
	require.Error(t, err)
	var perr *protocol.ProtocolError
	assert.ErrorAs(t, err, &perr)
}
