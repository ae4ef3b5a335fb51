package lighting

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
	"github.com/orgbnet-project/orgbnet/internal/presets"
	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// scriptedConn scripts the server side of a manager session. Assertions
// run on a background goroutine, so they use assert rather than require.
type scriptedConn struct {
	t    *testing.T
	conn net.Conn
}

func (s *scriptedConn) readPacket(wantID protocol.PacketID) (uint32, []byte) {
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

func (s *scriptedConn) writePacket(deviceID uint32, id protocol.PacketID, payload []byte) {
	assert.NoError(s.t, protocol.WritePacket(s.conn, deviceID, id, payload))
}

func (s *scriptedConn) negotiate(version uint32) {
	_, _ = s.readPacket(protocol.PacketRequestProtocolVersion)
	w := protocol.NewWriter(version)
	w.WriteU32(version)
	s.writePacket(0, protocol.PacketRequestProtocolVersion, w.Bytes())
}

// serveSnapshot answers the controller poll the manager issues on
// connect (and after mutations): one controller with two LEDs.
func (s *scriptedConn) serveSnapshot(version uint32) {
	_, _ = s.readPacket(protocol.PacketRequestControllerCount)
	w := protocol.NewWriter(version)
	w.WriteU32(1)
	s.writePacket(0, protocol.PacketRequestControllerCount, w.Bytes())

	_, _ = s.readPacket(protocol.PacketRequestControllerData)
	s.writePacket(0, protocol.PacketRequestControllerData, keyboardPayload(s.t, version))
}

// keyboardPayload builds a two-LED keyboard controller at the given
// protocol version.
func keyboardPayload(t *testing.T, version uint32) []byte {
	w := protocol.NewWriter(version)
	w.WriteU32(0) // embedded size, ignored by receivers
	w.WriteU32(5) // keyboard
	for _, s := range []string{"Test Keyboard", "ACME", "", "1.0", "", "USB"} {
		require.NoError(t, w.WriteString(s))
	}
	w.WriteU16(0) // modes
	w.WriteI32(0) // active mode
	w.WriteU16(0) // zones
	w.WriteU16(2) // leds
	for _, name := range []string{"Key 1", "Key 2"} {
		require.NoError(t, w.WriteString(name))
		w.WriteU32(0)
	}
	w.WriteU16(2) // colors
	for i := 0; i < 2; i++ {
		require.NoError(t, w.WriteValue(protocol.Color{}))
	}
	return w.Bytes()
}

// startFakeServer listens on a loopback port and runs the script against
// the first accepted connection. Returns the address to dial.
func startFakeServer(t *testing.T, version uint32, script func(*scriptedConn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		s := &scriptedConn{t: t, conn: conn}
		s.negotiate(version)
		_, payload := s.readPacket(protocol.PacketSetClientName)
		assert.Equal(t, []byte("orgbnet-test\x00"), payload)
		s.serveSnapshot(version)
		if script != nil {
			script(s)
		}
	}()
	t.Cleanup(func() {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server script did not finish")
		}
	})

	return ln.Addr().String()
}

func newTestManager(t *testing.T, addr string, bus *events.EventBus) *Manager {
	t.Helper()
	cfg := config.DefaultConfig()
	server := cfg.GetServer()
	server.Address = addr
	server.ClientName = "orgbnet-test"
	server.ConnectTimeout = 2
	cfg.SetServer(server)

	store := presets.NewStore(t.TempDir())
	require.NoError(t, store.Load())

	mgr := NewManager(cfg, bus, store)
	t.Cleanup(mgr.Stop)
	return mgr
}

func TestConnectCachesSnapshotAndEmitsEvents(t *testing.T) {
	bus := events.NewEventBus()
	established := make(chan events.Event, 1)
	refreshed := make(chan events.Event, 1)
	bus.Subscribe(events.EventSessionEstablished, "test", func(ctx context.Context, e events.Event) error {
		established <- e
		return nil
	})
	bus.Subscribe(events.EventControllersRefreshed, "test", func(ctx context.Context, e events.Event) error {
		refreshed <- e
		return nil
	})

	addr := startFakeServer(t, 4, nil)
	mgr := newTestManager(t, addr, bus)

	require.NoError(t, mgr.Connect(context.Background()))
	assert.True(t, mgr.Connected())
	assert.Equal(t, uint32(4), mgr.Version())
	assert.False(t, mgr.RefreshedAt().IsZero())

	ctrls := mgr.Controllers()
	require.Len(t, ctrls, 1)
	assert.Equal(t, "Test Keyboard", ctrls[0].Name)
	assert.Equal(t, 2, ctrls[0].LEDCount())

	ctrl, ok := mgr.Controller(0)
	require.True(t, ok)
	assert.Equal(t, protocol.DeviceKeyboard, ctrl.Type)
	_, ok = mgr.Controller(9)
	assert.False(t, ok)

	select {
	case e := <-established:
		payload := e.Payload.(events.SessionPayload)
		assert.Equal(t, addr, payload.Address)
		assert.Equal(t, uint32(4), payload.ProtocolVersion)
	case <-time.After(2 * time.Second):
		t.Fatal("session event not emitted")
	}
	select {
	case e := <-refreshed:
		assert.Equal(t, events.ControllersRefreshedPayload{Count: 1}, e.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh event not emitted")
	}
}

func TestSetControllerColorPaintsFullFrame(t *testing.T) {
	bus := events.NewEventBus()
	applied := make(chan events.Event, 1)
	bus.Subscribe(events.EventColorsApplied, "test", func(ctx context.Context, e events.Event) error {
		applied <- e
		return nil
	})

	addr := startFakeServer(t, 4, func(s *scriptedConn) {
		_, payload := s.readPacket(protocol.PacketSetCustomMode)
		assert.Empty(s.t, payload)

		_, payload = s.readPacket(protocol.PacketUpdateLEDs)
		want := []byte{
			14, 0, 0, 0, // embedded size
			2, 0, // one color per LED
			255, 0, 0, 0,
			255, 0, 0, 0,
		}
		assert.Equal(s.t, want, payload)

		// The manager refetches the mutated controller.
		_, _ = s.readPacket(protocol.PacketRequestControllerData)
		s.writePacket(0, protocol.PacketRequestControllerData, keyboardPayload(s.t, 4))
	})
	mgr := newTestManager(t, addr, bus)
	require.NoError(t, mgr.Connect(context.Background()))

	require.NoError(t, mgr.SetControllerColor(context.Background(), 0, protocol.Color{R: 255}))

	select {
	case e := <-applied:
		payload := e.Payload.(events.ColorsAppliedPayload)
		assert.Equal(t, uint32(0), payload.ControllerID)
		assert.Equal(t, int64(-1), payload.Zone)
		assert.Equal(t, 2, payload.LEDCount)
	case <-time.After(2 * time.Second):
		t.Fatal("colors event not emitted")
	}
}

func TestOperationsFailWhenDisconnected(t *testing.T) {
	cfg := config.DefaultConfig()
	mgr := NewManager(cfg, events.NewEventBus(), presets.NewStore(t.TempDir()))

	assert.False(t, mgr.Connected())
	assert.Equal(t, uint32(0), mgr.Version())
	assert.Empty(t, mgr.Controllers())

	err := mgr.SetControllerColor(context.Background(), 0, protocol.Color{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	_, err = mgr.Profiles()
	require.Error(t, err)
	require.Error(t, mgr.Refresh(context.Background()))
}
