// Package lighting is the service layer of orgbnet: it owns the session
// with the OpenRGB server, keeps the latest controller snapshots, and
// exposes the operations the CLI and REST API call. State-changing
// operations emit events on the bus so telemetry can observe them.
package lighting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/orgbnet-project/orgbnet/internal/client"
	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
	"github.com/orgbnet-project/orgbnet/internal/presets"
	"github.com/orgbnet-project/orgbnet/internal/protocol"
	"github.com/orgbnet-project/orgbnet/internal/util"
)

// Manager coordinates the OpenRGB session and the outer surfaces.
//
// Controller data is fetched on demand and cached as immutable snapshots;
// a background loop refreshes the cache on the configured interval. The
// session itself carries no reconnect logic, so the refresh loop is also
// where a dead connection gets replaced.
type Manager struct {
	mu sync.RWMutex

	cfg      *config.Config
	eventBus *events.EventBus
	presets  *presets.Store
	logger   zerolog.Logger

	client      *client.Client
	controllers []*protocol.ControllerData
	refreshedAt time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewManager creates the lighting manager. Call Connect before Start.
func NewManager(cfg *config.Config, eventBus *events.EventBus, store *presets.Store) *Manager {
	return &Manager{
		cfg:      cfg,
		eventBus: eventBus,
		presets:  store,
		logger:   util.ComponentLogger("lighting"),
		stopCh:   make(chan struct{}),
	}
}

// Connect establishes a session per the configuration: dial, announce
// the client name, and pull an initial controller snapshot.
func (m *Manager) Connect(ctx context.Context) error {
	server := m.cfg.GetServer()

	var (
		c   *client.Client
		err error
	)
	if server.ConnectTimeout > 0 {
		c, err = client.ConnectTimeout(server.Address, time.Duration(server.ConnectTimeout)*time.Second)
	} else {
		c, err = client.Connect(server.Address)
	}
	if err != nil {
		return err
	}

	if err := c.SetClientName(server.ClientName); err != nil {
		c.Close()
		return fmt.Errorf("failed to announce client name: %w", err)
	}

	m.mu.Lock()
	if m.client != nil {
		m.client.Close()
	}
	m.client = c
	m.mu.Unlock()

	m.logger.Info().
		Str("server", server.Address).
		Uint32("protocol_version", c.Version()).
		Msg("connected to OpenRGB server")

	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventSessionEstablished,
		Source: "lighting",
		Payload: events.SessionPayload{
			Address:         server.Address,
			ProtocolVersion: c.Version(),
		},
	})

	return m.Refresh(ctx)
}

// Start launches the background refresh loop.
func (m *Manager) Start(ctx context.Context) {
	interval := time.Duration(m.cfg.GetServer().RefreshInterval) * time.Second
	m.wg.Add(1)
	go m.refreshLoop(ctx, interval)
}

// Stop halts the refresh loop and closes the session.
func (m *Manager) Stop() {
	close(m.stopCh)
	m.wg.Wait()

	m.mu.Lock()
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.mu.Unlock()

	m.logger.Info().Msg("lighting manager stopped")
}

func (m *Manager) refreshLoop(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil {
				m.logger.Warn().Err(err).Msg("controller refresh failed, reconnecting")
				m.eventBus.Emit(ctx, events.Event{
					Type:   events.EventSessionLost,
					Source: "lighting",
					Payload: events.SessionPayload{
						Address: m.cfg.GetServer().Address,
						Error:   err.Error(),
					},
				})
				if err := m.Connect(ctx); err != nil {
					m.logger.Error().Err(err).Msg("reconnect failed")
				}
			}
		}
	}
}

// session returns the current client, or an error when disconnected.
func (m *Manager) session() (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, fmt.Errorf("not connected to an OpenRGB server")
	}
	return m.client, nil
}

// Version returns the negotiated protocol version, or zero when
// disconnected.
func (m *Manager) Version() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return 0
	}
	return m.client.Version()
}

// Connected reports whether a session is currently established.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// Refresh fetches fresh snapshots of every controller.
func (m *Manager) Refresh(ctx context.Context) error {
	c, err := m.session()
	if err != nil {
		return err
	}

	controllers, err := c.Controllers()
	if err != nil {
		return fmt.Errorf("failed to fetch controllers: %w", err)
	}

	m.mu.Lock()
	m.controllers = controllers
	m.refreshedAt = time.Now()
	m.mu.Unlock()

	m.logger.Debug().Int("count", len(controllers)).Msg("controller snapshots refreshed")
	m.eventBus.Emit(ctx, events.Event{
		Type:    events.EventControllersRefreshed,
		Source:  "lighting",
		Payload: events.ControllersRefreshedPayload{Count: len(controllers)},
	})
	return nil
}

// Controllers returns the cached controller snapshots.
func (m *Manager) Controllers() []*protocol.ControllerData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*protocol.ControllerData, len(m.controllers))
	copy(out, m.controllers)
	return out
}

// Controller returns one cached controller snapshot by id.
func (m *Manager) Controller(id uint32) (*protocol.ControllerData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.controllers {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// RefreshedAt returns the time of the last successful snapshot.
func (m *Manager) RefreshedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshedAt
}

// refreshController replaces one cached snapshot after a mutation.
func (m *Manager) refreshController(c *client.Client, id uint32) {
	ctrl, err := c.Controller(id)
	if err != nil {
		m.logger.Warn().Err(err).Uint32("controller", id).Msg("failed to refresh controller after update")
		return
	}
	m.mu.Lock()
	for i := range m.controllers {
		if m.controllers[i].ID == id {
			m.controllers[i] = ctrl
			break
		}
	}
	m.mu.Unlock()
}

// SetControllerColor paints every LED of a controller one color. The
// controller is switched to its direct-control mode first so the frame
// is displayed as-is.
func (m *Manager) SetControllerColor(ctx context.Context, id uint32, color protocol.Color) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	ctrl, ok := m.Controller(id)
	if !ok {
		return fmt.Errorf("unknown controller %d", id)
	}

	if err := c.SetCustomMode(id); err != nil {
		return err
	}
	frame := make([]protocol.Color, ctrl.LEDCount())
	for i := range frame {
		frame[i] = color
	}
	if err := c.UpdateLEDs(id, frame); err != nil {
		return err
	}

	m.refreshController(c, id)
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventColorsApplied,
		Source: "lighting",
		Payload: events.ColorsAppliedPayload{
			ControllerID: id,
			Zone:         -1,
			LEDCount:     len(frame),
			Color:        color.Hex(),
		},
	})
	return nil
}

// SetZoneColor paints every LED of one zone.
func (m *Manager) SetZoneColor(ctx context.Context, id, zoneID uint32, color protocol.Color) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	ctrl, ok := m.Controller(id)
	if !ok {
		return fmt.Errorf("unknown controller %d", id)
	}
	zone := ctrl.Zone(zoneID)
	if zone == nil {
		return fmt.Errorf("controller %d has no zone %d", id, zoneID)
	}

	if err := c.SetCustomMode(id); err != nil {
		return err
	}
	frame := make([]protocol.Color, zone.LEDsCount)
	for i := range frame {
		frame[i] = color
	}
	if err := c.UpdateZoneLEDs(id, zoneID, frame); err != nil {
		return err
	}

	m.refreshController(c, id)
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventColorsApplied,
		Source: "lighting",
		Payload: events.ColorsAppliedPayload{
			ControllerID: id,
			Zone:         int64(zoneID),
			LEDCount:     len(frame),
			Color:        color.Hex(),
		},
	})
	return nil
}

// SetLEDColor sets a single LED.
func (m *Manager) SetLEDColor(ctx context.Context, id uint32, led int32, color protocol.Color) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.SetCustomMode(id); err != nil {
		return err
	}
	if err := c.UpdateSingleLED(id, led, color); err != nil {
		return err
	}

	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventColorsApplied,
		Source: "lighting",
		Payload: events.ColorsAppliedPayload{
			ControllerID: id,
			Zone:         -1,
			LEDCount:     1,
			Color:        color.Hex(),
		},
	})
	return nil
}

// SetMode activates a controller mode by name, optionally persisting it
// to the device.
func (m *Manager) SetMode(ctx context.Context, id uint32, name string, save bool) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	ctrl, ok := m.Controller(id)
	if !ok {
		return fmt.Errorf("unknown controller %d", id)
	}
	mode := ctrl.Mode(name)
	if mode == nil {
		return fmt.Errorf("controller %d has no mode %q", id, name)
	}

	if err := c.UpdateMode(id, int32(mode.Index), *mode); err != nil {
		return err
	}
	if save {
		if err := c.SaveMode(id, *mode); err != nil {
			return err
		}
	}

	m.refreshController(c, id)
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventModeChanged,
		Source: "lighting",
		Payload: events.ModeChangedPayload{
			ControllerID: id,
			ModeName:     name,
			Saved:        save,
		},
	})
	return nil
}

// ResizeZone changes a zone's LED count and refetches the controller.
func (m *Manager) ResizeZone(ctx context.Context, id uint32, zoneID, newSize int32) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.ResizeZone(id, zoneID, newSize); err != nil {
		return err
	}

	m.refreshController(c, id)
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventZoneResized,
		Source: "lighting",
		Payload: events.ZoneResizedPayload{
			ControllerID: id,
			ZoneID:       zoneID,
			NewSize:      newSize,
		},
	})
	return nil
}

// AddSegment appends a segment to a zone and refetches the controller.
func (m *Manager) AddSegment(ctx context.Context, id, zoneID uint32, segment protocol.SegmentData) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.AddSegment(id, zoneID, segment); err != nil {
		return err
	}

	m.refreshController(c, id)
	return nil
}

// ClearSegments removes all segments from a zone and refetches the
// controller.
func (m *Manager) ClearSegments(ctx context.Context, id, zoneID uint32) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.ClearSegments(id, zoneID); err != nil {
		return err
	}

	m.refreshController(c, id)
	return nil
}

// ApplyPreset paints a controller with a named preset, cycling the
// preset's colors across the controller's LEDs.
func (m *Manager) ApplyPreset(ctx context.Context, id uint32, name string) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	ctrl, ok := m.Controller(id)
	if !ok {
		return fmt.Errorf("unknown controller %d", id)
	}
	preset, ok := m.presets.Get(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	frame, err := preset.Frame(ctrl.LEDCount())
	if err != nil {
		return err
	}

	if err := c.SetCustomMode(id); err != nil {
		return err
	}
	if err := c.UpdateLEDs(id, frame); err != nil {
		return err
	}

	m.refreshController(c, id)
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventPresetApplied,
		Source: "lighting",
		Payload: events.PresetAppliedPayload{
			Preset:       name,
			ControllerID: id,
		},
	})
	return nil
}

// Profiles lists the server's stored profiles.
func (m *Manager) Profiles() ([]string, error) {
	c, err := m.session()
	if err != nil {
		return nil, err
	}
	return c.Profiles()
}

// SaveProfile stores the current lighting state under a profile name.
func (m *Manager) SaveProfile(ctx context.Context, name string) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.SaveProfile(name); err != nil {
		return err
	}
	m.eventBus.Emit(ctx, events.Event{
		Type:    events.EventProfileSaved,
		Source:  "lighting",
		Payload: events.ProfilePayload{Name: name},
	})
	return nil
}

// LoadProfile applies a stored profile and refreshes all snapshots.
func (m *Manager) LoadProfile(ctx context.Context, name string) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.LoadProfile(name); err != nil {
		return err
	}
	m.eventBus.Emit(ctx, events.Event{
		Type:    events.EventProfileLoaded,
		Source:  "lighting",
		Payload: events.ProfilePayload{Name: name},
	})
	return m.Refresh(ctx)
}

// DeleteProfile removes a stored profile.
func (m *Manager) DeleteProfile(ctx context.Context, name string) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.DeleteProfile(name); err != nil {
		return err
	}
	m.eventBus.Emit(ctx, events.Event{
		Type:    events.EventProfileDeleted,
		Source:  "lighting",
		Payload: events.ProfilePayload{Name: name},
	})
	return nil
}

// Plugins lists the server's SDK plugins.
func (m *Manager) Plugins() ([]protocol.PluginData, error) {
	c, err := m.session()
	if err != nil {
		return nil, err
	}
	return c.Plugins()
}

// Rescan asks the server to re-detect devices, then refreshes.
func (m *Manager) Rescan(ctx context.Context) error {
	c, err := m.session()
	if err != nil {
		return err
	}
	if err := c.RescanDevices(); err != nil {
		return err
	}
	m.eventBus.Emit(ctx, events.Event{
		Type:   events.EventRescanRequested,
		Source: "lighting",
	})
	return m.Refresh(ctx)
}

// Presets returns the preset store.
func (m *Manager) Presets() *presets.Store {
	return m.presets
}
