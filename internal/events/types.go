// Package events defines event types and the EventBus for the orgbnet
// event system.
package events

// EventType represents the type of event emitted through the EventBus.
type EventType string

const (
	// Session events
	EventSessionEstablished EventType = "session_established"
	EventSessionLost        EventType = "session_lost"

	// Device events
	EventControllersRefreshed EventType = "controllers_refreshed"
	EventRescanRequested      EventType = "rescan_requested"

	// Lighting events
	EventColorsApplied EventType = "colors_applied"
	EventModeChanged   EventType = "mode_changed"
	EventZoneResized   EventType = "zone_resized"
	EventPresetApplied EventType = "preset_applied"

	// Profile events
	EventProfileSaved   EventType = "profile_saved"
	EventProfileLoaded  EventType = "profile_loaded"
	EventProfileDeleted EventType = "profile_deleted"

	// System events
	EventConfigChanged EventType = "config_changed"
	EventShutdown      EventType = "shutdown"
)

// Event represents a single event in the system.
type Event struct {
	Type    EventType
	Source  string
	Payload interface{}
}

// SessionPayload is emitted when a session with the OpenRGB server is
// established or lost.
type SessionPayload struct {
	Address         string `json:"address"`
	ProtocolVersion uint32 `json:"protocol_version,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ControllersRefreshedPayload is emitted after a full controller poll.
type ControllersRefreshedPayload struct {
	Count int `json:"count"`
}

// ColorsAppliedPayload is emitted after colors were pushed to a device.
// Zone is -1 when the update targeted the whole controller.
type ColorsAppliedPayload struct {
	ControllerID uint32 `json:"controller_id"`
	Zone         int64  `json:"zone"`
	LEDCount     int    `json:"led_count"`
	Color        string `json:"color,omitempty"`
}

// ModeChangedPayload is emitted after a mode update was sent.
type ModeChangedPayload struct {
	ControllerID uint32 `json:"controller_id"`
	ModeName     string `json:"mode_name"`
	Saved        bool   `json:"saved"`
}

// ZoneResizedPayload is emitted after a zone resize request.
type ZoneResizedPayload struct {
	ControllerID uint32 `json:"controller_id"`
	ZoneID       int32  `json:"zone_id"`
	NewSize      int32  `json:"new_size"`
}

// PresetAppliedPayload is emitted when a named color preset is applied.
type PresetAppliedPayload struct {
	Preset       string `json:"preset"`
	ControllerID uint32 `json:"controller_id"`
}

// ProfilePayload is emitted for profile save/load/delete operations.
type ProfilePayload struct {
	Name string `json:"name"`
}

// ConfigChangedPayload is emitted when configuration changes occur.
type ConfigChangedPayload struct {
	Section string      `json:"section"`
	Key     string      `json:"key"`
	Value   interface{} `json:"value"`
}
