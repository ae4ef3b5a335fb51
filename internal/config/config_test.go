package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, protocol.DefaultAddress, cfg.GetServer().Address)
	assert.Equal(t, DefaultClientName, cfg.GetServer().ClientName)
	assert.Equal(t, DefaultAPIPort, cfg.GetApplicationData().API.Port)
	assert.FileExists(t, filepath.Join(dir, DefaultConfigFile))
	assert.False(t, cfg.IsFirstRun())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	// Partial config: only the address is set; everything else should
	// come from the defaults.
	raw := `{"server": {"address": "10.0.0.5:6742"}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:6742", cfg.GetServer().Address)
	assert.Equal(t, DefaultAPIPort, cfg.GetApplicationData().API.Port)
	assert.Equal(t, "info", cfg.GetApplicationData().Logging.Level)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	server := cfg.GetServer()
	server.Address = "192.168.1.20:6742"
	server.ClientName = "bench-rig"
	cfg.SetServer(server)
	require.NoError(t, cfg.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20:6742", reloaded.GetServer().Address)
	assert.Equal(t, "bench-rig", reloaded.GetServer().ClientName)
}

func TestUpdateServerField(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.UpdateServerField("address", "rgbhost:6742"))
	assert.Equal(t, "rgbhost:6742", cfg.GetServer().Address)

	// Other fields survive a single-field update.
	assert.Equal(t, DefaultClientName, cfg.GetServer().ClientName)
}

func TestValidateDefaults(t *testing.T) {
	result := Validate(DefaultConfig())
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Errors)
}

func TestValidateServerErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Address = "not-an-address"
	cfg.Server.RefreshInterval = 0

	result := Validate(cfg)
	require.False(t, result.IsValid())

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "server.address")
	assert.Contains(t, fields, "server.refresh_interval_sec")
}

func TestValidateAggressiveRefreshWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.RefreshInterval = 2

	result := Validate(cfg)
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "server.refresh_interval_sec", result.Warnings[0].Field)
}

func TestValidateMQTT(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplicationData.MQTT.Enabled = true
	cfg.ApplicationData.MQTT.BrokerURL = ""
	cfg.ApplicationData.MQTT.Port = 0
	cfg.ApplicationData.MQTT.TopicBase = " "

	result := Validate(cfg)
	require.False(t, result.IsValid())
	assert.Len(t, result.Errors, 3)
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplicationData.Logging.Level = "verbose"

	result := Validate(cfg)
	require.False(t, result.IsValid())
	assert.Equal(t, "application_data.logging.level", result.Errors[0].Field)
}

func TestIsFirstRun(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsFirstRun())

	cfg.Server.Address = ""
	assert.True(t, cfg.IsFirstRun())
}
