package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// Validate performs comprehensive validation of the configuration.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	validateServer(&cfg.Server, result)
	validateApplicationData(&cfg.ApplicationData, result)

	return result
}

func validateServer(data *ServerConfig, result *ValidationResult) {
	if strings.TrimSpace(data.Address) == "" {
		result.AddError("server.address", "OpenRGB server address is required")
	} else if _, _, err := net.SplitHostPort(data.Address); err != nil {
		result.AddError("server.address",
			fmt.Sprintf("invalid host:port address %q: %v", data.Address, err))
	}

	if strings.TrimSpace(data.ClientName) == "" {
		result.AddWarning("server.client_name", "empty client name, server will show an unnamed client")
	}

	if data.ConnectTimeout < 0 {
		result.AddError("server.connect_timeout_sec", "connect timeout cannot be negative")
	}

	if data.RefreshInterval < 1 {
		result.AddError("server.refresh_interval_sec", "refresh interval must be at least 1 second")
	} else if data.RefreshInterval < 5 {
		result.AddWarning("server.refresh_interval_sec",
			fmt.Sprintf("refresh interval of %ds will poll the server aggressively", data.RefreshInterval))
	}
}

func validateApplicationData(data *ApplicationData, result *ValidationResult) {
	if data.API.Enabled {
		if data.API.Port < 1 || data.API.Port > 65535 {
			result.AddError("application_data.api.port",
				fmt.Sprintf("invalid API port: %d", data.API.Port))
		}
	}

	if data.MQTT.Enabled {
		if strings.TrimSpace(data.MQTT.BrokerURL) == "" {
			result.AddError("application_data.mqtt.broker_url", "MQTT broker URL is required when MQTT is enabled")
		}
		if data.MQTT.Port < 1 || data.MQTT.Port > 65535 {
			result.AddError("application_data.mqtt.port",
				fmt.Sprintf("invalid MQTT port: %d", data.MQTT.Port))
		}
		if data.MQTT.UseTLS {
			for field, path := range map[string]string{
				"cert_file": data.MQTT.CertFile,
				"key_file":  data.MQTT.KeyFile,
			} {
				if path == "" {
					continue
				}
				if _, err := os.Stat(path); os.IsNotExist(err) {
					result.AddWarning("application_data.mqtt."+field,
						fmt.Sprintf("file does not exist: %s", path))
				}
			}
		}
		if strings.TrimSpace(data.MQTT.TopicBase) == "" {
			result.AddError("application_data.mqtt.topic_base", "MQTT topic base cannot be empty")
		}
	}

	if data.Presets.Directory != "" {
		if info, err := os.Stat(data.Presets.Directory); err == nil && !info.IsDir() {
			result.AddError("application_data.presets.directory",
				fmt.Sprintf("not a directory: %s", data.Presets.Directory))
		}
	}

	switch strings.ToLower(data.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		result.AddError("application_data.logging.level",
			fmt.Sprintf("unknown log level %q (use trace, debug, info, warn or error)", data.Logging.Level))
	}
}
