package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
)

// handleGetConfig returns the full current configuration.
func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"server":           s.cfg.GetServer(),
		"application_data": s.cfg.GetApplicationData(),
	})
}

// handleSetServerConfig updates the OpenRGB server connection settings.
// Changes take effect on the next (re)connect.
func (s *Server) handleSetServerConfig(c *gin.Context) {
	var server config.ServerConfig
	if err := c.ShouldBindJSON(&server); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	old := s.cfg.GetServer()
	s.cfg.SetServer(server)

	if result := config.Validate(s.cfg); !result.IsValid() {
		s.cfg.SetServer(old)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid configuration",
			"issues": validationIssues(result),
		})
		return
	}

	if err := s.cfg.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save config"})
		return
	}

	s.eventBus.Emit(c.Request.Context(), events.Event{
		Type:   events.EventConfigChanged,
		Source: "api",
		Payload: events.ConfigChangedPayload{
			Section: "server",
		},
	})

	log.Info().Str("address", server.Address).Msg("API: server config updated")

	c.JSON(http.StatusOK, gin.H{
		"status": "updated",
		"server": s.cfg.GetServer(),
	})
}

// handleSetAppConfig updates application configuration.
func (s *Server) handleSetAppConfig(c *gin.Context) {
	var appData config.ApplicationData
	if err := c.ShouldBindJSON(&appData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	old := s.cfg.GetApplicationData()
	s.cfg.SetApplicationData(appData)

	if result := config.Validate(s.cfg); !result.IsValid() {
		s.cfg.SetApplicationData(old)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid configuration",
			"issues": validationIssues(result),
		})
		return
	}

	if err := s.cfg.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save config"})
		return
	}

	s.eventBus.Emit(c.Request.Context(), events.Event{
		Type:   events.EventConfigChanged,
		Source: "api",
		Payload: events.ConfigChangedPayload{
			Section: "application_data",
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "updated",
	})
}

func validationIssues(result *config.ValidationResult) []string {
	issues := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		issues = append(issues, e.Error())
	}
	return issues
}
