package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgbnet-project/orgbnet/internal/presets"
)

// handleListProfiles returns the profiles stored on the OpenRGB server.
func (s *Server) handleListProfiles(c *gin.Context) {
	profiles, err := s.manager.Profiles()
	if err != nil {
		s.operationError(c, err)
		return
	}
	if profiles == nil {
		profiles = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"total":    len(profiles),
	})
}

// handleSaveProfile saves the current server state as a named profile.
func (s *Server) handleSaveProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile name is required"})
		return
	}

	if err := s.manager.SaveProfile(c.Request.Context(), req.Name); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": req.Name, "status": "saved"})
}

// handleLoadProfile loads a named profile on the OpenRGB server.
func (s *Server) handleLoadProfile(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile name is required"})
		return
	}

	if err := s.manager.LoadProfile(c.Request.Context(), name); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": name, "status": "loaded"})
}

// handleDeleteProfile deletes a named profile on the OpenRGB server.
func (s *Server) handleDeleteProfile(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile name is required"})
		return
	}

	if err := s.manager.DeleteProfile(c.Request.Context(), name); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": name, "status": "deleted"})
}

// handleListPresets returns the local color presets.
func (s *Server) handleListPresets(c *gin.Context) {
	list := s.manager.Presets().List()

	out := make([]gin.H, 0, len(list))
	for _, p := range list {
		out = append(out, gin.H{
			"name":        p.Name,
			"description": p.Description,
			"colors":      p.Colors,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"presets": out,
		"total":   len(out),
	})
}

// handleSavePreset creates or replaces a local color preset.
func (s *Server) handleSavePreset(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Colors      []string `json:"colors" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and colors are required"})
		return
	}

	preset := &presets.Preset{
		Name:        req.Name,
		Description: req.Description,
		Colors:      req.Colors,
	}
	if err := s.manager.Presets().Save(preset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preset": req.Name, "status": "saved"})
}

// handleListPlugins returns the plugins loaded on the OpenRGB server.
func (s *Server) handleListPlugins(c *gin.Context) {
	plugins, err := s.manager.Plugins()
	if err != nil {
		s.operationError(c, err)
		return
	}

	out := make([]gin.H, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, gin.H{
			"index":       p.Index,
			"name":        p.Name,
			"description": p.Description,
			"version":     p.Version,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"plugins": out,
		"total":   len(out),
	})
}
