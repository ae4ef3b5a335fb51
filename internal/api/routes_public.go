package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgbnet-project/orgbnet/internal/util"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "orgbnet",
		"version": "1.0.0",
	})
}

// handleStatus returns the session state and host information.
func (s *Server) handleStatus(c *gin.Context) {
	sysInfo := util.GetSystemInfo()

	status := gin.H{
		"connected":       s.manager.Connected(),
		"server_address":  s.cfg.GetServer().Address,
		"controllers":     len(s.manager.Controllers()),
		"uptime_seconds":  int64(time.Since(s.startedAt).Seconds()),
		"platform":        sysInfo.Platform,
		"hostname":        sysInfo.Hostname,
		"cpu_model":       sysInfo.CPUModel,
		"cpu_cores":       sysInfo.CPUCores,
		"total_memory_mb": sysInfo.TotalMemory,
	}

	if s.manager.Connected() {
		status["protocol_version"] = s.manager.Version()
		if at := s.manager.RefreshedAt(); !at.IsZero() {
			status["refreshed_at"] = at.UTC().Format(time.RFC3339)
		}
	}

	if usage, err := util.GetCPUUsage(); err == nil {
		status["cpu_percent"] = usage
	}
	if mem, err := util.GetMemoryUsage(); err == nil {
		status["memory_used_percent"] = mem.UsedPercent
	}

	c.JSON(http.StatusOK, status)
}
