package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/orgbnet-project/orgbnet/internal/config"
	"github.com/orgbnet-project/orgbnet/internal/events"
	"github.com/orgbnet-project/orgbnet/internal/lighting"
)

// Server is the REST API server for orgbnet. It exposes the controller
// snapshots and lighting operations of the lighting manager over HTTP.
type Server struct {
	cfg      *config.Config
	eventBus *events.EventBus
	manager  *lighting.Manager

	startedAt time.Time

	// HTTP server
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, eventBus *events.EventBus, manager *lighting.Manager) *Server {
	// Set Gin mode based on log level
	if cfg.GetApplicationData().Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		cfg:      cfg,
		eventBus: eventBus,
		manager:  manager,
	}
}

// Start initializes and starts the API server. It blocks until ctx is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.startedAt = time.Now()
	s.router = s.buildRouter()

	addr := fmt.Sprintf(":%d", s.cfg.GetApplicationData().API.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("REST API server starting")

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// buildRouter creates the Gin router with all routes and middleware.
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(SecurityHeaders())

	// CORS
	apiCfg := s.cfg.GetApplicationData().API
	allowedOrigins := apiCfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Must be false when AllowOrigins is "*"
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting
	rateLimiter := NewRateLimiter(apiCfg.RateLimitRPS)
	router.Use(rateLimiter.Middleware())

	api := router.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.GET("/status", s.handleStatus)

		api.GET("/controllers", s.handleListControllers)
		api.GET("/controllers/:id", s.handleGetController)
		api.POST("/controllers/:id/color", s.handleSetControllerColor)
		api.POST("/controllers/:id/mode", s.handleSetMode)
		api.POST("/controllers/:id/preset", s.handleApplyPreset)
		api.POST("/controllers/:id/zones/:zone/color", s.handleSetZoneColor)
		api.POST("/controllers/:id/zones/:zone/resize", s.handleResizeZone)
		api.POST("/controllers/:id/zones/:zone/segments", s.handleAddSegment)
		api.DELETE("/controllers/:id/zones/:zone/segments", s.handleClearSegments)
		api.POST("/controllers/:id/leds/:led/color", s.handleSetLEDColor)

		api.POST("/refresh", s.handleRefresh)
		api.POST("/rescan", s.handleRescan)

		api.GET("/profiles", s.handleListProfiles)
		api.POST("/profiles", s.handleSaveProfile)
		api.POST("/profiles/:name/load", s.handleLoadProfile)
		api.DELETE("/profiles/:name", s.handleDeleteProfile)

		api.GET("/presets", s.handleListPresets)
		api.POST("/presets", s.handleSavePreset)

		api.GET("/plugins", s.handleListPlugins)

		api.GET("/config", s.handleGetConfig)
		api.POST("/config/server", s.handleSetServerConfig)
		api.POST("/config/app", s.handleSetAppConfig)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return router
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
