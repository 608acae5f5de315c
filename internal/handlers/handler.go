package handlers

import (
	"vibenest/internal/logger"
	"vibenest/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config carries the HTTP-layer knobs.
type Config struct {
	// AuthRequired gates the mutating routes behind bearer tokens.
	// Off by default: the canonical deployment is a single-user LAN box.
	AuthRequired bool
	// SoundtracksDir is served statically under /soundtracks when set.
	SoundtracksDir string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Read-only surface
	router.GET("/state", h.getState)
	router.GET("/logs", h.getLogs)

	// Live state stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	// Pre-recorded mood soundtracks, keyed by vibe name
	if h.cfg.SoundtracksDir != "" {
		router.Static("/soundtracks", h.cfg.SoundtracksDir)
	}

	// Mutating surface (optionally token-guarded)
	h.registerControlRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerControlRoutes(r *gin.Engine) {
	ctl := r.Group("", h.userIdMiddleware)
	{
		ctl.POST("/set-vibe/:name", h.setVibe)
		ctl.POST("/set-mode/:mode", h.setMode)
		ctl.POST("/converse", h.converse)
		ctl.POST("/analyze-voice", h.analyzeVoice)
		ctl.POST("/analyze-voice-conversation", h.analyzeVoiceConversation)
		ctl.POST("/action/reset", h.reset)
	}
}
