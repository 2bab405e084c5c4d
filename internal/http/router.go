package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	importer := NewImportController(cfg.Orchestrator, cfg.Auditor, cfg.MaxImportPayload)
	cardSets := NewCardSetsController(cfg.CardSetStore, cfg.TaskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoint
	router.POST("/api/import", importer.Import)

	// Card set endpoints
	router.GET("/api/cardsets", cardSets.GetAllCardSets)
	router.GET("/api/cardsets/:setId", cardSets.GetCardSet)
	router.DELETE("/api/cardsets/:setId", cardSets.DeleteCardSet)
	router.POST("/api/cardsets/:setId/metadata/recompute", cardSets.RecomputeMetadata)

	// Import session history
	if cfg.SessionStore != nil {
		sessions := NewSessionsController(cfg.SessionStore)
		router.GET("/api/imports/sessions", sessions.ListSessions)
	}

	return router
}
