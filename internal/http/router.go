package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(requestLoggerMiddleware(logger.Named("http")))
	router.Use(gin.Recovery())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Processor, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Sync queue endpoints
	if cfg.Processor != nil && cfg.Queue != nil {
		syncController := NewSyncController(cfg.Processor, cfg.Queue)
		api.GET("/sync/status", syncController.GetStatus)
		api.POST("/sync/run", syncController.RunSweep)
		api.GET("/sync/queue", syncController.ListQueue)
		api.POST("/sync/queue/:id/process", syncController.ProcessItem)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	// AIMS settings endpoints
	if cfg.Settings != nil {
		settingsController := NewAIMSSettingsController(cfg.Settings, cfg.Validator, cfg.Audit)
		api.GET("/settings/aims", settingsController.GetSettings)
		api.PUT("/settings/aims", settingsController.UpdateSettings)
		api.DELETE("/settings/aims", settingsController.ClearSettings)
	}

	// Audit log endpoints
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}
