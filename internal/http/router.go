// Package http exposes the JSON API: health, sync status and triggering,
// and runtime settings.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/scheduler"
	"github.com/booksync/weread2yuque/internal/settingsstore"
)

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Database      *database.Database
	SettingsStore *settingsstore.SettingsStore
	Scheduler     *scheduler.SyncScheduler
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	syncController := NewSyncController(cfg.Database, cfg.Scheduler)
	settingsController := NewSettingsController(cfg.SettingsStore, cfg.Scheduler)

	router.GET("/health", healthController.Status)

	api := router.Group("/api")
	{
		api.GET("/sync/status", syncController.GetStatus)
		api.POST("/sync/run", syncController.RunNow)
		api.GET("/sync/books", syncController.ListSyncedBooks)

		api.GET("/settings", settingsController.GetSettings)
		api.PUT("/settings", settingsController.UpdateSettings)
	}

	return router
}
