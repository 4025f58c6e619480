package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booksync/weread2yuque/internal/scheduler"
	"github.com/booksync/weread2yuque/internal/settingsstore"
)

// SettingsController handles Yuque credentials and sync schedule settings
type SettingsController struct {
	settingsStore *settingsstore.SettingsStore
	scheduler     *scheduler.SyncScheduler
}

func NewSettingsController(store *settingsstore.SettingsStore, sched *scheduler.SyncScheduler) *SettingsController {
	return &SettingsController{
		settingsStore: store,
		scheduler:     sched,
	}
}

// GetSettings returns the resolved settings. The Yuque token is masked.
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	settings := c.settingsStore.GetSettings()
	settings.YuqueToken = maskToken(settings.YuqueToken)
	ctx.JSON(http.StatusOK, settings)
}

// UpdateSettingsRequest is the request body for PUT /api/settings
type UpdateSettingsRequest struct {
	YuqueToken     string `json:"yuque_token"`
	YuqueNamespace string `json:"yuque_namespace"`
	YuqueCatalog   string `json:"yuque_catalog"`
	SyncSchedule   string `json:"sync_schedule"`
}

// UpdateSettings saves any provided settings and reschedules the sync job
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.YuqueToken != "" {
		if err := c.settingsStore.SetYuqueToken(req.YuqueToken); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token: " + err.Error()})
			return
		}
	}

	if req.YuqueNamespace != "" {
		if err := c.settingsStore.SetYuqueNamespace(req.YuqueNamespace); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save namespace: " + err.Error()})
			return
		}
	}

	if req.YuqueCatalog != "" {
		if err := c.settingsStore.SetYuqueCatalog(req.YuqueCatalog); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save catalog: " + err.Error()})
			return
		}
	}

	if req.SyncSchedule != "" {
		if err := settingsstore.ValidateCronSchedule(req.SyncSchedule); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cron schedule: " + err.Error()})
			return
		}
		if err := c.settingsStore.SetSyncSchedule(req.SyncSchedule); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save schedule: " + err.Error()})
			return
		}
	}

	if c.scheduler != nil {
		if err := c.scheduler.Reschedule(); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Settings saved but failed to reschedule: " + err.Error()})
			return
		}
	}

	settings := c.settingsStore.GetSettings()
	settings.YuqueToken = maskToken(settings.YuqueToken)
	ctx.JSON(http.StatusOK, settings)
}

// maskToken hides all but the last four characters of a token.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
