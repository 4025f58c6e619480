package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/scheduler"
)

// SyncController exposes sync status and manual sync triggering
type SyncController struct {
	db        *database.Database
	scheduler *scheduler.SyncScheduler
}

func NewSyncController(db *database.Database, sched *scheduler.SyncScheduler) *SyncController {
	return &SyncController{
		db:        db,
		scheduler: sched,
	}
}

// SyncStatusResponse is the response for GET /api/sync/status
type SyncStatusResponse struct {
	LatestRun *entities.SyncRun `json:"latest_run,omitempty"`
	NextRun   *time.Time        `json:"next_run,omitempty"`
	IsRunning bool              `json:"is_running"`
	IsSyncing bool              `json:"is_syncing"`
}

// GetStatus returns the latest run record and scheduler state (for polling)
func (c *SyncController) GetStatus(ctx *gin.Context) {
	latest, err := c.db.LatestSyncRun()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sync status: " + err.Error()})
		return
	}

	response := SyncStatusResponse{LatestRun: latest}
	if c.scheduler != nil {
		response.NextRun = c.scheduler.GetNextRunTime()
		response.IsRunning = c.scheduler.IsRunning()
		response.IsSyncing = c.scheduler.IsSyncing()
	}

	ctx.JSON(http.StatusOK, response)
}

// RunNow triggers an immediate sync batch
func (c *SyncController) RunNow(ctx *gin.Context) {
	if c.scheduler == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Scheduler not available"})
		return
	}

	if c.scheduler.IsSyncing() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress"})
		return
	}

	if err := c.scheduler.RunNow(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sync: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"message": "Sync started in background"})
}

// ListSyncedBooks returns the dedup cache contents
func (c *SyncController) ListSyncedBooks(ctx *gin.Context) {
	books, err := c.db.ListSyncedBooks()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load synced books: " + err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
