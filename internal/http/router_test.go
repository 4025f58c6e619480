package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/settingsstore"
)

func setupRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := NewRouter(RouterConfig{
		Database:      db,
		SettingsStore: settingsstore.New(db),
		Scheduler:     nil,
		Version:       "test",
	})
	return router, db
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test", response.Version)
	assert.Equal(t, "ok", response.Checks["database"])
}

func TestSyncStatusEndpoint(t *testing.T) {
	t.Run("empty state has no latest run", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sync/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response SyncStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response.LatestRun)
		assert.False(t, response.IsSyncing)
	})

	t.Run("reports the latest run", func(t *testing.T) {
		router, db := setupRouter(t)

		run, err := db.StartSyncRun(5)
		require.NoError(t, err)
		require.NoError(t, db.CompleteSyncRun(run.ID, entities.SyncStatusCompleted, ""))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/sync/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response SyncStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.LatestRun)
		assert.Equal(t, 5, response.LatestRun.Total)
		assert.Equal(t, entities.SyncStatusCompleted, response.LatestRun.Status)
	})
}

func TestSyncRunEndpointWithoutScheduler(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sync/run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSyncedBooksEndpoint(t *testing.T) {
	router, db := setupRouter(t)
	require.NoError(t, db.MarkBookSynced("b1", "2026-08-01 10:00:00"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sync/books", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Books []entities.SyncedBook `json:"books"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Books, 1)
	assert.Equal(t, "b1", response.Books[0].BookID)
}

func TestSettingsEndpoints(t *testing.T) {
	t.Run("update then get with masked token", func(t *testing.T) {
		router, _ := setupRouter(t)

		body, _ := json.Marshal(UpdateSettingsRequest{
			YuqueToken:     "secret-token-9876",
			YuqueNamespace: "me/books",
			SyncSchedule:   "0 * * * *",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var saved settingsstore.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
		assert.Equal(t, "****9876", saved.YuqueToken)
		assert.Equal(t, "me/books", saved.YuqueNamespace)
		assert.Equal(t, "0 * * * *", saved.SyncSchedule)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/settings", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var fetched settingsstore.Settings
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
		assert.Equal(t, "****9876", fetched.YuqueToken)
	})

	t.Run("rejects an invalid cron schedule", func(t *testing.T) {
		router, _ := setupRouter(t)

		body, _ := json.Marshal(UpdateSettingsRequest{SyncSchedule: "garbage"})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
