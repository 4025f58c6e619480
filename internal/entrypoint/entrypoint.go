package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booksync/weread2yuque/internal/config"
	"github.com/booksync/weread2yuque/internal/database"
	http_controllers "github.com/booksync/weread2yuque/internal/http"
	"github.com/booksync/weread2yuque/internal/scheduler"
	"github.com/booksync/weread2yuque/internal/settingsstore"
	"github.com/booksync/weread2yuque/internal/syncer"
	"github.com/booksync/weread2yuque/internal/weread"
	"github.com/booksync/weread2yuque/internal/yuque"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewSyncerBuilder returns a builder that assembles a fresh Syncer from the
// current settings. Credentials are re-read on every build so changes made
// through the settings API apply to the next run.
func NewSyncerBuilder(cfg *config.Config, db *database.Database, store *settingsstore.SettingsStore) scheduler.SyncerBuilder {
	return func() (*syncer.Syncer, error) {
		if cfg.WeRead.Cookie == "" {
			return nil, fmt.Errorf("WeRead cookie not configured, set WEREAD_COOKIE")
		}

		token := store.GetYuqueToken()
		if token == "" {
			return nil, fmt.Errorf("Yuque token not configured")
		}
		namespace := store.GetYuqueNamespace()
		if namespace == "" {
			return nil, fmt.Errorf("Yuque namespace not configured")
		}

		source := weread.NewClient(cfg.WeRead.Cookie)
		publisher := yuque.NewClient(yuque.Config{
			Token:       token,
			Namespace:   namespace,
			CatalogUUID: store.GetYuqueCatalog(),
		})

		return syncer.New(source, publisher, db), nil
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting weread2yuque v%s", version)

	if cfg.WeRead.Cookie == "" {
		log.Printf("WARNING: WeRead cookie is not set. Sync runs will fail until 'WEREAD_COOKIE' is configured.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsStore := settingsstore.New(db)

	sched := scheduler.NewSyncScheduler(settingsStore, NewSyncerBuilder(cfg, db, settingsStore))

	if cfg.Sync.Enabled {
		if err := sched.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start sync scheduler: %v", err)
		}
	} else {
		log.Printf("Sync scheduler: disabled (set SYNC_ENABLED=true to enable)")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:      db,
		SettingsStore: settingsStore,
		Scheduler:     sched,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		sched.Stop()
	}

	Serve(router, cfg, onShutdown)
}
