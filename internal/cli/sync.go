package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/booksync/weread2yuque/internal/config"
	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/settingsstore"
	"github.com/booksync/weread2yuque/internal/syncer"
	"github.com/booksync/weread2yuque/internal/weread"
	"github.com/booksync/weread2yuque/internal/yuque"
)

// SyncCommand runs one sync batch from the command line
type SyncCommand struct {
	DatabasePath string
	Timeout      time.Duration
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand() *SyncCommand {
	return &SyncCommand{}
}

// ParseFlags parses command line flags
func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sync state database file")
	fs.DurationVar(&cmd.Timeout, "timeout", 30*time.Minute, "Overall timeout for the batch")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run one WeRead to Yuque sync batch and exit.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Lists your WeRead notebooks\n")
		fmt.Fprintf(os.Stderr, "  2. Skips books unchanged since the last delivered sync\n")
		fmt.Fprintf(os.Stderr, "  3. Assembles, renders and uploads the rest to Yuque\n\n")
		fmt.Fprintf(os.Stderr, "Required environment: WEREAD_COOKIE, YUQUE_TOKEN, YUQUE_NAMESPACE.\n")
		fmt.Fprintf(os.Stderr, "Optional: YUQUE_CATALOG (toc node UUID to file documents under).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -db /data/weread2yuque.db\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the sync command
func (cmd *SyncCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	cfg := config.NewConfig()
	if cfg.WeRead.Cookie == "" {
		return fmt.Errorf("WEREAD_COOKIE environment variable is not set")
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store := settingsstore.New(db)
	token := store.GetYuqueToken()
	if token == "" {
		return fmt.Errorf("Yuque token is not configured (set YUQUE_TOKEN)")
	}
	namespace := store.GetYuqueNamespace()
	if namespace == "" {
		return fmt.Errorf("Yuque namespace is not configured (set YUQUE_NAMESPACE)")
	}

	source := weread.NewClient(cfg.WeRead.Cookie)
	publisher := yuque.NewClient(yuque.Config{
		Token:       token,
		Namespace:   namespace,
		CatalogUUID: store.GetYuqueCatalog(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	summary, err := syncer.New(source, publisher, db).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sync finished: %s (%d skipped of %d total)\n", summary.Message(), summary.Skipped, summary.Total)
	for _, failure := range summary.Failures {
		fmt.Printf("  failed: %s (%s)\n", failure.Title, failure.Reason)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d books failed to sync", summary.Failed)
	}
	return nil
}
