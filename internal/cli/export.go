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
	"github.com/booksync/weread2yuque/internal/syncer"
	"github.com/booksync/weread2yuque/internal/weread"
)

// ExportCommand writes all WeRead notebooks to local markdown files
type ExportCommand struct {
	OutputDir    string
	DatabasePath string
	Timeout      time.Duration
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	defaultOutputDir := filepath.Join(".", "markdown")

	fs.StringVar(&cmd.OutputDir, "output", defaultOutputDir, "Output directory for markdown files")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sync state database file")
	fs.DurationVar(&cmd.Timeout, "timeout", 30*time.Minute, "Overall timeout for the export")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export all WeRead notebooks as markdown files.\n\n")
		fmt.Fprintf(os.Stderr, "Unlike 'sync', this exports every book regardless of the dedup\n")
		fmt.Fprintf(os.Stderr, "cache and does not upload anything to Yuque.\n\n")
		fmt.Fprintf(os.Stderr, "Required environment: WEREAD_COOKIE.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -output ~/notes/weread\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	absOutputDir, err := filepath.Abs(cmd.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}
	cmd.OutputDir = absOutputDir

	cfg := config.NewConfig()
	if cfg.WeRead.Cookie == "" {
		return fmt.Errorf("WEREAD_COOKIE environment variable is not set")
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	source := weread.NewClient(cfg.WeRead.Cookie)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	result, err := syncer.New(source, nil, db).Export(ctx, cmd.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if len(result.ExportedFiles) == 0 {
		fmt.Println("No books to export")
		return nil
	}

	fmt.Printf("Exported %d books:\n", len(result.ExportedFiles))
	for title, path := range result.ExportedFiles {
		fmt.Printf("  %s -> %s\n", title, filepath.Base(path))
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d errors during export:\n", len(result.Errors))
		for _, errMsg := range result.Errors {
			fmt.Printf("  %s\n", errMsg)
		}
	}

	return nil
}
