// Package syncer orchestrates one sync batch: list the user's notebooks,
// skip unchanged books via the dedup cache, assemble and render the changed
// ones concurrently, publish sequentially for monotone progress, and only
// then persist the dedup cache for the books that were actually delivered.
package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/exporters"
	"github.com/booksync/weread2yuque/internal/notebook"
	"github.com/booksync/weread2yuque/internal/weread"
)

const defaultConcurrency = 4

// BookSource lists the user's notebooks and serves the per-book fetches
// the assembler needs. *weread.Client satisfies it.
type BookSource interface {
	GetNotebooks(ctx context.Context) (*weread.NotebookListResponse, error)
	notebook.Fetcher
}

// Publisher delivers one rendered notebook to the knowledge base.
// *yuque.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, slug, title, markdown string) error
}

// BookFailure names a book whose sync failed and why.
type BookFailure struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Summary is the user-visible outcome of one sync batch.
type Summary struct {
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Failures []BookFailure `json:"failures,omitempty"`
}

// Message renders the summary the way the sync commands report it.
func (s *Summary) Message() string {
	switch {
	case s.Updated == 0 && s.Failed == 0:
		return "nothing to update"
	case s.Failed == 0:
		return fmt.Sprintf("updated %d books", s.Updated)
	default:
		return fmt.Sprintf("updated %d books, %d failed", s.Updated, s.Failed)
	}
}

// Syncer runs sync batches against a fixed set of collaborators. Build one
// per run so settings changes (Yuque token, namespace) take effect without
// shared mutable client state.
type Syncer struct {
	source      BookSource
	publisher   Publisher
	db          *database.Database
	renderer    *exporters.MarkdownRenderer
	concurrency int
}

// New creates a Syncer.
func New(source BookSource, publisher Publisher, db *database.Database) *Syncer {
	return &Syncer{
		source:      source,
		publisher:   publisher,
		db:          db,
		renderer:    exporters.NewMarkdownRenderer(),
		concurrency: defaultConcurrency,
	}
}

// Run executes one full sync batch and returns its summary.
func (s *Syncer) Run(ctx context.Context) (*Summary, error) {
	pending, summary, err := s.pendingBooks(ctx)
	if err != nil {
		return nil, err
	}

	run, err := s.db.StartSyncRun(len(pending))
	if err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	if len(pending) == 0 {
		_ = s.db.CompleteSyncRun(run.ID, entities.SyncStatusCompleted, "")
		log.Printf("Sync: nothing to update (%d books unchanged)", summary.Skipped)
		return summary, nil
	}

	log.Printf("Sync: %d books to update, %d unchanged", len(pending), summary.Skipped)

	results := s.buildAll(ctx, pending)

	delivered := s.publishAll(ctx, run.ID, results, summary)

	// The dedup cache is written only after the upload loop finished, and
	// only for delivered books, so an abandoned or failed batch is retried
	// on the next run.
	for _, meta := range delivered {
		if err := s.db.MarkBookSynced(meta.BookID, meta.LastReadTime); err != nil {
			log.Printf("Sync: warning - failed to cache sync state for '%s': %v", meta.Title, err)
		}
	}

	status := entities.SyncStatusCompleted
	var errorMsg string
	if summary.Failed > 0 {
		status = entities.SyncStatusPartial
		if summary.Updated == 0 {
			status = entities.SyncStatusFailed
		}
		reasons := make([]string, 0, len(summary.Failures))
		for _, failure := range summary.Failures {
			reasons = append(reasons, fmt.Sprintf("%s: %s", failure.Title, failure.Reason))
		}
		errorMsg = strings.Join(reasons, "; ")
	}
	_ = s.db.CompleteSyncRun(run.ID, status, errorMsg)

	log.Printf("Sync: %s", summary.Message())
	return summary, nil
}

// Export assembles every notebook (ignoring the dedup cache) and writes
// markdown files to dir instead of publishing. The cache is not touched.
func (s *Syncer) Export(ctx context.Context, dir string) (*exporters.ExportResult, error) {
	resp, err := s.source.GetNotebooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}

	metas := make([]entities.Metadata, 0, len(resp.Books))
	for _, entry := range resp.Books {
		metas = append(metas, notebook.ParseMetadata(entry))
	}

	results := s.buildAll(ctx, metas)

	fileExporter := exporters.NewFileExporter(dir)
	notebooks := make([]*entities.Notebook, 0, len(results))
	var exportErrors []string
	for _, result := range results {
		if result.err != nil {
			exportErrors = append(exportErrors, result.err.Error())
			continue
		}
		nb := result.notebook
		notebooks = append(notebooks, &nb)
	}

	exportResult, err := fileExporter.Export(notebooks)
	if err != nil {
		return nil, err
	}
	exportResult.Errors = append(exportErrors, exportResult.Errors...)
	return exportResult, nil
}

// pendingBooks lists the notebooks and filters out books whose dedup cache
// entry matches the current last-read time.
func (s *Syncer) pendingBooks(ctx context.Context) ([]entities.Metadata, *Summary, error) {
	resp, err := s.source.GetNotebooks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list notebooks: %w", err)
	}

	summary := &Summary{Total: len(resp.Books)}

	var pending []entities.Metadata
	for _, entry := range resp.Books {
		meta := notebook.ParseMetadata(entry)
		synced, err := s.db.IsBookSynced(meta.BookID, meta.LastReadTime)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check dedup cache: %w", err)
		}
		if synced {
			summary.Skipped++
			continue
		}
		pending = append(pending, meta)
	}

	return pending, summary, nil
}

// buildAll assembles and renders the pending books with bounded
// concurrency. Book order is preserved; per-book failures are carried in
// the result instead of aborting siblings.
func (s *Syncer) buildAll(ctx context.Context, pending []entities.Metadata) []builtBook {
	assembler := notebook.NewAssembler(s.source)
	results := make([]builtBook, len(pending))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)
	for i, meta := range pending {
		wg.Add(1)
		go func(i int, meta entities.Metadata) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			nb, err := assembler.Build(ctx, meta)
			if err != nil {
				results[i] = builtBook{meta: meta, err: err}
				return
			}
			results[i] = builtBook{
				meta:     nb.MetaData,
				notebook: *nb,
				markdown: s.renderer.Render(nb),
			}
		}(i, meta)
	}
	wg.Wait()

	return results
}

type builtBook struct {
	meta     entities.Metadata
	notebook entities.Notebook
	markdown string
	err      error
}

// publishAll uploads the built books one at a time, updating the run record
// after every book so progress only moves forward. It returns the metadata
// of the books that were delivered.
func (s *Syncer) publishAll(ctx context.Context, runID uint, results []builtBook, summary *Summary) []entities.Metadata {
	var delivered []entities.Metadata
	processed := 0

	for _, result := range results {
		processed++
		_ = s.db.UpdateSyncRun(runID, processed, summary.Updated, summary.Failed, summary.Skipped, result.meta.Title)

		if result.err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, BookFailure{
				BookID: result.meta.BookID,
				Title:  result.meta.Title,
				Reason: result.err.Error(),
			})
			log.Printf("Sync: failed to assemble '%s': %v", result.meta.Title, result.err)
			continue
		}

		if err := s.publisher.Publish(ctx, result.meta.BookID, result.meta.Title, result.markdown); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, BookFailure{
				BookID: result.meta.BookID,
				Title:  result.meta.Title,
				Reason: err.Error(),
			})
			log.Printf("Sync: failed to publish '%s': %v", result.meta.Title, err)
			continue
		}

		summary.Updated++
		delivered = append(delivered, result.meta)
		_ = s.db.UpdateSyncRun(runID, processed, summary.Updated, summary.Failed, summary.Skipped, result.meta.Title)
	}

	return delivered
}
