package exporters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/utils"
)

// FileExporter writes rendered notebooks to markdown files, one per book.
type FileExporter struct {
	OutputDir string
	Renderer  *MarkdownRenderer
}

// NewFileExporter creates a FileExporter targeting the given directory.
func NewFileExporter(outputDir string) *FileExporter {
	return &FileExporter{
		OutputDir: outputDir,
		Renderer:  NewMarkdownRenderer(),
	}
}

// ExportResult contains information about an export operation.
type ExportResult struct {
	ExportedFiles map[string]string // book title -> file path
	Errors        []string
}

// Export renders and writes every notebook. Per-book write failures are
// collected instead of aborting the batch.
func (e *FileExporter) Export(notebooks []*entities.Notebook) (*ExportResult, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		ExportedFiles: make(map[string]string),
	}

	for _, nb := range notebooks {
		title := nb.MetaData.Title
		outputFile := filepath.Join(e.OutputDir, utils.SanitizeFilename(title)+".md")

		markdown := e.Renderer.Render(nb)
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to export '%s': %v", title, err))
			continue
		}

		result.ExportedFiles[title] = outputFile
	}

	return result, nil
}
