// Package exporters renders canonical notebooks to markdown and writes
// them out, either to the Yuque publisher or to local files.
package exporters

import (
	"fmt"
	"strings"
	"time"

	"github.com/booksync/weread2yuque/internal/entities"
)

// MarkdownRenderer renders one Notebook into a single markdown document.
// The chapter groups arrive as a flat list; heading depth is rebuilt from
// each group's level annotation.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render produces the markdown body for a notebook.
func (r *MarkdownRenderer) Render(nb *entities.Notebook) string {
	var sb strings.Builder

	meta := nb.MetaData

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", meta.Title)
	fmt.Fprintf(&sb, "author: %q\n", meta.Author)
	if meta.Cover != "" {
		fmt.Fprintf(&sb, "cover: %s\n", meta.Cover)
	}
	if meta.ISBN != "" {
		fmt.Fprintf(&sb, "isbn: %s\n", meta.ISBN)
	}
	if meta.Category != "" {
		fmt.Fprintf(&sb, "category: %q\n", meta.Category)
	}
	if meta.Publisher != "" {
		fmt.Fprintf(&sb, "publisher: %q\n", meta.Publisher)
	}
	if meta.PublishTime != "" {
		fmt.Fprintf(&sb, "publish_time: %s\n", meta.PublishTime)
	}
	fmt.Fprintf(&sb, "highlights_count: %d\n", meta.NoteCount)
	fmt.Fprintf(&sb, "reviews_count: %d\n", meta.ReviewCount)
	if meta.LastReadTime != "" {
		fmt.Fprintf(&sb, "last_read: %s\n", meta.LastReadTime)
	}
	fmt.Fprintf(&sb, "exported_at: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("tags: [highlights, books, weread]\n")
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n", meta.Title)
	if meta.Author != "" {
		fmt.Fprintf(&sb, "*by %s*\n", meta.Author)
	}
	sb.WriteString("\n")

	if meta.Intro != "" {
		fmt.Fprintf(&sb, "> %s\n\n", meta.Intro)
	}

	r.renderBookReviews(&sb, nb.BookReview.BookReviews)
	r.renderHighlights(&sb, nb.ChapterHighlights)
	r.renderChapterReviews(&sb, nb.BookReview.ChapterReviews)

	return sb.String()
}

func (r *MarkdownRenderer) renderBookReviews(sb *strings.Builder, reviews []entities.Review) {
	if len(reviews) == 0 {
		return
	}
	sb.WriteString("## Book Review\n\n")
	for _, review := range reviews {
		fmt.Fprintf(sb, "%s\n\n", review.MarkdownContent)
		fmt.Fprintf(sb, "*%s*\n\n", review.CreatedTime)
	}
}

func (r *MarkdownRenderer) renderHighlights(sb *strings.Builder, chapters []entities.ChapterHighlight) {
	if len(chapters) == 0 {
		return
	}
	sb.WriteString("## Highlights\n\n")
	for _, chapter := range chapters {
		r.renderChapterHeading(sb, chapter.ChapterTitle, chapter.Level)
		for _, highlight := range chapter.Highlights {
			fmt.Fprintf(sb, "> %s\n\n", highlight.MarkText)
			if highlight.ReviewContent != "" {
				fmt.Fprintf(sb, "**Note:** %s\n\n", highlight.ReviewContent)
			}
		}
	}
}

func (r *MarkdownRenderer) renderChapterReviews(sb *strings.Builder, chapters []entities.ChapterReview) {
	if len(chapters) == 0 {
		return
	}
	sb.WriteString("## Notes\n\n")
	for _, chapter := range chapters {
		r.renderChapterHeading(sb, chapter.ChapterTitle, chapter.Level)
		for _, review := range chapter.Reviews {
			if review.Abstract != "" {
				fmt.Fprintf(sb, "> %s\n\n", review.Abstract)
			}
			fmt.Fprintf(sb, "%s\n\n", review.MarkdownContent)
		}
		for _, review := range chapter.ChapterReviews {
			fmt.Fprintf(sb, "%s\n\n", review.MarkdownContent)
			fmt.Fprintf(sb, "*%s*\n\n", review.CreatedTime)
		}
	}
}

// renderChapterHeading writes a chapter title at a heading depth derived
// from its hierarchy level. Unresolved chapters (level 0) and level-1
// chapters share the top group depth.
func (r *MarkdownRenderer) renderChapterHeading(sb *strings.Builder, title string, level int) {
	depth := 3
	switch level {
	case 2:
		depth = 4
	case 3:
		depth = 5
	}
	if title == "" {
		title = "Untitled chapter"
	}
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", depth), title)
}
