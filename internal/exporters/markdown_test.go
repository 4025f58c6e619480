package exporters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksync/weread2yuque/internal/entities"
)

func sampleNotebook() *entities.Notebook {
	return &entities.Notebook{
		MetaData: entities.Metadata{
			BookID:       "b1",
			Title:        "A Book",
			Author:       "Someone",
			Cover:        "https://cdn.example.com/t7_cover.jpg",
			Intro:        "About the book.",
			NoteCount:    2,
			ReviewCount:  1,
			LastReadTime: "2026-08-01 10:00:00",
		},
		BookReview: entities.BookReview{
			BookReviews: []entities.Review{
				{ReviewID: "r-book", MarkdownContent: "Overall verdict.", CreatedTime: "2026-08-01 09:00:00"},
			},
			ChapterReviews: []entities.ChapterReview{
				{
					ChapterUID:   "1",
					ChapterTitle: "Part One",
					Level:        1,
					Reviews:      []entities.Review{},
					ChapterReviews: []entities.Review{
						{ReviewID: "r-ch", MarkdownContent: "Chapter thought.", CreatedTime: "2026-08-01 08:00:00"},
					},
				},
				{
					ChapterUID:   "2",
					ChapterTitle: "Chapter One",
					Level:        2,
					Parent:       "1",
					Reviews: []entities.Review{
						{ReviewID: "r-inline", MarkdownContent: "Inline comment.", Abstract: "quoted passage", Range: "5-9"},
					},
					ChapterReviews: []entities.Review{},
				},
			},
		},
		ChapterHighlights: []entities.ChapterHighlight{
			{
				ChapterUID:   "2",
				ChapterTitle: "Chapter One",
				Level:        2,
				Parent:       "1",
				ReviewCount:  1,
				Highlights: []entities.Highlight{
					{BookmarkID: "bm-1", MarkText: "memorable line", Range: "5-9", ReviewContent: "my note"},
					{BookmarkID: "bm-2", MarkText: "another line", Range: "12-20"},
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	markdown := NewMarkdownRenderer().Render(sampleNotebook())

	t.Run("frontmatter carries metadata", func(t *testing.T) {
		require.True(t, strings.HasPrefix(markdown, "---\n"))
		assert.Contains(t, markdown, `title: "A Book"`)
		assert.Contains(t, markdown, `author: "Someone"`)
		assert.Contains(t, markdown, "cover: https://cdn.example.com/t7_cover.jpg")
		assert.Contains(t, markdown, "highlights_count: 2")
		assert.Contains(t, markdown, "last_read: 2026-08-01 10:00:00")
	})

	t.Run("title, byline and intro", func(t *testing.T) {
		assert.Contains(t, markdown, "# A Book\n")
		assert.Contains(t, markdown, "*by Someone*\n")
		assert.Contains(t, markdown, "> About the book.\n")
	})

	t.Run("book review section", func(t *testing.T) {
		assert.Contains(t, markdown, "## Book Review\n")
		assert.Contains(t, markdown, "Overall verdict.\n")
	})

	t.Run("highlights render under chapter headings by level", func(t *testing.T) {
		assert.Contains(t, markdown, "## Highlights\n")
		assert.Contains(t, markdown, "#### Chapter One\n")
		assert.Contains(t, markdown, "> memorable line\n")
		assert.Contains(t, markdown, "**Note:** my note\n")
		// A highlight without review content gets no note line after it.
		assert.NotContains(t, markdown, "**Note:** \n")
	})

	t.Run("notes section renders abstracts and chapter notes", func(t *testing.T) {
		assert.Contains(t, markdown, "## Notes\n")
		assert.Contains(t, markdown, "### Part One\n")
		assert.Contains(t, markdown, "> quoted passage\n")
		assert.Contains(t, markdown, "Inline comment.\n")
		assert.Contains(t, markdown, "Chapter thought.\n")
	})

	t.Run("section order is book review, highlights, notes", func(t *testing.T) {
		reviewIdx := strings.Index(markdown, "## Book Review")
		highlightsIdx := strings.Index(markdown, "## Highlights")
		notesIdx := strings.Index(markdown, "## Notes")
		require.GreaterOrEqual(t, reviewIdx, 0)
		assert.Less(t, reviewIdx, highlightsIdx)
		assert.Less(t, highlightsIdx, notesIdx)
	})
}

func TestRenderEmptySections(t *testing.T) {
	nb := &entities.Notebook{
		MetaData: entities.Metadata{Title: "Empty Book", Author: "Nobody"},
	}
	markdown := NewMarkdownRenderer().Render(nb)

	assert.NotContains(t, markdown, "## Book Review")
	assert.NotContains(t, markdown, "## Highlights")
	assert.NotContains(t, markdown, "## Notes")
}

func TestRenderChapterHeadingLevels(t *testing.T) {
	r := NewMarkdownRenderer()

	heading := func(title string, level int) string {
		var sb strings.Builder
		r.renderChapterHeading(&sb, title, level)
		return sb.String()
	}

	assert.Equal(t, "### Top\n\n", heading("Top", 1))
	assert.Equal(t, "#### Mid\n\n", heading("Mid", 2))
	assert.Equal(t, "##### Deep\n\n", heading("Deep", 3))
	// Unresolved chapters share the top depth.
	assert.Equal(t, "### Loose\n\n", heading("Loose", 0))
	assert.Equal(t, "### Untitled chapter\n\n", heading("", 1))
}
