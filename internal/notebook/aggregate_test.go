package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

func chapterReview(id string, uid, created int, rng string) weread.ReviewItem {
	return weread.ReviewItem{Review: weread.RawReview{
		ReviewID:   id,
		ChapterUID: uid,
		CreateTime: int64(created),
		Content:    "note " + id,
		Range:      rng,
		Type:       entities.ReviewTypeChapter,
	}}
}

func TestParseChapterReviews(t *testing.T) {
	chapters := hierarchyChapters()

	t.Run("partitions book reviews from chapter reviews", func(t *testing.T) {
		data := &weread.ReviewListResponse{
			Reviews: []weread.ReviewItem{
				{Review: weread.RawReview{ReviewID: "whole", Content: "verdict", Type: entities.ReviewTypeBook}},
				chapterReview("c1", 1, 100, ""),
			},
		}

		result := ParseChapterReviews(data, chapters)
		require.Len(t, result.BookReviews, 1)
		assert.Equal(t, "whole", result.BookReviews[0].ReviewID)
		require.Len(t, result.ChapterReviews, 1)
		assert.Equal(t, "1", result.ChapterReviews[0].ChapterUID)
	})

	t.Run("splits range-anchored comments from chapter-level notes", func(t *testing.T) {
		data := &weread.ReviewListResponse{
			Reviews: []weread.ReviewItem{
				chapterReview("inline", 1, 100, "10-20"),
				chapterReview("standalone", 1, 200, ""),
			},
		}

		result := ParseChapterReviews(data, chapters)
		require.Len(t, result.ChapterReviews, 1)
		group := result.ChapterReviews[0]
		require.Len(t, group.Reviews, 1)
		assert.Equal(t, "inline", group.Reviews[0].ReviewID)
		require.Len(t, group.ChapterReviews, 1)
		assert.Equal(t, "standalone", group.ChapterReviews[0].ReviewID)
	})

	t.Run("chapter-level notes are recency sorted", func(t *testing.T) {
		data := &weread.ReviewListResponse{
			Reviews: []weread.ReviewItem{
				chapterReview("older", 1, 100, ""),
				chapterReview("newer", 1, 200, ""),
			},
		}

		result := ParseChapterReviews(data, chapters)
		require.Len(t, result.ChapterReviews, 1)
		notes := result.ChapterReviews[0].ChapterReviews
		require.Len(t, notes, 2)
		assert.Equal(t, "newer", notes[0].ReviewID)
		assert.Equal(t, "older", notes[1].ReviewID)
	})

	t.Run("inline comments are sorted by range start", func(t *testing.T) {
		data := &weread.ReviewListResponse{
			Reviews: []weread.ReviewItem{
				chapterReview("late", 1, 300, "40-44"),
				chapterReview("early", 1, 100, "5-9"),
			},
		}

		result := ParseChapterReviews(data, chapters)
		require.Len(t, result.ChapterReviews, 1)
		inline := result.ChapterReviews[0].Reviews
		require.Len(t, inline, 2)
		assert.Equal(t, "early", inline[0].ReviewID)
		assert.Equal(t, "late", inline[1].ReviewID)
	})

	t.Run("groups are ordered by chapter uid and completed with ancestors", func(t *testing.T) {
		data := &weread.ReviewListResponse{
			Reviews: []weread.ReviewItem{
				chapterReview("second", 4, 100, ""),
				chapterReview("third", 3, 200, ""),
			},
		}

		result := ParseChapterReviews(data, chapters)
		uids := make([]string, 0, len(result.ChapterReviews))
		for _, group := range result.ChapterReviews {
			uids = append(uids, group.ChapterUID)
		}
		// Group 3 pulls in its synthesized ancestors 1 and 2.
		assert.Equal(t, []string{"1", "2", "3", "4"}, uids)
		assert.Empty(t, result.ChapterReviews[0].Reviews)
		assert.Empty(t, result.ChapterReviews[0].ChapterReviews)
	})

	t.Run("empty payload yields empty partitions", func(t *testing.T) {
		result := ParseChapterReviews(nil, chapters)
		assert.Empty(t, result.BookReviews)
		assert.Empty(t, result.ChapterReviews)
	})
}

func TestParseChapterHighlights(t *testing.T) {
	chapters := hierarchyChapters()

	highlight := func(id, uid, rng, reviewContent string) entities.Highlight {
		return entities.Highlight{
			BookmarkID:    id,
			ChapterUID:    uid,
			Range:         rng,
			ReviewContent: reviewContent,
		}
	}

	t.Run("groups by chapter and counts attached reviews", func(t *testing.T) {
		groups := ParseChapterHighlights([]entities.Highlight{
			highlight("a", "1", "1-2", "thought"),
			highlight("b", "1", "3-4", ""),
			highlight("c", "4", "5-6", "other"),
		}, chapters)

		require.Len(t, groups, 2)
		assert.Equal(t, "1", groups[0].ChapterUID)
		assert.Len(t, groups[0].Highlights, 2)
		assert.Equal(t, 1, groups[0].ReviewCount)
		assert.Equal(t, "4", groups[1].ChapterUID)
		assert.Equal(t, 1, groups[1].ReviewCount)
	})

	t.Run("highlights within a group are sorted by range start", func(t *testing.T) {
		groups := ParseChapterHighlights([]entities.Highlight{
			highlight("late", "1", "40-44", ""),
			highlight("early", "1", "5-9", ""),
			highlight("broken", "1", "nonsense", ""),
		}, chapters)

		require.Len(t, groups, 1)
		hs := groups[0].Highlights
		require.Len(t, hs, 3)
		assert.Equal(t, "early", hs[0].BookmarkID)
		assert.Equal(t, "late", hs[1].BookmarkID)
		assert.Equal(t, "broken", hs[2].BookmarkID)
	})

	t.Run("numeric uids order numerically before article ids", func(t *testing.T) {
		groups := ParseChapterHighlights([]entities.Highlight{
			highlight("x", "article-id", "1-2", ""),
			highlight("y", "100", "1-2", ""),
			highlight("z", "20", "1-2", ""),
		}, chapters)

		uids := make([]string, 0, len(groups))
		for _, group := range groups {
			uids = append(uids, group.ChapterUID)
		}
		assert.Equal(t, []string{"20", "100", "article-id"}, uids)
	})

	t.Run("no highlights yields no groups", func(t *testing.T) {
		assert.Empty(t, ParseChapterHighlights(nil, chapters))
	})
}
