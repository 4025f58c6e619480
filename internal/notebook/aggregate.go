package notebook

import (
	"sort"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

// ParseChapterReviews partitions normalized reviews into whole-book reviews
// and per-chapter groups. Chapter-scoped reviews are ordered by creation
// time descending before grouping, so each group's chapter-level notes come
// out recency-sorted; range-anchored inline comments are re-sorted by range
// start within their group. Groups are ordered by chapter uid ascending and
// completed with synthesized ancestors.
func ParseChapterReviews(reviewData *weread.ReviewListResponse, chapters []entities.Chapter) entities.BookReview {
	reviews := ParseReviews(reviewData)

	var bookReviews []entities.Review
	var chapterScoped []entities.Review
	for _, review := range reviews {
		switch review.Type {
		case entities.ReviewTypeBook:
			bookReviews = append(bookReviews, review)
		case entities.ReviewTypeChapter:
			chapterScoped = append(chapterScoped, review)
		}
	}

	sort.SliceStable(chapterScoped, func(i, j int) bool {
		return chapterScoped[i].Created > chapterScoped[j].Created
	})

	var groups []entities.ChapterReview
	index := make(map[string]int)
	for _, review := range chapterScoped {
		i, ok := index[review.ChapterUID]
		if !ok {
			i = len(groups)
			index[review.ChapterUID] = i
			groups = append(groups, entities.ChapterReview{
				ChapterUID:     review.ChapterUID,
				ChapterTitle:   review.ChapterTitle,
				Reviews:        []entities.Review{},
				ChapterReviews: []entities.Review{},
			})
		}
		if review.Range != "" {
			groups[i].Reviews = append(groups[i].Reviews, review)
		} else {
			groups[i].ChapterReviews = append(groups[i].ChapterReviews, review)
		}
	}

	for i := range groups {
		reviews := groups[i].Reviews
		sort.SliceStable(reviews, func(a, b int) bool {
			return lessByRangeStart(reviews[a].Range, reviews[b].Range)
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessByUID(groups[i].ChapterUID, groups[j].ChapterUID)
	})

	return entities.BookReview{
		BookReviews: bookReviews,
		ChapterReviews: addLevelAndParent(groups, chapters, func(ch entities.Chapter) entities.ChapterReview {
			return entities.ChapterReview{
				ChapterUID:     ch.ChapterUID,
				ChapterTitle:   ch.ChapterTitle,
				Level:          ch.Level,
				Parent:         ch.Parent,
				Reviews:        []entities.Review{},
				ChapterReviews: []entities.Review{},
			}
		}),
	}
}

// ParseChapterHighlights groups normalized highlights by chapter in
// first-seen order, counting highlights with attached review content per
// chapter. Each group's highlights are sorted by range start, groups by
// chapter uid ascending, and the result is completed with synthesized
// ancestors.
func ParseChapterHighlights(highlights []entities.Highlight, chapters []entities.Chapter) []entities.ChapterHighlight {
	var groups []entities.ChapterHighlight
	index := make(map[string]int)
	for _, highlight := range highlights {
		i, ok := index[highlight.ChapterUID]
		if !ok {
			i = len(groups)
			index[highlight.ChapterUID] = i
			groups = append(groups, entities.ChapterHighlight{
				ChapterUID:   highlight.ChapterUID,
				ChapterTitle: highlight.ChapterTitle,
			})
		}
		if highlight.ReviewContent != "" {
			groups[i].ReviewCount++
		}
		groups[i].Highlights = append(groups[i].Highlights, highlight)
	}

	for i := range groups {
		hs := groups[i].Highlights
		sort.SliceStable(hs, func(a, b int) bool {
			return lessByRangeStart(hs[a].Range, hs[b].Range)
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessByUID(groups[i].ChapterUID, groups[j].ChapterUID)
	})

	return addLevelAndParent(groups, chapters, func(ch entities.Chapter) entities.ChapterHighlight {
		return entities.ChapterHighlight{
			ChapterUID:   ch.ChapterUID,
			ChapterTitle: ch.ChapterTitle,
			Level:        ch.Level,
			Parent:       ch.Parent,
			Highlights:   []entities.Highlight{},
		}
	})
}
