package notebook

import (
	"strconv"
	"strings"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

// syntheticIDPrefix marks bookmark ids generated for linked-article
// highlights. They are not stable across fetches, so the text range stands
// in as the identifier instead.
const syntheticIDPrefix = "MP_WXS"

// ParseHighlights normalizes the raw highlight payload, resolving chapter
// titles and attaching the first review that covers the exact same text
// range. The review payload is the same one the review normalizer consumes;
// matching happens on the raw records so attachment does not depend on
// review ordering.
func ParseHighlights(data *weread.BookmarkListResponse, reviewData *weread.ReviewListResponse) []entities.Highlight {
	if data == nil {
		return nil
	}

	titles := chapterTitleLookup(data)

	highlights := make([]entities.Highlight, 0, len(data.Updated))
	for _, raw := range data.Updated {
		chapterUID := raw.RefMpReviewID
		if raw.ChapterUID != 0 {
			chapterUID = strconv.Itoa(raw.ChapterUID)
		}

		bookmarkID := raw.BookmarkID
		if strings.HasPrefix(bookmarkID, syntheticIDPrefix) {
			bookmarkID = raw.Range
		}

		highlights = append(highlights, entities.Highlight{
			BookmarkID:    normalizeID(bookmarkID),
			ChapterUID:    chapterUID,
			ChapterTitle:  titles[chapterUID],
			Created:       raw.CreateTime,
			CreatedTime:   formatEpoch(raw.CreateTime),
			MarkText:      strings.ReplaceAll(raw.MarkText, "\n", ""),
			Range:         raw.Range,
			ReviewContent: reviewContentForRange(reviewData, raw.Range),
		})
	}

	return highlights
}

// chapterTitleLookup builds the id-to-title map, preferring the regular
// chapter list over linked-article refs when both are present.
func chapterTitleLookup(data *weread.BookmarkListResponse) map[string]string {
	refs := data.Chapters
	if len(refs) == 0 {
		refs = data.RefMpInfos
	}

	titles := make(map[string]string, len(refs))
	for _, ref := range refs {
		uid := ref.ReviewID
		if ref.ChapterUID != 0 {
			uid = strconv.Itoa(ref.ChapterUID)
		}
		titles[uid] = ref.Title
	}
	return titles
}

// reviewContentForRange returns the content of the first review anchored to
// exactly the given range, or empty when none matches.
func reviewContentForRange(reviewData *weread.ReviewListResponse, rng string) string {
	if reviewData == nil || rng == "" {
		return ""
	}
	for _, item := range reviewData.Reviews {
		if item.Review.Range == rng {
			return item.Review.Content
		}
	}
	return ""
}
