package notebook

import (
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

// ParseReviews normalizes the raw review payload. Chapter fields prefer the
// direct chapterUid/chapterTitle and fall back to the linked-article
// cross-reference for reviews made on articles rather than book chapters.
// HTML-authored reviews are converted to Markdown; plain reviews mirror
// their content. Ordering is left to the aggregator.
func ParseReviews(data *weread.ReviewListResponse) []entities.Review {
	if data == nil {
		return nil
	}

	reviews := make([]entities.Review, 0, len(data.Reviews))
	for _, item := range data.Reviews {
		raw := item.Review

		chapterUID := ""
		chapterTitle := raw.ChapterTitle
		if raw.ChapterUID != 0 {
			chapterUID = strconv.Itoa(raw.ChapterUID)
		} else if raw.RefMpInfo != nil {
			chapterUID = raw.RefMpInfo.ReviewID
		}
		if chapterTitle == "" && raw.RefMpInfo != nil {
			chapterTitle = raw.RefMpInfo.Title
		}

		reviews = append(reviews, entities.Review{
			ReviewID:        normalizeID(raw.ReviewID),
			BookID:          raw.BookID,
			ChapterUID:      chapterUID,
			ChapterTitle:    chapterTitle,
			Created:         raw.CreateTime,
			CreatedTime:     formatEpoch(raw.CreateTime),
			Content:         raw.Content,
			MarkdownContent: markdownContent(raw),
			Abstract:        raw.Abstract,
			Range:           raw.Range,
			Type:            raw.Type,
		})
	}

	return reviews
}

// markdownContent converts a rich-editor review body to Markdown, falling
// back to the plain content when no HTML body exists or conversion fails.
func markdownContent(raw weread.RawReview) string {
	if raw.HTMLContent == "" {
		return raw.Content
	}
	md, err := htmltomarkdown.ConvertString(raw.HTMLContent)
	if err != nil || md == "" {
		return raw.Content
	}
	return strings.TrimSpace(md)
}

// normalizeID rewrites WeRead identifiers into slug-safe form.
func normalizeID(id string) string {
	return strings.ReplaceAll(id, "_", "-")
}
