package notebook

import (
	"strings"
	"time"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// ParseMetadata extracts book metadata from a notebook listing entry. The
// cover URL is upscaled from the small thumbnail variant, and the listing's
// sort value (epoch seconds of the last reading activity) becomes the
// formatted last-read time that keys the dedup cache.
func ParseMetadata(entry weread.NotebookEntry) entities.Metadata {
	book := entry.Book
	return entities.Metadata{
		BookID:       book.BookID,
		BookType:     book.Type,
		Author:       book.Author,
		Title:        book.Title,
		Cover:        strings.Replace(book.Cover, "/s_", "/t7_", 1),
		PublishTime:  formatPublishTime(book.PublishTime),
		NoteCount:    entry.NoteCount,
		ReviewCount:  entry.ReviewCount,
		LastReadTime: time.Unix(entry.Sort, 0).Format(dateTimeFormat),
	}
}

// formatPublishTime reduces a publish timestamp to its date part. Unparsable
// values pass through untouched.
func formatPublishTime(raw string) string {
	for _, layout := range []string{dateTimeFormat, dateFormat} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.Format(dateFormat)
		}
	}
	return raw
}

// MergeBookInfo enriches metadata with catalog fields fetched from the book
// detail endpoint.
func MergeBookInfo(meta *entities.Metadata, info *weread.BookInfo) {
	if info == nil {
		return
	}
	meta.Category = info.Category
	meta.Publisher = info.Publisher
	meta.Intro = info.Intro
	meta.ISBN = info.ISBN
}

func formatEpoch(sec int64) string {
	return time.Unix(sec, 0).Format(dateTimeFormat)
}
