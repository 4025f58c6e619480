package notebook

import (
	"context"
	"fmt"
	"sync"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

// Fetcher is the slice of the WeRead client the assembler needs.
type Fetcher interface {
	GetBookInfo(ctx context.Context, bookID string) (*weread.BookInfo, error)
	GetChapterInfos(ctx context.Context, bookID string) (*weread.ChapterInfoResponse, error)
	GetBookmarkList(ctx context.Context, bookID string) (*weread.BookmarkListResponse, error)
	GetReviewList(ctx context.Context, bookID string) (*weread.ReviewListResponse, error)
}

// Assembler builds one canonical Notebook per book by fetching the four
// per-book payloads and running them through the normalization pipeline.
type Assembler struct {
	fetcher Fetcher
}

// NewAssembler creates an Assembler on top of the given fetcher.
func NewAssembler(fetcher Fetcher) *Assembler {
	return &Assembler{fetcher: fetcher}
}

// Build fetches chapters, book detail, highlights and reviews for the book
// named by meta and assembles the Notebook. The four fetches run
// concurrently; any failure aborts assembly for this book only.
func (a *Assembler) Build(ctx context.Context, meta entities.Metadata) (*entities.Notebook, error) {
	var (
		wg        sync.WaitGroup
		chapters  *weread.ChapterInfoResponse
		info      *weread.BookInfo
		bookmarks *weread.BookmarkListResponse
		reviews   *weread.ReviewListResponse
	)
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		chapters, errs[0] = a.fetcher.GetChapterInfos(ctx, meta.BookID)
	}()
	go func() {
		defer wg.Done()
		info, errs[1] = a.fetcher.GetBookInfo(ctx, meta.BookID)
	}()
	go func() {
		defer wg.Done()
		bookmarks, errs[2] = a.fetcher.GetBookmarkList(ctx, meta.BookID)
	}()
	go func() {
		defer wg.Done()
		reviews, errs[3] = a.fetcher.GetReviewList(ctx, meta.BookID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", meta.BookID, err)
		}
	}

	bookChapters := StructureChapters(rawChapters(chapters, meta.BookID))
	MergeBookInfo(&meta, info)

	highlights := ParseHighlights(bookmarks, reviews)

	return &entities.Notebook{
		MetaData:          meta,
		BookReview:        ParseChapterReviews(reviews, bookChapters),
		ChapterHighlights: ParseChapterHighlights(highlights, bookChapters),
	}, nil
}

// rawChapters picks the chapter list for the given book out of the
// chapterInfos payload. The endpoint accepts multiple book ids, so the
// matching entry is preferred over blind positional access.
func rawChapters(resp *weread.ChapterInfoResponse, bookID string) []weread.RawChapter {
	if resp == nil || len(resp.Data) == 0 {
		return nil
	}
	for _, info := range resp.Data {
		if info.BookID == bookID {
			return info.Updated
		}
	}
	return resp.Data[0].Updated
}
