package weread

// Raw payload shapes as returned by the WeRead web API. Field presence is
// inconsistent across books (regular chapters vs. linked-article refs), so
// absent numeric ids are zero and resolved by the notebook package.

// NotebookListResponse is the /user/notebooks payload.
type NotebookListResponse struct {
	Books []NotebookEntry `json:"books"`
}

// NotebookEntry is one book in the user's notebook list. Sort is the epoch
// second of the last reading activity and drives dedup filtering.
type NotebookEntry struct {
	Book        RawBook `json:"book"`
	NoteCount   int     `json:"noteCount"`
	ReviewCount int     `json:"reviewCount"`
	Sort        int64   `json:"sort"`
}

// RawBook is the embedded book record of a notebook entry.
type RawBook struct {
	BookID      string `json:"bookId"`
	Type        int    `json:"type"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	PublishTime string `json:"publishTime"`
}

// BookInfo is the /book/info payload, used only for metadata enrichment.
type BookInfo struct {
	Category  string `json:"category"`
	Publisher string `json:"publisher"`
	Intro     string `json:"intro"`
	ISBN      string `json:"isbn"`
}

// ChapterInfoResponse is the /book/chapterInfos payload.
type ChapterInfoResponse struct {
	Data []ChapterInfo `json:"data"`
}

// ChapterInfo holds the chapter list of a single book.
type ChapterInfo struct {
	BookID  string       `json:"bookId"`
	Updated []RawChapter `json:"updated"`
}

// RawChapter is one table-of-contents record. Anchors are footnote-like
// inline markers that the structurer turns into synthetic chapters.
type RawChapter struct {
	ChapterUID int         `json:"chapterUid"`
	Title      string      `json:"title"`
	Level      int         `json:"level"`
	Anchors    []RawAnchor `json:"anchors,omitempty"`
}

// RawAnchor is an inline anchor of a chapter. Anchor is its uid in the
// anchor numbering space.
type RawAnchor struct {
	Anchor int    `json:"anchor"`
	Title  string `json:"title"`
	Level  int    `json:"level"`
}

// BookmarkListResponse is the /book/bookmarklist payload. Chapters is set
// for regular books, RefMpInfos for highlight collections made on linked
// articles; at most one of the two carries the title lookup.
type BookmarkListResponse struct {
	Chapters   []RefChapter  `json:"chapters,omitempty"`
	RefMpInfos []RefChapter  `json:"refMpInfos,omitempty"`
	Updated    []RawBookmark `json:"updated"`
}

// RefChapter maps a chapter (or linked-article review) id to its title.
type RefChapter struct {
	ChapterUID int    `json:"chapterUid,omitempty"`
	ReviewID   string `json:"reviewId,omitempty"`
	Title      string `json:"title"`
}

// RawBookmark is one highlight record. ChapterUID is zero for
// linked-article highlights, which reference RefMpReviewID instead.
type RawBookmark struct {
	BookmarkID    string `json:"bookmarkId"`
	ChapterUID    int    `json:"chapterUid,omitempty"`
	RefMpReviewID string `json:"refMpReviewId,omitempty"`
	CreateTime    int64  `json:"createTime"`
	MarkText      string `json:"markText"`
	Range         string `json:"range"`
}

// ReviewListResponse is the /review/list payload.
type ReviewListResponse struct {
	Reviews []ReviewItem `json:"reviews"`
}

// ReviewItem wraps a single review record.
type ReviewItem struct {
	Review RawReview `json:"review"`
}

// RawReview is one user note. Type 1 marks chapter-scoped reviews and
// inline comments, type 4 whole-book reviews. HTMLContent is set for
// reviews authored in the rich editor.
type RawReview struct {
	ReviewID     string     `json:"reviewId"`
	BookID       string     `json:"bookId,omitempty"`
	ChapterUID   int        `json:"chapterUid,omitempty"`
	ChapterTitle string     `json:"chapterTitle,omitempty"`
	CreateTime   int64      `json:"createTime"`
	Content      string     `json:"content"`
	HTMLContent  string     `json:"htmlContent,omitempty"`
	Abstract     string     `json:"abstract,omitempty"`
	Range        string     `json:"range,omitempty"`
	RefMpInfo    *RefMpInfo `json:"refMpInfo,omitempty"`
	Type         int        `json:"type"`
}

// RefMpInfo cross-references the linked article a review was made on.
type RefMpInfo struct {
	ReviewID string `json:"reviewId"`
	Title    string `json:"title"`
}
