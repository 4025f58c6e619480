package entities

// Chapter is one entry of a book's flattened table of contents.
//
// ChapterUID is a string because WeRead draws chapter identifiers from two
// numbering spaces: regular chapters carry a numeric uid, while highlights
// made inside linked articles reference a review id string. Numeric uids are
// stored in decimal form so both kinds share one lookup key.
type Chapter struct {
	ChapterUID   string `json:"chapterUid"`
	ChapterTitle string `json:"chapterTitle"`
	Level        int    `json:"level"`
	Parent       string `json:"parent,omitempty"`
}

// Highlight is a normalized text excerpt with an optional attached review.
type Highlight struct {
	BookmarkID    string `json:"bookmarkId"`
	ChapterUID    string `json:"chapterUid"`
	ChapterTitle  string `json:"chapterTitle,omitempty"`
	Created       int64  `json:"created"`
	CreatedTime   string `json:"createdTime"`
	MarkText      string `json:"markText"`
	Range         string `json:"range"`
	ReviewContent string `json:"reviewContent,omitempty"`
}

// Review type tags as used by the WeRead review API.
const (
	ReviewTypeChapter = 1 // chapter-scoped review or inline comment
	ReviewTypeBook    = 4 // whole-book review
)

// Review is a normalized user note, either range-anchored, chapter-level
// or book-level depending on Range and Type.
type Review struct {
	ReviewID        string `json:"reviewId"`
	BookID          string `json:"bookId,omitempty"`
	ChapterUID      string `json:"chapterUid,omitempty"`
	ChapterTitle    string `json:"chapterTitle,omitempty"`
	Created         int64  `json:"created"`
	CreatedTime     string `json:"createdTime"`
	Content         string `json:"content"`
	MarkdownContent string `json:"mdContent"`
	Abstract        string `json:"abstract,omitempty"`
	Range           string `json:"range,omitempty"`
	Type            int    `json:"type"`
}

// ChapterReview groups the reviews of a single chapter. Reviews holds the
// range-anchored inline comments sorted by range start; ChapterReviews holds
// chapter-level notes sorted by recency.
type ChapterReview struct {
	ChapterUID     string   `json:"chapterUid"`
	ChapterTitle   string   `json:"chapterTitle"`
	Level          int      `json:"level"`
	Parent         string   `json:"parent,omitempty"`
	Reviews        []Review `json:"reviews"`
	ChapterReviews []Review `json:"chapterReviews"`
}

// ChapterHighlight groups the highlights of a single chapter, sorted by
// range start. ReviewCount counts highlights carrying an attached review.
type ChapterHighlight struct {
	ChapterUID   string      `json:"chapterUid"`
	ChapterTitle string      `json:"chapterTitle"`
	Level        int         `json:"level"`
	Parent       string      `json:"parent,omitempty"`
	ReviewCount  int         `json:"chapterReviewCount"`
	Highlights   []Highlight `json:"highlights"`
}

// UID returns the chapter id the group belongs to.
func (c ChapterReview) UID() string { return c.ChapterUID }

// WithChapter returns a copy of the group merged with the resolved chapter
// fields from the book's chapter structure.
func (c ChapterReview) WithChapter(ch Chapter) ChapterReview {
	c.ChapterTitle = ch.ChapterTitle
	c.Level = ch.Level
	c.Parent = ch.Parent
	return c
}

// UID returns the chapter id the group belongs to.
func (c ChapterHighlight) UID() string { return c.ChapterUID }

// WithChapter returns a copy of the group merged with the resolved chapter
// fields from the book's chapter structure.
func (c ChapterHighlight) WithChapter(ch Chapter) ChapterHighlight {
	c.ChapterTitle = ch.ChapterTitle
	c.Level = ch.Level
	c.Parent = ch.Parent
	return c
}

// BookReview splits a book's reviews into whole-book entries and
// hierarchy-completed per-chapter groups.
type BookReview struct {
	BookReviews    []Review        `json:"bookReviews"`
	ChapterReviews []ChapterReview `json:"chapterReviews"`
}

// Metadata carries the descriptive book fields. Category, Publisher, Intro
// and ISBN are enriched from the book detail endpoint after the notebook
// listing.
type Metadata struct {
	BookID       string `json:"bookId"`
	BookType     int    `json:"bookType"`
	Author       string `json:"author"`
	Title        string `json:"title"`
	Cover        string `json:"cover"`
	PublishTime  string `json:"publishTime"`
	NoteCount    int    `json:"noteCount"`
	ReviewCount  int    `json:"reviewCount"`
	LastReadTime string `json:"lastReadTime"`
	ISBN         string `json:"isbn,omitempty"`
	Category     string `json:"category,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	Intro        string `json:"intro,omitempty"`
}

// Notebook is the canonical document assembled per book and per sync cycle.
// It is immutable once built and handed to the markdown renderer.
type Notebook struct {
	MetaData          Metadata           `json:"metaData"`
	BookReview        BookReview         `json:"bookReview"`
	ChapterHighlights []ChapterHighlight `json:"chapterHighlights"`
}
