// Package notebook implements the normalization pipeline that turns raw
// WeRead API payloads into canonical Notebook documents: chapter
// structuring, highlight and review normalization, per-chapter aggregation
// and hierarchy completion.
package notebook

import (
	"sort"
	"strconv"

	"github.com/booksync/weread2yuque/internal/entities"
	"github.com/booksync/weread2yuque/internal/weread"
)

// chapterFold tracks the positional ancestry state while scanning chapters
// in document order: the most recent level-1 and level-2 uids seen so far.
type chapterFold struct {
	ancestor string
	parent   string
}

func (f *chapterFold) apply(uid string, level int) string {
	switch level {
	case 1:
		f.ancestor = uid
		return ""
	case 2:
		f.parent = uid
		return f.ancestor
	case 3:
		return f.parent
	}
	return ""
}

// StructureChapters turns the raw chapter list into a flat list annotated
// with the 3-level hierarchy. Parent assignment is positional: a level-2
// chapter attaches to the nearest preceding level-1 chapter, a level-3
// chapter to the nearest preceding level-2. Anchors are emitted as
// synthetic chapters right after their owning chapter, sorted by their own
// level and folded with the same rule.
//
// A level-2 or level-3 chapter with no preceding ancestor keeps an empty
// parent; downstream grouping tolerates the orphan.
func StructureChapters(raw []weread.RawChapter) []entities.Chapter {
	var fold chapterFold
	structured := make([]entities.Chapter, 0, len(raw))

	for _, ch := range raw {
		uid := strconv.Itoa(ch.ChapterUID)
		structured = append(structured, entities.Chapter{
			ChapterUID:   uid,
			ChapterTitle: ch.Title,
			Level:        ch.Level,
			Parent:       fold.apply(uid, ch.Level),
		})

		if len(ch.Anchors) == 0 {
			continue
		}

		anchors := make([]weread.RawAnchor, len(ch.Anchors))
		copy(anchors, ch.Anchors)
		sort.SliceStable(anchors, func(i, j int) bool {
			return anchors[i].Level < anchors[j].Level
		})

		for _, a := range anchors {
			anchorUID := strconv.Itoa(a.Anchor)
			var parent string
			// Anchors never restart the ancestry: a level-1 anchor is
			// emitted as-is without becoming the new ancestor.
			switch a.Level {
			case 2:
				parent = fold.ancestor
				fold.parent = anchorUID
			case 3:
				parent = fold.parent
			}
			structured = append(structured, entities.Chapter{
				ChapterUID:   anchorUID,
				ChapterTitle: a.Title,
				Level:        a.Level,
				Parent:       parent,
			})
		}
	}

	return structured
}

// findChapter looks a chapter up by uid. The raw data can reference
// chapters missing from the structure, so absence is an expected outcome.
func findChapter(chapters []entities.Chapter, uid string) (entities.Chapter, bool) {
	for _, ch := range chapters {
		if ch.ChapterUID == uid {
			return ch, true
		}
	}
	return entities.Chapter{}, false
}
