package notebook

import (
	"strconv"
	"strings"

	"github.com/booksync/weread2yuque/internal/entities"
)

// chapterScoped is the contract between the hierarchy grouper and the two
// per-chapter group types it completes.
type chapterScoped[T any] interface {
	// UID returns the chapter id the item belongs to.
	UID() string
	// WithChapter returns the item merged with the resolved chapter fields.
	WithChapter(ch entities.Chapter) T
}

// addLevelAndParent merges each chapter-scoped group with its resolved
// chapter fields and inserts empty placeholder groups for every missing
// ancestor, so a level-3 group is always preceded by its level-1 and
// level-2 chapters somewhere in the output. The result stays a flat list in
// document order; consumers rebuild the tree from Level/Parent at render
// time.
//
// Placeholders are only synthesized once: groups already present in the
// output (including previously synthesized ancestors) are never duplicated,
// which makes the operation idempotent. A group whose chapter id is not in
// the structure at all is passed through unresolved (level 0) and triggers
// no synthesis.
func addLevelAndParent[T chapterScoped[T]](items []T, chapters []entities.Chapter, placeholder func(ch entities.Chapter) T) []T {
	out := make([]T, 0, len(items))

	emitted := func(uid string) bool {
		for _, existing := range out {
			if existing.UID() == uid {
				return true
			}
		}
		return false
	}
	synthesize := func(uid string) {
		if uid == "" || emitted(uid) {
			return
		}
		if ch, ok := findChapter(chapters, uid); ok {
			out = append(out, placeholder(ch))
		}
	}

	for _, item := range items {
		chapter, ok := findChapter(chapters, item.UID())
		if !ok {
			// Dangling reference: keep the item unattached rather than
			// failing the book.
			out = append(out, item)
			continue
		}

		switch chapter.Level {
		case 2:
			synthesize(chapter.Parent)
		case 3:
			if parent, ok := findChapter(chapters, chapter.Parent); ok {
				synthesize(parent.Parent)
			}
			synthesize(chapter.Parent)
		}

		out = append(out, item.WithChapter(chapter))
	}

	return out
}

// rangeStart parses the numeric prefix of a "start-end" range string.
// Malformed ranges report ok=false and are sorted after well-formed ones.
func rangeStart(rng string) (int, bool) {
	head, _, found := strings.Cut(rng, "-")
	if !found {
		return 0, false
	}
	start, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return start, true
}

// lessByRangeStart orders two range strings by numeric start, pushing
// malformed ranges to the end while keeping their relative order.
func lessByRangeStart(a, b string) bool {
	aStart, aOK := rangeStart(a)
	bStart, bOK := rangeStart(b)
	if aOK && bOK {
		return aStart < bStart
	}
	return aOK && !bOK
}

// lessByUID orders chapter ids ascending: numeric uids numerically first,
// then linked-article review ids lexicographically.
func lessByUID(a, b string) bool {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return aNum < bNum
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
