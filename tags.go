package autoparam

import (
	"iter"
	"strings"
)

// TagSpan is one complete <a ...> opening tag within a document.
// Text is doc[Start:End] and always ends with '>'.
type TagSpan struct {
	Start int
	End   int
	Text  string
}

// AnchorTags yields the <a> opening tags of doc in document order.
//
// A tag runs from "<a" to the first '>' outside a quoted run. Double, single
// and backtick quotes are tracked; a quote only closes on the same character.
// An "<a" with no terminating '>' is skipped and scanning resumes after it.
// "<abbr>" and similar tags are not anchors. The scan is linear in len(doc).
func AnchorTags(doc string) iter.Seq[TagSpan] {
	return func(yield func(TagSpan) bool) {
		s := newTagScanner(doc)
		pos := 0
		for {
			start := indexAnchorOpen(doc, pos)
			if start < 0 || start > s.lastGT {
				return
			}

			end := s.tagEnd(start + 2)
			if end < 0 {
				pos = start + 2
				continue
			}

			if !yield(TagSpan{Start: start, End: end + 1, Text: doc[start : end+1]}) {
				return
			}
			pos = end + 1
		}
	}
}

// indexAnchorOpen returns the index of the next "<a" (case-insensitive)
// at or after pos that is followed by a non-word character, or -1.
func indexAnchorOpen(doc string, pos int) int {
	for pos < len(doc) {
		i := strings.IndexByte(doc[pos:], '<')
		if i < 0 {
			return -1
		}
		i += pos
		if i+1 < len(doc) && (doc[i+1] == 'a' || doc[i+1] == 'A') {
			if i+2 == len(doc) || !isWordByte(doc[i+2]) {
				return i
			}
		}
		pos = i + 1
	}
	return -1
}

// tagScanner finds tag ends. Unquoted positions from which no '>' can be
// reached are remembered in dead, so a failed scan is never walked twice.
type tagScanner struct {
	doc    string
	lastGT int
	dead   []uint64
}

func newTagScanner(doc string) *tagScanner {
	return &tagScanner{doc: doc, lastGT: strings.LastIndexByte(doc, '>')}
}

// tagEnd returns the index of the first unquoted '>' at or after from, or -1.
func (s *tagScanner) tagEnd(from int) int {
	if from > s.lastGT {
		return -1
	}
	end := s.scan(from, false)
	if end < 0 {
		s.scan(from, true)
	}
	return end
}

// scan walks doc from the unquoted state at from. With mark set, every
// unquoted position passed is recorded as dead; callers mark only after a
// failed scan.
func (s *tagScanner) scan(from int, mark bool) int {
	if mark && s.dead == nil {
		s.dead = make([]uint64, len(s.doc)/64+1)
	}

	var quote byte
	for i := from; i < len(s.doc); i++ {
		c := s.doc[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if s.dead != nil && s.dead[i/64]&(1<<(i%64)) != 0 {
			return -1
		}
		if mark {
			s.dead[i/64] |= 1 << (i % 64)
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '>':
			return i
		}
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
