package autoparam

import (
	"regexp"
	"strings"
)

// Href attribute patterns. The attribute must follow whitespace, '/' or a
// quote so that names like data-href never match. The submatches hold the
// value.
var (
	quotedHrefRe   = regexp.MustCompile(`(?i)[\s/"']href\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	unquotedHrefRe = regexp.MustCompile("(?i)[\\s/\"']href\\s*=\\s*([^\\s\"'<>`]+)")
)

// hrefOccurrence is an href attribute as written in the source tag.
type hrefOccurrence struct {
	value  string // raw, still entity-encoded
	quoted bool
	quote  byte // '"' or '\'' when quoted
	start  int  // value start within the tag
	end    int  // value end within the tag
}

// findHref locates the href attribute of tag, preferring quoted values.
func findHref(tag string) (hrefOccurrence, bool) {
	if m := quotedHrefRe.FindStringSubmatchIndex(tag); m != nil {
		occ := hrefOccurrence{quoted: true, quote: '"', start: m[2], end: m[3]}
		if m[2] < 0 {
			occ.quote, occ.start, occ.end = '\'', m[4], m[5]
		}
		occ.value = tag[occ.start:occ.end]
		return occ, true
	}

	if m := unquotedHrefRe.FindStringSubmatchIndex(tag); m != nil {
		return hrefOccurrence{value: tag[m[2]:m[3]], start: m[2], end: m[3]}, true
	}

	return hrefOccurrence{}, false
}

// replace returns tag with the href value swapped for value. The attribute
// name and its quotes are kept; unquoted values are double-quoted on output.
func (h hrefOccurrence) replace(tag, value string) string {
	if h.quoted {
		return tag[:h.start] + value + tag[h.end:]
	}
	return tag[:h.start] + `"` + value + `"` + tag[h.end:]
}

// hasExemptAttribute reports whether tag carries any of the named attributes.
// Names match case-insensitively and only as whole attribute names.
func hasExemptAttribute(tag string, names []string) bool {
	for _, name := range names {
		if name != "" && hasAttributeName(tag, name) {
			return true
		}
	}
	return false
}

// hasAttributeName looks for name preceded by whitespace and followed by
// whitespace, '=', '>' or '/'.
func hasAttributeName(tag, name string) bool {
	n := len(name)
	for i := 1; i+n < len(tag); i++ {
		if !isSpaceByte(tag[i-1]) {
			continue
		}
		if !strings.EqualFold(tag[i:i+n], name) {
			continue
		}
		switch c := tag[i+n]; {
		case isSpaceByte(c), c == '=', c == '>', c == '/':
			return true
		}
	}
	return false
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
