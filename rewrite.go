package autoparam

import "strings"

// Rewrite adds the configured query parameters to every qualifying external
// link in html.
//
// Only href attribute values of <a> tags change; every other byte of the
// document is copied through. Tags carrying an exempt attribute, hrefs that
// are not http(s) or protocol-relative, and hosts on the exempt list are
// left alone. Malformed markup and unparsable URLs are skipped, never
// reported.
//
// Returns an error only for an invalid cfg, before any work is done.
// Rewrite holds no state and is safe for concurrent use.
func Rewrite(html string, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	return rewriteDocument(html, cfg.withDefaults()), nil
}

// rewriteDocument assumes cfg is validated and defaulted.
func rewriteDocument(html string, cfg Config) Result {
	res := Result{}

	var b strings.Builder
	last := 0
	for span := range AnchorTags(html) {
		tag, changed, scanned := rewriteTag(span.Text, cfg)
		if scanned {
			res.LinksScanned++
		}
		if !changed {
			continue
		}
		res.LinksChanged++

		if b.Len() == 0 {
			b.Grow(len(html) + len(html)/16)
		}
		b.WriteString(html[last:span.Start])
		b.WriteString(tag)
		last = span.End
	}

	if res.LinksChanged == 0 {
		res.HTML = html
		return res
	}
	b.WriteString(html[last:])
	res.HTML = b.String()
	return res
}

// rewriteTag rewrites the href of a single <a> tag.
// scanned reports whether the tag had a non-empty href to examine.
func rewriteTag(tag string, cfg Config) (out string, changed, scanned bool) {
	if hasExemptAttribute(tag, cfg.ExemptDataAttributes) {
		return tag, false, false
	}

	occ, ok := findHref(tag)
	if !ok || occ.value == "" {
		return tag, false, false
	}

	value, changed := RewriteHref(occ.value, cfg)
	if !changed {
		return tag, false, true
	}
	return occ.replace(tag, value), true, true
}
