package autoparam

import (
	"net/url"
	"strings"
)

// queryPair is one key/value pair of a query string. raw keeps the exact
// source bytes so untouched pairs serialize unchanged.
type queryPair struct {
	key string // form-decoded, used for matching
	raw string
}

// parseQuery splits a raw query on '&', dropping empty segments.
func parseQuery(rawQuery string) []queryPair {
	if rawQuery == "" {
		return nil
	}
	parts := strings.Split(rawQuery, "&")
	pairs := make([]queryPair, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		pairs = append(pairs, queryPair{key: decodeQueryComponent(key), raw: part})
	}
	return pairs
}

func decodeQueryComponent(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

func newQueryPair(key, value string) queryPair {
	return queryPair{key: key, raw: url.QueryEscape(key) + "=" + url.QueryEscape(value)}
}

func indexQueryKey(pairs []queryPair, key string) int {
	for i, p := range pairs {
		if p.key == key {
			return i
		}
	}
	return -1
}

// setQueryPair replaces the first pair for key in place and removes the
// rest, or appends when key is absent.
func setQueryPair(pairs []queryPair, p queryPair) []queryPair {
	idx := indexQueryKey(pairs, p.key)
	if idx < 0 {
		return append(pairs, p)
	}
	pairs[idx] = p
	kept := pairs[:idx+1]
	for _, q := range pairs[idx+1:] {
		if q.key != p.key {
			kept = append(kept, q)
		}
	}
	return kept
}

func joinQuery(pairs []queryPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.raw)
	}
	return b.String()
}

// mergeQuery applies params to rawQuery under mode. The bool reports
// whether the query needs to be rebuilt.
func mergeQuery(rawQuery string, params []Param, mode ParamMode) (string, bool) {
	pairs := parseQuery(rawQuery)
	changed := false

	if mode == ParamModeReplace {
		pairs = pairs[:0]
		changed = true
	}

	for _, param := range params {
		if param.Key == "" {
			continue
		}
		if mode == ParamModePreserve {
			if indexQueryKey(pairs, param.Key) >= 0 {
				continue
			}
			pairs = append(pairs, newQueryPair(param.Key, param.Value))
			changed = true
			continue
		}
		// Override, and replace after clearing, overwrite existing values.
		pairs = setQueryPair(pairs, newQueryPair(param.Key, param.Value))
		changed = true
	}

	if !changed {
		return rawQuery, false
	}
	return joinQuery(pairs), true
}
