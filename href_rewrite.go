package autoparam

import (
	"net/url"
	"strings"
)

// ampersandDecoder turns the entity forms of '&' found in generated HTML
// back into a literal ampersand.
var ampersandDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&#38;", "&",
	"&#x26;", "&",
	"&#X26;", "&",
)

// RewriteHref applies cfg to one raw href attribute value and returns the
// value to write back. The bool is false when the link does not qualify or
// the result equals raw.
//
// raw is the attribute text as written in the source: it may be
// entity-encoded and surrounded by whitespace.
func RewriteHref(raw string, cfg Config) (string, bool) {
	cfg = cfg.withDefaults()

	rewritten, ok := rewriteURL(raw, cfg)
	if !ok {
		return raw, false
	}
	if hasEncodedAmpersand(raw) {
		rewritten = strings.ReplaceAll(rewritten, "&", "&amp;")
	}
	if rewritten == raw {
		return raw, false
	}
	return rewritten, true
}

// hasEncodedAmpersand reports whether raw used an entity for '&', in which
// case the output must keep the attribute well-formed by re-encoding.
func hasEncodedAmpersand(raw string) bool {
	return strings.Contains(raw, "&amp;") ||
		strings.Contains(raw, "&#38;") ||
		strings.Contains(strings.ToLower(raw), "&#x26;")
}

// rewriteURL returns the merged, serialized URL with literal ampersands.
// ok is false when the link does not qualify or its query needs no change.
func rewriteURL(raw string, cfg Config) (string, bool) {
	decoded := ampersandDecoder.Replace(strings.TrimSpace(raw))
	if decoded == "" ||
		strings.HasPrefix(decoded, "mailto:") ||
		strings.HasPrefix(decoded, "tel:") ||
		strings.HasPrefix(decoded, "#") {
		return "", false
	}

	protocolRelative := strings.HasPrefix(decoded, "//")
	target := decoded
	if protocolRelative {
		target = "https:" + decoded
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if isDomainExempt(u.Hostname(), cfg.ExemptDomains) {
		return "", false
	}

	query, changed := mergeQuery(u.RawQuery, cfg.Params, cfg.ParamMode)
	if !changed {
		return "", false
	}
	u.RawQuery = query
	u.ForceQuery = false
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	if protocolRelative {
		u.Scheme = ""
		u.User = nil
	}
	return u.String(), true
}

// normalizeHost lowercases a hostname and strips trailing dots.
func normalizeHost(host string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(host)), ".")
}

// isDomainExempt reports whether hostname equals, or is a subdomain of,
// any entry. Entries may carry a leading "*." wildcard.
func isDomainExempt(hostname string, exemptDomains []string) bool {
	host := normalizeHost(hostname)
	if host == "" {
		return false
	}

	for _, raw := range exemptDomains {
		entry := strings.TrimPrefix(normalizeHost(raw), "*.")
		if entry == "" {
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
