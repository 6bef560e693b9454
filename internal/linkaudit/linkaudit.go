// Package linkaudit reports anchors whose href still lacks the configured params.
//
// It parses with the golang.org/x/net/html tokenizer rather than the
// rewriter's own tag scanner, so a clean audit after a rewrite confirms the
// output through a second, independent reading of the markup.
package linkaudit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	autoparam "github.com/newgentdigital/go-autoparam"
)

// ErrParse indicates the tokenizer stopped on a read error.
var ErrParse = errors.New("linkaudit: failed to read HTML")

// Finding is one anchor the rewriter would still change.
type Finding struct {
	Line int    // 1-based line of the opening tag
	Href string // href as the browser sees it (entities decoded)
	Want string // href after rewriting
}

// FileFindings groups the findings of one file.
type FileFindings struct {
	Path     string
	Findings []Finding
}

// Audit tokenizes r and returns a finding for every non-exempt anchor whose
// href RewriteHref would change.
func Audit(r io.Reader, cfg autoparam.Config) ([]Finding, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exempt := cfg.ExemptDataAttributes
	if exempt == nil {
		exempt = []string{autoparam.DefaultExemptAttribute}
	}

	var findings []Finding
	line := 1
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return findings, fmt.Errorf("%w: %v", ErrParse, err)
			}
			return findings, nil
		}

		tagLine := line
		line += strings.Count(string(z.Raw()), "\n")

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if atom.Lookup(name) != atom.A || !hasAttr {
			continue
		}

		href, ok := anchorHref(z, exempt)
		if !ok {
			continue
		}
		if want, changed := autoparam.RewriteHref(href, cfg); changed {
			findings = append(findings, Finding{Line: tagLine, Href: href, Want: want})
		}
	}
}

// anchorHref reads the current tag's attributes. ok is false when the tag is
// exempt or has no href.
func anchorHref(z *html.Tokenizer, exempt []string) (href string, ok bool) {
	found := false
	for {
		key, val, more := z.TagAttr()
		k := string(key)
		for _, attr := range exempt {
			if strings.EqualFold(k, attr) {
				return "", false
			}
		}
		if k == "href" && !found {
			href, found = string(val), true
		}
		if !more {
			break
		}
	}
	return href, found
}

// AuditFile audits a single file.
func AuditFile(path string, cfg autoparam.Config) ([]Finding, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autoparam.ErrReadFile, err)
	}
	defer func() {
		_ = f.Close() // Ignore close errors on read-only operation
	}()

	return Audit(f, cfg)
}

// AuditFiles audits paths in order and keeps only files with findings.
// The first read or parse error stops the audit.
func AuditFiles(paths []string, cfg autoparam.Config) ([]FileFindings, error) {
	var out []FileFindings
	for _, path := range paths {
		findings, err := AuditFile(path, cfg)
		if err != nil {
			return out, fmt.Errorf("%s: %w", path, err)
		}
		if len(findings) > 0 {
			out = append(out, FileFindings{Path: path, Findings: findings})
		}
	}
	return out, nil
}

// Count returns the total number of findings across files.
func Count(files []FileFindings) int {
	n := 0
	for _, f := range files {
		n += len(f.Findings)
	}
	return n
}
