package autoparam

import (
	"fmt"
	"path/filepath"
	"time"
)

// FileResult holds the outcome of rewriting a single file.
type FileResult struct {
	Path         string
	LinksScanned int
	LinksChanged int
	Changed      bool // output differs from input (written unless dry-run)
	Err          error
	Duration     time.Duration
}

// Stats aggregates a batch run.
type Stats struct {
	FilesScanned int // every regular file seen during discovery
	HTMLFiles    int // files selected for rewriting
	FilesChanged int
	FilesFailed  int
	LinksScanned int
	LinksChanged int
	Elapsed      time.Duration
}

// add folds one file result into s.
func (s *Stats) add(r FileResult) {
	if r.Err != nil {
		s.FilesFailed++
		return
	}
	s.LinksScanned += r.LinksScanned
	s.LinksChanged += r.LinksChanged
	if r.Changed {
		s.FilesChanged++
	}
}

// Summary renders the one-line build report.
func (s Stats) Summary(outDir string) string {
	return fmt.Sprintf("Updated %d/%d external links across %d/%d HTML files in %dms (outDir: %s).",
		s.LinksChanged, s.LinksScanned,
		s.FilesChanged, s.HTMLFiles,
		s.Elapsed.Round(time.Millisecond).Milliseconds(),
		filepath.Base(outDir))
}

// Summarize reduces file results into Stats. HTMLFiles is len(results);
// FilesScanned and Elapsed are left for the caller.
func Summarize(results []FileResult) Stats {
	s := Stats{HTMLFiles: len(results)}
	for _, r := range results {
		s.add(r)
	}
	return s
}
