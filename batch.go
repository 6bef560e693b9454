package autoparam

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/newgentdigital/go-autoparam/internal/fileutil"
)

// Worker pool sizing constants.
const (
	// MinWorkers keeps some parallelism on single-CPU hosts; the work is I/O-bound.
	MinWorkers = 2

	// MaxWorkers caps concurrent open files.
	MaxWorkers = 8
)

// DefaultExtensions lists the file extensions rewritten by RewriteDir.
var DefaultExtensions = []string{".html"}

// batchConfig holds options for RewriteFiles and RewriteDir.
type batchConfig struct {
	workers    int
	dryRun     bool
	extensions []string
	now        func() time.Time
}

// BatchOption configures RewriteFiles and RewriteDir.
type BatchOption func(*batchConfig)

// WithWorkers sets the number of concurrent workers. n <= 0 means auto.
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		c.workers = n
	}
}

// WithDryRun computes results without writing any file.
func WithDryRun(dryRun bool) BatchOption {
	return func(c *batchConfig) {
		c.dryRun = dryRun
	}
}

// WithExtensions sets which file extensions RewriteDir selects.
// Invalid or empty entries are ignored; if none remain, DefaultExtensions apply.
func WithExtensions(exts ...string) BatchOption {
	return func(c *batchConfig) {
		var normalized []string
		for _, ext := range exts {
			if e, err := fileutil.NormalizeExtension(ext); err == nil {
				normalized = append(normalized, e)
			}
		}
		if len(normalized) > 0 {
			c.extensions = normalized
		}
	}
}

// WithClock sets the time source used for Stats.Elapsed.
func WithClock(now func() time.Time) BatchOption {
	return func(c *batchConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func newBatchConfig(opts []BatchOption) *batchConfig {
	c := &batchConfig{
		extensions: DefaultExtensions,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS clamped to [MinWorkers, MaxWorkers].
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// RewriteDir rewrites every matching file under root in place.
// Files whose output equals their input are not written.
//
// Per-file failures are reported in the returned results and counted in
// Stats.FilesFailed; the returned error covers config and discovery
// problems only.
func RewriteDir(ctx context.Context, root string, cfg Config, opts ...BatchOption) (*Stats, []FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	bc := newBatchConfig(opts)
	start := bc.now()

	found, err := discoverFiles(root, bc.extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering files: %w", err)
	}

	results := rewriteBatch(ctx, found.files, cfg.withDefaults(), bc)

	stats := Summarize(results)
	stats.FilesScanned = found.filesScanned
	stats.Elapsed = bc.now().Sub(start)
	return &stats, results, nil
}

// RewriteFiles rewrites the given files in place using a bounded worker
// pool. Results are returned in the order of paths.
func RewriteFiles(ctx context.Context, paths []string, cfg Config, opts ...BatchOption) ([]FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return rewriteBatch(ctx, paths, cfg.withDefaults(), newBatchConfig(opts)), nil
}

// rewriteBatch fans paths out to workers reading a job queue. Each worker
// writes only its own result slots.
func rewriteBatch(ctx context.Context, paths []string, cfg Config, bc *batchConfig) []FileResult {
	if len(paths) == 0 {
		return nil
	}

	concurrency := ResolveWorkers(bc.workers)
	if concurrency > len(paths) {
		concurrency = len(paths)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{Path: paths[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = rewriteFile(paths[idx], cfg, bc)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// rewriteFile processes a single file and returns the result.
func rewriteFile(path string, cfg Config, bc *batchConfig) FileResult {
	start := bc.now()
	result := FileResult{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadFile, err)
		result.Duration = bc.now().Sub(start)
		return result
	}

	input, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadFile, err)
		result.Duration = bc.now().Sub(start)
		return result
	}

	out := rewriteDocument(string(input), cfg)
	result.LinksScanned = out.LinksScanned
	result.LinksChanged = out.LinksChanged
	result.Changed = out.HTML != string(input)

	if result.Changed && !bc.dryRun {
		if err := fileutil.WriteFileAtomic(path, []byte(out.HTML), info.Mode().Perm()); err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWriteFile, err)
		}
	}

	result.Duration = bc.now().Sub(start)
	return result
}
