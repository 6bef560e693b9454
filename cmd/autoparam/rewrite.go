package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	autoparam "github.com/newgentdigital/go-autoparam"
	"github.com/newgentdigital/go-autoparam/internal/config"
	"github.com/newgentdigital/go-autoparam/internal/hints"
	"github.com/newgentdigital/go-autoparam/internal/metrics"
	"github.com/newgentdigital/go-autoparam/internal/watch"
)

// runRewrite rewrites a build output directory in place.
func runRewrite(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRewriteFlags(args)
	if err != nil {
		help, usageErr := parseError(err)
		if help {
			printRewriteUsage(env.Stdout)
			return nil
		}
		return usageErr
	}
	if flags.metricsAddr != "" && !flags.watch {
		return fmt.Errorf("%w: --metrics-addr requires --watch", ErrUsage)
	}

	cfg, err := loadConfig(&flags.common, &flags.params, env)
	if err != nil {
		return err
	}
	if err := mergeInputFlags(&flags.input, cfg); err != nil {
		return err
	}

	dir, err := resolveInputDir(positional, cfg)
	if err != nil {
		return err
	}
	rc, err := rewriteConfig(cfg)
	if err != nil {
		return err
	}

	opts := batchOptions(cfg, flags.dryRun, env)
	stats, results, err := autoparam.RewriteDir(ctx, dir, rc, opts...)
	if err != nil {
		return fmt.Errorf("rewriting %s: %w", dir, err)
	}

	var reg *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if flags.metricsAddr != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}
	recorder.ObserveBatch(*stats)

	if stats.HTMLFiles == 0 {
		fmt.Fprintf(env.Stderr, "warning: no HTML files found in %s%s\n", dir, hints.ForNoHTMLFiles(extensions(cfg)))
	}

	failed := printResults(results, *stats, dir, flags, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d%s", ErrFilesFailed, failed, stats.HTMLFiles, hints.ForPermission())
	}

	if !flags.watch {
		return nil
	}

	logger, err := newLogger(env.Stderr, flags.logFormat, flags.common.verbose)
	if err != nil {
		return err
	}
	if flags.metricsAddr != "" {
		_, stop, err := startMetricsServer(ctx, flags.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	return watchAndRewrite(ctx, watchRun{
		dir:    dir,
		rc:     rc,
		exts:   extensions(cfg),
		opts:   opts,
		rec:    recorder,
		now:    env.Now,
		logger: logger,
	})
}

// batchOptions translates config into library batch options.
func batchOptions(cfg *config.Config, dryRun bool, env *Environment) []autoparam.BatchOption {
	return []autoparam.BatchOption{
		autoparam.WithWorkers(cfg.Workers),
		autoparam.WithDryRun(dryRun),
		autoparam.WithExtensions(extensions(cfg)...),
		autoparam.WithClock(env.Now),
	}
}

// printResults outputs rewrite results and returns the number of failures.
func printResults(results []autoparam.FileResult, stats autoparam.Stats, dir string, flags *rewriteFlags, env *Environment) int {
	verb := "Updated"
	if flags.dryRun {
		verb = "Would update"
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}

		if flags.common.quiet {
			continue
		}

		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "%s: %d/%d links (%v)\n", r.Path, r.LinksChanged, r.LinksScanned, r.Duration.Round(time.Millisecond))
		} else if r.Changed {
			fmt.Fprintf(env.Stdout, "%s %s\n", verb, r.Path)
		}
	}

	if !flags.common.quiet {
		summary := stats.Summary(dir)
		if flags.dryRun {
			summary += " (dry run)"
		}
		fmt.Fprintln(env.Stdout, summary)
	}

	return stats.FilesFailed
}

// watchRun holds what watchAndRewrite needs for each batch.
type watchRun struct {
	dir    string
	rc     autoparam.Config
	exts   []string
	opts   []autoparam.BatchOption
	rec    metrics.Recorder
	now    func() time.Time
	logger *slog.Logger
}

// watchAndRewrite reruns the rewrite on files as they change until ctx is done.
// Rewriting is idempotent and unchanged files are not written back, so the
// events caused by our own writes settle after one extra pass.
func watchAndRewrite(ctx context.Context, run watchRun) error {
	w, err := watch.New(run.dir, watch.WithExtensions(run.exts...), watch.WithLogger(run.logger))
	if err != nil {
		return fmt.Errorf("watching %s: %w", run.dir, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	run.logger.Info("Watching for changes", "dir", run.dir)

	for paths := range w.Events() {
		start := run.now()
		results, err := autoparam.RewriteFiles(ctx, paths, run.rc, run.opts...)
		if err != nil {
			run.logger.Error("Rewrite failed", "error", err)
			continue
		}

		stats := autoparam.Summarize(results)
		stats.FilesScanned = len(paths)
		stats.Elapsed = run.now().Sub(start)
		run.rec.ObserveBatch(stats)

		for _, r := range results {
			switch {
			case r.Err != nil:
				run.logger.Error("Rewrite failed", "path", r.Path, "error", r.Err)
			case r.Changed:
				run.logger.Info("Rewrote links", "path", r.Path, "changed", r.LinksChanged, "scanned", r.LinksScanned)
			default:
				run.logger.Debug("No changes", "path", r.Path)
			}
		}
	}

	run.logger.Info("Stopped watching", "dir", run.dir)
	return <-errCh
}

// startMetricsServer serves reg on addr until ctx is done or stop is called.
// stop waits for the server to shut down. The bound address is returned so
// ":0" can be used.
func startMetricsServer(ctx context.Context, addr string, reg *prom.Registry, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForAddrInUse())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: r, ReadHeaderTimeout: readHeaderTimeout}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := serveUntilDone(ctx, srv, ln, logger, "metrics", true); err != nil {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	stop := func() {
		cancel()
		<-done
	}
	return ln.Addr().String(), stop, nil
}
