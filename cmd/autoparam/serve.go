package main

import (
	"context"
	"errors"
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
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// runServe serves a directory with links rewritten on the fly.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if err != nil {
		help, usageErr := parseError(err)
		if help {
			printServeUsage(env.Stdout)
			return nil
		}
		return usageErr
	}

	cfg, err := loadConfig(&flags.common, &flags.params, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Serve.Addr = flags.addr
	}
	if flags.metrics {
		cfg.Serve.Metrics = true
	}

	root, err := resolveServeRoot(positional, cfg)
	if err != nil {
		return err
	}
	rc, err := rewriteConfig(cfg)
	if err != nil {
		return err
	}
	logger, err := newLogger(env.Stderr, flags.logFormat, flags.common.verbose)
	if err != nil {
		return err
	}

	var reg *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Serve.Metrics {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	handler, err := newServeHandler(root, rc, recorder, reg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForAddrInUse())
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return serveUntilDone(ctx, srv, ln, logger, "root", root, "metrics", cfg.Serve.Metrics)
}

// serveUntilDone runs srv on ln and shuts it down gracefully when ctx is done.
// attrs are added to the startup log line.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger, attrs ...any) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("Serving", append([]any{"addr", ln.Addr().String()}, attrs...)...)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// resolveServeRoot determines the served directory.
// Priority: positional arg > serve.root > input.dir.
func resolveServeRoot(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Serve.Root != "" {
		return cfg.Serve.Root, nil
	}
	return resolveInputDir(nil, cfg)
}

// newServeHandler builds the router. reg may be nil to disable /metrics.
func newServeHandler(root string, rc autoparam.Config, rec metrics.Recorder, reg *prom.Registry, logger *slog.Logger) (http.Handler, error) {
	rewrite, err := autoparam.Middleware(rc, autoparam.WithObserver(func(r *http.Request, res autoparam.Result) {
		rec.ObserveResponse(r.URL.Path, res)
		logger.Debug("Rewrote response", "path", r.URL.Path, "changed", res.LinksChanged, "scanned", res.LinksScanned)
	}))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if reg != nil {
		r.Handle("/metrics", metrics.HTTPHandler(reg))
	}
	r.With(rewrite).Handle("/*", http.FileServer(http.Dir(root)))

	return r, nil
}

// loggingMiddleware logs method, path, status, duration, and request ID.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				slog.Duration("duration", time.Since(start)),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr)
		})
	}
}

// statusWriter captures status codes for logging.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
