package autoparam

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// DefaultMaxBodySize is the largest HTML response Middleware buffers for rewriting.
const DefaultMaxBodySize = 10 << 20

// middlewareConfig holds internal configuration for Middleware.
type middlewareConfig struct {
	maxBodySize int
	observe     func(*http.Request, Result)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithMaxBodySize caps the buffered body size. Larger responses are sent
// unmodified. n <= 0 keeps the default.
func WithMaxBodySize(n int) MiddlewareOption {
	return func(c *middlewareConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithObserver registers a callback invoked after each rewritten response.
func WithObserver(fn func(*http.Request, Result)) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.observe = fn
	}
}

// Middleware returns HTTP middleware that rewrites links in HTML responses.
//
// Only uncompressed responses with a text/html content type are buffered;
// everything else streams through untouched. The config is validated once,
// here, so a bad config fails at wiring time rather than per request.
func Middleware(cfg Config, opts ...MiddlewareOption) (func(http.Handler) http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	mc := &middlewareConfig{maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(mc)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rw := &rewriteWriter{ResponseWriter: w, limit: mc.maxBodySize, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			res, ok := rw.finish(cfg)
			if ok && mc.observe != nil {
				mc.observe(r, res)
			}
		})
	}, nil
}

// rewriteWriter buffers HTML bodies until the handler returns.
type rewriteWriter struct {
	http.ResponseWriter
	limit       int
	status      int
	wroteHeader bool
	buffering   bool
	buf         bytes.Buffer
}

func (rw *rewriteWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.status = code
	rw.buffering = shouldRewrite(rw.Header(), code)
	if !rw.buffering {
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *rewriteWriter) Write(p []byte) (int, error) {
	if !rw.wroteHeader {
		if rw.Header().Get("Content-Type") == "" {
			rw.Header().Set("Content-Type", http.DetectContentType(p))
		}
		rw.WriteHeader(http.StatusOK)
	}
	if !rw.buffering {
		return rw.ResponseWriter.Write(p)
	}

	if rw.buf.Len()+len(p) > rw.limit {
		if err := rw.passthrough(); err != nil {
			return 0, err
		}
		return rw.ResponseWriter.Write(p)
	}
	return rw.buf.Write(p)
}

// Flush is a no-op while buffering.
func (rw *rewriteWriter) Flush() {
	if rw.buffering {
		return
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *rewriteWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// passthrough gives up on rewriting and sends what was buffered so far.
func (rw *rewriteWriter) passthrough() error {
	rw.buffering = false
	rw.ResponseWriter.WriteHeader(rw.status)
	_, err := rw.ResponseWriter.Write(rw.buf.Bytes())
	rw.buf.Reset()
	return err
}

// finish rewrites and sends a buffered body. ok is false when nothing was buffered.
func (rw *rewriteWriter) finish(cfg Config) (Result, bool) {
	if !rw.buffering {
		return Result{}, false
	}
	rw.buffering = false

	res := rewriteDocument(rw.buf.String(), cfg)
	rw.Header().Set("Content-Length", strconv.Itoa(len(res.HTML)))
	rw.ResponseWriter.WriteHeader(rw.status)
	_, _ = rw.ResponseWriter.Write([]byte(res.HTML))
	return res, true
}

// shouldRewrite reports whether a response with header h and status code
// carries an HTML body this middleware can edit.
func shouldRewrite(h http.Header, code int) bool {
	switch {
	case code < http.StatusOK,
		code == http.StatusNoContent,
		code == http.StatusPartialContent,
		code == http.StatusNotModified:
		return false
	}
	if !strings.Contains(strings.ToLower(h.Get("Content-Type")), "text/html") {
		return false
	}
	switch strings.ToLower(h.Get("Content-Encoding")) {
	case "", "identity":
		return true
	}
	return false
}
