package autoparam

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

const middlewarePage = `<p><a href="https://partner.test/offer">offer</a></p>`

var middlewareRewritten = strings.Replace(middlewarePage, "/offer", "/offer?utm_source=new", 1)

func serveThrough(t *testing.T, h http.Handler, method string, opts ...MiddlewareOption) *httptest.ResponseRecorder {
	t.Helper()

	mw, err := Middleware(sourceConfig(ParamModePreserve), opts...)
	if err != nil {
		t.Fatalf("Middleware() error = %v", err)
	}
	rec := httptest.NewRecorder()
	mw(h).ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
	return rec
}

func htmlHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func TestMiddleware_RewritesHTML(t *testing.T) {
	t.Parallel()

	rec := serveThrough(t, htmlHandler(http.StatusOK, middlewarePage), http.MethodGet)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != middlewareRewritten {
		t.Errorf("body = %s, want %s", got, middlewareRewritten)
	}
	if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(len(middlewareRewritten)) {
		t.Errorf("Content-Length = %s, want %d", got, len(middlewareRewritten))
	}
}

func TestMiddleware_KeepsErrorStatus(t *testing.T) {
	t.Parallel()

	rec := serveThrough(t, htmlHandler(http.StatusNotFound, middlewarePage), http.MethodGet)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := rec.Body.String(); got != middlewareRewritten {
		t.Errorf("body = %s, want %s", got, middlewareRewritten)
	}
}

func TestMiddleware_SniffsContentType(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, middlewarePage)
	})
	rec := serveThrough(t, h, http.MethodGet)

	if got := rec.Body.String(); got != middlewareRewritten {
		t.Errorf("body = %s, want %s", got, middlewareRewritten)
	}
}

func TestMiddleware_ChunkedWrites(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// Split inside the tag.
		_, _ = io.WriteString(w, middlewarePage[:12])
		_, _ = io.WriteString(w, middlewarePage[12:])
	})
	rec := serveThrough(t, h, http.MethodGet)

	if got := rec.Body.String(); got != middlewareRewritten {
		t.Errorf("body = %s, want %s", got, middlewareRewritten)
	}
}

func TestMiddleware_Passthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		handler http.Handler
		opts    []MiddlewareOption
	}{
		{
			name:   "plain text",
			method: http.MethodGet,
			handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = io.WriteString(w, middlewarePage)
			}),
		},
		{
			name:   "compressed html",
			method: http.MethodGet,
			handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Header().Set("Content-Encoding", "gzip")
				_, _ = io.WriteString(w, middlewarePage)
			}),
		},
		{
			name:    "partial content",
			method:  http.MethodGet,
			handler: htmlHandler(http.StatusPartialContent, middlewarePage),
		},
		{
			name:    "head request",
			method:  http.MethodHead,
			handler: htmlHandler(http.StatusOK, middlewarePage),
		},
		{
			name:    "body over limit",
			method:  http.MethodGet,
			handler: htmlHandler(http.StatusOK, middlewarePage),
			opts:    []MiddlewareOption{WithMaxBodySize(16)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serveThrough(t, tt.handler, tt.method, tt.opts...)
			if got := rec.Body.String(); got != middlewarePage {
				t.Errorf("body = %s, want unmodified %s", got, middlewarePage)
			}
		})
	}
}

func TestMiddleware_NotModified(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotModified)
	})
	rec := serveThrough(t, h, http.MethodGet)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotModified)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestMiddleware_Observer(t *testing.T) {
	t.Parallel()

	var calls []Result
	observe := func(_ *http.Request, res Result) { calls = append(calls, res) }

	serveThrough(t, htmlHandler(http.StatusOK, middlewarePage), http.MethodGet, WithObserver(observe))
	if len(calls) != 1 {
		t.Fatalf("observer called %d times, want 1", len(calls))
	}
	if calls[0].LinksScanned != 1 || calls[0].LinksChanged != 1 {
		t.Errorf("observed %+v, want 1/1 links", calls[0])
	}

	calls = nil
	serveThrough(t, http.NotFoundHandler(), http.MethodGet, WithObserver(observe))
	if len(calls) != 0 {
		t.Errorf("observer called for a non-HTML response: %+v", calls)
	}
}

func TestMiddleware_InvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := Middleware(Config{}); !errors.Is(err, ErrNoParams) {
		t.Errorf("Middleware() error = %v, want %v", err, ErrNoParams)
	}
}

func TestShouldRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		encoding    string
		code        int
		want        bool
	}{
		{"html", "text/html; charset=utf-8", "", http.StatusOK, true},
		{"uppercase type", "TEXT/HTML", "", http.StatusOK, true},
		{"identity encoding", "text/html", "identity", http.StatusOK, true},
		{"server error page", "text/html", "", http.StatusInternalServerError, true},
		{"gzip", "text/html", "gzip", http.StatusOK, false},
		{"json", "application/json", "", http.StatusOK, false},
		{"no type", "", "", http.StatusOK, false},
		{"informational", "text/html", "", http.StatusContinue, false},
		{"no content", "text/html", "", http.StatusNoContent, false},
		{"partial content", "text/html", "", http.StatusPartialContent, false},
		{"not modified", "text/html", "", http.StatusNotModified, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := http.Header{}
			if tt.contentType != "" {
				h.Set("Content-Type", tt.contentType)
			}
			if tt.encoding != "" {
				h.Set("Content-Encoding", tt.encoding)
			}
			if got := shouldRewrite(h, tt.code); got != tt.want {
				t.Errorf("shouldRewrite(%v, %d) = %v, want %v", h, tt.code, got, tt.want)
			}
		})
	}
}
