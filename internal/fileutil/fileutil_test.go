package fileutil_test

// Notes:
// - The rename and chmod error branches of WriteFileAtomic are not tested:
//   forcing those failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/newgentdigital/go-autoparam/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestNormalizeExtension - Extension normalization
// ---------------------------------------------------------------------------

func TestNormalizeExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ext     string
		want    string
		wantErr error
	}{
		{
			name: "adds leading dot",
			ext:  "html",
			want: ".html",
		},
		{
			name: "lowercases",
			ext:  ".HTM",
			want: ".htm",
		},
		{
			name: "trims whitespace",
			ext:  "  xhtml ",
			want: ".xhtml",
		},
		{
			name:    "empty extension",
			ext:     "",
			wantErr: fileutil.ErrExtensionEmpty,
		},
		{
			name:    "lone dot",
			ext:     ".",
			wantErr: fileutil.ErrExtensionEmpty,
		},
		{
			name:    "forward slash path traversal",
			ext:     "../etc/passwd",
			wantErr: fileutil.ErrExtensionPathTraversal,
		},
		{
			name:    "backslash path traversal",
			ext:     "..\\windows\\system32",
			wantErr: fileutil.ErrExtensionPathTraversal,
		},
		{
			name:    "null byte injection",
			ext:     "html\x00exe",
			wantErr: fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.NormalizeExtension(tt.ext)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeExtension(%q) error = %v, want %v", tt.ext, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasExtension - Extension matching
// ---------------------------------------------------------------------------

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".html", ".htm"}

	tests := []struct {
		path string
		want bool
	}{
		{"index.html", true},
		{"dist/blog/post.HTML", true},
		{"legacy.htm", true},
		{"site.css", false},
		{"README", false},
		{"archive.html.gz", false},
	}

	for _, tt := range tests {
		if got := fileutil.HasExtension(tt.path, exts); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if fileutil.HasExtension("index.html", nil) {
		t.Error("HasExtension with no extensions = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replacement
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if err := fileutil.WriteFileAtomic(path, []byte("new content"), 0o640); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "new content" {
		t.Errorf("content = %q, want %q", data, "new content")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat file: %v", err)
		}
		if got := info.Mode().Perm(); got != 0o640 {
			t.Errorf("mode = %v, want %v", got, os.FileMode(0o640))
		}
	}
}

func TestWriteFileAtomic_NoTempLeftovers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	for i := 0; i < 3; i++ {
		if err := fileutil.WriteFileAtomic(path, []byte(strings.Repeat("x", i)), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "page.html" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [page.html]", names)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "page.html")
	if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "autoparam.yaml")
	if err := os.WriteFile(testFile, []byte("params: {}"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "existing file returns true",
			path: testFile,
			want: true,
		},
		{
			name: "directory returns false",
			path: testDir,
			want: false,
		},
		{
			name: "nonexistent path returns false",
			path: filepath.Join(tempDir, "nonexistent"),
			want: false,
		},
		{
			name: "empty path returns false",
			path: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.FileExists(tt.path)
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "simple name returns false",
			input: "autoparam",
			want:  false,
		},
		{
			name:  "relative path with dot-slash returns true",
			input: "./autoparam.yaml",
			want:  true,
		},
		{
			name:  "absolute Unix path returns true",
			input: "/etc/autoparam.yaml",
			want:  true,
		},
		{
			name:  "Windows path with backslash returns true",
			input: "C:\\config\\autoparam.yaml",
			want:  true,
		},
		{
			name:  "name with dots but no slash returns false",
			input: "site.prod",
			want:  false,
		},
		{
			name:  "empty string returns false",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.IsFilePath(tt.input)
			if got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
