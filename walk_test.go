package autoparam

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func TestListFiles(t *testing.T) {
	t.Parallel()

	root := setupSite(t)

	tests := []struct {
		name string
		exts []string
		want []string
	}{
		{
			name: "defaults",
			exts: nil,
			want: []string{"about/index.html", "blog/post.HTML", "index.html"},
		},
		{
			name: "custom",
			exts: []string{".htm", ".css"},
			want: []string{"assets/site.css", "legacy.htm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := ListFiles(root, tt.exts)
			if err != nil {
				t.Fatalf("ListFiles() error = %v", err)
			}
			var got []string
			for _, f := range files {
				rel, err := filepath.Rel(root, f)
				if err != nil {
					t.Fatalf("Rel(%q) error = %v", f, err)
				}
				got = append(got, filepath.ToSlash(rel))
			}
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ListFiles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles_SkipsSymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := setupSite(t)
	outside := t.TempDir()
	writeTestFile(t, filepath.Join(outside, "other.html"), pageWithLink, 0o644)
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	d, err := discoverFiles(root, DefaultExtensions)
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if d.filesScanned != 5 {
		t.Errorf("filesScanned = %d, want 5", d.filesScanned)
	}
	for _, f := range d.files {
		if filepath.Base(f) == "other.html" {
			t.Errorf("followed symlinked directory: %s", f)
		}
	}
}
