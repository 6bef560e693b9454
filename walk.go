package autoparam

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/newgentdigital/go-autoparam/internal/fileutil"
)

// discovery is the outcome of walking an output tree.
type discovery struct {
	filesScanned int
	files        []string // matching extensions, in walk order
}

// discoverFiles walks root and collects files with one of exts.
// A root that is a regular file is returned alone, provided it matches.
// Symlinked directories are not followed.
func discoverFiles(root string, exts []string) (discovery, error) {
	info, err := os.Stat(root)
	if err != nil {
		return discovery{}, err
	}

	if !info.IsDir() {
		if !fileutil.HasExtension(root, exts) {
			return discovery{}, fmt.Errorf("%w: %s", ErrNotHTMLFile, root)
		}
		return discovery{filesScanned: 1, files: []string{root}}, nil
	}

	var d discovery
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		d.filesScanned++
		if fileutil.HasExtension(path, exts) {
			d.files = append(d.files, path)
		}
		return nil
	})
	return d, err
}

// ListFiles returns the files RewriteDir would select under root.
// A nil or empty exts means DefaultExtensions.
func ListFiles(root string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	d, err := discoverFiles(root, exts)
	if err != nil {
		return nil, err
	}
	return d.files, nil
}
