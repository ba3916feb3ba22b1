// Package scanner finds equation files under a directory.
package scanner

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions of equation files.
var DefaultExtensions = []string{".tt", ".bool"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

// New returns a Scanner for rootDir. With no extensions it looks for
// DefaultExtensions.
func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the root and returns matching files sorted by path. Hidden
// directories are skipped. A root that is itself a file is returned as is,
// whatever its extension.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if path != s.rootDir && !s.isTargetFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	slices.SortFunc(files, func(a, b FileInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	return slices.Contains(s.extensions, filepath.Ext(path))
}
