package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	fb2Extension = ".fb2"
	// defaultMaxDepth bounds how many levels below the scan root are visited.
	defaultMaxDepth = 128
)

// ErrDepthExceeded aborts a traversal that goes deeper than the allowed depth.
var ErrDepthExceeded = errors.New("maximum directory depth exceeded")

// fileEntry is a candidate book found by walkFiles.
type fileEntry struct {
	RelDir string // Directory relative to the scan root, slash separated, "" for the root
	Dir    string // Containing directory
	Path   string // Full path of the file
}

// walkFiles collects every .fb2 file under root in lexical order. Entries
// more than maxDepth levels below root abort the walk with ErrDepthExceeded.
// If root is itself an .fb2 file, it is the only entry.
func walkFiles(root string, maxDepth int) ([]fileEntry, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() || !strings.HasSuffix(root, fb2Extension) {
			return nil, nil
		}
		return []fileEntry{{Dir: filepath.Dir(root), Path: root}}, nil
	}

	var entries []fileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if depth := strings.Count(rel, string(filepath.Separator)) + 1; depth > maxDepth {
			return fmt.Errorf("%w: %s is %d levels deep (max %d)", ErrDepthExceeded, rel, depth, maxDepth)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), fb2Extension) {
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}

		relDir := filepath.ToSlash(filepath.Dir(rel))
		if relDir == "." {
			relDir = ""
		}
		entries = append(entries, fileEntry{
			RelDir: relDir,
			Dir:    filepath.Dir(path),
			Path:   path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// isRegularFile reports whether d is a regular file, following a symlink if
// needed. Symlinked directories are never descended into.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
