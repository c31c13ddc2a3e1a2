package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTargetExists is returned instead of overwriting another file.
var ErrTargetExists = errors.New("target already exists")

type renameResult int

const (
	renameUnchanged renameResult = iota
	renameDone
)

// renamer applies FileRecords. In dry-run mode it prints the planned moves
// to out and never touches the filesystem.
type renamer struct {
	dryRun bool
	out    io.Writer

	claimed map[string]string // target path → source path that claimed it in this run
	vacated map[string]bool   // paths moved away by a previewed rename
}

func newRenamer(dryRun bool, out io.Writer) *renamer {
	return &renamer{
		dryRun:  dryRun,
		out:     out,
		claimed: make(map[string]string),
		vacated: make(map[string]bool),
	}
}

// targetPath is where rec's file ends up: same directory, new base name.
func targetPath(rec FileRecord) string {
	return filepath.Join(rec.Dir, rec.Name) + fb2Extension
}

// apply renames (or previews renaming) the file of a non-broken record.
func (r *renamer) apply(rec FileRecord) (renameResult, error) {
	newPath := targetPath(rec)
	if newPath == rec.Path {
		return renameUnchanged, nil
	}
	if filepath.Dir(newPath) != filepath.Clean(rec.Dir) {
		return renameUnchanged, fmt.Errorf("%w: %q leaves %s", ErrInvalidName, rec.Name, rec.Dir)
	}

	if owner, ok := r.claimed[newPath]; ok && owner != rec.Path {
		return renameUnchanged, fmt.Errorf("%w: %s (claimed by %s)", ErrTargetExists, newPath, owner)
	}
	if !r.vacated[newPath] {
		if err := checkTargetFree(rec.Path, newPath); err != nil {
			return renameUnchanged, err
		}
	}
	r.claimed[newPath] = rec.Path

	if r.dryRun {
		r.vacated[rec.Path] = true
		if _, err := fmt.Fprintf(r.out, "> %s -> %s\n", rec.Path, newPath); err != nil {
			return renameUnchanged, fmt.Errorf("failed to write preview: %w", err)
		}
		return renameDone, nil
	}

	if err := os.Rename(rec.Path, newPath); err != nil {
		return renameUnchanged, fmt.Errorf("failed to rename %s: %w", rec.Path, err)
	}
	return renameDone, nil
}

// checkTargetFree fails if newPath exists and is not oldPath itself, which
// can happen on case-insensitive filesystems.
func checkTargetFree(oldPath, newPath string) error {
	newInfo, err := os.Lstat(newPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", newPath, err)
	}
	oldInfo, err := os.Lstat(oldPath)
	if err == nil && os.SameFile(oldInfo, newInfo) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTargetExists, newPath)
}
