package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName marks a record whose template produced an empty name.
	ErrEmptyName = errors.New("empty name")
	// ErrInvalidName marks a name that would leave the file's directory.
	ErrInvalidName = errors.New("invalid name")
)

// FileRecord is the rename decision for one file.
type FileRecord struct {
	Path string // Original full path
	Dir  string // Containing directory
	Name string // New base name without extension, empty when broken

	// Broken is non-nil when no name could be computed. It wraps a
	// *ParseError, ErrMetadataNotFound, ErrEmptyName or ErrInvalidName.
	Broken error

	// Modified is set when sanitizing changed a value or when title or
	// author were missing or ambiguous.
	Modified bool

	RawTitles  []string
	RawAuthors []string
}

// buildRecord extracts metadata from entry.Path and computes its new name
// from template.
func buildRecord(entry fileEntry, template string) FileRecord {
	rec := FileRecord{Path: entry.Path, Dir: entry.Dir}

	meta, err := extractMetadata(entry.Path)
	if err != nil {
		rec.Broken = err
		return rec
	}
	rec.RawTitles = meta.Titles
	rec.RawAuthors = meta.Authors

	title, titleChanged := sanitize(meta.Titles)
	author, authorChanged := sanitize(meta.Authors)
	rec.Modified = titleChanged || authorChanged || len(meta.Titles) != 1 || len(meta.Authors) != 1

	name := formatName(template, author, title)
	if err := validateName(name); err != nil {
		rec.Broken = err
		return rec
	}
	rec.Name = name
	return rec
}

// validateName rejects names that cannot be used as a base name within the
// file's own directory.
func validateName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
