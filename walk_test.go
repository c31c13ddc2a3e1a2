package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestWalkFiles(t *testing.T) {
	dir := fs.NewDir(t, "walk",
		fs.WithFile("root.fb2", ""),
		fs.WithFile("notes.txt", ""),
		fs.WithFile("archive.fb2.zip", ""),
		fs.WithDir("authors",
			fs.WithFile("b.fb2", ""),
			fs.WithFile("a.fb2", ""),
			fs.WithDir("nested",
				fs.WithFile("deep.fb2", ""),
			),
		),
		fs.WithDir("folder.fb2"),
		fs.WithDir("empty"),
	)

	entries, err := walkFiles(dir.Path(), defaultMaxDepth)
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []fileEntry{
		{RelDir: "authors", Dir: dir.Join("authors"), Path: dir.Join("authors", "a.fb2")},
		{RelDir: "authors", Dir: dir.Join("authors"), Path: dir.Join("authors", "b.fb2")},
		{RelDir: "authors/nested", Dir: dir.Join("authors", "nested"), Path: dir.Join("authors", "nested", "deep.fb2")},
		{RelDir: "", Dir: dir.Path(), Path: dir.Join("root.fb2")},
	})
}

func TestWalkFilesSingleFile(t *testing.T) {
	dir := fs.NewDir(t, "walk", fs.WithFile("book.fb2", ""), fs.WithFile("notes.txt", ""))

	entries, err := walkFiles(dir.Join("book.fb2"), defaultMaxDepth)
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []fileEntry{{RelDir: "", Dir: dir.Path(), Path: dir.Join("book.fb2")}})

	entries, err = walkFiles(dir.Join("notes.txt"), defaultMaxDepth)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 0)
}

func TestWalkFilesMissingRoot(t *testing.T) {
	_, err := walkFiles(filepath.Join(t.TempDir(), "missing"), defaultMaxDepth)
	assert.ErrorContains(t, err, "failed to stat")
}

func TestWalkFilesSymlinks(t *testing.T) {
	target := fs.NewDir(t, "target", fs.WithFile("linked.fb2", ""), fs.WithDir("sub", fs.WithFile("hidden.fb2", "")))
	dir := fs.NewDir(t, "walk",
		fs.WithSymlink("link.fb2", target.Join("linked.fb2")),
		fs.WithSymlink("subdir", target.Join("sub")),
		fs.WithSymlink("dangling.fb2", target.Join("missing.fb2")),
	)

	entries, err := walkFiles(dir.Path(), defaultMaxDepth)
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []fileEntry{{RelDir: "", Dir: dir.Path(), Path: dir.Join("link.fb2")}})
}

// nestedDirs creates depth-1 nested directories below root with a book in
// the innermost one, so the book sits exactly depth levels below root.
func nestedDirs(t *testing.T, root string, depth int) string {
	t.Helper()
	parts := make([]string, depth-1)
	for i := range parts {
		parts[i] = "d"
	}
	innermost := filepath.Join(append([]string{root}, parts...)...)
	err := os.MkdirAll(innermost, 0o755)
	assert.NilError(t, err)
	writeTestFile(t, innermost, "book.fb2", "")
	return innermost
}

func TestWalkFilesDepthGuard(t *testing.T) {
	testCases := []struct {
		name     string
		maxDepth int
	}{
		{"small limit", 3},
		{"default limit", defaultMaxDepth},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Run("At limit", func(t *testing.T) {
				root := t.TempDir()
				nestedDirs(t, root, tc.maxDepth)

				entries, err := walkFiles(root, tc.maxDepth)
				assert.NilError(t, err)
				assert.Equal(t, len(entries), 1)
				assert.Equal(t, entries[0].RelDir, strings.TrimSuffix(strings.Repeat("d/", tc.maxDepth-1), "/"))
			})

			t.Run("One level deeper", func(t *testing.T) {
				root := t.TempDir()
				nestedDirs(t, root, tc.maxDepth+1)

				entries, err := walkFiles(root, tc.maxDepth)
				assert.ErrorIs(t, err, ErrDepthExceeded)
				assert.Assert(t, entries == nil)
			})
		})
	}
}
