// Package scan lists media files under a directory without modifying it.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultFormats are the supported movie container extensions, without dots.
var DefaultFormats = []string{"avi", "mp4", "mkv", "mov"}

// File is a supported media file found by Scan.
type File struct {
	Path string // absolute path
	Name string // base name
	Ext  string // extension as found on disk, with the dot
}

// Result holds the outcome of a scan
type Result struct {
	Files      []File
	TotalFiles int      // regular files seen, supported or not
	Skipped    []string // absolute paths of subfolders that could not be read
}

// Scan lists files in dir whose extension is in formats (case-insensitive).
// Only immediate children are listed unless recursive is set. Output is
// sorted by path. In recursive mode an unreadable subfolder is recorded in
// Result.Skipped and its subtree left out; only an unreadable dir fails.
func Scan(dir string, formats []string, recursive bool) (*Result, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return scanFS(os.DirFS(dir), dir, formats, recursive)
}

// scanFS walks fsys, reporting paths joined onto dir.
func scanFS(fsys fs.FS, dir string, formats []string, recursive bool) (*Result, error) {
	result := &Result{}
	abs := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }
	visit := func(name string, d fs.DirEntry) {
		if !d.Type().IsRegular() {
			return
		}
		result.TotalFiles++
		if !IsSupported(d.Name(), formats) {
			return
		}
		result.Files = append(result.Files, File{Path: abs(name), Name: d.Name(), Ext: filepath.Ext(d.Name())})
	}

	var err error
	if recursive {
		err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if name == "." {
					return walkErr
				}
				result.Skipped = append(result.Skipped, abs(name))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			visit(name, d)
			return nil
		})
	} else {
		var entries []fs.DirEntry
		entries, err = fs.ReadDir(fsys, ".")
		for _, e := range entries {
			visit(e.Name(), e)
		}
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	return result, nil
}

// IsSupported reports whether name has one of the given extensions.
// DefaultFormats is used when formats is empty.
func IsSupported(name string, formats []string) bool {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, f := range formats {
		if ext != "" && ext == strings.ToLower(strings.TrimPrefix(f, ".")) {
			return true
		}
	}
	return false
}
