// Package ioutils provides file system utilities for the interlinear-downloader.
//
// This package contains functions for:
//   - Directory creation
//   - Filename sanitization
//   - Collision-free naming
package ioutils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// maxUniqueAttempts bounds the numeric suffix search.
const maxUniqueAttempts = 10000

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Gen 1: Hebrew.pdf")  // Returns "Gen 1_ Hebrew.pdf"
//	SanitizeFileName("notes...")           // Returns "notes"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/data/downloads/OTpdf")
//	// Creates /data, /data/downloads, and /data/downloads/OTpdf if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether something exists at path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SuffixedPath returns path with "_n" inserted before the extension.
//
// Example:
//
//	SuffixedPath("/data/doc.pdf", 2) // "/data/doc_2.pdf"
func SuffixedPath(path string, n int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "_" + strconv.Itoa(n) + ext
}

// UniquePath returns candidate if nothing exists there, otherwise the first
// stem_N.ext (N = 1, 2, ...) that is free.
//
// The result is only a snapshot of the directory: another writer may take
// the name before it is used. Use CreateUnique when the name must be owned.
func UniquePath(candidate string) (string, error) {
	if !FileExists(candidate) {
		return candidate, nil
	}
	for i := 1; i <= maxUniqueAttempts; i++ {
		p := SuffixedPath(candidate, i)
		if !FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", candidate, maxUniqueAttempts)
}

// CreateUnique creates and opens a new empty file at candidate or, if taken,
// at the first free stem_N.ext.
//
// Every probe is an exclusive create, so concurrent callers targeting the
// same name always end up with distinct files. The caller owns the returned
// file and must close it.
func CreateUnique(candidate string) (*os.File, string, error) {
	p := candidate
	for i := 0; i <= maxUniqueAttempts; i++ {
		if i > 0 {
			p = SuffixedPath(candidate, i)
		}
		f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, p, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", p, err)
		}
	}
	return nil, "", fmt.Errorf("no free name for %s after %d attempts", candidate, maxUniqueAttempts)
}

// PlaceUnique moves the finished file src to candidate, or to the first free
// stem_N.ext, without ever replacing an existing file.
//
// The destination name is reserved with CreateUnique and src is renamed over
// the reservation, so readers see either no file or the complete one. src and
// candidate must be on the same file system.
func PlaceUnique(src, candidate string) (string, error) {
	f, dst, err := CreateUnique(candidate)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("rename %s to %s: %w", src, dst, err)
	}
	return dst, nil
}

// WriteFile writes data to a new file at path, or at the first free
// stem_N.ext if path is taken, and returns the path used.
//
// Example:
//
//	p, err := WriteFile("/data/report.md", content)
func WriteFile(path string, data []byte) (string, error) {
	f, p, err := CreateUnique(path)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", p, err)
	}
	return p, nil
}
