package ioutils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gen1.pdf", "gen1.pdf"},
		{"file:with:colons.pdf", "file_with_colons.pdf"},
		{"file<with>brackets.pdf", "file_with_brackets.pdf"},
		{"file/with\\slashes.pdf", "file_with_slashes.pdf"},
		{"file?with*wildcards.pdf", "file_with_wildcards.pdf"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuffixedPath(t *testing.T) {
	tests := []struct {
		path string
		n    int
		want string
	}{
		{"doc.pdf", 1, "doc_1.pdf"},
		{"dir/doc.pdf", 2, filepath.Join("dir", "doc_2.pdf")},
		{"noext", 3, "noext_3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := SuffixedPath(tt.path, tt.n); got != tt.want {
				t.Errorf("SuffixedPath(%q, %d) = %q, want %q", tt.path, tt.n, got, tt.want)
			}
		})
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	candidate := filepath.Join(dir, "doc.pdf")

	got, err := UniquePath(candidate)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if got != candidate {
		t.Errorf("free name: got %q, want %q", got, candidate)
	}

	touch(t, candidate)
	got, err = UniquePath(candidate)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if want := filepath.Join(dir, "doc_1.pdf"); got != want {
		t.Errorf("one collision: got %q, want %q", got, want)
	}

	touch(t, filepath.Join(dir, "doc_1.pdf"))
	got, err = UniquePath(candidate)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if want := filepath.Join(dir, "doc_2.pdf"); got != want {
		t.Errorf("two collisions: got %q, want %q", got, want)
	}
}

func TestCreateUnique_Concurrent(t *testing.T) {
	dir := t.TempDir()
	candidate := filepath.Join(dir, "doc.pdf")

	const n = 16
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, p, err := CreateUnique(candidate)
			if err != nil {
				t.Errorf("CreateUnique failed: %v", err)
				return
			}
			f.Close()
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, p := range paths {
		if seen[p] {
			t.Errorf("path %q handed out twice", p)
		}
		seen[p] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Errorf("got %d files, want %d", len(entries), n)
	}
}

func TestPlaceUnique(t *testing.T) {
	dir := t.TempDir()
	candidate := filepath.Join(dir, "doc.pdf")
	touch(t, candidate)

	src := filepath.Join(dir, ".doc.pdf.part")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := PlaceUnique(src, candidate)
	if err != nil {
		t.Fatalf("PlaceUnique failed: %v", err)
	}
	if want := filepath.Join(dir, "doc_1.pdf"); got != want {
		t.Errorf("PlaceUnique() = %q, want %q", got, want)
	}

	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want %q", data, "payload")
	}

	original, _ := os.ReadFile(candidate)
	if string(original) != "x" {
		t.Error("existing file was overwritten")
	}
	if FileExists(src) {
		t.Error("source file should be gone after PlaceUnique")
	}
}

func TestEnsureDir_Nested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if DirExists(dir) {
		t.Fatal("directory should not exist yet")
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(dir) {
		t.Error("directory was not created")
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	first, err := WriteFile(path, []byte("one"))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	second, err := WriteFile(path, []byte("two"))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if first != path {
		t.Errorf("first = %q, want %q", first, path)
	}
	if want := filepath.Join(dir, "report_1.md"); second != want {
		t.Errorf("second = %q, want %q", second, want)
	}
}
