package model

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
)

// ResourceLink is a relative document link found on an index page.
//
// Category is the name of the category whose filter matched Href, and Dir is
// that category's subdirectory under the download root.
type ResourceLink struct {
	Href     string
	Category string
	Dir      string
}

// DownloadTask is one unit of download work.
//
// Tasks are independent: they carry no reference back to the crawl that
// created them and are consumed exactly once.
type DownloadTask struct {
	// URL is the absolute URL of the document.
	URL string

	// DestDir is the directory the document is written to.
	DestDir string

	// SkipIfExists makes the downloader return early, without any network
	// request, when a file with the same name is already present in DestDir.
	SkipIfExists bool

	// Category is the category name of the originating link.
	Category string
}

// NewDownloadTask builds a DownloadTask from a discovered link.
//
// The URL is the link resolved against baseURL and the destination
// directory is root joined with the link's category directory.
func NewDownloadTask(baseURL string, link ResourceLink, root string, skipIfExists bool) (DownloadTask, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return DownloadTask{}, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse(link.Href)
	if err != nil {
		return DownloadTask{}, fmt.Errorf("parse link %q: %w", link.Href, err)
	}

	return DownloadTask{
		URL:          base.ResolveReference(ref).String(),
		DestDir:      filepath.Join(root, link.Dir),
		SkipIfExists: skipIfExists,
		Category:     link.Category,
	}, nil
}

// FileName returns the last slash-delimited segment of the task URL's path,
// as it appears in the URL: percent escapes are kept, so "a%20b.pdf" stays
// "a%20b.pdf".
//
// An error is returned when the URL has no usable final segment,
// e.g. "https://example.com/" or "https://example.com/docs/".
func (t DownloadTask) FileName() (string, error) {
	u, err := url.Parse(t.URL)
	if err != nil {
		return "", fmt.Errorf("parse URL %q: %w", t.URL, err)
	}
	p := u.EscapedPath()
	name := path.Base(p)
	if name == "." || name == "/" || name == "" || p[len(p)-1] == '/' {
		return "", fmt.Errorf("no file name in URL %q", t.URL)
	}
	return name, nil
}
