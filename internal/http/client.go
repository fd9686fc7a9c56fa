package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// Default client settings.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "interlinear-downloader"
)

// ErrNotHTML is returned by GetHTML when the response is not an HTML document.
var ErrNotHTML = errors.New("response is not HTML")

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Status)
}

// Client wraps HTTP operations with downloader-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - HTML page retrieval with content-type checking
//   - Streaming downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient(Options{})
//
//	// Fetch an index page
//	page, err := client.GetHTML(ctx, "https://www.scripture4all.org/OnlineInterlinear/Hebrew_Index.htm")
//
//	// Stream a document into a writer with progress
//	n, err := client.Download(ctx, pdfURL, file, func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string

	// Transport overrides the underlying round tripper, mainly for tests.
	Transport http.RoundTripper
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 60 second timeout unless opts.Timeout is set
//   - "interlinear-downloader" User-Agent unless opts.UserAgent is set
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		userAgent: opts.UserAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// do sends a request with the configured User-Agent and checks the status.
// The caller must close the body of a returned response.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetHTML performs a GET request and returns the body of an HTML page.
//
// The Content-Type header must be text/html or application/xhtml+xml. When the
// server sends no Content-Type, the body is sniffed instead. Anything else
// yields an error wrapping ErrNotHTML.
func (c *Client) GetHTML(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
		return nil, fmt.Errorf("%s (%s): %w", url, contentType, ErrNotHTML)
	}

	return body, nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Returns an error if:
//   - The request fails
//   - The server doesn't return a Content-Length header
//
// Example:
//
//	size, err := client.GetFileSize(ctx, pdfURL)
//	fmt.Printf("File is %d bytes\n", size)
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// Download streams the body of url into w and returns the number of bytes copied.
//
// The payload is never held in memory as a whole. onProgress is optional and
// is called with (bytesWritten, totalBytes); totalBytes is -1 when the server
// sends no Content-Length.
//
// Example:
//
//	n, err := client.Download(ctx, pdfURL, tmpFile, nil)
func (c *Client) Download(ctx context.Context, url string, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	writer := w
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   w,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read %s: %w", url, err)
	}
	return n, nil
}
