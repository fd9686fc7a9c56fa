// Package http provides the HTTP client used to fetch index pages and documents.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Index page retrieval with HTML content-type checking
//   - Streaming document downloads with progress tracking
//   - File size retrieval via HEAD requests
//   - Timeout handling
//
// Non-2xx answers are reported as *StatusError so callers can inspect the code:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.StatusCode == 404 {
//	    // document vanished from the server
//	}
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
