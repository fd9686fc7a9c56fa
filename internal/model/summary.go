package model

import (
	"sort"
	"sync"
	"time"
)

// DownloadResult is the outcome of a single DownloadTask.
type DownloadResult struct {
	Task DownloadTask

	// Path is the file the payload was written to, or the existing file
	// when the task was skipped. Empty on failure.
	Path string

	// Skipped reports that the file already existed and no request was made.
	Skipped bool

	// Bytes is the number of payload bytes written.
	Bytes int64

	// Err is set when the task failed.
	Err error
}

// Failed reports whether the task ended with an error.
func (r DownloadResult) Failed() bool {
	return r.Err != nil
}

// CategoryStats aggregates results for one category.
type CategoryStats struct {
	Category   string
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// CrawlSummary records what happened during one crawl.
//
// Add is safe for concurrent use so parallel workers can record their
// results directly.
type CrawlSummary struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Destination string
	Parallel    bool

	mu      sync.Mutex
	results []DownloadResult
}

// NewCrawlSummary starts a summary for a crawl into destination.
func NewCrawlSummary(runID, destination string, parallel bool) *CrawlSummary {
	return &CrawlSummary{
		RunID:       runID,
		StartedAt:   time.Now(),
		Destination: destination,
		Parallel:    parallel,
	}
}

// Add records a task result.
func (s *CrawlSummary) Add(r DownloadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// Finish stamps the end time of the crawl.
func (s *CrawlSummary) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FinishedAt = time.Now()
}

// Results returns a copy of the recorded results in completion order.
func (s *CrawlSummary) Results() []DownloadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DownloadResult, len(s.results))
	copy(out, s.results)
	return out
}

// Duration returns how long the crawl took, or zero if it has not finished.
func (s *CrawlSummary) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Downloaded returns the number of files written.
func (s *CrawlSummary) Downloaded() int {
	return s.count(func(r DownloadResult) bool { return !r.Failed() && !r.Skipped })
}

// Skipped returns the number of tasks skipped because the file existed.
func (s *CrawlSummary) Skipped() int {
	return s.count(func(r DownloadResult) bool { return r.Skipped })
}

// Failed returns the number of failed tasks.
func (s *CrawlSummary) Failed() int {
	return s.count(func(r DownloadResult) bool { return r.Failed() })
}

// TotalBytes returns the number of payload bytes written.
func (s *CrawlSummary) TotalBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, r := range s.results {
		total += r.Bytes
	}
	return total
}

// ByCategory returns per-category statistics sorted by category name.
func (s *CrawlSummary) ByCategory() []CategoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]*CategoryStats)
	for _, r := range s.results {
		st, ok := stats[r.Task.Category]
		if !ok {
			st = &CategoryStats{Category: r.Task.Category}
			stats[r.Task.Category] = st
		}
		switch {
		case r.Failed():
			st.Failed++
		case r.Skipped:
			st.Skipped++
		default:
			st.Downloaded++
		}
		st.Bytes += r.Bytes
	}

	out := make([]CategoryStats, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (s *CrawlSummary) count(pred func(DownloadResult) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.results {
		if pred(r) {
			n++
		}
	}
	return n
}
