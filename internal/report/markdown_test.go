package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/interlinear-downloader/internal/model"
)

func sampleSummary(withFailure bool) *model.CrawlSummary {
	s := model.NewCrawlSummary("2Hc4Zd1q7gTCKvQZ1kWZZp3uJbR", "/data/downloads", true)
	s.Add(model.DownloadResult{
		Task:  model.DownloadTask{URL: "https://example.org/OTpdf/gen1.pdf", Category: "OT"},
		Path:  "/data/downloads/OTpdf/gen1.pdf",
		Bytes: 2048,
	})
	s.Add(model.DownloadResult{
		Task:    model.DownloadTask{URL: "https://example.org/NTpdf/mat1.pdf", Category: "NT"},
		Path:    "/data/downloads/NTpdf/mat1.pdf",
		Skipped: true,
	})
	if withFailure {
		s.Add(model.DownloadResult{
			Task: model.DownloadTask{URL: "https://example.org/OTpdf/exo1.pdf", Category: "OT"},
			Err:  errors.New("HTTP 500"),
		})
	}
	s.Finish()
	return s
}

func TestMarkdownWriter_Write(t *testing.T) {
	tests := []struct {
		name        string
		withFailure bool
		want        []string
		notWant     []string
	}{
		{
			name: "complete crawl",
			want: []string{
				"# Interlinear Crawl Report",
				"2Hc4Zd1q7gTCKvQZ1kWZZp3uJbR",
				"parallel",
				"## Categories",
				"2.0 kB",
				"[!TIP]",
			},
			notWant: []string{"## Failed Downloads", "[!WARNING]"},
		},
		{
			name:        "crawl with failure",
			withFailure: true,
			want: []string{
				"## Failed Downloads",
				"https://example.org/OTpdf/exo1.pdf",
				"HTTP 500",
				"[!WARNING]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := NewMarkdownWriter(&buf).Write(sampleSummary(tt.withFailure))
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if n == 0 {
				t.Error("Write() reported 0 bytes")
			}

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("report missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("report should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestMarkdownWriter_EmptySummary(t *testing.T) {
	s := model.NewCrawlSummary("run", "/tmp", false)
	s.Finish()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No documents were processed.") {
		t.Errorf("report = %s", buf.String())
	}
	if !strings.Contains(buf.String(), "sequential") {
		t.Errorf("report should mention the crawl mode: %s", buf.String())
	}
}

func TestSaveMarkdown_KeepsEarlierReports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	first, err := SaveMarkdown(path, sampleSummary(false))
	if err != nil {
		t.Fatalf("SaveMarkdown() error = %v", err)
	}
	second, err := SaveMarkdown(path, sampleSummary(true))
	if err != nil {
		t.Fatalf("SaveMarkdown() error = %v", err)
	}

	if first != path {
		t.Errorf("first report at %q, want %q", first, path)
	}
	if want := filepath.Join(dir, "report_1.md"); second != want {
		t.Errorf("second report at %q, want %q", second, want)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Failed Downloads") {
		t.Error("first report was overwritten")
	}
}
