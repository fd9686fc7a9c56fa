package report

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	ioutils "github.com/handiism/interlinear-downloader/internal/io"
	"github.com/handiism/interlinear-downloader/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs crawl summaries in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the report for summary and returns the number of bytes written.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	writeHeader(md, summary)
	writeCategories(md, summary)
	writeFailures(md, summary)

	return len(md.String()), md.Build()
}

// SaveMarkdown writes the report to path, or to path_1, path_2, ... when a
// report already exists there, and returns the file used.
func SaveMarkdown(path string, summary *model.CrawlSummary) (string, error) {
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
		return "", err
	}
	return ioutils.WriteFile(path, buf.Bytes())
}

func writeHeader(md *markdown.Markdown, s *model.CrawlSummary) {
	mode := "sequential"
	if s.Parallel {
		mode = "parallel"
	}

	md.H1("Interlinear Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + s.RunID + "`"},
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Duration().Round(time.Millisecond).String()},
			{"Destination", "`" + s.Destination + "`"},
			{"Mode", mode},
			{"Downloaded", strconv.Itoa(s.Downloaded())},
			{"Skipped", strconv.Itoa(s.Skipped())},
			{"Failed", strconv.Itoa(s.Failed())},
			{"Size", humanize.Bytes(uint64(s.TotalBytes()))},
		},
	})
	md.PlainText("")

	if n := s.Failed(); n > 0 {
		md.Warningf("%d download(s) failed. Run the crawl again with skip-existing enabled to retry them.", n)
	} else {
		md.Tip("Every document was downloaded or already present.")
	}
	md.PlainText("")
}

func writeCategories(md *markdown.Markdown, s *model.CrawlSummary) {
	md.H2("Categories")
	md.PlainText("")

	stats := s.ByCategory()
	if len(stats) == 0 {
		md.PlainText("No documents were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			st.Category,
			strconv.Itoa(st.Downloaded),
			strconv.Itoa(st.Skipped),
			strconv.Itoa(st.Failed),
			humanize.Bytes(uint64(st.Bytes)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Downloaded", "Skipped", "Failed", "Size"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeFailures(md *markdown.Markdown, s *model.CrawlSummary) {
	var failed []string
	for _, r := range s.Results() {
		if r.Failed() {
			failed = append(failed, "`"+r.Task.URL+"`: "+r.Err.Error())
		}
	}
	if len(failed) == 0 {
		return
	}

	md.H2("Failed Downloads")
	md.PlainText("")
	md.BulletList(failed...)
	md.PlainText("")
}
