// Package report renders a finished crawl as a Markdown document.
//
// The report lists the run metadata, per-category totals and every failed
// download, so a partial crawl can be inspected and resumed later:
//
//	w := report.NewMarkdownWriter(os.Stdout)
//	if _, err := w.Write(manager.Summary()); err != nil {
//	    return err
//	}
//
// SaveMarkdown writes the same document to a file without replacing an
// earlier report.
package report
