// Package model defines the core data structures used throughout
// the interlinear-downloader application.
//
// # ResourceLink
//
// ResourceLink is a document link discovered on an index page, tagged with
// the category whose filter matched it:
//
//	link := model.ResourceLink{Href: "OTpdf/gen1.pdf", Category: "OT", Dir: "OTpdf"}
//
// # DownloadTask
//
// DownloadTask is the materialized argument set handed to the downloader:
//
//	task, err := model.NewDownloadTask(baseURL, link, "/data/downloads", true)
//	fmt.Println(task.URL)     // https://.../OnlineInterlinear/OTpdf/gen1.pdf
//	fmt.Println(task.DestDir) // /data/downloads/OTpdf
//
// # CrawlSummary
//
// CrawlSummary collects the DownloadResult of every task of one crawl and
// offers counters used by the CLI summary, the TUI and the markdown report.
package model
