// Package download provides the crawl orchestration logic for fetching the
// Online Interlinear Bible documents.
//
// # Downloader
//
// The Downloader saves one DownloadTask to disk. It creates the destination
// directory, skips files that already exist when asked to, streams the
// payload into a temporary file and moves it onto a name that is not taken
// yet (doc.pdf, doc_1.pdf, doc_2.pdf, ...). Existing files are never
// overwritten.
//
// # Manager
//
// The Manager coordinates the entire crawl:
//
//  1. Resolve the selected categories
//  2. Fetch each category index page and keep the matching links
//  3. Turn every link into a DownloadTask
//  4. Download the tasks, sequentially or through a throttled fan-out
//  5. Record each result in a CrawlSummary
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, log, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.Crawl(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(manager.Summary().Downloaded(), "files")
//
// # Concurrency
//
// In parallel mode downloads are launched one per settings.LaunchInterval and
// at most settings.MaxInFlight run at the same time (0 means no limit).
// A failed download is logged and recorded; the rest of the crawl goes on.
// In sequential mode the first failure stops the crawl.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte and file counters are available at any time through GetProgress.
package download
