package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/download"
	"github.com/handiism/interlinear-downloader/internal/logger"
	"github.com/handiism/interlinear-downloader/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd(logs *logger.Provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Download every document of the selected categories",
		Long: `Crawl fetches the index page of each selected category and downloads
every linked PDF.

By default documents are downloaded one after another and the first failure
stops the crawl. With --parallel, downloads are launched one per --interval,
at most --max-in-flight at a time, and failures are reported at the end.

Examples:
  # Download both testaments into ./downloads
  interlinear-dl crawl

  # Only the Old Testament, in parallel, with a report
  interlinear-dl crawl --category OT --parallel --report crawl.md

  # Download again, keeping earlier copies
  interlinear-dl crawl --skip-existing=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawlCmd(cmd, logs)
		},
	}

	addSourceFlags(cmd)
	def := config.DefaultSettings()
	cmd.Flags().StringP("dest", "d", def.DownloadsPath, "Download root directory")
	cmd.Flags().Bool("skip-existing", def.SkipExisting, "Skip documents already present in the download directory")
	cmd.Flags().BoolP("parallel", "p", def.Parallel, "Download documents concurrently")
	cmd.Flags().Duration("interval", def.LaunchInterval, "Minimum delay between two download launches in parallel mode")
	cmd.Flags().Int("max-in-flight", def.MaxInFlight, "Maximum concurrent downloads in parallel mode (0 = unbounded)")
	cmd.Flags().String("report", "", "Write a Markdown crawl report to this file")

	return cmd
}

// addSourceFlags adds the flags selecting what is crawled and how it is fetched.
func addSourceFlags(cmd *cobra.Command) {
	def := config.DefaultSettings()
	cmd.Flags().String("base-url", def.BaseURL, "Root URL of the Online Interlinear Bible")
	cmd.Flags().StringSliceP("category", "c", def.Categories, "Categories to crawl (OT, NT)")
	cmd.Flags().String("user-agent", def.UserAgent, "User-Agent header sent with every request")
	cmd.Flags().Duration("timeout", def.Timeout, "Timeout of a single HTTP request")
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, logs *logger.Provider) error {
	settings, log, err := setup(cmd, logs)
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	manager, err := download.NewManager(settings, log, progressPrinter(out, verbose))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "📖 Interlinear Downloader")
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(out)

	crawlErr := manager.Crawl(ctx)

	if summary := manager.Summary(); summary != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintf(out, "✨ Downloaded %d, skipped %d, failed %d (%s) into %s\n",
			summary.Downloaded(), summary.Skipped(), summary.Failed(),
			humanize.Bytes(uint64(summary.TotalBytes())), summary.Destination)

		if settings.ReportPath != "" {
			path, err := report.SaveMarkdown(settings.ReportPath, summary)
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(out, "   Report written to %s\n", path)
		}
	}

	if errors.Is(crawlErr, context.Canceled) {
		fmt.Fprintln(out, "\nCrawl cancelled.")
	}
	return crawlErr
}

// progressPrinter returns a progress callback printing events to out.
// Parallel workers call it concurrently.
func progressPrinter(out io.Writer, verbose bool) func(download.ProgressEvent) {
	var mu sync.Mutex
	return func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}
		mu.Lock()
		defer mu.Unlock()

		var prefix string
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Fprintln(out, prefix+event.Message)
	}
}
