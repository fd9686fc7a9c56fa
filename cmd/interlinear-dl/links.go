package main

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/download"
	ioutils "github.com/handiism/interlinear-downloader/internal/io"
	"github.com/handiism/interlinear-downloader/internal/logger"
	"github.com/handiism/interlinear-downloader/internal/model"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// NewLinksCmd creates the links command.
func NewLinksCmd(logs *logger.Provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List the documents a crawl would download",
		Long: `Links fetches the index pages and prints every document URL together with
the file it would be written to. Nothing is downloaded.

With --sizes, a HEAD request is sent for each document to report its size.

Examples:
  interlinear-dl links
  interlinear-dl links --category NT --sizes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinksCmd(cmd, logs)
		},
	}

	addSourceFlags(cmd)
	def := config.DefaultSettings()
	cmd.Flags().StringP("dest", "d", def.DownloadsPath, "Download root directory")
	cmd.Flags().Bool("skip-existing", def.SkipExisting, "Mark documents already present instead of naming a new file")
	cmd.Flags().Bool("sizes", false, "Query the size of every document")

	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, logs *logger.Provider) error {
	settings, log, err := setup(cmd, logs)
	if err != nil {
		return err
	}
	sizes, err := cmd.Flags().GetBool("sizes")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	manager, err := download.NewManager(settings, log, nil)
	if err != nil {
		return err
	}
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	header := []string{"Category", "URL", "Destination"}
	if sizes {
		header = append(header, "Size")
	}

	var total uint64
	tasks := manager.Tasks()
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		dest, err := plannedPath(task)
		if err != nil {
			return err
		}
		row := []string{task.Category, task.URL, dest}

		if sizes {
			size := "?"
			if n, err := manager.HTTPClient().GetFileSize(ctx, task.URL); err == nil {
				size = humanize.Bytes(uint64(n))
				total += uint64(n)
			} else {
				log.WithError(err).WithField("url", task.URL).Warn("size unavailable")
			}
			row = append(row, size)
		}
		rows = append(rows, row)
	}

	md := markdown.NewMarkdown(cmd.OutOrStdout())
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
	if sizes {
		md.PlainTextf("%d documents, %s", len(tasks), humanize.Bytes(total))
	} else {
		md.PlainTextf("%d documents", len(tasks))
	}
	return md.Build()
}

// plannedPath returns the file task would be written to right now.
func plannedPath(task model.DownloadTask) (string, error) {
	name, err := task.FileName()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(task.DestDir, ioutils.SanitizeFileName(name))

	if task.SkipIfExists && ioutils.FileExists(candidate) {
		return candidate + " (exists)", nil
	}
	return ioutils.UniquePath(candidate)
}
