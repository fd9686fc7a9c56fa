package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	ioutils "github.com/handiism/interlinear-downloader/internal/io"
	"github.com/handiism/interlinear-downloader/internal/model"
	"github.com/sirupsen/logrus"
)

// Fetcher streams a remote document into a writer.
//
// *http.Client from internal/http satisfies it.
type Fetcher interface {
	Download(ctx context.Context, url string, w io.Writer, onProgress func(written, total int64)) (int64, error)
}

// Downloader saves single documents to disk.
//
// Downloader never overwrites a file: a name collision is resolved by
// appending _1, _2, ... before the extension. With SkipIfExists set on the
// task, an existing file of the same name short-circuits the download.
type Downloader struct {
	client Fetcher
	log    *logrus.Entry

	// onBytes, when set, receives the size of every chunk written.
	onBytes func(n int64)
}

// NewDownloader creates a Downloader that fetches through client.
func NewDownloader(client Fetcher, log *logrus.Entry) *Downloader {
	return &Downloader{client: client, log: log}
}

// Download fetches task.URL into task.DestDir.
//
// Steps:
//  1. Create DestDir and any missing parents.
//  2. Name the file after the last segment of the URL.
//  3. With SkipIfExists, return a skipped result if that file exists.
//  4. Stream the payload into a hidden temp file in DestDir.
//  5. Move it onto the first free name (name, name_1, name_2, ...).
//
// The temp file is removed on failure, so the final path either does not
// exist or holds the complete payload.
func (d *Downloader) Download(ctx context.Context, task model.DownloadTask) (model.DownloadResult, error) {
	result := model.DownloadResult{Task: task}
	log := d.log.WithField("url", task.URL)

	if !ioutils.DirExists(task.DestDir) {
		log.WithField("dir", task.DestDir).Info("creating directory")
		if err := ioutils.EnsureDir(task.DestDir); err != nil {
			return result, fmt.Errorf("create directory %s: %w", task.DestDir, err)
		}
	}

	name, err := task.FileName()
	if err != nil {
		return result, err
	}
	candidate := filepath.Join(task.DestDir, ioutils.SanitizeFileName(name))

	if task.SkipIfExists && ioutils.FileExists(candidate) {
		log.WithField("path", candidate).Info("already exists")
		result.Path = candidate
		result.Skipped = true
		return result, nil
	}

	tmp, err := os.CreateTemp(task.DestDir, "."+filepath.Base(candidate)+".*.part")
	if err != nil {
		return result, fmt.Errorf("create temp file in %s: %w", task.DestDir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	var progress func(written, total int64)
	if d.onBytes != nil {
		var last int64
		progress = func(written, _ int64) {
			d.onBytes(written - last)
			last = written
		}
	}

	n, err := d.client.Download(ctx, task.URL, tmp, progress)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", tmpPath, cerr)
	}
	if err != nil {
		return result, err
	}

	final, err := ioutils.PlaceUnique(tmpPath, candidate)
	if err != nil {
		return result, err
	}

	result.Path = final
	result.Bytes = n
	log.WithFields(logrus.Fields{"path": final, "size": humanize.Bytes(uint64(n))}).Info("downloaded")
	return result, nil
}
