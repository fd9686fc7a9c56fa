package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/http"
	"github.com/handiism/interlinear-downloader/internal/interlinear"
	"github.com/handiism/interlinear-downloader/internal/logger"
	"github.com/handiism/interlinear-downloader/internal/model"
	"github.com/handiism/interlinear-downloader/internal/parallel"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

// Environment variables overriding the level of each component logger.
const (
	CrawlerLogLevelEnv    = "INTERLINEAR_CRAWLER_LOG_LEVEL"
	IndexLogLevelEnv      = "INTERLINEAR_INDEX_LOG_LEVEL"
	DownloaderLogLevelEnv = "INTERLINEAR_DOWNLOADER_LOG_LEVEL"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a crawl progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates a crawl: it discovers the links of every selected
// category and downloads them, one after another or through a throttled
// fan-out.
type Manager struct {
	settings   *config.Settings
	categories []interlinear.Category
	httpClient *http.Client
	index      *interlinear.IndexFetcher
	downloader *Downloader
	log        *logrus.Entry

	tasks   []model.DownloadTask
	summary *model.CrawlSummary

	receivedBytes atomic.Int64
	totalFiles    atomic.Int32
	doneFiles     atomic.Int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager.
//
// settings are validated first. Component loggers are derived from root;
// their levels can be tuned with CrawlerLogLevelEnv, IndexLogLevelEnv and
// DownloaderLogLevelEnv. onProgress may be nil.
func NewManager(settings *config.Settings, root *logrus.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	categories, err := settings.SelectedCategories()
	if err != nil {
		return nil, err
	}

	client := http.NewClient(settings.HTTPOptions())

	m := &Manager{
		settings:   settings,
		categories: categories,
		httpClient: client,
		index:      interlinear.NewIndexFetcher(client, logger.Component(root, "index", IndexLogLevelEnv)),
		downloader: NewDownloader(client, logger.Component(root, "downloader", DownloaderLogLevelEnv)),
		log:        logger.Component(root, "crawler", CrawlerLogLevelEnv),
		onProgress: onProgress,
	}
	m.downloader.onBytes = func(n int64) { m.receivedBytes.Add(n) }
	return m, nil
}

// Initialize fetches the index page of every selected category and builds
// the download tasks. The first index that cannot be fetched aborts it.
func (m *Manager) Initialize(ctx context.Context) error {
	root, err := filepath.Abs(m.settings.DownloadsPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", m.settings.DownloadsPath, err)
	}

	runID := ksuid.New().String()
	m.log = m.log.WithField("run", runID)
	m.summary = model.NewCrawlSummary(runID, root, m.settings.Parallel)
	m.tasks = nil

	for _, c := range m.categories {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s index", c.Title), Level: LevelVerbose})

		links, err := m.index.FetchCategory(ctx, m.settings.BaseURL, c)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s index: %v", c.Name, err), Level: LevelError})
			return fmt.Errorf("category %s: %w", c.Name, err)
		}

		for _, link := range links {
			task, err := model.NewDownloadTask(m.settings.BaseURL, link, root, m.settings.SkipExisting)
			if err != nil {
				return err
			}
			m.tasks = append(m.tasks, task)
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d documents in %s", len(links), c.Title), Level: LevelInfo})
	}

	m.totalFiles.Store(int32(len(m.tasks)))
	m.doneFiles.Store(0)
	m.receivedBytes.Store(0)
	return nil
}

// StartDownloads downloads every task built by Initialize.
//
// Sequential mode stops at the first failure and returns it. Parallel mode
// runs the tasks through parallel.Run; a failed task is logged and recorded
// in the summary while the others go on, and only a cancelled context is
// returned as an error.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if m.summary == nil {
		return fmt.Errorf("crawl not initialized")
	}
	defer m.summary.Finish()

	if !m.settings.Parallel {
		for _, task := range m.tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.downloadTask(ctx, task); err != nil {
				return err
			}
		}
		return nil
	}

	opts := parallel.Options{
		Interval:    m.settings.LaunchInterval,
		MaxInFlight: m.settings.MaxInFlight,
	}
	return parallel.Run(ctx, m.tasks, opts, func(ctx context.Context, task model.DownloadTask) {
		_ = m.downloadTask(ctx, task)
	})
}

// Crawl runs a full crawl: Initialize followed by StartDownloads.
func (m *Manager) Crawl(ctx context.Context) error {
	mode := "sequential"
	if m.settings.Parallel {
		mode = "parallel"
	}
	m.log.WithField("mode", mode).Info("crawling the Online Interlinear Bible")

	if err := m.Initialize(ctx); err != nil {
		return err
	}
	err := m.StartDownloads(ctx)

	m.log.WithFields(logrus.Fields{
		"downloaded": m.summary.Downloaded(),
		"skipped":    m.summary.Skipped(),
		"failed":     m.summary.Failed(),
		"size":       humanize.Bytes(uint64(m.summary.TotalBytes())),
		"took":       m.summary.Duration().Round(time.Millisecond).String(),
	}).Info("finished crawling the Online Interlinear Bible")

	if m.summary.Failed() == 0 && err == nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Crawl complete: %d files", m.summary.Downloaded()+m.summary.Skipped()), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Crawl finished, %d downloads failed", m.summary.Failed()), Level: LevelWarning})
	}
	return err
}

// Tasks returns the tasks built by the last Initialize.
func (m *Manager) Tasks() []model.DownloadTask {
	out := make([]model.DownloadTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Summary returns the summary of the current crawl, or nil before Initialize.
func (m *Manager) Summary() *model.CrawlSummary {
	return m.summary
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesDone, filesTotal int32) {
	return m.receivedBytes.Load(), m.doneFiles.Load(), m.totalFiles.Load()
}

// HTTPClient returns the client used for index pages and documents.
func (m *Manager) HTTPClient() *http.Client {
	return m.httpClient
}

func (m *Manager) downloadTask(ctx context.Context, task model.DownloadTask) error {
	res, err := m.downloader.Download(ctx, task)
	res.Err = err
	m.summary.Add(res)
	m.doneFiles.Add(1)

	switch {
	case err != nil:
		m.log.WithError(err).WithField("url", task.URL).Error("download failed")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", task.URL, err), Level: LevelError})
	case res.Skipped:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(res.Path)), Level: LevelVerbose})
	default:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%s)", filepath.Base(res.Path), humanize.Bytes(uint64(res.Bytes))), Level: LevelVerbose})
	}
	return err
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
