// Package tui provides a Bubble Tea terminal user interface for the
// interlinear downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/download"
	"github.com/handiism/interlinear-downloader/internal/interlinear"
	"github.com/sirupsen/logrus"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C9A227")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	log       *logrus.Logger
	logs      []LogEntry
	err       error

	// Crawl context
	ctx    context.Context
	cancel context.CancelFunc

	// Progress events from the manager callback
	events chan download.ProgressEvent

	// Crawl manager reference
	manager *download.Manager

	// Crawl progress
	totalFiles    int32
	doneFiles     int32
	receivedBytes int64
	failed        int
	skipped       int

	// Options
	categories map[string]bool
	parallel   bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides the initial option
// values; log receives the component logs of the crawl.
func NewModel(settings *config.Settings, log *logrus.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "downloads"
	ti.SetValue(settings.DownloadsPath)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C9A227"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	categories := make(map[string]bool)
	for _, name := range settings.Categories {
		if c, err := interlinear.Lookup(name); err == nil {
			categories[c.Name] = true
		}
	}

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		log:        log,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan download.ProgressEvent, 64),
		categories: categories,
		parallel:   settings.Parallel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent when the manager reports a progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when every index page has been fetched.
	InitDoneMsg struct {
		Tasks   int
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Files    int32
		TotalF   int32
		Failed   int
		Skipped  int
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" && len(m.selectedCategories()) > 0 {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeCrawl(), m.spinner.Tick)
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.categories[interlinear.OldTestament.Name] = !m.categories[interlinear.OldTestament.Name]
				return m, nil
			}

		case "ctrl+n":
			if m.state == StateInput {
				m.categories[interlinear.NewTestament.Name] = !m.categories[interlinear.NewTestament.Name]
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.parallel = !m.parallel
				return m, nil
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new crawl
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.doneFiles = 0
				m.totalFiles = 0
				m.receivedBytes = 0
				m.failed = 0
				m.skipped = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, tea.Batch(cmds...)
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.totalFiles = int32(msg.Tasks)
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.receivedBytes = msg.Received
		m.doneFiles = msg.Files
		m.totalFiles = msg.TotalF
		m.failed = msg.Failed
		m.skipped = msg.Skipped
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			received, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.doneFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent blocks until the manager reports the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📖 Interlinear Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download the Online Interlinear Bible"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Download directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Categories:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s (ctrl+o)\n", checkbox(m.categories[interlinear.OldTestament.Name]), interlinear.OldTestament.Title))
	b.WriteString(fmt.Sprintf("  %s %s (ctrl+n)\n", checkbox(m.categories[interlinear.NewTestament.Name]), interlinear.NewTestament.Title))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Parallel downloads (ctrl+p)\n", checkbox(m.parallel)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+l)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Source: %s", m.settings.BaseURL)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching index pages..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	names := m.selectedCategories()
	b.WriteString(successStyle.Render(fmt.Sprintf("Crawling %d categor%s:", len(names), plural(len(names), "y", "ies"))))
	b.WriteString("\n")
	for _, name := range names {
		if c, err := interlinear.Lookup(name); err == nil {
			b.WriteString(categoryStyle.Render(fmt.Sprintf("  ✝ %s", c.Title)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.doneFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %s",
		m.doneFiles,
		m.totalFiles,
		humanize.Bytes(uint64(m.receivedBytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Crawl Complete!\n\n"+
			"Files: %d\n"+
			"Skipped: %d\n"+
			"Failed: %d\n"+
			"Size: %s",
		m.doneFiles,
		m.skipped,
		m.failed,
		humanize.Bytes(uint64(m.receivedBytes)),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+o/ctrl+n: categories • ctrl+p: parallel • ctrl+l: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new crawl • q: quit"
	}
	return ""
}

// selectedCategories returns the enabled category names in catalog order.
func (m Model) selectedCategories() []string {
	var names []string
	for _, c := range interlinear.Categories() {
		if m.categories[c.Name] {
			names = append(names, c.Name)
		}
	}
	return names
}

// crawlSettings returns a copy of the base settings with the on-screen
// options applied.
func (m Model) crawlSettings() *config.Settings {
	s := *m.settings
	s.DownloadsPath = strings.TrimSpace(m.textInput.Value())
	s.Categories = m.selectedCategories()
	s.Parallel = m.parallel
	return &s
}

// initializeCrawl creates the manager and fetches the index pages.
func (m *Model) initializeCrawl() tea.Cmd {
	settings := m.crawlSettings()
	ctx := m.ctx
	events := m.events
	log := m.log

	return func() tea.Msg {
		if err := settings.Validate(); err != nil {
			return InitDoneMsg{Err: err}
		}

		manager, err := download.NewManager(settings, log, func(event download.ProgressEvent) {
			select {
			case events <- event:
			default:
				// The screen only keeps the last few lines; drop when behind.
			}
		})
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		if err := manager.Initialize(ctx); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Tasks:   len(manager.Tasks()),
			Manager: manager,
		}
	}
}

// startDownload starts the actual download in background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.StartDownloads(ctx)
		received, files, totalFiles := manager.GetProgress()
		summary := manager.Summary()

		return DownloadDoneMsg{
			Received: received,
			Files:    files,
			TotalF:   totalFiles,
			Failed:   summary.Failed(),
			Skipped:  summary.Skipped(),
			Err:      err,
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Run starts the TUI application.
func Run(settings *config.Settings, log *logrus.Logger) error {
	p := tea.NewProgram(NewModel(settings, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
