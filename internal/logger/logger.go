// Package logger builds the logrus loggers shared by the downloader components.
//
// A single root logger is created through Provider.Init. Components receive a
// child entry from Component, which carries a component field and its own
// level taken from an environment variable:
//
//	var p logger.Provider
//	root := p.Init(logger.Options{Level: "info"})
//	log := logger.Component(root, "downloader", "INTERLINEAR_DOWNLOADER_LOG_LEVEL")
//	log.Info("ready")
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// RootLevelEnv is read when Options.Level is empty.
const RootLevelEnv = "INTERLINEAR_LOG_LEVEL"

// DefaultLevel is used when neither the options nor the environment set a level.
const DefaultLevel = logrus.DebugLevel

// Source tells where a level came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
)

// InvalidLevelError reports an unknown level name. It is a warning: the
// fallback level is still returned alongside it.
type InvalidLevelError struct {
	Name     string
	Fallback logrus.Level
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("%q is not a valid log level, using %s", e.Name, e.Fallback)
}

// ParseLevel converts a level name to a logrus level.
//
// Besides the logrus names it accepts "critical" (fatal) and "notset"
// (trace). Unknown names return fallback and an *InvalidLevelError.
func ParseLevel(name string, fallback logrus.Level) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "critical":
		return logrus.FatalLevel, nil
	case "notset":
		return logrus.TraceLevel, nil
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fallback, &InvalidLevelError{Name: name, Fallback: fallback}
	}
	return lvl, nil
}

// LevelFromEnv reads a level name from envVar.
//
// An unset or empty variable yields (fallback, SourceDefault, nil). An invalid
// name yields (fallback, SourceDefault, *InvalidLevelError).
func LevelFromEnv(envVar string, fallback logrus.Level) (logrus.Level, Source, error) {
	if envVar == "" {
		return fallback, SourceDefault, nil
	}
	name, ok := os.LookupEnv(envVar)
	if !ok || name == "" {
		return fallback, SourceDefault, nil
	}
	lvl, err := ParseLevel(name, fallback)
	if err != nil {
		return fallback, SourceDefault, err
	}
	return lvl, SourceEnv, nil
}

// Options configures the root logger.
type Options struct {
	// Level is a level name. Empty means RootLevelEnv, then DefaultLevel.
	Level string

	// Format is "text" (default) or "json".
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Provider owns the root logger. Its zero value is ready to use.
//
// Init configures the root logger on the first call only; the original
// options win and later calls return the same logger. Pass the returned
// logger to components instead of reaching for a package-level logger.
type Provider struct {
	once sync.Once
	root *logrus.Logger
}

// Init builds the root logger once and returns it.
func (p *Provider) Init(opts Options) *logrus.Logger {
	p.once.Do(func() {
		p.root = newRoot(opts)
	})
	return p.root
}

// Logger returns the root logger, or nil before Init.
func (p *Provider) Logger() *logrus.Logger {
	return p.root
}

func newRoot(opts Options) *logrus.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(&syncWriter{w: out})
	l.SetFormatter(newFormatter(opts.Format))

	var (
		lvl    = DefaultLevel
		source = SourceDefault
		warn   error
	)
	if opts.Level != "" {
		lvl, warn = ParseLevel(opts.Level, DefaultLevel)
		if warn == nil {
			source = SourceConfig
		}
	} else {
		lvl, source, warn = LevelFromEnv(RootLevelEnv, DefaultLevel)
	}
	l.SetLevel(lvl)

	if warn != nil {
		l.WithError(warn).Warn("invalid log level")
	}
	l.Info("logger initialized")
	l.WithFields(logrus.Fields{"level": lvl.String(), "from": source}).Info("log level set")
	return l
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

// Component returns a logger for one component.
//
// The component gets its own logrus.Logger sharing root's output, formatter
// and hooks. All of them write through one locked writer, installed on root
// if it does not have one yet, so its level can differ from the root level. The level is read
// from envVar and defaults to root's level. Every entry carries
// component=name.
func Component(root *logrus.Logger, name, envVar string) *logrus.Entry {
	out, ok := root.Out.(*syncWriter)
	if !ok {
		out = &syncWriter{w: root.Out}
		root.SetOutput(out)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(root.Formatter)
	l.ReplaceHooks(root.Hooks)

	lvl, source, err := LevelFromEnv(envVar, root.GetLevel())
	l.SetLevel(lvl)

	entry := l.WithField("component", name)
	if err != nil {
		entry.WithError(err).Warn("invalid log level")
	}
	entry.WithFields(logrus.Fields{"level": lvl.String(), "from": source}).Debug("log level set")
	return entry
}

// syncWriter serializes writes from the root logger and its component
// loggers, which each hold their own lock.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Discard returns an entry that drops everything. Useful in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
