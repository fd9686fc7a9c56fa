package logger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    logrus.Level
		wantErr bool
	}{
		{"debug", logrus.DebugLevel, false},
		{"INFO", logrus.InfoLevel, false},
		{"Warning", logrus.WarnLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"CRITICAL", logrus.FatalLevel, false},
		{"NOTSET", logrus.TraceLevel, false},
		{"loud", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name, logrus.InfoLevel)
			if tt.wantErr {
				var ile *InvalidLevelError
				if !errors.As(err, &ile) {
					t.Fatalf("expected *InvalidLevelError, got %v", err)
				}
				if ile.Name != tt.name {
					t.Errorf("Name = %q, want %q", ile.Name, tt.name)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	const env = "INTERLINEAR_TEST_LOG_LEVEL"

	t.Run("unset", func(t *testing.T) {
		t.Setenv(env, "")
		lvl, src, err := LevelFromEnv(env, logrus.WarnLevel)
		if err != nil || lvl != logrus.WarnLevel || src != SourceDefault {
			t.Errorf("got (%v, %v, %v), want (warning, default, nil)", lvl, src, err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(env, "error")
		lvl, src, err := LevelFromEnv(env, logrus.WarnLevel)
		if err != nil || lvl != logrus.ErrorLevel || src != SourceEnv {
			t.Errorf("got (%v, %v, %v), want (error, env, nil)", lvl, src, err)
		}
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv(env, "chatty")
		lvl, src, err := LevelFromEnv(env, logrus.WarnLevel)
		if err == nil {
			t.Fatal("expected a warning error")
		}
		if lvl != logrus.WarnLevel || src != SourceDefault {
			t.Errorf("got (%v, %v), want (warning, default)", lvl, src)
		}
	})
}

func TestProvider_InitIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	var p Provider

	first := p.Init(Options{Level: "warn", Output: &buf})
	second := p.Init(Options{Level: "debug"})

	if first != second {
		t.Fatal("Init returned a different logger on the second call")
	}
	if first.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warning", first.GetLevel())
	}
	if p.Logger() != first {
		t.Error("Logger() should return the initialized logger")
	}
}

func TestProvider_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	var p Provider

	l := p.Init(Options{Level: "shouty", Output: &buf})

	if l.GetLevel() != DefaultLevel {
		t.Errorf("level = %v, want %v", l.GetLevel(), DefaultLevel)
	}
	if !strings.Contains(buf.String(), "invalid log level") {
		t.Errorf("expected a warning in output, got %q", buf.String())
	}
}

func TestComponent(t *testing.T) {
	const env = "INTERLINEAR_TEST_COMPONENT_LOG_LEVEL"
	t.Setenv(env, "error")

	var buf bytes.Buffer
	var p Provider
	root := p.Init(Options{Level: "debug", Output: &buf})

	log := Component(root, "downloader", env)
	buf.Reset()

	log.Info("hidden")
	log.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered by the component level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("error message missing")
	}
	if !strings.Contains(out, "component=downloader") {
		t.Errorf("component field missing in %q", out)
	}
	if root.GetLevel() != logrus.DebugLevel {
		t.Error("component level leaked into the root logger")
	}
}

func TestComponent_ConcurrentWritesShareOneWriter(t *testing.T) {
	var buf bytes.Buffer
	var p Provider
	root := p.Init(Options{Level: "info", Output: &buf})

	crawler := Component(root, "crawler", "")
	downloader := Component(root, "downloader", "")

	const perLogger = 50
	var wg sync.WaitGroup
	for _, log := range []*logrus.Entry{crawler, downloader, logrus.NewEntry(root)} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perLogger; i++ {
				log.Info("tick")
			}
		}()
	}
	wg.Wait()

	lines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "msg=tick") {
			lines++
		}
	}
	if lines != 3*perLogger {
		t.Errorf("got %d complete log lines, want %d", lines, 3*perLogger)
	}
}

func TestComponent_WrapsForeignRootOutput(t *testing.T) {
	var buf bytes.Buffer
	root := logrus.New()
	root.SetOutput(&buf)

	first := Component(root, "index", "")
	second := Component(root, "crawler", "")

	if first.Logger.Out != second.Logger.Out || root.Out != first.Logger.Out {
		t.Error("components and root should write through the same writer")
	}
}
