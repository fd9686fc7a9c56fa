package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/logger"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "interlinear-dl" {
		t.Errorf("expected use 'interlinear-dl', got %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected non-empty descriptions")
	}
	if cmd.Version == "" {
		t.Error("expected non-empty version")
	}

	flag := cmd.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("expected verbose flag")
	}
	if flag.Shorthand != "v" {
		t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
	}

	want := map[string]bool{"crawl": false, "links": false, "config": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Use]; ok {
			want[sub.Use] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s subcommand", name)
		}
	}
}

func TestCrawlCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd(&logger.Provider{})
	for _, name := range []string{
		"base-url", "category", "dest", "skip-existing", "parallel",
		"interval", "max-in-flight", "user-agent", "timeout", "report",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

// newSite serves an Old Testament index with two documents.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/Hebrew_Index.htm":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, `<a href="OTpdf/gen1.pdf">Genesis</a><a href="OTpdf/exo1.pdf">Exodus</a>`)
		case strings.HasPrefix(r.URL.Path, "/OTpdf/"):
			w.Header().Set("Content-Length", "4")
			if r.Method != http.MethodHead {
				io.WriteString(w, "%PDF")
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig stores the default settings in a temp file so tests never
// read the user's configuration.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.DefaultSettings().Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithLogs(t, args...)
	return out, err
}

// executeWithLogs runs a fresh command tree and returns stdout and stderr.
func executeWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCrawlCmd(t *testing.T) {
	srv := newSite(t)
	dest := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "crawl.md")

	out, err := execute(t, "crawl",
		"--config", writeConfig(t),
		"--base-url", srv.URL+"/",
		"--category", "OT",
		"--dest", dest,
		"--report", reportPath,
	)
	if err != nil {
		t.Fatalf("crawl error = %v\n%s", err, out)
	}

	for _, name := range []string{"gen1.pdf", "exo1.pdf"} {
		if _, err := os.Stat(filepath.Join(dest, "OTpdf", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "Downloaded 2, skipped 0, failed 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("expected report: %v", err)
	}
}

func TestLinksCmd(t *testing.T) {
	srv := newSite(t)
	dest := t.TempDir()

	out, err := execute(t, "links",
		"--config", writeConfig(t),
		"--base-url", srv.URL+"/",
		"--category", "OT",
		"--dest", dest,
		"--sizes",
	)
	if err != nil {
		t.Fatalf("links error = %v\n%s", err, out)
	}

	for _, want := range []string{
		srv.URL + "/OTpdf/gen1.pdf",
		filepath.Join(dest, "OTpdf", "exo1.pdf"),
		"2 documents, 8 B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(dest, "OTpdf")); !os.IsNotExist(err) {
		t.Errorf("links must not create directories, stat error = %v", err)
	}
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	out, err := execute(t, "config", "init", "--output", path)
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := execute(t, "config", "init", "--output", path); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := execute(t, "config", "init", "--output", path, "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	s, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxInFlight != config.DefaultSettings().MaxInFlight {
		t.Errorf("MaxInFlight = %d", s.MaxInFlight)
	}
}

func TestConfigShowCmd(t *testing.T) {
	out, err := execute(t, "config", "show", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "base_url: "+config.DefaultSettings().BaseURL) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRootCmd_LoggerPerCommandTree(t *testing.T) {
	srv := newSite(t)
	cfg := writeConfig(t)

	run := func(level string) string {
		t.Helper()
		_, logs, err := executeWithLogs(t, "links",
			"--config", cfg,
			"--base-url", srv.URL+"/",
			"--category", "OT",
			"--dest", t.TempDir(),
			"--log-level", level,
		)
		if err != nil {
			t.Fatalf("links error = %v", err)
		}
		return logs
	}

	first := run("info")
	second := run("error")

	if !strings.Contains(first, "logger initialized") {
		t.Errorf("first run logs missing initialization:\n%s", first)
	}
	if strings.Contains(second, "logger initialized") {
		t.Errorf("second run should log at error level only:\n%s", second)
	}
	if strings.Count(first, "logger initialized") != 1 {
		t.Errorf("first run logs include output of another run:\n%s", first)
	}
}
