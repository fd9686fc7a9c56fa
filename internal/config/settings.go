package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	ihttp "github.com/handiism/interlinear-downloader/internal/http"
	"github.com/handiism/interlinear-downloader/internal/interlinear"
	ioutils "github.com/handiism/interlinear-downloader/internal/io"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config directory.
const AppName = "interlinear-dl"

// EnvPrefix prefixes every environment variable override, e.g.
// INTERLINEAR_PARALLEL=true or INTERLINEAR_LAUNCH_INTERVAL=100ms.
const EnvPrefix = "INTERLINEAR"

// Validation errors.
var (
	ErrInvalidBaseURL     = errors.New("base_url must be an absolute http(s) URL")
	ErrNoDownloadsPath    = errors.New("downloads_path must not be empty")
	ErrNoCategories       = errors.New("at least one category is required")
	ErrInvalidInterval    = errors.New("launch_interval must not be negative")
	ErrInvalidMaxInFlight = errors.New("max_in_flight must not be negative")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
)

// Settings holds all configuration options.
type Settings struct {
	// Source settings
	BaseURL    string   `mapstructure:"base_url"`
	Categories []string `mapstructure:"categories"`

	// Download settings
	DownloadsPath  string        `mapstructure:"downloads_path"`
	SkipExisting   bool          `mapstructure:"skip_existing"`
	Parallel       bool          `mapstructure:"parallel"`
	LaunchInterval time.Duration `mapstructure:"launch_interval"`
	MaxInFlight    int           `mapstructure:"max_in_flight"`

	// HTTP settings
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// Output settings
	ReportPath string      `mapstructure:"report_path"`
	Log        LogSettings `mapstructure:"log"`
}

// LogSettings configures the root logger. An empty Level defers to the
// INTERLINEAR_LOG_LEVEL environment variable.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:    interlinear.DefaultBaseURL,
		Categories: []string{interlinear.OldTestament.Name, interlinear.NewTestament.Name},

		DownloadsPath:  "downloads",
		SkipExisting:   true,
		Parallel:       false,
		LaunchInterval: 50 * time.Millisecond,
		MaxInFlight:    8,

		UserAgent: ihttp.DefaultUserAgent,
		Timeout:   ihttp.DefaultTimeout,

		Log: LogSettings{Format: "text"},
	}
}

// DefaultConfigPath returns the config file location under the XDG config home,
// e.g. ~/.config/interlinear-dl/config.yaml on Linux.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// flagKeys maps command line flag names to settings keys.
var flagKeys = map[string]string{
	"base-url":      "base_url",
	"category":      "categories",
	"dest":          "downloads_path",
	"skip-existing": "skip_existing",
	"parallel":      "parallel",
	"interval":      "launch_interval",
	"max-in-flight": "max_in_flight",
	"user-agent":    "user_agent",
	"timeout":       "timeout",
	"report":        "report_path",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// Load builds the settings from, in increasing priority: defaults, the YAML
// file at path, INTERLINEAR_* environment variables and the flags in fs that
// were set on the command line.
//
// An empty path means DefaultConfigPath; a missing file at the default
// location is not an error, a missing explicit file is. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	def := DefaultSettings()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("categories", def.Categories)
	v.SetDefault("downloads_path", def.DownloadsPath)
	v.SetDefault("skip_existing", def.SkipExisting)
	v.SetDefault("parallel", def.Parallel)
	v.SetDefault("launch_interval", def.LaunchInterval)
	v.SetDefault("max_in_flight", def.MaxInFlight)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("report_path", def.ReportPath)
	v.SetDefault("log.format", def.Log.Format)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings and normalizes BaseURL to end with a slash so
// relative links resolve below it.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, s.BaseURL)
	}
	if !strings.HasSuffix(s.BaseURL, "/") {
		s.BaseURL += "/"
	}

	if s.DownloadsPath == "" {
		return ErrNoDownloadsPath
	}

	if len(s.Categories) == 0 {
		return ErrNoCategories
	}
	if _, err := interlinear.Select(s.Categories); err != nil {
		return err
	}

	if s.LaunchInterval < 0 {
		return ErrInvalidInterval
	}
	if s.MaxInFlight < 0 {
		return ErrInvalidMaxInFlight
	}
	if s.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// SelectedCategories resolves Categories to the built-in category definitions.
func (s *Settings) SelectedCategories() ([]interlinear.Category, error) {
	return interlinear.Select(s.Categories)
}

// HTTPOptions returns the HTTP client options derived from the settings.
func (s *Settings) HTTPOptions() ihttp.Options {
	return ihttp.Options{Timeout: s.Timeout, UserAgent: s.UserAgent}
}

// fileSettings is the on-disk YAML shape; durations are written as strings
// such as "50ms" so the file stays readable.
type fileSettings struct {
	BaseURL        string   `yaml:"base_url"`
	Categories     []string `yaml:"categories"`
	DownloadsPath  string   `yaml:"downloads_path"`
	SkipExisting   bool     `yaml:"skip_existing"`
	Parallel       bool     `yaml:"parallel"`
	LaunchInterval string   `yaml:"launch_interval"`
	MaxInFlight    int      `yaml:"max_in_flight"`
	UserAgent      string   `yaml:"user_agent"`
	Timeout        string   `yaml:"timeout"`
	ReportPath     string   `yaml:"report_path,omitempty"`
	Log            struct {
		Level  string `yaml:"level,omitempty"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// YAML returns the settings in the config file format.
func (s *Settings) YAML() ([]byte, error) {
	fs := fileSettings{
		BaseURL:        s.BaseURL,
		Categories:     s.Categories,
		DownloadsPath:  s.DownloadsPath,
		SkipExisting:   s.SkipExisting,
		Parallel:       s.Parallel,
		LaunchInterval: s.LaunchInterval.String(),
		MaxInFlight:    s.MaxInFlight,
		UserAgent:      s.UserAgent,
		Timeout:        s.Timeout.String(),
		ReportPath:     s.ReportPath,
	}
	fs.Log.Level = s.Log.Level
	fs.Log.Format = s.Log.Format

	return yaml.Marshal(&fs)
}

// Save writes settings to a YAML file, creating its directory if needed.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := s.YAML()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
