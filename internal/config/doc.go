// Package config provides configuration management for interlinear-downloader.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a YAML file, INTERLINEAR_* environment variables
//     and command line flags (via viper)
//   - Saving settings to YAML
//   - Validation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./downloads/{OTpdf,NTpdf}
//	// Sequential crawl, existing files skipped
//	// Parallel mode: 50ms launch interval, at most 8 downloads in flight
//
// # Loading
//
//	settings, err := config.Load("", cmd.Flags())
//	// reads ~/.config/interlinear-dl/config.yaml when present
//
// Every key can be overridden from the environment with the INTERLINEAR_
// prefix, dots replaced by underscores:
//
//	INTERLINEAR_PARALLEL=true INTERLINEAR_MAX_IN_FLIGHT=4 interlinear-dl crawl
//
// # Saving Settings
//
//	settings.DownloadsPath = "/data/interlinear"
//	err := settings.Save(config.DefaultConfigPath())
package config
