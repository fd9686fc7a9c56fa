package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/handiism/interlinear-downloader/internal/config"
	ioutils "github.com/handiism/interlinear-downloader/internal/io"
	"github.com/handiism/interlinear-downloader/internal/logger"
	"github.com/handiism/interlinear-downloader/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load("", nil)
	if err != nil {
		return err
	}

	// The screen belongs to the UI, so logs go to a file.
	logDir := filepath.Join(xdg.StateHome, config.AppName)
	if err := ioutils.EnsureDir(logDir); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	var logs logger.Provider
	log := logs.Init(logger.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: logFile,
	})

	return tui.Run(settings, log)
}
