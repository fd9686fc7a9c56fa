package main

import (
	"fmt"
	"os"

	"github.com/handiism/interlinear-downloader/internal/config"
	"github.com/handiism/interlinear-downloader/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for interlinear-dl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interlinear-dl",
		Short: "Download the Online Interlinear Bible",
		Long: `interlinear-dl fetches the Old and New Testament index pages of the
Online Interlinear Bible and downloads every linked PDF.

Documents are stored under the download directory in one subdirectory per
category (OTpdf, NTpdf). Existing files are never overwritten.

Settings are read from ` + config.DefaultConfigPath() + `,
then from INTERLINEAR_* environment variables, then from flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// logs owns the root logger of this command tree.
	logs := &logger.Provider{}

	// Global flags that apply to all commands
	cmd.PersistentFlags().String("config", "", "Path to config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Show verbose progress output")
	cmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warning, error, critical)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	cmd.AddCommand(NewCrawlCmd(logs))
	cmd.AddCommand(NewLinksCmd(logs))
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings reads the settings for cmd, applying the flags set on the
// command line.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path, cmd.Flags())
}

// setup loads the settings and initializes the root logger on the
// command's stderr.
func setup(cmd *cobra.Command, logs *logger.Provider) (*config.Settings, *logrus.Logger, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}

	log := logs.Init(logger.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return settings, log, nil
}
