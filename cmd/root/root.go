// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mar-formanite/finwise/internal/classifier"
	"github.com/mar-formanite/finwise/internal/common"
	"github.com/mar-formanite/finwise/internal/config"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/store"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the resolved application configuration, populated before any
	// subcommand runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finwise",
		Short: "A CLI tool to ingest and classify personal finance transactions.",
		Long: `finwise ingests expense inputs from receipts, SMS alerts, voice
transcripts and manual entries, extracts amounts and descriptions,
and classifies each entry into a spending category.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finwise!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Invalid configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			// Flags override config file and environment
			if ModelDir != "" {
				Cfg.Model.Dir = ModelDir
			}
			if DatabasePath != "" {
				Cfg.Database.Path = DatabasePath
			}

			common.SetLogger(Logger())
		},
	}

	// Persistent flags shared by all commands
	ModelDir     string
	DatabasePath string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&ModelDir, "model-dir", "m", "", "Directory holding the classifier artifacts")
	Cmd.PersistentFlags().StringVarP(&DatabasePath, "database", "d", "", "Path to the SQLite database")
}

// Logger adapts the shared logrus instance to the internal logging interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// NewClassifier builds a classifier handle on the configured artifact
// directory. Artifacts are loaded lazily on first classification.
func NewClassifier() *classifier.Classifier {
	return classifier.New(Cfg.Model.Dir, Logger())
}

// OpenStore opens the configured SQLite database.
func OpenStore() (*store.Store, error) {
	return store.Open(Cfg.Database.Path, Logger())
}
