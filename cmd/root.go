package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/config"
	"github.com/pable/go-lol-mgi/internal/logging"
	"github.com/pable/go-lol-mgi/internal/storage"
)

var (
	cfg *config.Config
	log zerolog.Logger

	dbPath     string
	dataDir    string
	logLevel   string
	logFormat  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "mgi",
	Short: "Mistake Gravity Index CLI",
	Long: `Find untraded deaths in League of Legends series event logs, correlate them
with nearby map objectives and rank them by how much they cost.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.mgi/mgi.db)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding raw/ and derived/ series data (default ./data)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides $MGI_CONFIG)")

	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(untradedCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(explainCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if configPath != "" {
		os.Setenv("MGI_CONFIG", configPath)
	}
	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	if dbPath != "" {
		c.DBPath = dbPath
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat})
	if err != nil {
		return err
	}
	cfg, log = c, l
	return nil
}

// openDB opens the configured database, creating its directory.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
