// Package commands implements the partsdesk command line.
package commands

import (
	"fmt"
	"os"

	"github.com/modifikasi/partsdesk/config"
	"github.com/modifikasi/partsdesk/initializers"
	"github.com/modifikasi/partsdesk/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Global flags
	configPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "partsdesk",
	Short: "PartsDesk - inventory and sales backend for a parts shop",
	Long: `PartsDesk tracks a shop's parts inventory, stock movements and sales,
and manages the owner and admin accounts that work on it.

Commands:
  serve        - Run the HTTP API
  migrate      - Create or update the database schema
  create-user  - Create an active owner or admin account`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "partsdesk.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
}

// app bundles what every command opens at startup
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *store.Store
}

// openApp loads config, builds the logger, connects and migrates the database
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := initializers.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := initializers.ConnectToDB(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	if err := initializers.Migrate(db); err != nil {
		_ = initializers.CloseDB(db)
		_ = log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db, store: store.New(db)}, nil
}

func (a *app) close() {
	if err := initializers.CloseDB(a.db); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}
