package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/skinderma/internal/catalog"
	"github.com/terraincognita07/skinderma/internal/config"
	"github.com/terraincognita07/skinderma/internal/db"
	"github.com/terraincognita07/skinderma/internal/logging"
	"github.com/terraincognita07/skinderma/internal/services"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "skinderma",
		Short:        "Match skin symptoms to a likely condition and care plan",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default: ./config.yaml when present)")

	cmd.AddCommand(
		serveCmd(&configFile),
		diagnoseCmd(&configFile),
		symptomsCmd(&configFile),
		conditionsCmd(&configFile),
	)
	return cmd
}

type runtime struct {
	cfg     *config.Config
	logger  *logrus.Logger
	catalog *catalog.Catalog
	close   func() error
}

// loadRuntime reads configuration, builds the logger and loads the catalog
// from the configured database, seeding the builtin entries first.
func loadRuntime(cmd *cobra.Command, configFile string) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	database, err := db.OpenSQLite(cfg.Database.Path, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	source, err := services.NewCatalogService(db.NewCatalogRepository(database)).SeedAndLoad()
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"db":         cfg.Database.Path,
		"symptoms":   len(source.Symptoms()),
		"conditions": source.Len(),
	}).Debug("catalog loaded")

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		catalog: source,
		close: func() error {
			return db.Close(database)
		},
	}, nil
}
