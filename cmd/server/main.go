package main

import (
	"fmt"
	"os"

	"github.com/SraaaamX/realestate-api/internal/config"
	"github.com/SraaaamX/realestate-api/internal/database"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "realestate-api",
	Short: "Real estate listing API",
	Long: `Serves the real estate listing REST API: accounts, property listings
and buyer inquiries. Running without a subcommand starts the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Log.Info("Database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads the configuration and initializes the global logger.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.IsDevelopment()); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Log.Info("Config loaded successfully",
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
		zap.String("event_broker", cfg.EventBroker),
	)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
