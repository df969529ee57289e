package main

import (
	"context"

	"hospital-directory/internal/config"
	"hospital-directory/internal/database"
	"hospital-directory/internal/observability"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it bare migrates and starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hospital-directory",
		Short: "Hospital directory API server",
		Long: `Serves the hospital directory API: hospital registration and login,
hospital profiles, their services and the map token proxy.
Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			if err := runMigrate(cmd.Context(), cfg); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			if migrate {
				if err := runMigrate(cmd.Context(), cfg); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply schema migrations before serving")

	return cmd
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runMigrate(cmd.Context(), config.LoadConfig()); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Server.Env)

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		observability.LogError(ctx, log, "database connection failed", err)
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		observability.LogError(ctx, log, "migration failed", err)
		return err
	}
	log.Info("migrations applied", "driver", cfg.Database.Driver)
	return nil
}
