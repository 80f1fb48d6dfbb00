/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/db"
	"github.com/medilearn/apiserver/internal/logging"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	migrationsURL string
	downSteps     int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending Postgres migrations, or ensure MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log := logging.With("migrate")

		if cfg.Database.Driver == config.DriverMongo {
			client, database, err := db.ConnectMongo(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer client.Disconnect(cmd.Context())

			if err := store.EnsureMongoIndexes(cmd.Context(), database); err != nil {
				return fmt.Errorf("ensure mongodb indexes: %w", err)
			}
			log.Info().Str("database", database.Name()).Msg("mongodb indexes ensured")
			return nil
		}

		m, err := newMigrator(cfg)
		if err != nil {
			return err
		}
		defer m.Close()

		err = m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Msg("schema already up to date")
			return nil
		case err != nil:
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info().Msg("postgres migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back Postgres migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrate down requires DB_DRIVER=%s", config.DriverPostgres)
		}
		if downSteps < 1 {
			return fmt.Errorf("--steps must be at least 1, got %d", downSteps)
		}

		m, err := newMigrator(cfg)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Steps(-downSteps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		log := logging.With("migrate")
		log.Info().Int("steps", downSteps).Msg("postgres migrations rolled back")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current Postgres schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrate version requires DB_DRIVER=%s", config.DriverPostgres)
		}

		m, err := newMigrator(cfg)
		if err != nil {
			return err
		}
		defer m.Close()

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func newMigrator(cfg config.Config) (*migrate.Migrate, error) {
	m, err := migrate.New(migrationsURL, db.PostgresURL(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateCmd.PersistentFlags().StringVar(&migrationsURL, "source", "file://internal/db/migrations", "migration source URL")
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")
}
