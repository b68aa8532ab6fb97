package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kotoba/study-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

// slogGooseLogger adapts goose.Logger to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

var _ goose.Logger = (*slogGooseLogger)(nil)

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does not exit; the command returns the error.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

var migrationCommands = []struct {
	name  string
	short string
}{
	{"up", "Apply all pending migrations"},
	{"down", "Roll back the most recent migration"},
	{"status", "Show the status of every migration"},
	{"version", "Print the current schema version"},
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	for _, mc := range migrationCommands {
		name := mc.name
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: mc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadRuntime()
				if err != nil {
					return err
				}

				ctx := cmd.Context()
				db, err := openDatabase(ctx, cfg.Database.URL, log)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				return runMigration(ctx, db, name, log)
			},
		})
	}
	return cmd
}

// runMigration executes one goose command against the embedded migrations.
func runMigration(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	if err := migrations.Configure(&slogGooseLogger{logger: log}); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, migrations.Dir)
	case "down":
		err = goose.DownContext(ctx, db, migrations.Dir)
	case "status":
		err = goose.StatusContext(ctx, db, migrations.Dir)
	case "version":
		err = goose.VersionContext(ctx, db, migrations.Dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed")
	return nil
}
