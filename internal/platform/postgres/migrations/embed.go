// Package migrations embeds the goose SQL migrations for the study schema.
package migrations

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds every migration file. Goose reads it from the root directory ".".
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory inside FS passed to goose commands.
const Dir = "."

// TableName is the goose version table.
const TableName = "schema_migrations"

// Configure points goose's package-level state at the embedded migrations.
// A nil logger keeps goose's default.
func Configure(logger goose.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(FS)
	goose.SetTableName(TableName)
	if logger != nil {
		goose.SetLogger(logger)
	}
	return nil
}
