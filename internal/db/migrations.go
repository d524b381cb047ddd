package db

import (
	"context"
	"embed"
	"io/fs"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func newProvider(database *sqlx.DB) (*goose.Provider, error) {
	migrationsFS, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded migrations")
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, database.DB, migrationsFS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration provider")
	}
	return provider, nil
}

// Migrate applies all pending migrations and returns how many ran.
func Migrate(ctx context.Context, database *sqlx.DB) (int, error) {
	provider, err := newProvider(database)
	if err != nil {
		return 0, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), errors.Wrap(err, "failed to apply migrations")
	}
	return len(results), nil
}

// Version reports the current and latest known schema versions.
func Version(ctx context.Context, database *sqlx.DB) (current, latest int64, err error) {
	provider, err := newProvider(database)
	if err != nil {
		return 0, 0, err
	}
	current, err = provider.GetDBVersion(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to read schema version")
	}
	sources := provider.ListSources()
	if len(sources) > 0 {
		latest = sources[len(sources)-1].Version
	}
	return current, latest, nil
}
