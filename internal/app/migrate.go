package app

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	// Registers the pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/avelinsk/daydo/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func MustMigratePostgres() {
	cfg := config.Global().Postgres

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to open migration source")
		panic(err)
	}

	// The pgx/v5 migrate driver expects the pgx5:// scheme.
	connURL := fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.Username), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	m, err := migrate.NewWithSourceInstance("iofs", source, connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to initialize migrations")
		panic(err)
	}
	defer func() { _, _ = m.Close() }()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		globalLogger.Error().
			Err(err).
			Msg("failed to apply migrations")
		panic(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		globalLogger.Error().
			Err(err).
			Msg("failed to read migration version")
		panic(err)
	}
	globalLogger.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("applied migrations")
}
