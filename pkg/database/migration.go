package database

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type MigrationConfig struct {
	Folder         string
	DatabaseName   string
	MigrationTable string
}

type MigrationService struct {
	config MigrationConfig
	db     *sqlx.DB
	logger ectologger.Logger
}

func NewMigrationService(config MigrationConfig, db *sqlx.DB, logger ectologger.Logger) *MigrationService {
	return &MigrationService{
		config: config,
		db:     db,
		logger: logger,
	}
}

// Up applies all pending migrations from the configured folder.
func (s *MigrationService) Up() error {
	driver, err := postgres.WithInstance(s.db.DB, &postgres.Config{
		DatabaseName:    s.config.DatabaseName,
		MigrationsTable: s.config.MigrationTable,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", s.config.Folder), s.config.DatabaseName, driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migration instance")
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to run migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "failed to read migration version")
	}

	s.logger.WithFields(map[string]any{
		"version": version,
		"dirty":   dirty,
	}).Info("database migrations applied")

	return nil
}
