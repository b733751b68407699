package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // required for postgres migrate driver
	_ "github.com/lib/pq"

	"github.com/galaxyhub/importer/store"
)

//go:embed migrations
var migrationFs embed.FS

const resourcePath = "migrations"

type migration struct {
	dbConnURL string

	logger log.Logger
}

// NewMigration initializes the migration mechanism specific for postgres
func NewMigration(logger log.Logger, dbConnURL string) (store.Migration, error) {
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if dbConnURL == "" {
		return nil, errors.New("database connection url is empty")
	}
	return &migration{
		dbConnURL: dbConnURL,
		logger:    logger,
	}, nil
}

func (m *migration) Up(ctx context.Context) error {
	client, cleanup, err := m.newMigrationClient()
	if err != nil {
		return fmt.Errorf("error initializing migration client: %w", err)
	}
	defer cleanup()

	if err := client.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error executing migration up: %w", err)
	}
	version, _, err := client.Version()
	if err != nil {
		return fmt.Errorf("error getting current migration version: %w", err)
	}
	m.logger.Info("migration up finished", "version", version)
	return nil
}

func (m *migration) newMigrationClient() (client *migrate.Migrate, cleanup func(), err error) {
	sourceDriver, err := iofs.New(migrationFs, resourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing source driver: %w", err)
	}
	client, err = migrate.NewWithSourceInstance("iofs", sourceDriver, m.dbConnURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing migration instance: %w", err)
	}
	cleanup = func() {
		sourceErr, databaseErr := client.Close()
		if sourceErr != nil {
			m.logger.Error("source driver error encountered when closing migration connection", "error", sourceErr)
		}
		if databaseErr != nil {
			m.logger.Error("database error encountered when closing migration connection", "error", databaseErr)
		}
	}
	return client, cleanup, nil
}
