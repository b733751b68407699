//go:build !unit_test
// +build !unit_test

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/odpf/salt/log"
	"gorm.io/gorm"

	"github.com/galaxyhub/importer/store/postgres"
)

var (
	importerDB *gorm.DB
	initDBOnce sync.Once
)

func setupDB() *gorm.DB {
	initDBOnce.Do(migrateDB)

	return importerDB
}

func mustReadDBConfig() string {
	dbURL, ok := os.LookupEnv("TEST_IMPORTER_DB_URL")
	if ok {
		return dbURL
	}

	// Did not find a suitable way to read db config
	panic("unable to find config for importer test db")
}

func migrateDB() {
	dbURL := mustReadDBConfig()

	dbConn, err := postgres.Connect(dbURL, 1, 2)
	if err != nil {
		panic(err)
	}
	if err := dropTables(dbConn); err != nil {
		panic(err)
	}

	logger := log.NewLogrus(log.LogrusWithWriter(os.Stdout))
	m, err := postgres.NewMigration(logger, dbURL)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx); err != nil {
		panic(err)
	}

	importerDB = dbConn
}

func dropTables(db *gorm.DB) error {
	tablesToDelete := []string{
		"import_task",
		"collection_content",
		"collection_version",
		"collection",
		"repository_content",
		"repository",
		"platform",
		"cloud_platform",
		"namespace",
		"schema_migrations",
	}
	for _, table := range tablesToDelete {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return err
		}
	}
	return nil
}

func truncateTables(db *gorm.DB) {
	db.Exec("TRUNCATE TABLE import_task CASCADE")
	db.Exec("TRUNCATE TABLE collection_content CASCADE")
	db.Exec("TRUNCATE TABLE collection_version CASCADE")
	db.Exec("TRUNCATE TABLE collection CASCADE")
	db.Exec("TRUNCATE TABLE repository_content CASCADE")
	db.Exec("TRUNCATE TABLE repository CASCADE")
}
