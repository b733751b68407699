//go:build !unit_test
// +build !unit_test

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
	"github.com/galaxyhub/importer/store/postgres"
)

func TestIntegrationCollectionRepository(t *testing.T) {
	ctx := context.Background()

	DBSetup := func() *gorm.DB {
		dbConn := setupDB()
		truncateTables(dbConn)
		return dbConn
	}

	newVersion := func(namespace, name, version string) models.CollectionVersion {
		return models.CollectionVersion{
			Namespace: namespace,
			Name:      name,
			Version:   semver.MustParse(version),
			Metadata: models.CollectionInfo{
				Namespace: namespace,
				Name:      name,
				Version:   version,
				License:   []string{"MIT"},
				Readme:    "README.md",
				Authors:   []string{"jane"},
			},
			Contents: []models.ContentUnit{{
				Name:         "my_module",
				OriginalName: "my_module",
				ContentType:  models.ContentTypeModule,
				Path:         "plugins/modules/my_module.py",
			}},
		}
	}

	t.Run("SaveVersion", func(t *testing.T) {
		t.Run("should persist the version and list it back", func(t *testing.T) {
			db := DBSetup()
			repo := postgres.NewCollectionRepository(db)

			err := repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "base", "1.0.0"))
			assert.Nil(t, err)
			err = repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "base", "1.1.0"))
			assert.Nil(t, err)

			collection, err := repo.GetByName(ctx, "acme", "base")
			assert.Nil(t, err)
			assert.Equal(t, "acme", collection.Namespace)

			versions, err := repo.GetVersions(ctx, "acme", "base")
			assert.Nil(t, err)
			assert.Len(t, versions, 2)
			assert.Equal(t, "1.0.0", versions[0].String())
			assert.Equal(t, "1.1.0", versions[1].String())
		})
		t.Run("should return version exists on a duplicate version", func(t *testing.T) {
			db := DBSetup()
			repo := postgres.NewCollectionRepository(db)

			err := repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "base", "1.0.0"))
			assert.Nil(t, err)

			err = repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "base", "1.0.0"))
			assert.ErrorIs(t, err, store.ErrVersionExists)
		})
		t.Run("should let concurrent first imports of a new collection both land", func(t *testing.T) {
			db := DBSetup()
			repo := postgres.NewCollectionRepository(db)

			// racing the collection row creation must not leak a raw
			// unique violation, the loser re-reads the created row
			workers := 8
			errs := make([]error, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					version := fmt.Sprintf("1.0.%d", i)
					errs[i] = repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "fresh", version))
				}(i)
			}
			wg.Wait()

			for i, err := range errs {
				assert.Nil(t, err, "worker %d", i)
			}
			versions, err := repo.GetVersions(ctx, "acme", "fresh")
			assert.Nil(t, err)
			assert.Len(t, versions, workers)
		})
		t.Run("should keep the conflict typed when the race is on the same version", func(t *testing.T) {
			db := DBSetup()
			repo := postgres.NewCollectionRepository(db)

			workers := 4
			errs := make([]error, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = repo.SaveVersion(ctx, uuid.New(), newVersion("acme", "contended", "1.0.0"))
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, err := range errs {
				if err == nil {
					winners++
					continue
				}
				assert.ErrorIs(t, err, store.ErrVersionExists)
			}
			assert.Equal(t, 1, winners)
		})
	})
}
