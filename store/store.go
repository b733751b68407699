package store

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/galaxyhub/importer/models"
)

var (
	// ErrResourceNotFound is returned when a lookup misses
	ErrResourceNotFound = errors.New("resource not found")

	// ErrVersionExists is returned when a collection version row for
	// the same (namespace, name, version) already exists
	ErrVersionExists = errors.New("collection version already exists")
)

// PlatformRepository reads the reference platform table, lookups are
// case-insensitive
type PlatformRepository interface {
	GetAllByName(ctx context.Context, name string) ([]models.Platform, error)
	GetByNameAndRelease(ctx context.Context, name, release string) (models.Platform, error)
}

// CloudPlatformRepository reads the reference cloud platform table,
// lookups are case-insensitive
type CloudPlatformRepository interface {
	GetByName(ctx context.Context, name string) (models.CloudPlatform, error)
}

// NamespaceRepository reads the owning account table
type NamespaceRepository interface {
	GetByName(ctx context.Context, name string) (models.Namespace, error)
}

// CollectionRepository reads existing collections and persists a fully
// imported collection version. SaveVersion writes the version row, its
// contents and their lint records in one transaction and fails with
// ErrVersionExists on a (namespace, name, version) conflict.
type CollectionRepository interface {
	GetByName(ctx context.Context, namespace, name string) (models.Collection, error)
	GetVersions(ctx context.Context, namespace, name string) ([]*semver.Version, error)
	SaveVersion(ctx context.Context, taskID uuid.UUID, version models.CollectionVersion) error
}

// ContentRepository reads existing content items (for role dependency
// resolution) and replaces the stored content set of one repository.
// Replace performs a full diff/replace of the repository's units, the
// aggregate score and all lint records in one transaction.
type ContentRepository interface {
	GetByName(ctx context.Context, namespace, name string) (models.ContentRef, error)
	Replace(ctx context.Context, taskID uuid.UUID, repo models.Repository, units []models.ContentUnit, qualityScore *float64) error
}

// ImportTaskRepository persists task lifecycle state
type ImportTaskRepository interface {
	Save(ctx context.Context, task models.ImportTask) error
	UpdateByID(ctx context.Context, task models.ImportTask) error
	GetByID(ctx context.Context, id uuid.UUID) (models.ImportTask, error)
}

// Migration runs schema migrations against the configured database
type Migration interface {
	Up(ctx context.Context) error
}
