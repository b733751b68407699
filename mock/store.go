package mock

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/galaxyhub/importer/models"
)

type PlatformRepository struct {
	mock.Mock
}

func (pr *PlatformRepository) GetAllByName(ctx context.Context, name string) ([]models.Platform, error) {
	args := pr.Called(ctx, name)
	return args.Get(0).([]models.Platform), args.Error(1)
}

func (pr *PlatformRepository) GetByNameAndRelease(ctx context.Context, name, release string) (models.Platform, error) {
	args := pr.Called(ctx, name, release)
	return args.Get(0).(models.Platform), args.Error(1)
}

type CloudPlatformRepository struct {
	mock.Mock
}

func (cr *CloudPlatformRepository) GetByName(ctx context.Context, name string) (models.CloudPlatform, error) {
	args := cr.Called(ctx, name)
	return args.Get(0).(models.CloudPlatform), args.Error(1)
}

type NamespaceRepository struct {
	mock.Mock
}

func (nr *NamespaceRepository) GetByName(ctx context.Context, name string) (models.Namespace, error) {
	args := nr.Called(ctx, name)
	return args.Get(0).(models.Namespace), args.Error(1)
}

type CollectionRepository struct {
	mock.Mock
}

func (cr *CollectionRepository) GetByName(ctx context.Context, namespace, name string) (models.Collection, error) {
	args := cr.Called(ctx, namespace, name)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (cr *CollectionRepository) GetVersions(ctx context.Context, namespace, name string) ([]*semver.Version, error) {
	args := cr.Called(ctx, namespace, name)
	return args.Get(0).([]*semver.Version), args.Error(1)
}

func (cr *CollectionRepository) SaveVersion(ctx context.Context, taskID uuid.UUID, version models.CollectionVersion) error {
	return cr.Called(ctx, taskID, version).Error(0)
}

type ContentRepository struct {
	mock.Mock
}

func (cr *ContentRepository) GetByName(ctx context.Context, namespace, name string) (models.ContentRef, error) {
	args := cr.Called(ctx, namespace, name)
	return args.Get(0).(models.ContentRef), args.Error(1)
}

func (cr *ContentRepository) Replace(ctx context.Context, taskID uuid.UUID, repo models.Repository,
	units []models.ContentUnit, qualityScore *float64) error {
	return cr.Called(ctx, taskID, repo, units, qualityScore).Error(0)
}

type ImportTaskRepository struct {
	mock.Mock
}

func (tr *ImportTaskRepository) Save(ctx context.Context, task models.ImportTask) error {
	return tr.Called(ctx, task).Error(0)
}

func (tr *ImportTaskRepository) UpdateByID(ctx context.Context, task models.ImportTask) error {
	return tr.Called(ctx, task).Error(0)
}

func (tr *ImportTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (models.ImportTask, error) {
	args := tr.Called(ctx, id)
	return args.Get(0).(models.ImportTask), args.Error(1)
}
