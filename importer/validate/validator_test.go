package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"

	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/mock"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

func TestValidateUnit(t *testing.T) {
	ctx := context.Background()
	l := log.NewNoop()

	newUnit := func(meta *models.RoleMetadata) *models.ContentUnit {
		return &models.ContentUnit{
			Name:        "nginx",
			ContentType: models.ContentTypeRole,
			RoleMeta:    meta,
		}
	}

	t.Run("should pass through units without role metadata", func(t *testing.T) {
		platformRepo := new(mock.PlatformRepository)
		defer platformRepo.AssertExpectations(t)

		validator := validate.NewValidator(l, platformRepo, nil, nil)
		unit := &models.ContentUnit{ContentType: models.ContentTypeModule}

		err := validator.ValidateUnit(ctx, unit)

		assert.Nil(t, err)
		assert.Empty(t, unit.Records)
	})
	t.Run("should expand the all sentinel to every known release", func(t *testing.T) {
		platformRepo := new(mock.PlatformRepository)
		defer platformRepo.AssertExpectations(t)

		releases := []models.Platform{
			{Name: "ubuntu", Release: "bionic"},
			{Name: "ubuntu", Release: "focal"},
		}
		platformRepo.On("GetAllByName", ctx, "ubuntu").Return(releases, nil)

		validator := validate.NewValidator(l, platformRepo, new(mock.CloudPlatformRepository), new(mock.ContentRepository))
		unit := newUnit(&models.RoleMetadata{
			DeclaredPlatforms: []models.PlatformRef{{Name: "ubuntu", Versions: []string{"all"}}},
		})

		err := validator.ValidateUnit(ctx, unit)

		assert.Nil(t, err)
		assert.Equal(t, releases, unit.RoleMeta.Platforms)
		assert.Empty(t, unit.Records)
	})
	t.Run("should record an unknown platform and keep the rest", func(t *testing.T) {
		platformRepo := new(mock.PlatformRepository)
		defer platformRepo.AssertExpectations(t)

		platformRepo.On("GetByNameAndRelease", ctx, "ubuntu", "bionic").
			Return(models.Platform{Name: "ubuntu", Release: "bionic"}, nil)
		platformRepo.On("GetByNameAndRelease", ctx, "solaris", "11").
			Return(models.Platform{}, store.ErrResourceNotFound)

		validator := validate.NewValidator(l, platformRepo, new(mock.CloudPlatformRepository), new(mock.ContentRepository))
		unit := newUnit(&models.RoleMetadata{
			DeclaredPlatforms: []models.PlatformRef{
				{Name: "ubuntu", Versions: []string{"bionic"}},
				{Name: "solaris", Versions: []string{"11"}},
			},
		})

		err := validator.ValidateUnit(ctx, unit)

		assert.Nil(t, err)
		assert.Equal(t, []models.Platform{{Name: "ubuntu", Release: "bionic"}}, unit.RoleMeta.Platforms)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER101", unit.Records[0].RuleCode)
		assert.Equal(t, models.ScoreTypeMetadata, unit.Records[0].Type)
	})
	t.Run("should record an unknown cloud platform", func(t *testing.T) {
		cloudRepo := new(mock.CloudPlatformRepository)
		defer cloudRepo.AssertExpectations(t)

		cloudRepo.On("GetByName", ctx, "ec2").Return(models.CloudPlatform{Name: "ec2"}, nil)
		cloudRepo.On("GetByName", ctx, "mycloud").Return(models.CloudPlatform{}, store.ErrResourceNotFound)

		validator := validate.NewValidator(l, new(mock.PlatformRepository), cloudRepo, new(mock.ContentRepository))
		unit := newUnit(&models.RoleMetadata{
			DeclaredCloudPlatforms: []string{"ec2", "mycloud"},
		})

		err := validator.ValidateUnit(ctx, unit)

		assert.Nil(t, err)
		assert.Equal(t, []models.CloudPlatform{{Name: "ec2"}}, unit.RoleMeta.CloudPlatforms)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER102", unit.Records[0].RuleCode)
	})
	t.Run("should record an unresolved dependency", func(t *testing.T) {
		contentRepo := new(mock.ContentRepository)
		defer contentRepo.AssertExpectations(t)

		contentRepo.On("GetByName", ctx, "acme", "base").
			Return(models.ContentRef{Namespace: "acme", Name: "base"}, nil)
		contentRepo.On("GetByName", ctx, "ghost", "role").
			Return(models.ContentRef{}, store.ErrResourceNotFound)

		validator := validate.NewValidator(l, new(mock.PlatformRepository), new(mock.CloudPlatformRepository), contentRepo)
		unit := newUnit(&models.RoleMetadata{
			DeclaredDependencies: []models.DependencyRef{
				{Namespace: "acme", Name: "base"},
				{Namespace: "ghost", Name: "role"},
			},
		})

		err := validator.ValidateUnit(ctx, unit)

		assert.Nil(t, err)
		assert.Equal(t, []models.DependencyRef{{Namespace: "acme", Name: "base"}}, unit.RoleMeta.Dependencies)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER103", unit.Records[0].RuleCode)
	})
	t.Run("should propagate store failures", func(t *testing.T) {
		platformRepo := new(mock.PlatformRepository)
		defer platformRepo.AssertExpectations(t)

		platformRepo.On("GetByNameAndRelease", ctx, "ubuntu", "bionic").
			Return(models.Platform{}, errors.New("connection refused"))

		validator := validate.NewValidator(l, platformRepo, new(mock.CloudPlatformRepository), new(mock.ContentRepository))
		unit := newUnit(&models.RoleMetadata{
			DeclaredPlatforms: []models.PlatformRef{{Name: "ubuntu", Versions: []string{"bionic"}}},
		})

		err := validator.ValidateUnit(ctx, unit)

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
