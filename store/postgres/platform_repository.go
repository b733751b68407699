package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

type Platform struct {
	ID      uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	Name    string    `gorm:"not null"`
	Release string    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Platform) TableName() string {
	return "platform"
}

func (p Platform) ToSpec() models.Platform {
	return models.Platform{
		Name:    p.Name,
		Release: p.Release,
	}
}

type platformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) *platformRepository {
	return &platformRepository{db: db}
}

func (repo *platformRepository) GetAllByName(ctx context.Context, name string) ([]models.Platform, error) {
	var rows []Platform
	if err := repo.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrResourceNotFound
	}

	specs := make([]models.Platform, 0, len(rows))
	for _, row := range rows {
		specs = append(specs, row.ToSpec())
	}
	return specs, nil
}

func (repo *platformRepository) GetByNameAndRelease(ctx context.Context, name, release string) (models.Platform, error) {
	var row Platform
	err := repo.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND LOWER(release) = LOWER(?)", name, release).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Platform{}, store.ErrResourceNotFound
		}
		return models.Platform{}, err
	}
	return row.ToSpec(), nil
}
