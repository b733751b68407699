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

type CloudPlatform struct {
	ID   uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	Name string    `gorm:"not null;unique"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CloudPlatform) TableName() string {
	return "cloud_platform"
}

type cloudPlatformRepository struct {
	db *gorm.DB
}

func NewCloudPlatformRepository(db *gorm.DB) *cloudPlatformRepository {
	return &cloudPlatformRepository{db: db}
}

func (repo *cloudPlatformRepository) GetByName(ctx context.Context, name string) (models.CloudPlatform, error) {
	var row CloudPlatform
	if err := repo.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CloudPlatform{}, store.ErrResourceNotFound
		}
		return models.CloudPlatform{}, err
	}
	return models.CloudPlatform{Name: row.Name}, nil
}
