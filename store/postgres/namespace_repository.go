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

type Namespace struct {
	ID   uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	Name string    `gorm:"not null;unique"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Namespace) TableName() string {
	return "namespace"
}

type namespaceRepository struct {
	db *gorm.DB
}

func NewNamespaceRepository(db *gorm.DB) *namespaceRepository {
	return &namespaceRepository{db: db}
}

func (repo *namespaceRepository) GetByName(ctx context.Context, name string) (models.Namespace, error) {
	var row Namespace
	if err := repo.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Namespace{}, store.ErrResourceNotFound
		}
		return models.Namespace{}, err
	}
	return models.Namespace{Name: row.Name}, nil
}
