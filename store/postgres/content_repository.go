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

type Repository struct {
	ID        uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	Namespace string    `gorm:"not null"`
	Name      string    `gorm:"not null"`
	CloneURL  string    `gorm:"not null"`
	Branch    string

	QualityScore *float64
	TaskID       uuid.UUID `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Repository) TableName() string {
	return "repository"
}

type RepositoryContent struct {
	ID           uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	RepositoryID uuid.UUID `gorm:"not null"`
	Namespace    string    `gorm:"not null"`

	contentFields `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null"`
}

func (RepositoryContent) TableName() string {
	return "repository_content"
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *contentRepository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) GetByName(ctx context.Context, namespace, name string) (models.ContentRef, error) {
	var row RepositoryContent
	err := repo.db.WithContext(ctx).
		Where("LOWER(namespace) = LOWER(?) AND LOWER(name) = LOWER(?)", namespace, name).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContentRef{}, store.ErrResourceNotFound
		}
		return models.ContentRef{}, err
	}
	return models.ContentRef{
		Namespace: row.Namespace,
		Name:      row.Name,
	}, nil
}

// Replace swaps the stored content set of one repository in a single
// transaction. Content of earlier runs is dropped, a failed run never
// leaves a partial set behind.
func (repo *contentRepository) Replace(ctx context.Context, taskID uuid.UUID, repoSpec models.Repository,
	units []models.ContentUnit, qualityScore *float64) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repository := Repository{
			Namespace: repoSpec.Namespace,
			Name:      repoSpec.Name,
		}
		err := tx.Where("namespace = ? AND name = ?", repoSpec.Namespace, repoSpec.Name).
			FirstOrCreate(&repository).Error
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"clone_url":     repoSpec.CloneURL,
			"branch":        repoSpec.Branch,
			"quality_score": qualityScore,
			"task_id":       taskID,
		}
		if err := tx.Model(&Repository{}).Where("id = ?", repository.ID).Updates(updates).Error; err != nil {
			return err
		}

		// stale content from earlier runs goes away with the replace
		if err := tx.Where("repository_id = ?", repository.ID).Delete(&RepositoryContent{}).Error; err != nil {
			return err
		}

		for _, unit := range units {
			fields, err := contentFields{}.FromUnit(unit)
			if err != nil {
				return err
			}
			content := RepositoryContent{
				RepositoryID:  repository.ID,
				Namespace:     repoSpec.Namespace,
				contentFields: fields,
			}
			if err := tx.Create(&content).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
