package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

type ImportTask struct {
	ID    uuid.UUID `gorm:"primary_key;type:uuid"`
	Kind  string    `gorm:"not null"`
	State string    `gorm:"not null"`

	Error   string
	Summary datatypes.JSON

	StartedAt  time.Time `gorm:"not null"`
	FinishedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ImportTask) TableName() string {
	return "import_task"
}

func (ImportTask) FromSpec(spec models.ImportTask) (ImportTask, error) {
	summary, err := toJSON(spec.Summary)
	if err != nil {
		return ImportTask{}, err
	}
	task := ImportTask{
		ID:        spec.ID,
		Kind:      spec.Kind.String(),
		State:     spec.State.String(),
		Error:     spec.Error,
		Summary:   summary,
		StartedAt: spec.StartedAt,
	}
	if !spec.FinishedAt.IsZero() {
		finishedAt := spec.FinishedAt
		task.FinishedAt = &finishedAt
	}
	return task, nil
}

func (t ImportTask) ToSpec() (models.ImportTask, error) {
	task := models.ImportTask{
		ID:        t.ID,
		Kind:      models.ImportKind(t.Kind),
		State:     models.ImportTaskState(t.State),
		Error:     t.Error,
		StartedAt: t.StartedAt,
	}
	if err := fromJSON(t.Summary, &task.Summary); err != nil {
		return models.ImportTask{}, err
	}
	if t.FinishedAt != nil {
		task.FinishedAt = *t.FinishedAt
	}
	return task, nil
}

type importTaskRepository struct {
	db *gorm.DB
}

func NewImportTaskRepository(db *gorm.DB) *importTaskRepository {
	return &importTaskRepository{db: db}
}

func (repo *importTaskRepository) Save(ctx context.Context, spec models.ImportTask) error {
	task, err := ImportTask{}.FromSpec(spec)
	if err != nil {
		return err
	}
	return repo.db.WithContext(ctx).Create(&task).Error
}

func (repo *importTaskRepository) UpdateByID(ctx context.Context, spec models.ImportTask) error {
	task, err := ImportTask{}.FromSpec(spec)
	if err != nil {
		return err
	}
	result := repo.db.WithContext(ctx).Model(&ImportTask{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"state":       task.State,
			"error":       task.Error,
			"summary":     task.Summary,
			"finished_at": task.FinishedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrResourceNotFound
	}
	return nil
}

func (repo *importTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (models.ImportTask, error) {
	var task ImportTask
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ImportTask{}, store.ErrResourceNotFound
		}
		return models.ImportTask{}, err
	}
	return task.ToSpec()
}
