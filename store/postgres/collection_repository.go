package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

const uniqueViolationCode = "23505"

type Collection struct {
	ID        uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	Namespace string    `gorm:"not null"`
	Name      string    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Collection) TableName() string {
	return "collection"
}

func (c Collection) ToSpec() models.Collection {
	return models.Collection{
		Namespace: c.Namespace,
		Name:      c.Name,
	}
}

type CollectionVersion struct {
	ID           uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	CollectionID uuid.UUID `gorm:"not null"`
	Version      string    `gorm:"not null"`

	Metadata     datatypes.JSON `gorm:"not null"`
	Readme       datatypes.JSON
	QualityScore *float64
	TaskID       uuid.UUID `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CollectionVersion) TableName() string {
	return "collection_version"
}

func (CollectionVersion) FromSpec(collectionID, taskID uuid.UUID, spec models.CollectionVersion) (CollectionVersion, error) {
	metadata, err := toJSON(spec.Metadata)
	if err != nil {
		return CollectionVersion{}, err
	}
	readme, err := toJSON(spec.Readme)
	if err != nil {
		return CollectionVersion{}, err
	}
	return CollectionVersion{
		CollectionID: collectionID,
		Version:      spec.Version.String(),
		Metadata:     metadata,
		Readme:       readme,
		QualityScore: spec.QualityScore,
		TaskID:       taskID,
	}, nil
}

type CollectionContent struct {
	ID        uuid.UUID `gorm:"primary_key;type:uuid;default:uuid_generate_v4()"`
	VersionID uuid.UUID `gorm:"not null"`

	contentFields `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null"`
}

func (CollectionContent) TableName() string {
	return "collection_content"
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *collectionRepository {
	return &collectionRepository{db: db}
}

func (repo *collectionRepository) GetByName(ctx context.Context, namespace, name string) (models.Collection, error) {
	var row Collection
	err := repo.db.WithContext(ctx).
		Where("namespace = ? AND name = ?", namespace, name).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Collection{}, store.ErrResourceNotFound
		}
		return models.Collection{}, err
	}
	return row.ToSpec(), nil
}

func (repo *collectionRepository) GetVersions(ctx context.Context, namespace, name string) ([]*semver.Version, error) {
	var rows []CollectionVersion
	err := repo.db.WithContext(ctx).
		Joins("JOIN collection ON collection.id = collection_version.collection_id").
		Where("collection.namespace = ? AND collection.name = ?", namespace, name).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	versions := make([]*semver.Version, 0, len(rows))
	for _, row := range rows {
		version, err := semver.StrictNewVersion(row.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "stored version %q is not valid semver", row.Version)
		}
		versions = append(versions, version)
	}
	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// SaveVersion writes the version row and all its contents in one
// transaction. A (collection, version) conflict surfaces as
// store.ErrVersionExists, nothing is written in that case.
func (repo *collectionRepository) SaveVersion(ctx context.Context, taskID uuid.UUID, spec models.CollectionVersion) error {
	collection, err := repo.ensureCollection(ctx, spec.Namespace, spec.Name)
	if err != nil {
		return err
	}

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := CollectionVersion{}.FromSpec(collection.ID, taskID, spec)
		if err != nil {
			return err
		}
		if err := tx.Create(&version).Error; err != nil {
			if isUniqueViolation(err) {
				return store.ErrVersionExists
			}
			return err
		}

		for _, unit := range spec.Contents {
			fields, err := contentFields{}.FromUnit(unit)
			if err != nil {
				return err
			}
			content := CollectionContent{
				VersionID:     version.ID,
				contentFields: fields,
			}
			if err := tx.Create(&content).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureCollection resolves the collection row, creating it on first
// import. Two first imports can race on the unique (namespace, name)
// index; the loser re-reads the winner's row so a later version
// conflict still surfaces as store.ErrVersionExists. The create runs
// outside the version transaction, a unique violation would abort it.
func (repo *collectionRepository) ensureCollection(ctx context.Context, namespace, name string) (Collection, error) {
	collection := Collection{
		Namespace: namespace,
		Name:      name,
	}
	err := repo.db.WithContext(ctx).
		Where("namespace = ? AND name = ?", namespace, name).
		FirstOrCreate(&collection).Error
	if err == nil {
		return collection, nil
	}
	if !isUniqueViolation(err) {
		return Collection{}, err
	}
	err = repo.db.WithContext(ctx).
		Where("namespace = ? AND name = ?", namespace, name).
		First(&collection).Error
	return collection, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
