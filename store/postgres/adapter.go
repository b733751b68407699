package postgres

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/galaxyhub/importer/models"
)

// contentFields is the column set shared by collection and repository
// content rows. Nested structures are stored as JSON documents, the
// importer always writes them whole.
type contentFields struct {
	Name         string `gorm:"not null"`
	OriginalName string `gorm:"not null"`
	ContentType  string `gorm:"not null"`
	Path         string `gorm:"not null"`
	Description  string

	Readme   datatypes.JSON
	RoleMeta datatypes.JSON
	Metadata datatypes.JSON
	Records  datatypes.JSON
	Scores   datatypes.JSON
}

func (contentFields) FromUnit(unit models.ContentUnit) (contentFields, error) {
	fields := contentFields{
		Name:         unit.Name,
		OriginalName: unit.OriginalName,
		ContentType:  unit.ContentType.String(),
		Path:         unit.Path,
		Description:  unit.Description,
	}

	var err error
	if fields.Readme, err = toJSON(unit.Readme); err != nil {
		return contentFields{}, err
	}
	if fields.RoleMeta, err = toJSON(unit.RoleMeta); err != nil {
		return contentFields{}, err
	}
	if fields.Metadata, err = toJSON(unit.Metadata); err != nil {
		return contentFields{}, err
	}
	if fields.Records, err = toJSON(unit.Records); err != nil {
		return contentFields{}, err
	}
	if fields.Scores, err = toJSON(unit.Scores); err != nil {
		return contentFields{}, err
	}
	return fields, nil
}

func (f contentFields) ToUnit() (models.ContentUnit, error) {
	contentType, err := models.ParseContentType(f.ContentType)
	if err != nil {
		return models.ContentUnit{}, err
	}
	unit := models.ContentUnit{
		Name:         f.Name,
		OriginalName: f.OriginalName,
		ContentType:  contentType,
		Path:         f.Path,
		Description:  f.Description,
	}
	if err := fromJSON(f.Readme, &unit.Readme); err != nil {
		return models.ContentUnit{}, err
	}
	if err := fromJSON(f.RoleMeta, &unit.RoleMeta); err != nil {
		return models.ContentUnit{}, err
	}
	if err := fromJSON(f.Metadata, &unit.Metadata); err != nil {
		return models.ContentUnit{}, err
	}
	if err := fromJSON(f.Records, &unit.Records); err != nil {
		return models.ContentUnit{}, err
	}
	if err := fromJSON(f.Scores, &unit.Scores); err != nil {
		return models.ContentUnit{}, err
	}
	return unit, nil
}

func toJSON(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonBytes, nil
}

func fromJSON(raw datatypes.JSON, target interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
