package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odpf/salt/log"
	yaml "gopkg.in/yaml.v2"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/readme"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/utils"
)

// APBSpecVersion is the descriptor version this loader understands
const APBSpecVersion = "1.0"

var apbAsyncValues = []string{"optional", "required", "unsupported"}

// secondary descriptor keys that only produce warnings when absent
var apbSoftMetadataKeys = []string{"displayName", "longDescription", "imageUrl"}

type apbDescriptor struct {
	Version     *string                `yaml:"version"`
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Bindable    *bool                  `yaml:"bindable"`
	Async       *string                `yaml:"async"`
	Metadata    map[string]interface{} `yaml:"metadata"`
	Plans       []apbPlan              `yaml:"plans"`
	Tags        []string               `yaml:"tags"`
}

type apbPlan struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Free        *bool                  `yaml:"free"`
	Metadata    map[string]interface{} `yaml:"metadata"`
	Parameters  []interface{}          `yaml:"parameters"`
}

// APBLoader parses one apb.yml descriptor
type APBLoader struct {
	l log.Logger
}

func NewAPBLoader(l log.Logger) *APBLoader {
	return &APBLoader{l: l}
}

func (*APBLoader) ContentTypes() []models.ContentType {
	return []models.ContentType{models.ContentTypeAPB}
}

func (ld *APBLoader) Load(root string, res finder.Result) (models.ContentUnit, error) {
	dir := filepath.Join(root, res.Path)

	metaPath := ""
	if p, ok := res.Extra["metadata_path"].(string); ok {
		metaPath = filepath.Join(dir, p)
	} else if p, ok := utils.FirstExistingFile(dir, []string{"apb.yml", "apb.yaml"}); ok {
		metaPath = p
	}
	if metaPath == "" {
		return models.ContentUnit{}, ld.fieldErr(res.Path, "apb.yml", "descriptor file not found")
	}

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return models.ContentUnit{}, ld.fieldErr(res.Path, "apb.yml", "unable to read descriptor")
	}

	var desc apbDescriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return models.ContentUnit{}, ld.fieldErr(res.Path, "apb.yml", fmt.Sprintf("descriptor is not a valid mapping: %v", err))
	}

	if err := ld.validate(res.Path, desc); err != nil {
		return models.ContentUnit{}, err
	}
	ld.softChecks(desc)

	unit := models.ContentUnit{
		Name:         normalizeName(desc.Name),
		OriginalName: desc.Name,
		ContentType:  models.ContentTypeAPB,
		Path:         res.Path,
		Description:  desc.Description,
		Metadata: map[string]interface{}{
			"apb": map[string]interface{}{
				"version":  *desc.Version,
				"bindable": *desc.Bindable,
				"async":    *desc.Async,
				"metadata": desc.Metadata,
				"tags":     desc.Tags,
				"plans":    len(desc.Plans),
			},
		},
	}

	rm, err := readme.Find(root, res.Path)
	if err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeAPB,
			Path:        res.Path,
			Msg:         err.Error(),
			Err:         err,
		}
	}
	unit.Readme = rm

	return unit, nil
}

// validate enforces the required descriptor fields with messages that
// name the offending field
func (ld *APBLoader) validate(path string, desc apbDescriptor) error {
	if desc.Version == nil {
		return ld.fieldErr(path, "version", "missing required field")
	}
	if *desc.Version != APBSpecVersion {
		return ld.fieldErr(path, "version", fmt.Sprintf("unsupported descriptor version %q, expected %q", *desc.Version, APBSpecVersion))
	}
	if desc.Name == "" {
		return ld.fieldErr(path, "name", "missing required field")
	}
	if desc.Bindable == nil {
		return ld.fieldErr(path, "bindable", "missing required field")
	}
	if desc.Async == nil {
		return ld.fieldErr(path, "async", "missing required field")
	}
	if !utils.ContainsString(apbAsyncValues, *desc.Async) {
		return ld.fieldErr(path, "async", fmt.Sprintf("value %q is not one of %v", *desc.Async, apbAsyncValues))
	}
	if desc.Metadata == nil {
		return ld.fieldErr(path, "metadata", "missing required field")
	}
	if len(desc.Plans) == 0 {
		return ld.fieldErr(path, "plans", "at least one plan is required")
	}
	for i, plan := range desc.Plans {
		if plan.Name == "" {
			return ld.fieldErr(path, fmt.Sprintf("plans[%d].name", i), "missing required field")
		}
	}
	return nil
}

// softChecks warns about missing secondary keys without failing the
// load
func (ld *APBLoader) softChecks(desc apbDescriptor) {
	for _, key := range apbSoftMetadataKeys {
		if _, ok := desc.Metadata[key]; !ok {
			ld.l.Warn("apb descriptor metadata is missing a recommended key", "key", key)
		}
	}
	for i, plan := range desc.Plans {
		if plan.Metadata == nil {
			ld.l.Warn("apb plan has no metadata", "plan", i)
		}
	}
}

func (*APBLoader) fieldErr(path, field, msg string) *APBLoadError {
	return &APBLoadError{
		LoadError: LoadError{
			ContentType: models.ContentTypeAPB,
			Path:        path,
			Msg:         msg,
		},
		Field: field,
	}
}
