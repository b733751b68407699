package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odpf/salt/log"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/models"
)

// PluginLoader parses python-backed units: modules, module utils and
// every plugin flavour. The source file is scanned statically for its
// DOCUMENTATION and ANSIBLE_METADATA blocks, never executed.
type PluginLoader struct {
	l log.Logger
}

func NewPluginLoader(l log.Logger) *PluginLoader {
	return &PluginLoader{l: l}
}

func (*PluginLoader) ContentTypes() []models.ContentType {
	types := []models.ContentType{
		models.ContentTypeModule,
		models.ContentTypeModuleUtils,
	}
	return append(types, models.PluginContentTypes...)
}

func (ld *PluginLoader) Load(root string, res finder.Result) (models.ContentUnit, error) {
	sourcePath := filepath.Join(root, res.Path)

	name := strings.TrimSuffix(filepath.Base(res.Path), ".py")
	unit := models.ContentUnit{
		Name:         name,
		OriginalName: name,
		ContentType:  res.ContentType,
		Path:         res.Path,
		Metadata:     map[string]interface{}{},
	}

	blocks, err := scanPythonDoc(sourcePath)
	if err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: res.ContentType,
			Path:        res.Path,
			Msg:         err.Error(),
			Err:         err,
		}
	}

	if raw, ok := blocks["DOCUMENTATION"]; ok {
		doc, err := parseDocBlock(raw)
		if err != nil {
			ld.warnParse(&unit, "DOCUMENTATION", err)
		} else {
			unit.Metadata["documentation"] = doc
			if short, ok := doc["short_description"].(string); ok {
				unit.Description = short
			}
		}
	}

	if res.ContentType == models.ContentTypeModule {
		if raw, ok := blocks["ANSIBLE_METADATA"]; ok {
			meta, err := parseDocBlock(raw)
			if err != nil {
				ld.warnParse(&unit, "ANSIBLE_METADATA", err)
			} else {
				unit.Metadata["ansible_metadata"] = meta
			}
		}
	}

	return unit, nil
}

// warnParse records an unparsable documentation block, the unit still
// loads with empty documentation
func (ld *PluginLoader) warnParse(unit *models.ContentUnit, block string, err error) {
	ld.l.Warn("unable to parse documentation block", "block", block, "path", unit.Path, "error", err)
	unit.AddRecord(score.NewRecord(ld.l, "importer", "IMPORTER106",
		fmt.Sprintf("unable to parse %s block: %v", block, err)))
}
