package finder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/utils"
)

var (
	// ErrNoMatch signals that a finder strategy does not apply to the
	// given tree. It is a value checked by Discover, not a failure.
	ErrNoMatch = errors.New("no matching content found")

	// ErrNoImportableContent is returned when every strategy came up
	// empty
	ErrNoImportableContent = errors.New("no importable content found")
)

// RoleMetaFilenames are the recognized role metadata files, tried in
// this exact order
var RoleMetaFilenames = []string{
	filepath.Join("meta", "main.yml"),
	filepath.Join("meta", "main.yaml"),
	"meta.yml",
	"meta.yaml",
}

// Result is one discovered candidate content unit
type Result struct {
	ContentType models.ContentType
	// Path is relative to the scanned root; "." means the root itself
	// is the unit
	Path  string
	Extra map[string]interface{}
}

// Finder discovers candidate content units by one directory/file
// convention
type Finder interface {
	Name() string
	Find(root string) ([]Result, error)
}

// Discover tries the known finder strategies in priority order and
// returns the results of the first one that matched
func Discover(root string, l log.Logger) (string, []Result, error) {
	finders := []Finder{
		&ManifestFinder{},
		&APBFinder{},
		&RoleFinder{},
		&DirectoryFinder{},
	}
	for _, f := range finders {
		results, err := f.Find(root)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				l.Debug("finder did not match", "finder", f.Name())
				continue
			}
			return "", nil, errors.Wrapf(err, "finder %s", f.Name())
		}
		if len(results) == 0 {
			continue
		}
		return f.Name(), results, nil
	}
	return "", nil, ErrNoImportableContent
}

// ManifestFinder matches a collection tree carrying a MANIFEST.json and
// scans its roles/ and plugins/ directories
type ManifestFinder struct{}

func (*ManifestFinder) Name() string { return "manifest" }

// plugin directory names inside a collection's plugins/ tree
var collectionPluginDirs = map[string]models.ContentType{
	"modules":      models.ContentTypeModule,
	"module_utils": models.ContentTypeModuleUtils,
	"action":       models.ContentTypeActionPlugin,
	"cache":        models.ContentTypeCachePlugin,
	"callback":     models.ContentTypeCallbackPlugin,
	"cliconf":      models.ContentTypeCliconfPlugin,
	"connection":   models.ContentTypeConnectionPlugin,
	"filter":       models.ContentTypeFilterPlugin,
	"httpapi":      models.ContentTypeHttpapiPlugin,
	"inventory":    models.ContentTypeInventoryPlugin,
	"lookup":       models.ContentTypeLookupPlugin,
	"netconf":      models.ContentTypeNetconfPlugin,
	"shell":        models.ContentTypeShellPlugin,
	"strategy":     models.ContentTypeStrategyPlugin,
	"terminal":     models.ContentTypeTerminalPlugin,
	"test":         models.ContentTypeTestPlugin,
	"vars":         models.ContentTypeVarsPlugin,
}

func (f *ManifestFinder) Find(root string) ([]Result, error) {
	if _, err := os.Stat(filepath.Join(root, "MANIFEST.json")); err != nil {
		return nil, ErrNoMatch
	}

	var results []Result
	roleResults, err := scanRolesDir(root, "roles")
	if err != nil {
		return nil, err
	}
	results = append(results, roleResults...)

	pluginsRoot := filepath.Join(root, "plugins")
	if utils.IsDir(pluginsRoot) {
		entries, err := os.ReadDir(pluginsRoot)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			contentType, ok := collectionPluginDirs[entry.Name()]
			if !ok {
				continue
			}
			pluginResults, err := scanPythonDir(root, filepath.Join("plugins", entry.Name()), contentType)
			if err != nil {
				return nil, err
			}
			results = append(results, pluginResults...)
		}
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	return results, nil
}

// APBFinder matches a tree holding a single Ansible Playbook Bundle
// descriptor at its top level
type APBFinder struct{}

func (*APBFinder) Name() string { return "apb" }

func (f *APBFinder) Find(root string) ([]Result, error) {
	name, ok := utils.FirstExistingFile(root, []string{"apb.yml", "apb.yaml"})
	if !ok {
		return nil, ErrNoMatch
	}
	return []Result{{
		ContentType: models.ContentTypeAPB,
		Path:        ".",
		Extra: map[string]interface{}{
			"metadata_path": filepath.Base(name),
		},
	}}, nil
}

// RoleFinder matches a tree that is itself one role, i.e. carries a
// role metadata file at its top level
type RoleFinder struct{}

func (*RoleFinder) Name() string { return "role" }

func (f *RoleFinder) Find(root string) ([]Result, error) {
	metaPath, ok := utils.FirstExistingFile(root, RoleMetaFilenames)
	if !ok {
		return nil, ErrNoMatch
	}
	rel, _ := filepath.Rel(root, metaPath)
	return []Result{{
		ContentType: models.ContentTypeRole,
		Path:        ".",
		Extra: map[string]interface{}{
			"metadata_path": rel,
		},
	}}, nil
}

// DirectoryFinder matches a multi-content tree laid out with one
// directory per content type: roles/, library/, module_utils/ and
// <type>_plugins/
type DirectoryFinder struct{}

func (*DirectoryFinder) Name() string { return "directory" }

func (f *DirectoryFinder) Find(root string) ([]Result, error) {
	var results []Result

	roleResults, err := scanRolesDir(root, models.ContentTypeRole.Directory())
	if err != nil {
		return nil, err
	}
	results = append(results, roleResults...)

	moduleResults, err := scanPythonDir(root, models.ContentTypeModule.Directory(), models.ContentTypeModule)
	if err != nil {
		return nil, err
	}
	results = append(results, moduleResults...)

	utilResults, err := scanPythonDir(root, models.ContentTypeModuleUtils.Directory(), models.ContentTypeModuleUtils)
	if err != nil {
		return nil, err
	}
	results = append(results, utilResults...)

	for _, pluginType := range models.PluginContentTypes {
		pluginResults, err := scanPythonDir(root, pluginType.Directory(), pluginType)
		if err != nil {
			return nil, err
		}
		results = append(results, pluginResults...)
	}

	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	return results, nil
}

// scanRolesDir finds one role per subdirectory of dir that carries a
// recognized metadata file
func scanRolesDir(root, dir string) ([]Result, error) {
	rolesRoot := filepath.Join(root, dir)
	if !utils.IsDir(rolesRoot) {
		return nil, nil
	}
	entries, err := os.ReadDir(rolesRoot)
	if err != nil {
		return nil, err
	}
	var results []Result
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		roleDir := filepath.Join(rolesRoot, entry.Name())
		metaPath, ok := utils.FirstExistingFile(roleDir, RoleMetaFilenames)
		if !ok {
			continue
		}
		rel, _ := filepath.Rel(roleDir, metaPath)
		results = append(results, Result{
			ContentType: models.ContentTypeRole,
			Path:        filepath.Join(dir, entry.Name()),
			Extra: map[string]interface{}{
				"metadata_path": rel,
			},
		})
	}
	return results, nil
}

// scanPythonDir finds one unit per python source file directly under
// dir, skipping dunder files
func scanPythonDir(root, dir string, contentType models.ContentType) ([]Result, error) {
	typeRoot := filepath.Join(root, dir)
	if !utils.IsDir(typeRoot) {
		return nil, nil
	}
	entries, err := os.ReadDir(typeRoot)
	if err != nil {
		return nil, err
	}
	var results []Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, "__") {
			continue
		}
		results = append(results, Result{
			ContentType: contentType,
			Path:        filepath.Join(dir, name),
		})
	}
	return results, nil
}
