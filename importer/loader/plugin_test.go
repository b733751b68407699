package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/loader"
	"github.com/galaxyhub/importer/models"
)

func writePlugin(t *testing.T, root, relPath, content string) finder.Result {
	t.Helper()
	path := filepath.Join(root, relPath)
	assert.Nil(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return finder.Result{
		ContentType: models.ContentTypeModule,
		Path:        relPath,
	}
}

func TestPluginLoader(t *testing.T) {
	l := log.NewNoop()

	t.Run("should extract documentation and metadata blocks", func(t *testing.T) {
		root := t.TempDir()
		res := writePlugin(t, root, filepath.Join("library", "my_module.py"), `#!/usr/bin/python

ANSIBLE_METADATA = {'metadata_version': '1.1'}

DOCUMENTATION = '''
module: my_module
short_description: does a thing
options:
  state:
    description: target state
'''

def main():
    pass
`)

		unit, err := loader.NewPluginLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, "my_module", unit.Name)
		assert.Equal(t, "does a thing", unit.Description)
		doc := unit.Metadata["documentation"].(map[string]interface{})
		assert.Equal(t, "my_module", doc["module"])
		assert.Empty(t, unit.Records)
	})
	t.Run("should record a diagnostic on an unparsable block", func(t *testing.T) {
		root := t.TempDir()
		res := writePlugin(t, root, filepath.Join("library", "broken.py"), `
DOCUMENTATION = '''
module: [broken
'''
`)

		unit, err := loader.NewPluginLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER106", unit.Records[0].RuleCode)
		assert.Nil(t, unit.Metadata["documentation"])
	})
	t.Run("should handle a raw string documentation block", func(t *testing.T) {
		root := t.TempDir()
		res := writePlugin(t, root, filepath.Join("library", "raw_doc.py"), `
DOCUMENTATION = r'''
module: raw_doc
short_description: raw doc
'''
`)

		unit, err := loader.NewPluginLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, "raw doc", unit.Description)
	})
	t.Run("should load a unit without any documentation", func(t *testing.T) {
		root := t.TempDir()
		res := writePlugin(t, root, filepath.Join("library", "plain.py"), "def main():\n    pass\n")

		unit, err := loader.NewPluginLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, "plain", unit.Name)
		assert.Empty(t, unit.Description)
	})
}
