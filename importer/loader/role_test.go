package loader_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/loader"
	"github.com/galaxyhub/importer/models"
)

func writeRoleMeta(t *testing.T, root, content string) finder.Result {
	t.Helper()
	metaPath := filepath.Join(root, "meta", "main.yml")
	assert.Nil(t, os.MkdirAll(filepath.Dir(metaPath), 0o755))
	assert.Nil(t, os.WriteFile(metaPath, []byte(content), 0o644))
	return finder.Result{
		ContentType: models.ContentTypeRole,
		Path:        ".",
		Extra: map[string]interface{}{
			"metadata_path": filepath.Join("meta", "main.yml"),
		},
	}
}

func TestRoleLoader(t *testing.T) {
	l := log.NewNoop()

	t.Run("should load galaxy info fields", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
galaxy_info:
  author: jane
  company: acme
  description: installs nginx
  license: MIT
  min_ansible_version: 2.4
  galaxy_tags: [web, nginx]
  platforms:
    - name: Ubuntu
      versions: [bionic, focal]
    - name: Debian
  cloud_platforms: [EC2]
dependencies:
  - geerlingguy.java
  - role: acme.base
  - src: acme.common
`)
		res.Extra["name"] = "ansible-role-nginx"

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, "ansible_role_nginx", unit.Name)
		assert.Equal(t, "ansible-role-nginx", unit.OriginalName)
		assert.Equal(t, "installs nginx", unit.Description)
		assert.Equal(t, "jane", unit.RoleMeta.Author)
		assert.Equal(t, "2.4", unit.RoleMeta.MinAnsibleVersion)
		assert.Equal(t, []string{"web", "nginx"}, unit.RoleMeta.Tags)
		assert.Equal(t, []models.PlatformRef{
			{Name: "Ubuntu", Versions: []string{"bionic", "focal"}},
			{Name: "Debian", Versions: []string{"all"}},
		}, unit.RoleMeta.DeclaredPlatforms)
		assert.Equal(t, []string{"EC2"}, unit.RoleMeta.DeclaredCloudPlatforms)
		assert.Equal(t, []models.DependencyRef{
			{Namespace: "geerlingguy", Name: "java"},
			{Namespace: "acme", Name: "base"},
			{Namespace: "acme", Name: "common"},
		}, unit.RoleMeta.DeclaredDependencies)
	})
	t.Run("should drop tags not matching the repository pattern", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
galaxy_info:
  galaxy_tags: [web, Web-Server, database]
`)

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, []string{"web", "database"}, unit.RoleMeta.Tags)
		assert.Empty(t, unit.Records)
	})
	t.Run("should truncate the tag list and record a diagnostic", func(t *testing.T) {
		tags := make([]string, 0, loader.MaxTags+3)
		for i := 0; i < loader.MaxTags+3; i++ {
			tags = append(tags, fmt.Sprintf("tag%d", i))
		}
		root := t.TempDir()
		res := writeRoleMeta(t, root, fmt.Sprintf("galaxy_info:\n  galaxy_tags: [%s]\n", strings.Join(tags, ", ")))

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Len(t, unit.RoleMeta.Tags, loader.MaxTags)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER104", unit.Records[0].RuleCode)
	})
	t.Run("should accept collection style tags when the relaxed pattern is set", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
galaxy_info:
  galaxy_tags: [Web:Server]
`)

		roleLoader := loader.NewRoleLoader(l)
		roleLoader.TagPattern = loader.CollectionTagPattern
		unit, err := roleLoader.Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, []string{"Web:Server"}, unit.RoleMeta.Tags)
	})
	t.Run("should fall back to categories when no galaxy_tags are declared", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
galaxy_info:
  categories: [monitoring]
`)

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, []string{"monitoring"}, unit.RoleMeta.Tags)
	})
	t.Run("should convert recognized video links to embeddable form", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
galaxy_info:
  video_links:
    - url: https://www.youtube.com/watch?v=abc123
      title: walkthrough
    - url: https://youtu.be/def456
      title: short
    - url: https://vimeo.com/789
      title: vimeo demo
    - url: https://drive.google.com/file/d/xyz/view
      title: drive demo
    - url: https://example.com/video.mp4
      title: unknown host
`)

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, []models.VideoLink{
			{URL: "https://www.youtube.com/embed/abc123", Description: "walkthrough"},
			{URL: "https://www.youtube.com/embed/def456", Description: "short"},
			{URL: "https://player.vimeo.com/video/789", Description: "vimeo demo"},
			{URL: "https://drive.google.com/file/d/xyz/preview", Description: "drive demo"},
		}, unit.RoleMeta.Videos)
		assert.Len(t, unit.Records, 1)
		assert.Equal(t, "IMPORTER105", unit.Records[0].RuleCode)
	})
	t.Run("should fail on a role dependency without a namespace", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, `
dependencies:
  - nginx
`)

		_, err := loader.NewRoleLoader(l).Load(root, res)

		assert.NotNil(t, err)
	})
	t.Run("should fail on unparsable metadata", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, "galaxy_info: [\n")

		_, err := loader.NewRoleLoader(l).Load(root, res)

		var loadErr *loader.LoadError
		assert.ErrorAs(t, err, &loadErr)
	})
	t.Run("should name a root level unit after the directory", func(t *testing.T) {
		root := t.TempDir()
		res := writeRoleMeta(t, root, "galaxy_info:\n  description: d\n")

		unit, err := loader.NewRoleLoader(l).Load(root, res)

		assert.Nil(t, err)
		assert.Equal(t, strings.ToLower(filepath.Base(root)), strings.ToLower(unit.OriginalName))
	})
}
