package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/odpf/salt/log"
	yaml "gopkg.in/yaml.v2"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/readme"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/utils"
)

const (
	// MaxTags is the number of tags kept per role, the remainder is
	// dropped with a warning
	MaxTags = 20
)

var (
	// repoTagPattern is the restrictive tag shape for repository roles
	repoTagPattern = regexp.MustCompile(`^[a-z0-9]+$`)
	// CollectionTagPattern is the relaxed shape used by the
	// collection-aware loader
	CollectionTagPattern = regexp.MustCompile(`^[a-zA-Z0-9:]+$`)

	videoPatterns = []struct {
		re    *regexp.Regexp
		embed string
	}{
		{regexp.MustCompile(`^https?://drive\.google\.com/file/d/([0-9A-Za-z-_]+)/?.*$`), "https://drive.google.com/file/d/%s/preview"},
		{regexp.MustCompile(`^https?://(?:www\.)?vimeo\.com/(\d+)$`), "https://player.vimeo.com/video/%s"},
		{regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=([0-9A-Za-z-_]+).*$`), "https://www.youtube.com/embed/%s"},
		{regexp.MustCompile(`^https?://youtu\.be/([0-9A-Za-z-_]+)$`), "https://www.youtube.com/embed/%s"},
	}
)

// roleMetaFile mirrors the structure of meta/main.yml
type roleMetaFile struct {
	GalaxyInfo   roleGalaxyInfo `yaml:"galaxy_info"`
	Dependencies []interface{}  `yaml:"dependencies"`
}

type roleGalaxyInfo struct {
	Author            string      `yaml:"author"`
	Company           string      `yaml:"company"`
	Description       string      `yaml:"description"`
	License           string      `yaml:"license"`
	MinAnsibleVersion interface{} `yaml:"min_ansible_version"`

	GalaxyTags []string `yaml:"galaxy_tags"`
	Categories []string `yaml:"categories"`

	Platforms []struct {
		Name     string        `yaml:"name"`
		Versions []interface{} `yaml:"versions"`
	} `yaml:"platforms"`
	CloudPlatforms []string `yaml:"cloud_platforms"`

	VideoLinks []struct {
		URL   string `yaml:"url"`
		Title string `yaml:"title"`
	} `yaml:"video_links"`
}

// RoleLoader parses role metadata into a structured unit
type RoleLoader struct {
	l log.Logger

	// TagPattern filters tags, the collection import path swaps in the
	// relaxed CollectionTagPattern
	TagPattern *regexp.Regexp
}

func NewRoleLoader(l log.Logger) *RoleLoader {
	return &RoleLoader{l: l, TagPattern: repoTagPattern}
}

func (*RoleLoader) ContentTypes() []models.ContentType {
	return []models.ContentType{models.ContentTypeRole}
}

func (ld *RoleLoader) Load(root string, res finder.Result) (models.ContentUnit, error) {
	roleDir := filepath.Join(root, res.Path)

	metaPath := ""
	if p, ok := res.Extra["metadata_path"].(string); ok {
		metaPath = filepath.Join(roleDir, p)
	} else if p, ok := utils.FirstExistingFile(roleDir, finder.RoleMetaFilenames); ok {
		metaPath = p
	}
	if metaPath == "" {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeRole,
			Path:        res.Path,
			Msg:         "no role metadata file found",
		}
	}

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeRole,
			Path:        res.Path,
			Msg:         "unable to read role metadata",
			Err:         err,
		}
	}

	var meta roleMetaFile
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeRole,
			Path:        res.Path,
			Msg:         fmt.Sprintf("role metadata is not a valid mapping: %v", err),
			Err:         err,
		}
	}

	originalName := roleName(root, res)
	unit := models.ContentUnit{
		Name:         normalizeName(originalName),
		OriginalName: originalName,
		ContentType:  models.ContentTypeRole,
		Path:         res.Path,
		Description:  meta.GalaxyInfo.Description,
		Metadata:     map[string]interface{}{},
	}

	roleMeta := &models.RoleMetadata{
		Author:            meta.GalaxyInfo.Author,
		Company:           meta.GalaxyInfo.Company,
		License:           meta.GalaxyInfo.License,
		MinAnsibleVersion: stringify(meta.GalaxyInfo.MinAnsibleVersion),
	}

	roleMeta.Tags = ld.loadTags(&unit, meta.GalaxyInfo)
	roleMeta.DeclaredPlatforms = loadPlatforms(meta.GalaxyInfo)
	roleMeta.DeclaredCloudPlatforms = meta.GalaxyInfo.CloudPlatforms
	roleMeta.Videos = ld.loadVideos(&unit, meta.GalaxyInfo)

	deps, err := parseRoleDependencies(meta.Dependencies)
	if err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeRole,
			Path:        res.Path,
			Msg:         err.Error(),
			Err:         err,
		}
	}
	roleMeta.DeclaredDependencies = deps
	unit.RoleMeta = roleMeta

	rm, err := readme.Find(root, res.Path)
	if err != nil {
		return models.ContentUnit{}, &LoadError{
			ContentType: models.ContentTypeRole,
			Path:        res.Path,
			Msg:         err.Error(),
			Err:         err,
		}
	}
	unit.Readme = rm

	return unit, nil
}

// loadTags filters tags against the active pattern and truncates the
// list to MaxTags, keeping original order
func (ld *RoleLoader) loadTags(unit *models.ContentUnit, info roleGalaxyInfo) []string {
	declared := info.GalaxyTags
	if len(declared) == 0 {
		declared = info.Categories
	}

	var tags []string
	for _, tag := range declared {
		if !ld.TagPattern.MatchString(tag) {
			ld.l.Warn("dropping tag not matching expected format", "tag", tag)
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) > MaxTags {
		ld.l.Warn("role has too many tags", "count", len(tags), "max", MaxTags)
		unit.AddRecord(score.NewRecord(ld.l, "importer", "IMPORTER104",
			fmt.Sprintf("role declares %d tags, only the first %d are kept", len(tags), MaxTags)))
		tags = tags[:MaxTags]
	}
	return tags
}

// loadPlatforms keeps platform declarations as written, the "all"
// version sentinel expands at validation time
func loadPlatforms(info roleGalaxyInfo) []models.PlatformRef {
	var refs []models.PlatformRef
	for _, p := range info.Platforms {
		if p.Name == "" {
			continue
		}
		ref := models.PlatformRef{Name: p.Name}
		for _, v := range p.Versions {
			ref.Versions = append(ref.Versions, fmt.Sprintf("%v", v))
		}
		if len(ref.Versions) == 0 {
			ref.Versions = []string{"all"}
		}
		refs = append(refs, ref)
	}
	return refs
}

// loadVideos keeps only links matching the known Google Drive, Vimeo
// and YouTube shapes, converted to their embeddable form
func (ld *RoleLoader) loadVideos(unit *models.ContentUnit, info roleGalaxyInfo) []models.VideoLink {
	var videos []models.VideoLink
	for _, link := range info.VideoLinks {
		matched := false
		for _, p := range videoPatterns {
			m := p.re.FindStringSubmatch(link.URL)
			if m == nil {
				continue
			}
			videos = append(videos, models.VideoLink{
				URL:         fmt.Sprintf(p.embed, m[1]),
				Description: link.Title,
			})
			matched = true
			break
		}
		if !matched {
			ld.l.Warn("dropping unrecognized video link", "url", link.URL)
			unit.AddRecord(score.NewRecord(ld.l, "importer", "IMPORTER105",
				fmt.Sprintf("video link %q is not a recognized Google Drive, Vimeo or YouTube URL", link.URL)))
		}
	}
	return videos
}

// parseRoleDependencies accepts the string, {role: name} and
// {src: name} dependency forms and requires the namespace.name format
func parseRoleDependencies(raw []interface{}) ([]models.DependencyRef, error) {
	var deps []models.DependencyRef
	for _, entry := range raw {
		var name string
		switch v := entry.(type) {
		case string:
			name = v
		case map[interface{}]interface{}:
			if role, ok := v["role"].(string); ok {
				name = role
			} else if src, ok := v["src"].(string); ok {
				name = src
			}
		}
		if name == "" {
			return nil, fmt.Errorf("unable to parse role dependency entry %v", entry)
		}
		ref, err := models.ParseDependencyRef(name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, ref)
	}
	return deps, nil
}

func roleName(root string, res finder.Result) string {
	if name, ok := res.Extra["name"].(string); ok && name != "" {
		return name
	}
	if res.Path == "." {
		return filepath.Base(root)
	}
	return filepath.Base(res.Path)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// stringify renders scalar yaml values that may parse as numbers, e.g.
// min_ansible_version: 2.4
func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
