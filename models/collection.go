package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// CollectionFilenameSuffix terminates every uploaded collection
	// artifact name
	CollectionFilenameSuffix = ".tar.gz"

	// MaxReadmeSize caps readme files referenced by a manifest
	MaxReadmeSize = 512 * 1024
)

var collectionNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// CollectionFilename is the {namespace}-{name}-{version}.tar.gz naming
// convention of uploaded collection artifacts
type CollectionFilename struct {
	Namespace string
	Name      string
	Version   string
}

func (f CollectionFilename) String() string {
	return fmt.Sprintf("%s-%s-%s%s", f.Namespace, f.Name, f.Version, CollectionFilenameSuffix)
}

// ParseCollectionFilename splits an artifact filename into its
// namespace, name and version parts
func ParseCollectionFilename(filename string) (CollectionFilename, error) {
	if !strings.HasSuffix(filename, CollectionFilenameSuffix) {
		return CollectionFilename{}, fmt.Errorf("invalid filename %s: expected %s suffix", filename, CollectionFilenameSuffix)
	}
	base := strings.TrimSuffix(filename, CollectionFilenameSuffix)
	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return CollectionFilename{}, fmt.Errorf("invalid filename %s: expected 'namespace-name-version' format", filename)
	}
	for _, p := range parts[:2] {
		if !collectionNamePattern.MatchString(p) {
			return CollectionFilename{}, fmt.Errorf("invalid filename %s: %q is not a valid name", filename, p)
		}
	}
	if _, err := semver.StrictNewVersion(parts[2]); err != nil {
		return CollectionFilename{}, fmt.Errorf("invalid filename %s: %v", filename, err)
	}
	return CollectionFilename{
		Namespace: parts[0],
		Name:      parts[1],
		Version:   parts[2],
	}, nil
}

// CollectionInfo is the collection_info block of a MANIFEST.json
type CollectionInfo struct {
	Namespace    string            `json:"namespace"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	License      []string          `json:"license"`
	LicenseFile  string            `json:"license_file"`
	Tags         []string          `json:"tags"`
	Dependencies map[string]string `json:"dependencies"`
	Readme       string            `json:"readme"`
	Authors      []string          `json:"authors"`
	Repository   string            `json:"repository"`
	Homepage     string            `json:"homepage"`
	Issues       string            `json:"issues"`
}

// CollectionManifest is a parsed MANIFEST.json
type CollectionManifest struct {
	CollectionInfo CollectionInfo `json:"collection_info"`
}

// SemVersion returns the manifest version in canonical parsed form
func (m CollectionManifest) SemVersion() (*semver.Version, error) {
	return semver.StrictNewVersion(m.CollectionInfo.Version)
}

// Namespace is one owning account row in the reference store
type Namespace struct {
	Name string
}

// Collection is one (namespace, name) row in the reference store
type Collection struct {
	Namespace string
	Name      string
}

// CollectionVersion is the persisted outcome of one successful
// collection import
type CollectionVersion struct {
	Namespace string
	Name      string
	Version   *semver.Version

	Metadata CollectionInfo
	Readme   *Readme

	// QualityScore is nil when no unit produced a score
	QualityScore *float64

	Contents []ContentUnit
}

// ContentRef is one existing content row in the reference store, used
// to resolve role dependencies
type ContentRef struct {
	Namespace string
	Name      string
}

// Repository identifies one legacy single-repo import target
type Repository struct {
	Namespace string
	Name      string

	// CloneURL is any go-getter compatible source, usually a git URL
	CloneURL string
	Branch   string
}
