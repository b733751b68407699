package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSuchContentType = errors.New("content type not supported")
	ErrNoSuchPlatform    = errors.New("platform not found")
	ErrNoSuchNamespace   = errors.New("namespace not found")
	ErrNoSuchCollection  = errors.New("collection not found")
)

// ContentType classifies one publishable unit discovered in a
// repository or collection
type ContentType string

func (t ContentType) String() string {
	return string(t)
}

// Directory returns the conventional directory name that holds units of
// this type inside a multi-content tree
func (t ContentType) Directory() string {
	switch t {
	case ContentTypeRole:
		return "roles"
	case ContentTypeModule:
		return "library"
	case ContentTypeModuleUtils:
		return "module_utils"
	case ContentTypeAPB:
		return ""
	}
	return strings.TrimSuffix(string(t), "_plugin") + "_plugins"
}

// IsRole reports whether units of this type carry role metadata
func (t ContentType) IsRole() bool {
	return t == ContentTypeRole
}

const (
	ContentTypeRole        ContentType = "role"
	ContentTypeModule      ContentType = "module"
	ContentTypeModuleUtils ContentType = "module_utils"
	ContentTypeAPB         ContentType = "apb"

	ContentTypeActionPlugin     ContentType = "action_plugin"
	ContentTypeCachePlugin      ContentType = "cache_plugin"
	ContentTypeCallbackPlugin   ContentType = "callback_plugin"
	ContentTypeCliconfPlugin    ContentType = "cliconf_plugin"
	ContentTypeConnectionPlugin ContentType = "connection_plugin"
	ContentTypeFilterPlugin     ContentType = "filter_plugin"
	ContentTypeHttpapiPlugin    ContentType = "httpapi_plugin"
	ContentTypeInventoryPlugin  ContentType = "inventory_plugin"
	ContentTypeLookupPlugin     ContentType = "lookup_plugin"
	ContentTypeNetconfPlugin    ContentType = "netconf_plugin"
	ContentTypeShellPlugin      ContentType = "shell_plugin"
	ContentTypeStrategyPlugin   ContentType = "strategy_plugin"
	ContentTypeTerminalPlugin   ContentType = "terminal_plugin"
	ContentTypeTestPlugin       ContentType = "test_plugin"
	ContentTypeVarsPlugin       ContentType = "vars_plugin"
)

// SupportedContentTypes is the closed set of types the pipeline can
// discover and load
var SupportedContentTypes = []ContentType{
	ContentTypeRole,
	ContentTypeModule,
	ContentTypeModuleUtils,
	ContentTypeAPB,
	ContentTypeActionPlugin,
	ContentTypeCachePlugin,
	ContentTypeCallbackPlugin,
	ContentTypeCliconfPlugin,
	ContentTypeConnectionPlugin,
	ContentTypeFilterPlugin,
	ContentTypeHttpapiPlugin,
	ContentTypeInventoryPlugin,
	ContentTypeLookupPlugin,
	ContentTypeNetconfPlugin,
	ContentTypeShellPlugin,
	ContentTypeStrategyPlugin,
	ContentTypeTerminalPlugin,
	ContentTypeTestPlugin,
	ContentTypeVarsPlugin,
}

// PluginContentTypes lists the plugin flavours that share the generic
// plugin loader
var PluginContentTypes = []ContentType{
	ContentTypeActionPlugin,
	ContentTypeCachePlugin,
	ContentTypeCallbackPlugin,
	ContentTypeCliconfPlugin,
	ContentTypeConnectionPlugin,
	ContentTypeFilterPlugin,
	ContentTypeHttpapiPlugin,
	ContentTypeInventoryPlugin,
	ContentTypeLookupPlugin,
	ContentTypeNetconfPlugin,
	ContentTypeShellPlugin,
	ContentTypeStrategyPlugin,
	ContentTypeTerminalPlugin,
	ContentTypeTestPlugin,
	ContentTypeVarsPlugin,
}

// ParseContentType validates a raw string against the supported set
func ParseContentType(raw string) (ContentType, error) {
	for _, t := range SupportedContentTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoSuchContentType, raw)
}

// Readme holds the raw text of a unit readme along with its rendered,
// sanitized HTML form
type Readme struct {
	Raw      string
	HTML     string
	Mimetype string
}

// PlatformRef is one platform declaration as written in role metadata,
// before any lookup against the reference store. A version entry of
// "all" expands to every known release at validation time.
type PlatformRef struct {
	Name     string
	Versions []string
}

// Platform is one confirmed (name, release) row from the reference
// store
type Platform struct {
	Name    string
	Release string
}

// CloudPlatform is one confirmed cloud platform row from the reference
// store
type CloudPlatform struct {
	Name string
}

// DependencyRef points at another content item by namespace and name
type DependencyRef struct {
	Namespace string
	Name      string
}

func (d DependencyRef) String() string {
	return d.Namespace + "." + d.Name
}

// ParseDependencyRef parses the "namespace.name" form used by role
// dependencies and collection dependency maps
func ParseDependencyRef(raw string) (DependencyRef, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return DependencyRef{}, fmt.Errorf("dependency %q does not match 'namespace.name' format", raw)
	}
	return DependencyRef{Namespace: parts[0], Name: parts[1]}, nil
}

// VideoLink is an embeddable video reference recognized from role
// metadata
type VideoLink struct {
	URL         string
	Description string
}

// RoleMetadata is the structured form of a role's meta/main.yml. The
// declared platform and dependency lists are replaced by their resolved
// forms during validation.
type RoleMetadata struct {
	Author            string
	Company           string
	License           string
	MinAnsibleVersion string

	Tags []string

	DeclaredPlatforms      []PlatformRef
	DeclaredCloudPlatforms []string
	DeclaredDependencies   []DependencyRef

	Platforms      []Platform
	CloudPlatforms []CloudPlatform
	Dependencies   []DependencyRef

	Videos []VideoLink
}

// ContentUnit is one discovered publishable item. It is built fresh on
// every import run and never mutated after load, except to attach lint
// records and scores.
type ContentUnit struct {
	Name         string
	OriginalName string
	ContentType  ContentType
	// Path is relative to the import root
	Path        string
	Description string

	Readme *Readme

	// RoleMeta is set for role units only
	RoleMeta *RoleMetadata

	// Metadata carries type specific extras, e.g. parsed module
	// documentation or the APB descriptor
	Metadata map[string]interface{}

	Records []LintRecord
	Scores  *Score
}

// AddRecord appends a lint record to the unit, records are append only
// within one run
func (c *ContentUnit) AddRecord(rec LintRecord) {
	c.Records = append(c.Records, rec)
}
