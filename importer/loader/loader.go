package loader

import (
	"fmt"

	"github.com/odpf/salt/log"

	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/models"
)

// Loader parses one discovered unit's metadata into a structured
// ContentUnit. Implementations are side effect free beyond reading
// files under the unit path.
type Loader interface {
	ContentTypes() []models.ContentType
	Load(root string, res finder.Result) (models.ContentUnit, error)
}

// LoadError is raised when a unit's required files are missing or
// malformed. It is fatal to the whole run.
type LoadError struct {
	ContentType models.ContentType
	Path        string
	Msg         string
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading %s at %s: %s", e.ContentType, e.Path, e.Msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// APBLoadError is a LoadError carrying the offending descriptor field
type APBLoadError struct {
	LoadError
	Field string
}

func (e *APBLoadError) Error() string {
	return fmt.Sprintf("invalid APB descriptor field %q at %s: %s", e.Field, e.Path, e.Msg)
}

// GetLoader returns the loader responsible for the given content type.
// Exactly one loader claims each supported type.
func GetLoader(contentType models.ContentType, l log.Logger) (Loader, error) {
	for _, candidate := range []Loader{
		NewRoleLoader(l),
		NewPluginLoader(l),
		NewAPBLoader(l),
	} {
		for _, t := range candidate.ContentTypes() {
			if t == contentType {
				return candidate, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrNoSuchContentType, contentType)
}
