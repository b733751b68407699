package importer

import (
	"errors"
	"fmt"

	"github.com/galaxyhub/importer/importer/loader"
)

// ErrManifestNotFound is returned when an archive carries no
// MANIFEST.json
var ErrManifestNotFound = errors.New("MANIFEST.json not found in archive")

// ManifestValidationError marks malformed or mismatched top level
// collection metadata. It is always fatal and pre-empts any content
// scan.
type ManifestValidationError struct {
	Msg string
}

func (e *ManifestValidationError) Error() string {
	return "invalid collection manifest: " + e.Msg
}

// ImportFailedError marks a dependency or version resolution failure,
// or a version conflict. The reason names the offending dependency or
// version and is shown to the user.
type ImportFailedError struct {
	Reason string
}

func (e *ImportFailedError) Error() string {
	return "import failed: " + e.Reason
}

func importFailedf(format string, args ...interface{}) *ImportFailedError {
	return &ImportFailedError{Reason: fmt.Sprintf(format, args...)}
}

// IsDomainError reports whether err belongs to the pipeline's own
// failure taxonomy. Anything else is unexpected and additionally
// logged for operational monitoring.
func IsDomainError(err error) bool {
	var (
		manifestErr *ManifestValidationError
		loadErr     *loader.LoadError
		apbErr      *loader.APBLoadError
		failedErr   *ImportFailedError
	)
	return errors.Is(err, ErrManifestNotFound) ||
		errors.As(err, &manifestErr) ||
		errors.As(err, &loadErr) ||
		errors.As(err, &apbErr) ||
		errors.As(err, &failedErr)
}
