package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/galaxyhub/importer/models"
)

// ReadManifest parses and validates the MANIFEST.json at the root of
// an extracted collection archive. Structural problems raise
// immediately, before any content scan.
func ReadManifest(root string) (models.CollectionManifest, error) {
	raw, err := os.ReadFile(filepath.Join(root, "MANIFEST.json"))
	if err != nil {
		return models.CollectionManifest{}, ErrManifestNotFound
	}

	var manifest models.CollectionManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return models.CollectionManifest{}, &ManifestValidationError{Msg: fmt.Sprintf("unable to parse MANIFEST.json: %v", err)}
	}

	if err := validateManifest(manifest); err != nil {
		return models.CollectionManifest{}, &ManifestValidationError{Msg: err.Error()}
	}
	return manifest, nil
}

func validateManifest(manifest models.CollectionManifest) error {
	info := manifest.CollectionInfo
	if err := validation.ValidateStruct(&info,
		validation.Field(&info.Namespace, validation.Required),
		validation.Field(&info.Name, validation.Required),
		validation.Field(&info.Version, validation.Required),
		validation.Field(&info.Readme, validation.Required),
		validation.Field(&info.Authors, validation.Required),
	); err != nil {
		return err
	}
	if _, err := manifest.SemVersion(); err != nil {
		return fmt.Errorf("version %q is not a valid semantic version", info.Version)
	}
	if len(info.License) == 0 && info.LicenseFile == "" {
		return fmt.Errorf("one of license or license_file is required")
	}
	return nil
}

// VerifyFilename checks the archive filename against the manifest, the
// namespace, name and version must match exactly
func VerifyFilename(filename models.CollectionFilename, manifest models.CollectionManifest) error {
	info := manifest.CollectionInfo
	if filename.Namespace != info.Namespace || filename.Name != info.Name || filename.Version != info.Version {
		return &ManifestValidationError{Msg: fmt.Sprintf(
			"filename %s did not match metadata %s-%s-%s",
			filename, info.Namespace, info.Name, info.Version)}
	}
	return nil
}
