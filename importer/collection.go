package importer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/core/progress"
	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/linter"
	"github.com/galaxyhub/importer/importer/readme"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

// CollectionImporter runs the full pipeline for one uploaded
// collection artifact
type CollectionImporter struct {
	pipeline

	fetcher *Fetcher
	workDir string

	namespaceRepo  store.NamespaceRepository
	collectionRepo store.CollectionRepository
}

func NewCollectionImporter(l log.Logger, conf config.ImporterConfig, fetcher *Fetcher,
	validator *validate.Validator, namespaceRepo store.NamespaceRepository,
	collectionRepo store.CollectionRepository) *CollectionImporter {
	return &CollectionImporter{
		pipeline: pipeline{
			l:          l,
			lintRunner: linter.NewRunner(l, conf.Lint),
			validator:  validator,
		},
		fetcher:        fetcher,
		workDir:        conf.WorkDir,
		namespaceRepo:  namespaceRepo,
		collectionRepo: collectionRepo,
	}
}

// Import processes one request end to end. On any returned error no
// content has been persisted, the final persistence step is a single
// transaction.
func (im *CollectionImporter) Import(ctx context.Context, req models.ImportRequest,
	obs progress.Observer) (models.ImportSummary, error) {
	filename, err := models.ParseCollectionFilename(req.Filename)
	if err != nil {
		return models.ImportSummary{}, &ManifestValidationError{Msg: err.Error()}
	}

	root := filepath.Join(im.workDir, req.ID.String())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return models.ImportSummary{}, errors.Wrap(err, "unable to create working directory")
	}
	defer os.RemoveAll(root)

	if err := im.fetcher.FetchArchive(ctx, req.ArtifactPath, root); err != nil {
		return models.ImportSummary{}, err
	}

	manifest, err := ReadManifest(root)
	if err != nil {
		return models.ImportSummary{}, err
	}
	if err := VerifyFilename(filename, manifest); err != nil {
		return models.ImportSummary{}, err
	}

	collectionReadme, err := readme.Load(root, manifest.CollectionInfo.Readme)
	if err != nil {
		return models.ImportSummary{}, &ManifestValidationError{Msg: err.Error()}
	}

	if err := im.resolveDependencies(ctx, manifest); err != nil {
		return models.ImportSummary{}, err
	}

	finderName, results, err := finder.Discover(root, im.l)
	if err != nil {
		return models.ImportSummary{}, err
	}
	notify(obs, &models.ProgressFinderMatch{Finder: finderName})

	units, err := im.processUnits(ctx, root, results, true, obs)
	if err != nil {
		return models.ImportSummary{}, err
	}

	version, err := manifest.SemVersion()
	if err != nil {
		return models.ImportSummary{}, &ManifestValidationError{Msg: err.Error()}
	}
	collectionVersion := models.CollectionVersion{
		Namespace:    manifest.CollectionInfo.Namespace,
		Name:         manifest.CollectionInfo.Name,
		Version:      version,
		Metadata:     manifest.CollectionInfo,
		Readme:       &collectionReadme,
		QualityScore: score.Aggregate(units),
		Contents:     units,
	}

	if err := im.collectionRepo.SaveVersion(ctx, req.ID, collectionVersion); err != nil {
		if errors.Is(err, store.ErrVersionExists) {
			return models.ImportSummary{}, importFailedf("version conflict: %s.%s version %s already exists",
				collectionVersion.Namespace, collectionVersion.Name, collectionVersion.Version)
		}
		return models.ImportSummary{}, errors.Wrap(err, "unable to persist collection version")
	}
	notify(obs, &models.ProgressImportPersisted{Contents: len(units)})

	return summarize(units), nil
}

// resolveDependencies enforces the hard rules of the collection
// dependency map: the namespace and collection must exist and at least
// one stored version must satisfy the declared range. Failures abort
// the import, unlike role dependency misses.
func (im *CollectionImporter) resolveDependencies(ctx context.Context, manifest models.CollectionManifest) error {
	info := manifest.CollectionInfo
	for rawDep, rawRange := range info.Dependencies {
		dep, err := models.ParseDependencyRef(rawDep)
		if err != nil {
			return importFailedf("invalid dependency %q: %v", rawDep, err)
		}
		if dep.Namespace == info.Namespace && dep.Name == info.Name {
			return importFailedf("collection cannot depend on itself: %s", dep)
		}

		if _, err := im.namespaceRepo.GetByName(ctx, dep.Namespace); err != nil {
			if errors.Is(err, store.ErrResourceNotFound) {
				return importFailedf("dependency namespace not found: %s", dep.Namespace)
			}
			return errors.Wrap(err, "unable to look up dependency namespace")
		}
		if _, err := im.collectionRepo.GetByName(ctx, dep.Namespace, dep.Name); err != nil {
			if errors.Is(err, store.ErrResourceNotFound) {
				return importFailedf("dependency collection not found: %s", dep)
			}
			return errors.Wrap(err, "unable to look up dependency collection")
		}

		constraint, err := semver.NewConstraint(rawRange)
		if err != nil {
			return importFailedf("invalid version range %q for dependency %s: %v", rawRange, dep, err)
		}
		versions, err := im.collectionRepo.GetVersions(ctx, dep.Namespace, dep.Name)
		if err != nil {
			return errors.Wrap(err, "unable to list dependency versions")
		}
		satisfied := false
		for _, v := range versions {
			if constraint.Check(v) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return importFailedf("no matching version found for dependency %s with range %q", dep, rawRange)
		}
	}
	return nil
}
