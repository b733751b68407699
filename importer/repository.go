package importer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/core/progress"
	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/linter"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

// RepositoryImporter runs the pipeline for one cloned source
// repository, the legacy single-repo import path
type RepositoryImporter struct {
	pipeline

	fetcher *Fetcher
	workDir string

	contentRepo store.ContentRepository
}

func NewRepositoryImporter(l log.Logger, conf config.ImporterConfig, fetcher *Fetcher,
	validator *validate.Validator, contentRepo store.ContentRepository) *RepositoryImporter {
	return &RepositoryImporter{
		pipeline: pipeline{
			l:          l,
			lintRunner: linter.NewRunner(l, conf.Lint),
			validator:  validator,
		},
		fetcher:     fetcher,
		workDir:     conf.WorkDir,
		contentRepo: contentRepo,
	}
}

// Import clones the repository, runs the pipeline over everything
// discovered and replaces the repository's stored content set in one
// transaction. Stored units that no longer appear in the source are
// deleted by the replace.
func (im *RepositoryImporter) Import(ctx context.Context, req models.ImportRequest,
	obs progress.Observer) (models.ImportSummary, error) {
	root := filepath.Join(im.workDir, req.ID.String())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return models.ImportSummary{}, errors.Wrap(err, "unable to create working directory")
	}
	defer os.RemoveAll(root)

	if err := im.fetcher.CloneRepository(ctx, req.Repository, root); err != nil {
		return models.ImportSummary{}, err
	}

	finderName, results, err := finder.Discover(root, im.l)
	if err != nil {
		return models.ImportSummary{}, err
	}
	notify(obs, &models.ProgressFinderMatch{Finder: finderName})

	// a top level role takes its name from the repository
	for i, res := range results {
		if res.Path == "." && res.ContentType == models.ContentTypeRole {
			if results[i].Extra == nil {
				results[i].Extra = map[string]interface{}{}
			}
			results[i].Extra["name"] = req.Repository.Name
		}
	}

	units, err := im.processUnits(ctx, root, results, false, obs)
	if err != nil {
		return models.ImportSummary{}, err
	}

	if err := im.contentRepo.Replace(ctx, req.ID, req.Repository, units, score.Aggregate(units)); err != nil {
		return models.ImportSummary{}, errors.Wrap(err, "unable to persist repository contents")
	}
	notify(obs, &models.ProgressImportPersisted{Contents: len(units)})

	return summarize(units), nil
}
