package importer

import (
	"context"
	"path/filepath"

	"github.com/odpf/salt/log"

	"github.com/galaxyhub/importer/core/progress"
	"github.com/galaxyhub/importer/importer/finder"
	"github.com/galaxyhub/importer/importer/linter"
	"github.com/galaxyhub/importer/importer/loader"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/models"
)

// pipeline drives one discovered unit through load, lint, validation
// and scoring. Units are processed sequentially so diagnostics
// accumulate deterministically in unit order.
type pipeline struct {
	l          log.Logger
	lintRunner *linter.Runner
	validator  *validate.Validator
}

func (p *pipeline) processUnits(ctx context.Context, root string, results []finder.Result,
	collectionStyle bool, obs progress.Observer) ([]models.ContentUnit, error) {
	units := make([]models.ContentUnit, 0, len(results))
	for _, res := range results {
		unit, err := p.processUnit(ctx, root, res, collectionStyle, obs)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func (p *pipeline) processUnit(ctx context.Context, root string, res finder.Result,
	collectionStyle bool, obs progress.Observer) (models.ContentUnit, error) {
	ld, err := loader.GetLoader(res.ContentType, p.l)
	if err != nil {
		return models.ContentUnit{}, err
	}
	if roleLoader, ok := ld.(*loader.RoleLoader); ok && collectionStyle {
		roleLoader.TagPattern = loader.CollectionTagPattern
	}

	notify(obs, &models.ProgressContentLoad{Name: res.Path})
	unit, err := ld.Load(root, res)
	if err != nil {
		return models.ContentUnit{}, err
	}

	notify(obs, &models.ProgressContentLint{Name: unit.Name})
	unitPath := root
	if res.Path != "." {
		unitPath = filepath.Join(root, res.Path)
	}
	if err := p.lintRunner.CheckUnit(ctx, &unit, unitPath); err != nil {
		return models.ContentUnit{}, err
	}

	notify(obs, &models.ProgressContentValidate{Name: unit.Name})
	if err := p.validator.ValidateUnit(ctx, &unit); err != nil {
		return models.ContentUnit{}, err
	}

	unit.Scores = score.Unit(unit)
	if unit.Scores != nil {
		notify(obs, &models.ProgressContentScored{Name: unit.Name, Quality: unit.Scores.Quality})
	}
	return unit, nil
}

// summarize folds the accumulated records of all units into the run
// summary
func summarize(units []models.ContentUnit) models.ImportSummary {
	summary := models.ImportSummary{Contents: len(units)}
	for _, unit := range units {
		for _, rec := range unit.Records {
			if rec.IsError() {
				summary.Errors++
			} else {
				summary.Warnings++
			}
		}
	}
	return summary
}

func notify(observer progress.Observer, e progress.Event) {
	if observer == nil {
		return
	}
	observer.Notify(e)
}
