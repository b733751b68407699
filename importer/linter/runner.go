package linter

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/kushsharma/parallel"
	"github.com/odpf/salt/log"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/models"
)

const concurrentLimit = 3

// Runner executes every linter applicable to a unit and normalizes
// their output into lint records
type Runner struct {
	l    log.Logger
	conf config.LintConfig
}

func NewRunner(l log.Logger, conf config.LintConfig) *Runner {
	return &Runner{l: l, conf: conf}
}

// CheckUnit lints one unit rooted at unitPath. Linters run
// concurrently but results are collected in linter order, so record
// ordering within a unit is deterministic.
func (r *Runner) CheckUnit(ctx context.Context, unit *models.ContentUnit, unitPath string) error {
	linters := LintersFor(unit.ContentType, r.conf)

	runner := parallel.NewRunner(parallel.WithLimit(concurrentLimit))
	for _, lt := range linters {
		runner.Add(func(lt Linter) func() (interface{}, error) {
			return func() (interface{}, error) {
				return lt.CheckFiles(ctx, []string{unitPath})
			}
		}(lt))
	}

	var runErrs error
	for i, state := range runner.Run() {
		lt := linters[i]
		if state.Err != nil {
			runErrs = multierror.Append(runErrs, state.Err)
			continue
		}
		lines, _ := state.Val.([]string)
		for _, line := range lines {
			ruleID, desc := lt.ParseIDAndDesc(line)
			if ruleID == "" {
				r.l.Warn("dropping unparsable linter output line", "linter", lt.Name(), "line", line)
				continue
			}
			unit.AddRecord(score.NewRecord(r.l, lt.Name(), ruleID, desc))
		}
	}
	return runErrs
}
