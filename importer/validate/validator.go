package validate

import (
	"context"
	"fmt"

	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/importer/score"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
)

const (
	// PlatformAllSentinel expands to every known release of a platform
	PlatformAllSentinel = "all"

	ruleUnknownPlatform      = "IMPORTER101"
	ruleUnknownCloudPlatform = "IMPORTER102"
	ruleUnresolvedDependency = "IMPORTER103"
)

// Validator cross-checks loaded role metadata against the reference
// store. Lookup misses are never fatal, they degrade into lint records
// and the offending reference is dropped.
type Validator struct {
	platformRepo store.PlatformRepository
	cloudRepo    store.CloudPlatformRepository
	contentRepo  store.ContentRepository

	l log.Logger
}

func NewValidator(l log.Logger, platformRepo store.PlatformRepository, cloudRepo store.CloudPlatformRepository,
	contentRepo store.ContentRepository) *Validator {
	return &Validator{
		platformRepo: platformRepo,
		cloudRepo:    cloudRepo,
		contentRepo:  contentRepo,
		l:            l,
	}
}

// ValidateUnit resolves the declared platform, cloud platform and
// dependency lists of a role unit, appending records for everything
// that did not resolve. Non-role units pass through untouched.
func (v *Validator) ValidateUnit(ctx context.Context, unit *models.ContentUnit) error {
	if unit.RoleMeta == nil {
		return nil
	}

	platforms, err := v.resolvePlatforms(ctx, unit)
	if err != nil {
		return err
	}
	unit.RoleMeta.Platforms = platforms

	clouds, err := v.resolveCloudPlatforms(ctx, unit)
	if err != nil {
		return err
	}
	unit.RoleMeta.CloudPlatforms = clouds

	deps, err := v.resolveDependencies(ctx, unit)
	if err != nil {
		return err
	}
	unit.RoleMeta.Dependencies = deps

	return nil
}

func (v *Validator) resolvePlatforms(ctx context.Context, unit *models.ContentUnit) ([]models.Platform, error) {
	var resolved []models.Platform
	for _, ref := range unit.RoleMeta.DeclaredPlatforms {
		for _, version := range ref.Versions {
			if version == PlatformAllSentinel {
				rows, err := v.platformRepo.GetAllByName(ctx, ref.Name)
				if err != nil && !errors.Is(err, store.ErrResourceNotFound) {
					return nil, errors.Wrap(err, "unable to look up platform releases")
				}
				if len(rows) == 0 {
					v.miss(unit, ruleUnknownPlatform, fmt.Sprintf("unknown platform %q", ref.Name))
					continue
				}
				resolved = append(resolved, rows...)
				continue
			}

			row, err := v.platformRepo.GetByNameAndRelease(ctx, ref.Name, version)
			if err != nil {
				if errors.Is(err, store.ErrResourceNotFound) {
					v.miss(unit, ruleUnknownPlatform, fmt.Sprintf("unknown platform release %s-%s", ref.Name, version))
					continue
				}
				return nil, errors.Wrap(err, "unable to look up platform")
			}
			resolved = append(resolved, row)
		}
	}
	return resolved, nil
}

func (v *Validator) resolveCloudPlatforms(ctx context.Context, unit *models.ContentUnit) ([]models.CloudPlatform, error) {
	var resolved []models.CloudPlatform
	for _, name := range unit.RoleMeta.DeclaredCloudPlatforms {
		row, err := v.cloudRepo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrResourceNotFound) {
				v.miss(unit, ruleUnknownCloudPlatform, fmt.Sprintf("unknown cloud platform %q", name))
				continue
			}
			return nil, errors.Wrap(err, "unable to look up cloud platform")
		}
		resolved = append(resolved, row)
	}
	return resolved, nil
}

func (v *Validator) resolveDependencies(ctx context.Context, unit *models.ContentUnit) ([]models.DependencyRef, error) {
	var resolved []models.DependencyRef
	for _, dep := range unit.RoleMeta.DeclaredDependencies {
		_, err := v.contentRepo.GetByName(ctx, dep.Namespace, dep.Name)
		if err != nil {
			if errors.Is(err, store.ErrResourceNotFound) {
				v.miss(unit, ruleUnresolvedDependency, fmt.Sprintf("unresolved role dependency %s", dep))
				continue
			}
			return nil, errors.Wrap(err, "unable to look up role dependency")
		}
		resolved = append(resolved, dep)
	}
	return resolved, nil
}

func (v *Validator) miss(unit *models.ContentUnit, rule, msg string) {
	v.l.Debug("validation miss", "rule", rule, "content", unit.Name, "detail", msg)
	unit.AddRecord(score.NewRecord(v.l, "importer", rule, msg))
}
