package importer

import (
	"context"
	"fmt"
	"os"

	getter "github.com/hashicorp/go-getter"
	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/models"
)

// Fetcher places import sources into a task's working directory.
// Archives are unpacked and repositories cloned through go-getter, so
// local paths, http sources and git URLs all work the same way.
type Fetcher struct {
	l log.Logger
}

func NewFetcher(l log.Logger) *Fetcher {
	return &Fetcher{l: l}
}

// FetchArchive unpacks a collection artifact into dst
func (f *Fetcher) FetchArchive(ctx context.Context, src, dst string) error {
	pwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "error getting pwd")
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return errors.Wrapf(err, "unable to fetch artifact from %s", src)
	}
	f.l.Debug("fetched artifact", "src", src, "dst", dst)
	return nil
}

// CloneRepository clones a repository into dst, optionally at a branch
func (f *Fetcher) CloneRepository(ctx context.Context, repo models.Repository, dst string) error {
	src := repo.CloneURL
	if repo.Branch != "" {
		src = fmt.Sprintf("%s?ref=%s", src, repo.Branch)
	}
	pwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "error getting pwd")
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return errors.Wrapf(err, "unable to clone repository %s", repo.CloneURL)
	}
	f.l.Debug("cloned repository", "src", repo.CloneURL, "dst", dst)
	return nil
}
