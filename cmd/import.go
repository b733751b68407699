package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/odpf/salt/log"
	cli "github.com/spf13/cobra"

	"github.com/galaxyhub/importer/core/progress"
	"github.com/galaxyhub/importer/importer"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store/postgres"
)

type importCommand struct {
	configDirPath string

	archivePath string

	repoURL       string
	repoNamespace string
	repoName      string
	repoBranch    string
}

// NewImportCommand initializes the command that runs one import
// synchronously and prints its outcome
func NewImportCommand() *cli.Command {
	imp := &importCommand{}

	cmd := &cli.Command{
		Use:   "import",
		Short: "Run a single import and wait for it",
		Example: `galaxy-importer import --archive ./mynamespace-mycollection-1.0.0.tar.gz
galaxy-importer import --repo-url https://github.com/mynamespace/ansible-role-nginx --namespace mynamespace --name nginx`,
		RunE: imp.RunE,
	}
	cmd.Flags().StringVarP(&imp.configDirPath, "config", "c", imp.configDirPath, "Directory path for server configuration")
	cmd.Flags().StringVar(&imp.archivePath, "archive", "", "Path to a collection archive")
	cmd.Flags().StringVar(&imp.repoURL, "repo-url", "", "Clone URL of a content repository")
	cmd.Flags().StringVar(&imp.repoNamespace, "namespace", "", "Owning namespace of the repository")
	cmd.Flags().StringVar(&imp.repoName, "name", "", "Content name of the repository")
	cmd.Flags().StringVar(&imp.repoBranch, "branch", "", "Branch to import, defaults to the repository default")
	return cmd
}

func (c *importCommand) RunE(_ *cli.Command, _ []string) error {
	if (c.archivePath == "") == (c.repoURL == "") {
		return fmt.Errorf("exactly one of --archive or --repo-url must be given")
	}

	conf, err := loadConfig(c.configDirPath)
	if err != nil {
		return err
	}
	l := newLogger(conf.Log)

	db, err := postgres.Connect(conf.DB.DSN, conf.DB.MaxIdleConnection, conf.DB.MaxOpenConnection)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	validator := validate.NewValidator(l,
		postgres.NewPlatformRepository(db),
		postgres.NewCloudPlatformRepository(db),
		postgres.NewContentRepository(db),
	)
	fetcher := importer.NewFetcher(l)

	taskID, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), conf.Importer.WorkerTimeout)
	defer cancel()

	obs := &printObserver{l: l}
	var summary models.ImportSummary
	if c.archivePath != "" {
		collectionImporter := importer.NewCollectionImporter(l, conf.Importer, fetcher, validator,
			postgres.NewNamespaceRepository(db),
			postgres.NewCollectionRepository(db),
		)
		summary, err = collectionImporter.Import(ctx, models.ImportRequest{
			ID:           taskID,
			Kind:         models.ImportKindCollection,
			ArtifactPath: c.archivePath,
			Filename:     filepath.Base(c.archivePath),
		}, obs)
	} else {
		if c.repoNamespace == "" || c.repoName == "" {
			return fmt.Errorf("--namespace and --name are required with --repo-url")
		}
		repositoryImporter := importer.NewRepositoryImporter(l, conf.Importer, fetcher, validator,
			postgres.NewContentRepository(db),
		)
		summary, err = repositoryImporter.Import(ctx, models.ImportRequest{
			ID:   taskID,
			Kind: models.ImportKindRepository,
			Repository: models.Repository{
				Namespace: c.repoNamespace,
				Name:      c.repoName,
				CloneURL:  c.repoURL,
				Branch:    c.repoBranch,
			},
		}, obs)
	}
	if err != nil {
		return err
	}

	l.Info(summary.String())
	return nil
}

// printObserver reports pipeline progress as it happens
type printObserver struct {
	l log.Logger
}

func (o *printObserver) Notify(evt progress.Event) {
	o.l.Info(evt.String())
}
