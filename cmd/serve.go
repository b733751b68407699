package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/cobra"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/importer"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/internal/telemetry"
	"github.com/galaxyhub/importer/store/postgres"
	"github.com/galaxyhub/importer/utils"
)

type serveCommand struct {
	configDirPath string
}

// NewServeCommand initializes the command that starts import workers
func NewServeCommand() *cli.Command {
	serve := &serveCommand{}

	cmd := &cli.Command{
		Use:     "serve",
		Short:   "Starts import workers",
		Example: "galaxy-importer serve",
		RunE:    serve.RunE,
	}
	cmd.Flags().StringVarP(&serve.configDirPath, "config", "c", serve.configDirPath, "Directory path for server configuration")
	return cmd
}

func (s *serveCommand) RunE(_ *cli.Command, _ []string) error {
	conf, err := loadConfig(s.configDirPath)
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
	collectionImporter := importer.NewCollectionImporter(l, conf.Importer, fetcher, validator,
		postgres.NewNamespaceRepository(db),
		postgres.NewCollectionRepository(db),
	)
	repositoryImporter := importer.NewRepositoryImporter(l, conf.Importer, fetcher, validator,
		postgres.NewContentRepository(db),
	)

	manager := importer.NewImportManager(l, importer.ImportManagerConfig{
		NumWorkers:    conf.Importer.NumWorkers,
		WorkerTimeout: conf.Importer.WorkerTimeout,
		QueueCapacity: conf.Importer.QueueCapacity,
	}, collectionImporter, repositoryImporter, utils.NewUUIDProvider(),
		postgres.NewImportTaskRepository(db))

	stopMetrics := telemetry.StartMetricsServer(l, conf.Telemetry.ProfileAddr)
	defer stopMetrics()

	l.Info("import workers started", "metrics addr", conf.Telemetry.ProfileAddr)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	l.Info("shutting down")
	return manager.Close()
}

func loadConfig(dirPath string) (*config.ServerConfig, error) {
	if dirPath != "" {
		return config.LoadServerConfig(dirPath)
	}
	return config.LoadServerConfig()
}
