package cmd

import (
	"context"
	"fmt"

	cli "github.com/spf13/cobra"

	"github.com/galaxyhub/importer/store/postgres"
)

type migrateCommand struct {
	configDirPath string
}

// NewMigrateCommand initializes the command that runs schema migrations
func NewMigrateCommand() *cli.Command {
	migrate := &migrateCommand{}

	cmd := &cli.Command{
		Use:     "migrate",
		Short:   "Apply database schema migrations",
		Example: "galaxy-importer migrate",
		RunE:    migrate.RunE,
	}
	cmd.Flags().StringVarP(&migrate.configDirPath, "config", "c", migrate.configDirPath, "Directory path for server configuration")
	return cmd
}

func (m *migrateCommand) RunE(_ *cli.Command, _ []string) error {
	conf, err := loadConfig(m.configDirPath)
	if err != nil {
		return err
	}
	l := newLogger(conf.Log)

	migration, err := postgres.NewMigration(l, conf.DB.DSN)
	if err != nil {
		return fmt.Errorf("unable to initialize migration: %w", err)
	}
	return migration.Up(context.Background())
}
