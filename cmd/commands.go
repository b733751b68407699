package cmd

import (
	"fmt"
	"os"

	"github.com/odpf/salt/log"
	cli "github.com/spf13/cobra"

	"github.com/galaxyhub/importer/config"
)

var prologueContents = `galaxy-importer %s

galaxy-importer inspects, lints and scores ansible content before it is
published to a galaxy server
`

const version = "0.1.0"

// New constructs the 'root' command. It houses all other sub commands.
func New() *cli.Command {
	cmd := &cli.Command{
		Use:          "galaxy-importer",
		Long:         fmt.Sprintf(prologueContents, version),
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewImportCommand())
	return cmd
}

func newLogger(conf config.LogConfig) log.Logger {
	return log.NewLogrus(
		log.LogrusWithLevel(conf.Level),
		log.LogrusWithWriter(os.Stderr),
	)
}
