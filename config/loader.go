package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/odpf/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	DefaultFilename      = "importer"
	DefaultFileExtension = "yaml"
	DefaultEnvPrefix     = "IMPORTER"
	EmptyPath            = ""
)

// LoadServerConfig reads importer.yaml from the given directory (or the
// current one) with IMPORTER_* env overrides, and validates the result
func LoadServerConfig(dirPaths ...string) (*ServerConfig, error) {
	fs := afero.NewReadOnlyFs(afero.NewOsFs())

	var targetPath string
	if len(dirPaths) > 0 {
		targetPath = dirPaths[0]
	} else {
		currPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current work directory path: %w", err)
		}
		targetPath = currPath
	}

	conf := &ServerConfig{}
	if err := loadConfig(conf, fs, targetPath); err != nil {
		return nil, err
	}
	if err := Validate(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func loadConfig(cfg interface{}, fs afero.Fs, dirPath string) error {
	v := viper.New()
	v.SetConfigName(DefaultFilename)
	v.SetConfigType(DefaultFileExtension)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetFs(fs)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithName(DefaultFilename),
		config.WithType(DefaultFileExtension),
		config.WithEnvPrefix(DefaultEnvPrefix),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithPath(dirPath),
	}

	l := config.NewLoader(opts...)
	return l.Load(cfg)
}
