package linter

import (
	"context"
	"regexp"

	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/config"
)

// flake8 line format: path:line:col: CODE description
var flake8LinePattern = regexp.MustCompile(`^(?P<file>[^:]+):(?P<line>\d+):(?P<col>\d+): (?P<code>[A-Z]\d+) (?P<desc>.+)$`)

type Flake8 struct {
	bin string
}

func NewFlake8(conf config.LintConfig) *Flake8 {
	return &Flake8{bin: conf.Flake8Bin}
}

func (*Flake8) Name() string { return "flake8" }

// CheckFiles runs flake8 with --exit-zero so a non-clean lint result
// never signals subprocess failure
func (f *Flake8) CheckFiles(ctx context.Context, paths []string) ([]string, error) {
	args := []string{
		"--exit-zero",
		"--isolated",
		"--ignore", "E402",
		"--select", "E,F,W",
		"--max-line-length", "120",
		"--",
	}
	args = append(args, paths...)

	lines, code, err := runCommand(ctx, f.bin, args)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.Errorf("flake8 failed with exit code %d", code)
	}
	return lines, nil
}

func (*Flake8) ParseIDAndDesc(line string) (string, string) {
	m := flake8LinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return m[4], m[5]
}
