package linter

import (
	"context"
	"regexp"

	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/config"
)

// yamllint parsable format: path:line:col: [level] description (rule)
var yamllintLinePattern = regexp.MustCompile(`^(?P<file>[^:]+):(?P<line>\d+):(?P<col>\d+): \[(?P<level>\w+)\] (?P<desc>.+?)(?: \((?P<rule>[\w-]+)\))?$`)

type Yamllint struct {
	bin        string
	configPath string
}

func NewYamllint(conf config.LintConfig) *Yamllint {
	return &Yamllint{bin: conf.YamllintBin, configPath: conf.YamllintConfig}
}

func (*Yamllint) Name() string { return "yamllint" }

func (y *Yamllint) CheckFiles(ctx context.Context, paths []string) ([]string, error) {
	args := []string{"-f", "parsable"}
	if y.configPath != "" {
		args = append(args, "-c", y.configPath)
	}
	args = append(args, "--")
	args = append(args, paths...)

	lines, code, err := runCommand(ctx, y.bin, args)
	if err != nil {
		return nil, err
	}
	// yamllint exits 1 when it found problems, which is a normal result
	if code > 1 {
		return nil, errors.Errorf("yamllint failed with exit code %d", code)
	}
	return lines, nil
}

func (*Yamllint) ParseIDAndDesc(line string) (string, string) {
	m := yamllintLinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	rule := m[6]
	if rule == "" {
		// syntax errors carry no trailing rule name
		rule = "syntax"
	}
	return rule, m[5]
}
