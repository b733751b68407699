package linter

import (
	"context"
	"fmt"
	"regexp"

	"github.com/galaxyhub/importer/config"
)

// ansible-lint -p format: path:line: [CODE] description
var ansibleLintLinePattern = regexp.MustCompile(`^(?P<file>[^:]+):(?P<line>\d+): \[(?P<code>\w+)\] (?P<desc>.+)$`)

type AnsibleLint struct {
	bin string
}

func NewAnsibleLint(conf config.LintConfig) *AnsibleLint {
	return &AnsibleLint{bin: conf.AnsibleLintBin}
}

func (*AnsibleLint) Name() string { return "ansible-lint" }

// CheckFiles treats exit code 2 (violations found) as a normal result.
// Any other non-zero code is a real tool error and surfaces as a
// synthetic diagnostic line rather than a failure.
func (a *AnsibleLint) CheckFiles(ctx context.Context, paths []string) ([]string, error) {
	args := []string{"-p"}
	args = append(args, paths...)

	lines, code, err := runCommand(ctx, a.bin, args)
	if err != nil {
		return nil, err
	}
	if code != 0 && code != 2 {
		lines = append(lines, fmt.Sprintf("%s:0: [EXIT] ansible-lint exited with code %d", paths[0], code))
	}
	return lines, nil
}

func (*AnsibleLint) ParseIDAndDesc(line string) (string, string) {
	m := ansibleLintLinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return m[3], m[4]
}
