package linter

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/models"
)

// Linter wraps one external static-analysis tool. CheckFiles invokes
// the tool as a subprocess and returns its stdout line by line, the
// sequence is finite and reflects the subprocess exit.
type Linter interface {
	Name() string
	CheckFiles(ctx context.Context, paths []string) ([]string, error)
	// ParseIDAndDesc splits one raw output line into its rule id and
	// description, returning empty strings when the line does not
	// match the tool's format
	ParseIDAndDesc(line string) (string, string)
}

// LintersFor returns the linters that apply to one content type
func LintersFor(contentType models.ContentType, conf config.LintConfig) []Linter {
	switch contentType {
	case models.ContentTypeRole:
		return []Linter{NewYamllint(conf), NewAnsibleLint(conf)}
	case models.ContentTypeAPB:
		return []Linter{NewYamllint(conf)}
	}
	// modules, module utils and plugins are python sources
	return []Linter{NewFlake8(conf)}
}

// runCommand executes the tool and collects its stdout lines. The
// returned exit code is 0 on clean exit, the tool's code on
// exec.ExitError, -1 otherwise.
func runCommand(ctx context.Context, bin string, args []string) ([]string, int, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, -1, errors.Wrapf(err, "unable to pipe %s output", bin)
	}
	if err := cmd.Start(); err != nil {
		return nil, -1, errors.Wrapf(err, "unable to start %s", bin)
	}

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// unblock a tool still writing so Wait can reap it
		io.Copy(io.Discard, stdout)
	}

	code := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return lines, -1, errors.Wrapf(err, "%s did not run", bin)
		}
		code = exitErr.ExitCode()
	}
	if scanErr != nil {
		return lines, code, errors.Wrapf(scanErr, "unable to read %s output", bin)
	}
	return lines, code, nil
}
