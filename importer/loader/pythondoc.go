package loader

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// assignPattern matches a top-level string assignment like
// DOCUMENTATION = '''...''' without executing the source
var assignPattern = regexp.MustCompile(`^(DOCUMENTATION|ANSIBLE_METADATA)\s*=\s*r?(?:'''|""")`)

// scanPythonDoc extracts the DOCUMENTATION and ANSIBLE_METADATA
// top-level assignments from a python source file by a line scan. The
// source is never executed. The returned map is keyed by assignment
// name and holds the raw string payloads.
func scanPythonDoc(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open python source")
	}
	defer f.Close()

	blocks := map[string]string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var currentName string
	var closer string
	var body []string
	for scanner.Scan() {
		line := scanner.Text()
		if currentName == "" {
			m := assignPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			currentName = m[1]
			idx := strings.IndexAny(line, `'"`)
			rest := line[idx+3:]
			closer = line[idx : idx+3]
			if end := strings.Index(rest, closer); end >= 0 {
				// single line assignment
				blocks[currentName] = rest[:end]
				currentName = ""
				continue
			}
			if rest != "" {
				body = append(body, rest)
			}
			continue
		}
		if end := strings.Index(line, closer); end >= 0 {
			body = append(body, line[:end])
			blocks[currentName] = strings.Join(body, "\n")
			currentName = ""
			body = nil
			continue
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to scan python source")
	}
	return blocks, nil
}

// parseDocBlock decodes one extracted block as YAML into a generic
// mapping
func parseDocBlock(raw string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
