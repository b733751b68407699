package readme

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/galaxyhub/importer/models"
)

// Filenames are the readme files recognized at a unit root, in lookup
// order
var Filenames = []string{"README.md", "README.rst", "README"}

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
)

// Render converts readme text to sanitized HTML. Markdown is rendered
// through goldmark, everything else is escaped verbatim.
func Render(raw, mimetype string) (models.Readme, error) {
	var buf bytes.Buffer
	switch mimetype {
	case "text/markdown":
		if err := markdown.Convert([]byte(raw), &buf); err != nil {
			return models.Readme{}, errors.Wrap(err, "unable to render markdown")
		}
	default:
		buf.WriteString("<pre>")
		buf.WriteString(html.EscapeString(raw))
		buf.WriteString("</pre>")
	}
	return models.Readme{
		Raw:      raw,
		HTML:     string(policy.SanitizeBytes(buf.Bytes())),
		Mimetype: mimetype,
	}, nil
}

// Load reads and renders the readme at the given path relative to
// root, enforcing the file size cap. The relative path is named in any
// error.
func Load(root, relPath string) (models.Readme, error) {
	full := filepath.Join(root, relPath)
	info, err := os.Stat(full)
	if err != nil {
		return models.Readme{}, fmt.Errorf("readme file %s not found", relPath)
	}
	if info.Size() > models.MaxReadmeSize {
		return models.Readme{}, fmt.Errorf("readme file %s exceeds the maximum size of %d bytes", relPath, models.MaxReadmeSize)
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return models.Readme{}, errors.Wrapf(err, "unable to read readme file %s", relPath)
	}
	return Render(string(raw), Mimetype(relPath))
}

// Find locates a recognized readme file under dir and renders it,
// returning nil when none exists
func Find(root, dir string) (*models.Readme, error) {
	for _, name := range Filenames {
		rel := filepath.Join(dir, name)
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			continue
		}
		r, err := Load(root, rel)
		if err != nil {
			return nil, err
		}
		return &r, nil
	}
	return nil, nil
}

// Mimetype derives the readme mimetype from its filename
func Mimetype(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".rst":
		return "text/x-rst"
	}
	return "text/plain"
}
