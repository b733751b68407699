package linter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/importer/linter"
	"github.com/galaxyhub/importer/models"
)

func TestLintersFor(t *testing.T) {
	conf := config.LintConfig{}

	t.Run("should lint roles with yamllint and ansible-lint", func(t *testing.T) {
		linters := linter.LintersFor(models.ContentTypeRole, conf)

		assert.Len(t, linters, 2)
		assert.Equal(t, "yamllint", linters[0].Name())
		assert.Equal(t, "ansible-lint", linters[1].Name())
	})
	t.Run("should lint apbs with yamllint only", func(t *testing.T) {
		linters := linter.LintersFor(models.ContentTypeAPB, conf)

		assert.Len(t, linters, 1)
		assert.Equal(t, "yamllint", linters[0].Name())
	})
	t.Run("should lint python content with flake8", func(t *testing.T) {
		for _, contentType := range []models.ContentType{
			models.ContentTypeModule,
			models.ContentTypeModuleUtils,
			models.ContentTypeLookupPlugin,
		} {
			linters := linter.LintersFor(contentType, conf)

			assert.Len(t, linters, 1)
			assert.Equal(t, "flake8", linters[0].Name())
		}
	})
}

func TestParseIDAndDesc(t *testing.T) {
	conf := config.LintConfig{}

	t.Run("flake8", func(t *testing.T) {
		t.Run("should split a diagnostic line", func(t *testing.T) {
			code, desc := linter.NewFlake8(conf).ParseIDAndDesc("library/my_module.py:12:1: E302 expected 2 blank lines, got 1")

			assert.Equal(t, "E302", code)
			assert.Equal(t, "expected 2 blank lines, got 1", desc)
		})
		t.Run("should ignore unrelated output", func(t *testing.T) {
			code, desc := linter.NewFlake8(conf).ParseIDAndDesc("some warning text")

			assert.Empty(t, code)
			assert.Empty(t, desc)
		})
	})
	t.Run("yamllint", func(t *testing.T) {
		t.Run("should split a diagnostic line with a rule", func(t *testing.T) {
			code, desc := linter.NewYamllint(conf).ParseIDAndDesc("tasks/main.yml:3:81: [error] line too long (90 > 80 characters) (line-length)")

			assert.Equal(t, "line-length", code)
			assert.Equal(t, "line too long (90 > 80 characters)", desc)
		})
		t.Run("should default to the syntax rule when none is given", func(t *testing.T) {
			code, desc := linter.NewYamllint(conf).ParseIDAndDesc("tasks/main.yml:2:1: [error] syntax error: expected <block end>")

			assert.Equal(t, "syntax", code)
			assert.Equal(t, "syntax error: expected <block end>", desc)
		})
	})
	t.Run("ansible-lint", func(t *testing.T) {
		t.Run("should split a diagnostic line", func(t *testing.T) {
			code, desc := linter.NewAnsibleLint(conf).ParseIDAndDesc("tasks/main.yml:14: [E301] Commands should not change things if nothing needs doing")

			assert.Equal(t, "E301", code)
			assert.Equal(t, "Commands should not change things if nothing needs doing", desc)
		})
		t.Run("should split the synthetic exit line", func(t *testing.T) {
			code, desc := linter.NewAnsibleLint(conf).ParseIDAndDesc("role:0: [EXIT] ansible-lint exited with code 3")

			assert.Equal(t, "EXIT", code)
			assert.Equal(t, "ansible-lint exited with code 3", desc)
		})
	})
}
