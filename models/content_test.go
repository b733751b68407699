package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galaxyhub/importer/models"
)

func TestContentType(t *testing.T) {
	t.Run("Directory", func(t *testing.T) {
		t.Run("should map well known types to their directories", func(t *testing.T) {
			assert.Equal(t, "roles", models.ContentTypeRole.Directory())
			assert.Equal(t, "library", models.ContentTypeModule.Directory())
			assert.Equal(t, "module_utils", models.ContentTypeModuleUtils.Directory())
			assert.Equal(t, "action_plugins", models.ContentTypeActionPlugin.Directory())
			assert.Equal(t, "lookup_plugins", models.ContentTypeLookupPlugin.Directory())
		})
	})
	t.Run("ParseContentType", func(t *testing.T) {
		t.Run("should accept every supported type", func(t *testing.T) {
			for _, contentType := range models.SupportedContentTypes {
				parsed, err := models.ParseContentType(contentType.String())
				assert.Nil(t, err)
				assert.Equal(t, contentType, parsed)
			}
		})
		t.Run("should reject an unknown type", func(t *testing.T) {
			_, err := models.ParseContentType("playbook")

			assert.ErrorIs(t, err, models.ErrNoSuchContentType)
		})
	})
}

func TestLintRecord(t *testing.T) {
	t.Run("IsError", func(t *testing.T) {
		t.Run("should count severity three and above as error", func(t *testing.T) {
			assert.False(t, models.LintRecord{Severity: 0}.IsError())
			assert.False(t, models.LintRecord{Severity: 2}.IsError())
			assert.True(t, models.LintRecord{Severity: 3}.IsError())
			assert.True(t, models.LintRecord{Severity: 5}.IsError())
		})
	})
}

func TestImportTaskState(t *testing.T) {
	t.Run("IsTerminal", func(t *testing.T) {
		t.Run("should be terminal only when finished", func(t *testing.T) {
			assert.False(t, models.ImportTaskStatePending.IsTerminal())
			assert.False(t, models.ImportTaskStateRunning.IsTerminal())
			assert.True(t, models.ImportTaskStateSuccess.IsTerminal())
			assert.True(t, models.ImportTaskStateFailed.IsTerminal())
		})
	})
}
