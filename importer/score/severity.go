package score

import (
	"strings"

	"github.com/odpf/salt/log"

	"github.com/galaxyhub/importer/models"
)

// rule is one entry of the canonical severity table
type rule struct {
	scoreType models.ScoreType
	severity  int
}

// severityByRule maps "<linter>_<rule-id>" (lowercased) to a score
// type and severity class. Rule codes absent from the table contribute
// zero weight.
var severityByRule = map[string]rule{
	// ansible-lint deprecation rules
	"ansible-lint_e101": {models.ScoreTypeContent, 3},
	"ansible-lint_e102": {models.ScoreTypeContent, 3},
	"ansible-lint_e103": {models.ScoreTypeContent, 4},
	"ansible-lint_e104": {models.ScoreTypeContent, 3},
	"ansible-lint_e105": {models.ScoreTypeContent, 3},

	// ansible-lint formatting rules
	"ansible-lint_e201": {models.ScoreTypeContent, 1},
	"ansible-lint_e202": {models.ScoreTypeContent, 2},
	"ansible-lint_e203": {models.ScoreTypeContent, 1},
	"ansible-lint_e204": {models.ScoreTypeContent, 1},
	"ansible-lint_e205": {models.ScoreTypeContent, 1},
	"ansible-lint_e206": {models.ScoreTypeContent, 1},

	// ansible-lint command-instead-of-module rules
	"ansible-lint_e301": {models.ScoreTypeContent, 2},
	"ansible-lint_e302": {models.ScoreTypeContent, 2},
	"ansible-lint_e303": {models.ScoreTypeContent, 2},
	"ansible-lint_e304": {models.ScoreTypeContent, 2},
	"ansible-lint_e305": {models.ScoreTypeContent, 2},
	"ansible-lint_e306": {models.ScoreTypeContent, 2},

	// ansible-lint module pinning rules
	"ansible-lint_e401": {models.ScoreTypeContent, 2},
	"ansible-lint_e402": {models.ScoreTypeContent, 2},
	"ansible-lint_e403": {models.ScoreTypeContent, 2},
	"ansible-lint_e404": {models.ScoreTypeContent, 2},

	// ansible-lint task rules
	"ansible-lint_e501": {models.ScoreTypeContent, 4},
	"ansible-lint_e502": {models.ScoreTypeContent, 1},
	"ansible-lint_e503": {models.ScoreTypeContent, 2},
	"ansible-lint_e504": {models.ScoreTypeContent, 2},

	// ansible-lint idiom rules
	"ansible-lint_e601": {models.ScoreTypeContent, 1},
	"ansible-lint_e602": {models.ScoreTypeContent, 1},

	// ansible-lint metadata rules
	"ansible-lint_e701": {models.ScoreTypeMetadata, 3},
	"ansible-lint_e702": {models.ScoreTypeMetadata, 2},
	"ansible-lint_e703": {models.ScoreTypeMetadata, 2},
	"ansible-lint_e704": {models.ScoreTypeMetadata, 1},

	// ansible-lint internal errors surface as synthetic diagnostics
	"ansible-lint_exit": {models.ScoreTypeContent, 0},

	// yamllint rules
	"yamllint_braces":                  {models.ScoreTypeContent, 1},
	"yamllint_brackets":                {models.ScoreTypeContent, 1},
	"yamllint_colons":                  {models.ScoreTypeContent, 1},
	"yamllint_commas":                  {models.ScoreTypeContent, 1},
	"yamllint_comments":                {models.ScoreTypeContent, 1},
	"yamllint_comments-indentation":    {models.ScoreTypeContent, 1},
	"yamllint_document-end":            {models.ScoreTypeContent, 1},
	"yamllint_document-start":          {models.ScoreTypeContent, 1},
	"yamllint_empty-lines":             {models.ScoreTypeContent, 1},
	"yamllint_empty-values":            {models.ScoreTypeContent, 1},
	"yamllint_hyphens":                 {models.ScoreTypeContent, 1},
	"yamllint_indentation":             {models.ScoreTypeContent, 1},
	"yamllint_key-duplicates":          {models.ScoreTypeContent, 2},
	"yamllint_key-ordering":            {models.ScoreTypeContent, 1},
	"yamllint_line-length":             {models.ScoreTypeContent, 1},
	"yamllint_new-line-at-end-of-file": {models.ScoreTypeContent, 1},
	"yamllint_new-lines":               {models.ScoreTypeContent, 1},
	"yamllint_syntax":                  {models.ScoreTypeContent, 2},
	"yamllint_trailing-spaces":         {models.ScoreTypeContent, 1},
	"yamllint_truthy":                  {models.ScoreTypeContent, 1},

	// flake8 rule classes, looked up by code letter
	"flake8_c": {models.ScoreTypeContent, 1},
	"flake8_e": {models.ScoreTypeContent, 1},
	"flake8_f": {models.ScoreTypeContent, 2},
	"flake8_n": {models.ScoreTypeContent, 1},
	"flake8_w": {models.ScoreTypeContent, 1},

	// importer validation rules
	"importer_importer101": {models.ScoreTypeMetadata, 1}, // unknown platform
	"importer_importer102": {models.ScoreTypeMetadata, 1}, // unknown cloud platform
	"importer_importer103": {models.ScoreTypeMetadata, 2}, // unresolved role dependency
	"importer_importer104": {models.ScoreTypeMetadata, 0}, // too many tags
	"importer_importer105": {models.ScoreTypeMetadata, 0}, // unrecognized video link
	"importer_importer106": {models.ScoreTypeContent, 0},  // unparsable documentation
}

// severityWeights maps a severity class to its score weight
var severityWeights = map[int]float64{
	0: 0.0,
	1: 0.75,
	2: 1.25,
	3: 2.5,
	4: 5.0,
	5: 10.0,
}

// Weight returns the score weight of a severity class
func Weight(severity int) float64 {
	return severityWeights[severity]
}

// Lookup resolves a (linter, rule-id) pair against the canonical
// severity table. flake8 codes fall back to their letter class.
func Lookup(source, code string) (models.ScoreType, int, bool) {
	key := strings.ToLower(source) + "_" + strings.ToLower(code)
	if r, ok := severityByRule[key]; ok {
		return r.scoreType, r.severity, true
	}
	if strings.EqualFold(source, "flake8") && code != "" {
		classKey := strings.ToLower(source) + "_" + strings.ToLower(code[:1])
		if r, ok := severityByRule[classKey]; ok {
			return r.scoreType, r.severity, true
		}
	}
	return models.ScoreTypeContent, 0, false
}

// NewRecord builds a lint record with severity and score type taken
// from the canonical table. Unmapped rule codes are logged and count
// zero, the pipeline never fails on them.
func NewRecord(l log.Logger, source, code, msg string) models.LintRecord {
	scoreType, severity, ok := Lookup(source, code)
	if !ok {
		l.Warn("severity not found", "linter", source, "rule", code)
	}
	return models.LintRecord{
		Source:   source,
		RuleCode: code,
		Message:  msg,
		Severity: severity,
		Type:     scoreType,
	}
}
