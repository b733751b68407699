package models

import "fmt"

// ScoreType selects which score axis a lint record counts against
type ScoreType string

func (s ScoreType) String() string {
	return string(s)
}

const (
	ScoreTypeContent       ScoreType = "content"
	ScoreTypeMetadata      ScoreType = "metadata"
	ScoreTypeCompatibility ScoreType = "compatibility"
)

const (
	// SeverityMin and SeverityMax bound the severity classes assigned
	// to lint records
	SeverityMin = 0
	SeverityMax = 5
)

// LintRecord is one normalized diagnostic produced by a linter or by
// the validator. Records are immutable once created and append only
// per run.
type LintRecord struct {
	// Source is the producing tool: flake8, yamllint, ansible-lint or
	// importer
	Source   string
	RuleCode string
	Message  string
	Severity int
	Type     ScoreType
}

func (r LintRecord) String() string {
	return fmt.Sprintf("[%s] %s: %s", r.Source, r.RuleCode, r.Message)
}

// IsError reports whether the record counts as an error in the run
// summary, lower severities are reported as warnings
func (r LintRecord) IsError() bool {
	return r.Severity >= 3
}

// Score holds the four quality axes of one unit. Compatibility is
// reserved and currently always nil. Quality is the arithmetic mean of
// Content and Metadata.
type Score struct {
	Content       float64
	Metadata      float64
	Compatibility *float64
	Quality       float64
}
