package models

import "fmt"

type (
	// ProgressFinderMatch represents a finder strategy matching the
	// import tree
	ProgressFinderMatch struct{ Finder string }

	// ProgressContentLoad represents a unit being loaded
	ProgressContentLoad struct{ Name string }

	// ProgressContentLint represents linters running over a unit
	ProgressContentLint struct{ Name string }

	// ProgressLintRecordAdded represents one diagnostic accumulated for
	// a unit
	ProgressLintRecordAdded struct {
		Name   string
		Record LintRecord
	}

	// ProgressContentValidate represents reference store cross checks
	// for a unit
	ProgressContentValidate struct{ Name string }

	// ProgressContentScored represents a unit receiving its quality
	// score
	ProgressContentScored struct {
		Name    string
		Quality float64
	}

	// ProgressStaleContentDelete signifies previously stored content
	// that disappeared from the source and is being removed
	ProgressStaleContentDelete struct{ Name string }

	// ProgressImportPersisted represents the final transactional write
	ProgressImportPersisted struct{ Contents int }
)

func (e *ProgressFinderMatch) String() string {
	return fmt.Sprintf("found matching content with finder: %s", e.Finder)
}

func (e *ProgressContentLoad) String() string {
	return fmt.Sprintf("loading: %s", e.Name)
}

func (e *ProgressContentLint) String() string {
	return fmt.Sprintf("linting: %s", e.Name)
}

func (e *ProgressLintRecordAdded) String() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Record.String())
}

func (e *ProgressContentValidate) String() string {
	return fmt.Sprintf("validating: %s", e.Name)
}

func (e *ProgressContentScored) String() string {
	return fmt.Sprintf("scored %s: %.2f", e.Name, e.Quality)
}

func (e *ProgressStaleContentDelete) String() string {
	return fmt.Sprintf("deleting stale content: %s", e.Name)
}

func (e *ProgressImportPersisted) String() string {
	return fmt.Sprintf("persisted %d contents", e.Contents)
}
