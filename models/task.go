package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportTaskState is the lifecycle state of one pipeline run
type ImportTaskState string

func (s ImportTaskState) String() string {
	return string(s)
}

const (
	ImportTaskStatePending ImportTaskState = "pending"
	ImportTaskStateRunning ImportTaskState = "running"
	ImportTaskStateSuccess ImportTaskState = "success"
	ImportTaskStateFailed  ImportTaskState = "failed"
)

// IsTerminal reports whether the task has finished, terminal states are
// never left again
func (s ImportTaskState) IsTerminal() bool {
	return s == ImportTaskStateSuccess || s == ImportTaskStateFailed
}

// ImportKind distinguishes the two import paths
type ImportKind string

func (k ImportKind) String() string {
	return string(k)
}

const (
	ImportKindCollection ImportKind = "collection"
	ImportKindRepository ImportKind = "repository"
)

// ImportRequest is one queued unit of work for the import manager
type ImportRequest struct {
	ID   uuid.UUID
	Kind ImportKind

	// ArtifactPath is a local path or go-getter source of the uploaded
	// archive, set for collection imports
	ArtifactPath string
	// Filename is the original upload filename used for the
	// namespace-name-version check
	Filename string

	Repository Repository
}

// ImportSummary counts what one finished run produced
type ImportSummary struct {
	Contents int
	Warnings int
	Errors   int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("imported %d contents with %d warnings and %d errors", s.Contents, s.Warnings, s.Errors)
}

// ImportTask is the persisted record of one pipeline run
type ImportTask struct {
	ID    uuid.UUID
	Kind  ImportKind
	State ImportTaskState

	// Error carries the human readable failure reason on terminal
	// failure
	Error   string
	Summary ImportSummary

	StartedAt  time.Time
	FinishedAt time.Time
}
