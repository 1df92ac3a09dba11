// Package store persists annotation run history.
package store

import (
	"context"
	"time"
)

// FileStatus is the terminal state of one file within a run.
type FileStatus string

const (
	FileSucceeded FileStatus = "succeeded"
	FileFailed    FileStatus = "failed"
)

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
}

// FileRecord is the recorded outcome for one path within a run.
type FileRecord struct {
	ID      string
	RunID   string
	Path    string
	Status  FileStatus
	Message string
}

// Store records and queries annotation run history.
type Store interface {
	Migrate(ctx context.Context) error
	RecordRun(ctx context.Context, run Run, files []FileRecord) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, []FileRecord, error)
	Close() error
}
