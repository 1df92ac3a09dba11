package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/annotate-cli/internal/annotate"
	"github.com/sells-group/annotate-cli/internal/store"
)

func TestHistoryRecords(t *testing.T) {
	started := time.Now().UTC().Add(-time.Minute)
	finished := time.Now().UTC()
	outcomes := []annotate.Outcome{
		{Path: "a.go", Message: "annotated (Go)"},
		{Path: "b.go", Err: errors.New("b.go: annotate: file not found")},
		{Path: "c.py", Message: "annotated (Python)"},
	}

	run, files := historyRecords(started, finished, outcomes)

	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, finished, run.FinishedAt)

	require.Len(t, files, 3)
	assert.Equal(t, store.FileSucceeded, files[0].Status)
	assert.Equal(t, "annotated (Go)", files[0].Message)
	assert.Equal(t, store.FileFailed, files[1].Status)
	assert.Contains(t, files[1].Message, "file not found")
	assert.Equal(t, store.FileSucceeded, files[2].Status)
}

func TestHistoryRecords_Empty(t *testing.T) {
	now := time.Now().UTC()
	run, files := historyRecords(now, now, nil)
	assert.Zero(t, run.Total)
	assert.Empty(t, files)
}
