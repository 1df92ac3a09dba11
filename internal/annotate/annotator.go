// Package annotate reads source files, obtains annotated versions from the
// completion client, and writes them back with optional backups. Batch
// processing isolates per-file failures into ordered outcomes.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/annotate-cli/internal/language"
	"github.com/sells-group/annotate-cli/internal/resilience"
)

// BackupSuffix is appended to the original path for backup copies.
const BackupSuffix = ".backup"

// Completer produces annotated code for source text in the given language.
type Completer interface {
	Complete(ctx context.Context, source, label string) (string, error)
}

// Outcome is the result of processing one path. Exactly one Outcome exists
// per input path, in input order; it is never mutated after the batch ends.
type Outcome struct {
	Path    string
	Message string
	Err     error
}

// Failed reports whether the path's processing ended in an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// String renders the outcome as the one-line form printed per processed path.
func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("FAIL %s: %v", o.Path, o.Err)
	}
	return fmt.Sprintf("OK   %s: %s", o.Path, o.Message)
}

// Annotator applies the read/complete/backup/overwrite sequence to files.
type Annotator struct {
	client      Completer
	retry       resilience.RetryConfig
	concurrency int
}

// New creates an Annotator. Concurrency below 1 is treated as 1, which keeps
// batch processing strictly sequential.
func New(client Completer, retry resilience.RetryConfig, concurrency int) *Annotator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Annotator{client: client, retry: retry, concurrency: concurrency}
}

// File annotates a single file in place and returns a success message.
// Side effects, in order: read, complete, write backup (when enabled),
// overwrite. The backup is written and synced before the original is
// touched, so a crash mid-sequence never loses the original content.
func (a *Annotator) File(ctx context.Context, path string, backup bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", eris.Wrapf(ErrNotFound, "%s", path)
		}
		return "", eris.Wrapf(err, "annotate: read %s", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", eris.Wrapf(ErrEmptyFile, "%s", path)
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	label := language.Resolve(filepath.Ext(path))
	log := zap.L().With(zap.String("path", path), zap.String("language", label))
	log.Debug("requesting annotation", zap.Int("bytes", len(data)))

	retry := a.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("complete")
	}
	annotated, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		return a.client.Complete(ctx, string(data), label)
	})
	if err != nil {
		return "", eris.Wrapf(err, "annotate: %s", path)
	}

	if backup {
		if err := writeSynced(path+BackupSuffix, data, mode); err != nil {
			return "", eris.Wrapf(err, "annotate: write backup for %s", path)
		}
	}

	if err := os.WriteFile(path, []byte(annotated), mode); err != nil {
		return "", eris.Wrapf(err, "annotate: write %s", path)
	}

	log.Info("file annotated", zap.Bool("backup", backup))
	return fmt.Sprintf("annotated (%s)", label), nil
}

// All processes each path independently and returns one outcome per path in
// input order. A failing path is recorded and processing continues; the
// batch never aborts early and never returns an error. Concurrency above 1
// runs a bounded worker pool; each worker writes only its own index, so the
// ordering and isolation guarantees hold for any setting.
func (a *Annotator) All(ctx context.Context, paths []string, backup bool) []Outcome {
	outcomes := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			msg, err := a.File(gctx, path, backup)
			if err != nil {
				zap.L().Error("annotation failed", zap.String("path", path), zap.Error(err))
				outcomes[i] = Outcome{Path: path, Err: err}
				return nil // individual failures never abort the batch
			}
			outcomes[i] = Outcome{Path: path, Message: msg}
			return nil
		})
	}

	_ = g.Wait() // workers always return nil
	return outcomes
}

// writeSynced writes data and syncs it to stable storage before returning.
func writeSynced(path string, data []byte, mode fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
