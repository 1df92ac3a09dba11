package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/annotate-cli/internal/annotate"
	"github.com/sells-group/annotate-cli/internal/store"
	"github.com/sells-group/annotate-cli/pkg/dashscope"
)

var (
	runNoBackup    bool
	runConcurrency int
)

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "Annotate one or more source files in place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := newCompletionClient()

		concurrency := runConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.Concurrency
		}
		annotator := annotate.New(client, cfg.Retry.Resilience(), concurrency)

		started := time.Now().UTC()
		outcomes := annotator.All(ctx, args, !runNoBackup)
		finished := time.Now().UTC()

		for _, o := range outcomes {
			fmt.Println(o)
		}

		if err := recordHistory(ctx, started, finished, outcomes); err != nil {
			zap.L().Warn("failed to record run history", zap.Error(err))
		}

		// Per-file failures are reported as outcomes, not process failure.
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoBackup, "no-backup", false, "do not write <path>.backup copies before overwriting")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "files processed in parallel (default from config, 1 = sequential)")
	rootCmd.AddCommand(runCmd)
}

func newCompletionClient() dashscope.Client {
	return dashscope.NewClient(cfg.LLM.Key,
		dashscope.WithBaseURL(cfg.LLM.BaseURL),
		dashscope.WithModel(cfg.LLM.Model),
		dashscope.WithMaxTokens(cfg.LLM.MaxTokens),
		dashscope.WithDebug(cfg.LLM.Debug),
		dashscope.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		}),
	)
}

// recordHistory persists the batch to the run-history store when one is
// configured. History is best effort and never affects outcomes.
func recordHistory(ctx context.Context, started, finished time.Time, outcomes []annotate.Outcome) error {
	if cfg.Store.Path == "" {
		return nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	run, files := historyRecords(started, finished, outcomes)
	return st.RecordRun(ctx, run, files)
}

// historyRecords converts batch outcomes into store rows.
func historyRecords(started, finished time.Time, outcomes []annotate.Outcome) (store.Run, []store.FileRecord) {
	run := store.Run{
		StartedAt:  started,
		FinishedAt: finished,
		Total:      len(outcomes),
	}
	files := make([]store.FileRecord, 0, len(outcomes))
	for _, o := range outcomes {
		f := store.FileRecord{Path: o.Path}
		if o.Failed() {
			run.Failed++
			f.Status = store.FileFailed
			f.Message = o.Err.Error()
		} else {
			run.Succeeded++
			f.Status = store.FileSucceeded
			f.Message = o.Message
		}
		files = append(files, f)
	}
	return run, files
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
