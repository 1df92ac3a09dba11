package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/annotate-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect annotation run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past annotation runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.Store.Path == "" {
			return eris.New("run history is disabled; set store.path (ANNOTATE_STORE_PATH)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show per-file outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Store.Path == "" {
			return eris.New("run history is disabled; set store.path (ANNOTATE_STORE_PATH)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, files, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		formatRunDetail(os.Stdout, run, files)
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "max runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to out.
func formatRunsList(out io.Writer, runs []store.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tTOTAL\tOK\tFAILED")
	_, _ = fmt.Fprintln(w, "--\t-------\t--------\t-----\t--\t------")

	for _, r := range runs {
		dur := r.FinishedAt.Sub(r.StartedAt).Round(time.Second)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			dur,
			r.Total, r.Succeeded, r.Failed,
		)
	}
	_ = w.Flush()
}

// formatRunDetail writes one run and its per-file outcomes to out.
func formatRunDetail(out io.Writer, run *store.Run, files []store.FileRecord) {
	_, _ = fmt.Fprintf(out, "Run %s: %d files, %d succeeded, %d failed\n\n",
		run.ID, run.Total, run.Succeeded, run.Failed)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PATH\tSTATUS\tMESSAGE")
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", f.Path, f.Status, f.Message)
	}
	_ = w.Flush()
}
