package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"credsentry/internal/config"
	internaldb "credsentry/internal/db"
	"credsentry/internal/db/repository"
	"credsentry/internal/domain"
)

func newRunsCmd() *cobra.Command {
	var (
		status     string
		trigger    string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded check runs",
		Long:  "Lists the check runs recorded in the local history store, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 1)
			if err != nil {
				return fmt.Errorf("open run-history store: %w", err)
			}
			defer writeDB.Close() //nolint:errcheck
			defer readDB.Close()  //nolint:errcheck
			if err := internaldb.RunMigrations(writeDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			filter := domain.RunFilter{Page: domain.PageRequest{MaxResults: maxResults}}
			if status != "" {
				filter.Status = &status
			}
			if trigger != "" {
				filter.Trigger = &trigger
			}

			runs, total, err := repository.NewRunRepo(writeDB, readDB).ListRuns(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == "json" {
				return printRunsJSON(out, runs)
			}
			printRunsTable(out, runs, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by run status (succeeded|failed)")
	cmd.Flags().StringVar(&trigger, "trigger", "", "filter by trigger (manual|scheduled|api)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "maximum runs to list")

	return cmd
}

func printRunsJSON(w io.Writer, runs []domain.CheckRun) error {
	out := make([]runOutput, len(runs))
	for i, run := range runs {
		out[i] = runOutput{
			ID:           run.ID,
			ServiceName:  run.ServiceName,
			Total:        run.Total,
			NonCompliant: run.NonCompliant,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printRunsTable(w io.Writer, runs []domain.CheckRun, total int64) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRIGGER\tSTATUS\tTOTAL\tNON-COMPLIANT\tSTARTED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Trigger, run.Status, run.Total, run.NonCompliant,
			run.StartedAt.Format(time.RFC3339),
		)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d of %d run(s) shown\n", len(runs), total)
}
