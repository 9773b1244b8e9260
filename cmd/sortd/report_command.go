package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sortd/internal/config"
	"sortd/internal/history"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report <root>",
		Short: "Show recorded outcomes from previous runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			historyPath := cfg.HistoryPath(root)
			if _, err := os.Stat(historyPath); err != nil {
				return fmt.Errorf("no history recorded under %s", root)
			}

			store, err := history.Open(historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), runID, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				payload := struct {
					Records []history.Record    `json:"records"`
					Summary *history.RunSummary `json:"summary,omitempty"`
				}{Records: records}
				if runID != "" {
					summary, err := store.Summarize(cmd.Context(), runID)
					if err != nil {
						return err
					}
					payload.Summary = summary
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No outcomes recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					shortRunID(rec.RunID),
					string(rec.Outcome),
					rec.SourcePath,
					rec.Destination,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Run", "Outcome", "Source", "Destination"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if runID != "" {
				summary, err := store.Summarize(cmd.Context(), runID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Run %s: %d moved, %d duplicates, %d skipped, %d failed\n",
					shortRunID(summary.RunID), summary.Moved, summary.Duplicates, summary.Skipped, summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Limit output to a single run ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit records as JSON")

	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
