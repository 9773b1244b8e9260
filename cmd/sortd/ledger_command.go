package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sortd/internal/config"
	"sortd/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ledger <root>",
		Short: "Inspect the completion ledger for a root",
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

			ledgerPath := cfg.LedgerPath(root)
			entries, err := ledger.ReadEntries(ledgerPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, struct {
					Path    string   `json:"path"`
					Count   int      `json:"count"`
					Entries []string `json:"entries"`
				}{Path: ledgerPath, Count: len(entries), Entries: entries})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ledger: %s\n", ledgerPath)
			fmt.Fprintf(out, "Recorded paths: %d\n", len(entries))
			for _, entry := range entries {
				fmt.Fprintln(out, entry)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit ledger contents as JSON")

	return cmd
}
