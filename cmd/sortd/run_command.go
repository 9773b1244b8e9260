package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"sortd/internal/config"
	"sortd/internal/history"
	"sortd/internal/ledger"
	"sortd/internal/logging"
	"sortd/internal/sorter"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var noProgress bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Classify every file under root into per-extension buckets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Sorting.Workers = workers
			}

			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
				return fmt.Errorf("invalid directory: %s", root)
			}

			showProgress := !noProgress && !jsonOutput && isatty.IsTerminal(os.Stdout.Fd())

			logPaths := []string{cfg.LogPath(root), "stderr"}
			if showProgress {
				// Keep the terminal clean for the bar; the run log still
				// captures everything.
				logPaths = []string{cfg.LogPath(root)}
			}
			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: logPaths,
			})
			if err != nil {
				return err
			}

			led, err := ledger.Open(cfg.LedgerPath(root), cfg.LockPath(root))
			if err != nil {
				return err
			}
			defer led.Close()

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg.HistoryPath(root))
				if err != nil {
					logger.Warn("history store unavailable; outcomes will not be recorded", logging.Error(err))
				} else {
					defer store.Close()
				}
			}

			var bar *progressbar.ProgressBar
			progress := func(completed, total int) {}
			if showProgress {
				progress = func(completed, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("sorting"),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish(),
						)
					}
					_ = bar.Set(completed)
				}
			}

			engine, err := sorter.New(sorter.Options{
				Config:   cfg,
				Root:     root,
				Ledger:   led,
				History:  store,
				Logger:   logger,
				Progress: progress,
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := engine.Run(runCtx)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			printSummary(cmd, summary)

			if summary.NothingFound() {
				return fmt.Errorf("no files to process under %s", root)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count (default: host parallelism)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")

	return cmd
}

func printSummary(cmd *cobra.Command, summary *sorter.Summary) {
	rows := [][]string{
		{"Moved", fmt.Sprintf("%d", summary.Moved)},
		{"Duplicates", fmt.Sprintf("%d", summary.Duplicates)},
		{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Already recorded", fmt.Sprintf("%d", summary.AlreadyDone)},
		{"Already in place", fmt.Sprintf("%d", summary.AlreadyPlaced)},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	if summary.LedgerFailures > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d ledger append(s) failed; those files were moved but may be re-examined next run\n", summary.LedgerFailures)
	}
}
