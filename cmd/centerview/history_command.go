package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded apply runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()

			if runID != "" {
				failures, err := ws.store.RunFailures(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(failures) == 0 {
					fmt.Fprintf(out, "No recorded failures for run %s.\n", shortRunID(runID))
					return nil
				}
				rows := make([][]string, 0, len(failures))
				for _, failure := range failures {
					rows = append(rows, []string{
						filepath.Base(failure.Path),
						failure.Reason,
						failure.Cause,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"FILE", "REASON", "DETAIL"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			runs, err := ws.store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No apply runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(run.Moved),
					strconv.Itoa(run.AlreadyApplied),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"RUN", "STARTED", "MOVED", "ALREADY APPLIED", "FAILED"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-file failures of one run")
	return cmd
}
