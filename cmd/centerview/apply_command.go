package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"centerview/internal/apply"
	"centerview/internal/events"
	"centerview/internal/store"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply pending label changes as filesystem moves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			sinks := []events.Sink{events.NewLogSink(ws.logger)}
			if ws.journal != nil {
				sinks = append(sinks, ws.journal)
			}
			engine := apply.NewEngine(ws.root, labelDirs(ws.cfg), events.NewMulti(sinks...), ws.logger)

			started := time.Now()
			report, err := engine.Apply(cmd.Context(), ws.session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Empty() {
				fmt.Fprintln(out, "No pending changes to apply.")
				return nil
			}

			failures := make([]store.FailureRow, 0, len(report.Failed))
			for _, failure := range report.Failed {
				failures = append(failures, store.FailureRow{
					RunID:  report.RunID,
					Path:   failure.Path,
					Reason: string(failure.Reason),
					Cause:  failure.Cause(),
				})
			}
			if err := ws.store.RecordRun(cmd.Context(), store.Run{
				RunID:          report.RunID,
				StartedAt:      started,
				Moved:          len(report.Moved),
				AlreadyApplied: len(report.AlreadyApplied),
				Failed:         len(report.Failed),
			}, failures); err != nil {
				return fmt.Errorf("record apply run: %w", err)
			}

			// Marks for reconciled records are spent; failed records keep
			// theirs so the next invocation retries them.
			for _, moved := range report.Moved {
				if err := ws.store.ClearMark(cmd.Context(), moved.OldPath); err != nil {
					return err
				}
			}
			for _, applied := range report.AlreadyApplied {
				if err := ws.store.ClearMark(cmd.Context(), applied.Path); err != nil {
					return err
				}
			}

			color := shouldColorize(out)
			if len(report.Moved) > 0 {
				rows := make([][]string, 0, len(report.Moved))
				for _, moved := range report.Moved {
					rows = append(rows, []string{
						filepath.Base(moved.OldPath),
						displayLabel(moved.From),
						displayLabel(moved.To),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"FILE", "FROM", "TO"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}
			if len(report.Failed) > 0 {
				rows := make([][]string, 0, len(report.Failed))
				for _, failure := range report.Failed {
					rows = append(rows, []string{
						filepath.Base(failure.Path),
						string(failure.Reason),
						failure.Cause(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"FILE", "REASON", "DETAIL"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}

			summary := fmt.Sprintf("Run %s: moved %d, already applied %d, failed %d",
				shortRunID(report.RunID), len(report.Moved), len(report.AlreadyApplied), len(report.Failed))
			if len(report.Failed) > 0 {
				fmt.Fprintln(out, colorize(summary, ansiYellow, color))
				return fmt.Errorf("%d of %d pending changes failed; run `centerview apply` again to retry", len(report.Failed), report.Reconciled()+len(report.Failed))
			}
			fmt.Fprintln(out, colorize(summary, ansiGreen, color))
			return nil
		},
	}
}
