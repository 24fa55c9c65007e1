package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"centerview/internal/events"
	"centerview/internal/review"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	var labelFlag string

	cmd := &cobra.Command{
		Use:   "mark <file>...",
		Short: "Toggle or set the label on one or more images",
		Long: "Toggle the label on the named images, or set an explicit label with --label.\n" +
			"Changes stay pending until `centerview apply` moves the files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target review.Label
			if labelFlag != "" {
				parsed, err := review.ParseLabel(labelFlag)
				if err != nil {
					return err
				}
				target = parsed
			}

			ws, err := ctx.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				record, err := resolveRecord(ws.session, arg)
				if err != nil {
					return err
				}
				from := record.CurrentLabel

				if labelFlag == "" {
					if _, err := ws.session.Toggle(record.Path); err != nil {
						return err
					}
				} else {
					if err := ws.session.SetLabel(record.Path, target); err != nil {
						return err
					}
				}

				record, err = ws.session.Get(record.Path)
				if err != nil {
					return err
				}
				if record.CurrentLabel == from {
					fmt.Fprintf(out, "%s is already %s\n", filepath.Base(record.Path), record.CurrentLabel)
					continue
				}

				if record.Dirty() {
					err = ws.store.SetMark(cmd.Context(), record.Path, record.CurrentLabel)
				} else {
					err = ws.store.ClearMark(cmd.Context(), record.Path)
				}
				if err != nil {
					return err
				}

				if ws.journal != nil {
					ws.journal.Publish(events.Toggled{
						Path: record.Path,
						From: string(from),
						To:   string(record.CurrentLabel),
					})
				}

				state := "pending"
				if !record.Dirty() {
					state = "reverted"
				}
				fmt.Fprintf(out, "%s: %s -> %s (%s)\n", filepath.Base(record.Path), from, record.CurrentLabel, state)
			}

			fmt.Fprintf(out, "%d pending change(s)\n", ws.session.PendingCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&labelFlag, "label", "l", "", "Set an explicit label (center or not_center) instead of toggling")
	return cmd
}
