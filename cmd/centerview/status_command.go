package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List review records and their pending changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			var rows [][]string
			for i, record := range ws.session.Snapshot() {
				if pendingOnly && !record.Dirty() {
					continue
				}
				change := ""
				if record.Dirty() {
					change = colorize(fmt.Sprintf("%s -> %s", record.InitialLabel, record.CurrentLabel), ansiYellow, color)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					filepath.Base(record.Path),
					displayLabel(record.CurrentLabel),
					change,
				})
			}

			if len(rows) == 0 {
				if pendingOnly {
					fmt.Fprintln(out, "No pending changes.")
				} else {
					fmt.Fprintf(out, "No reviewable images under %s.\n", ws.root)
				}
				return nil
			}

			fmt.Fprintln(out, renderTable(
				[]string{"#", "FILE", "LABEL", "PENDING"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d of %d pending\n", ws.session.PendingCount(), ws.session.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Show only records with pending changes")
	return cmd
}
