package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centerview/internal/review"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the review root and summarize its contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			counts := map[review.Label]int{}
			for _, record := range ws.session.Snapshot() {
				counts[record.CurrentLabel]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Review root: %s\n", ws.root)
			fmt.Fprintf(out, "  Images:     %d\n", ws.session.Len())
			fmt.Fprintf(out, "  %-11s %d\n", displayLabel(review.LabelCenter)+":", counts[review.LabelCenter])
			fmt.Fprintf(out, "  %-11s %d\n", displayLabel(review.LabelNotCenter)+":", counts[review.LabelNotCenter])
			fmt.Fprintf(out, "  Pending:    %d\n", ws.session.PendingCount())
			return nil
		},
	}
}
