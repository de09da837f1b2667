package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Count messages per sender, most active first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			return a.out.FormatTable(cmd.OutOrStdout(), present.SummaryTable(stats.SummaryBySender(t)))
		},
	}
}
