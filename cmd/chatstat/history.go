package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <file> <sender>",
		Short: "List every message of one sender in transcript order",
		Long:  `The sender must match exactly (case and spacing). An unknown sender prints an empty table.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			sender := args[1]
			return a.out.FormatTable(cmd.OutOrStdout(), present.HistoryTable(sender, stats.HistoryForSender(t, sender)))
		},
	}
}
