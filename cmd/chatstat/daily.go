package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func dailyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daily <file> <sender>",
		Short: "Count one sender's messages per date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			sender := args[1]
			return a.out.FormatTable(cmd.OutOrStdout(), present.DailyTable(sender, stats.DailyCountsForSender(t, sender)))
		},
	}
}
