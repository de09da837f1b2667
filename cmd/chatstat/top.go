package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func topCmd(a *app) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top <file>",
		Short: "Show the most active senders and their share of messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			return a.out.FormatTable(cmd.OutOrStdout(), present.TopTable(stats.TopNByCount(t, a.topN(n))))
		},
	}

	cmd.Flags().IntVarP(&n, "top", "n", 0, "Number of senders (default top_n from config)")

	return cmd
}

// topN resolves a --top flag against the configured default.
func (a *app) topN(n int) int {
	if n > 0 {
		return n
	}
	if a.cfg != nil && a.cfg.TopN > 0 {
		return a.cfg.TopN
	}
	return present.DefaultTopN
}
