package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/tui"
)

func menuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <file>",
		Short: "Explore a transcript in an interactive menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			return tui.Run(t, a.topN(0))
		},
	}
}
