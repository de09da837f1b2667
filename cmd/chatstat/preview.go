package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/render"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func previewCmd(a *app) *cobra.Command {
	var hit, context, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <key|file> <sender>",
		Short: "Show a sender's messages around a search hit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}

			sender := args[1]
			out, _ := render.RenderHistory(stats.HistoryForSender(t, sender), render.Options{
				Sender:  sender,
				Hit:     hit,
				Context: context,
				Width:   width,
				Query:   query,
			})
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().IntVar(&hit, "hit", 0, "Transcript line of the message to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show (-1 = all)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
