package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/search"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
)

// markSnippet turns the >>> <<< match markers into color codes, or drops them.
func markSnippet(snippet string, color bool) string {
	start, end := "", ""
	if color {
		start, end = sColorBoldRed, sColorReset
	}
	snippet = strings.ReplaceAll(snippet, ">>>", start)
	return strings.ReplaceAll(snippet, "<<<", end)
}

func searchCmd(a *app) *cobra.Command {
	var sender, since string
	var limit int
	var distinct, noUpdate bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed transcripts",
		Long: `Search indexed messages using FTS5 (substring match for CJK queries).
With --format tsv the first two columns are the transcript key and line, for fzf:

  chatstat search --format tsv "$*" | fzf \
    --delimiter='\t' --header-lines=1 --with-nth=3.. \
    --preview 'chatstat preview {1} {5} --hit {2} --context 5' \
    --bind 'enter:execute(chatstat open {1} {2})'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := index.OpenDB(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if !noUpdate {
				if _, err := index.IndexAll(cmd.Context(), db, a.cfg.TranscriptRoot, a.log); err != nil {
					a.log.Warn("index update failed", "err", err)
				}
			}

			results, err := search.Search(db, search.Options{
				Query:    strings.Join(args, " "),
				Sender:   sender,
				Since:    since,
				Limit:    limit,
				Distinct: distinct,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				a.log.Info("no results")
			}

			color := a.out.Name() == "text" && isTerminal(cmd.OutOrStdout())
			return a.out.FormatTable(cmd.OutOrStdout(), resultsTable(results, color))
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Only messages from this sender")
	cmd.Flags().StringVar(&since, "since", "", "Only messages on or after this date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	cmd.Flags().BoolVar(&distinct, "distinct", false, "Best hit per transcript only")
	cmd.Flags().BoolVar(&noUpdate, "no-update", false, "Skip refreshing the index before searching")

	return cmd
}

func resultsTable(results []search.Result, color bool) present.Table {
	t := present.Table{
		Headers: []string{"Key", "Line", "Date", "Time", "Sender", "Snippet"},
		Rows:    make([][]string, 0, len(results)),
	}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{
			r.TranscriptKey,
			strconv.Itoa(r.LineNumber),
			r.Date,
			r.Time,
			r.Sender,
			markSnippet(r.Snippet, color),
		})
	}
	if len(results) > 0 {
		t.Title = fmt.Sprintf("%d results", len(results))
	}
	return t
}
