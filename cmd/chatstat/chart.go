package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/chart"
	"github.com/Zuo-Peng/chatstat/internal/open"
	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

func chartCmd(a *app) *cobra.Command {
	var kindName, sender, outPath string
	var n int
	var termOut, data, openAfter bool

	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Chart daily activity, sender share or a sender's timeline",
		Long: `Kinds:
  bar   messages per day for --sender
  pie   share of messages over the top senders
  line  messages over time for --sender, zero on days the sender was silent

The chart is written as an HTML page (--out, default under chart_dir). Use
--term to draw it in the terminal or --data to print the underlying series.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := chart.ParseKind(kindName)
			if err != nil {
				return err
			}
			if kind != chart.KindPie && sender == "" {
				return errNoSender
			}

			t, err := a.loadTranscript(args[0])
			if err != nil {
				return err
			}
			s := chartSeries(t, kind, sender, a.topN(n))

			w := cmd.OutOrStdout()
			switch {
			case termOut:
				_, err := fmt.Fprint(w, chart.Terminal(s, terminalWidth(w)))
				return err
			case data:
				return a.out.FormatSeries(w, s)
			}

			if outPath == "" {
				outPath = defaultChartPath(a.cfg.ChartDir, args[0], kind)
			}
			if err := chart.WriteHTMLFile(outPath, kind, s); err != nil {
				return err
			}
			a.log.Info("chart written", "path", outPath, "kind", kind, "points", s.Len())
			fmt.Fprintln(w, outPath)

			if openAfter {
				return open.Browser(outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", string(chart.KindBar), "Chart kind: bar, pie or line")
	cmd.Flags().StringVar(&sender, "sender", "", "Sender for bar and line charts")
	cmd.Flags().IntVarP(&n, "top", "n", 0, "Senders in the pie chart (default top_n from config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "HTML output file")
	cmd.Flags().BoolVar(&termOut, "term", false, "Draw the chart in the terminal")
	cmd.Flags().BoolVar(&data, "data", false, "Print the chart data in --format")
	cmd.Flags().BoolVar(&openAfter, "open", false, "Open the HTML chart in a browser")
	cmd.MarkFlagsMutuallyExclusive("term", "data", "out")

	return cmd
}

func chartSeries(t *parse.Transcript, kind chart.Kind, sender string, topN int) present.Series {
	switch kind {
	case chart.KindPie:
		return present.PieSeries(stats.TopNByCount(t, topN))
	case chart.KindLine:
		return present.TimelineSeries(sender, stats.TimelineForSender(t, sender))
	default:
		return present.HistogramSeries(sender, stats.DailyCountsForSender(t, sender))
	}
}

// defaultChartPath names the chart after the transcript, e.g. family-pie.html.
func defaultChartPath(dir, source string, kind chart.Kind) string {
	base := filepath.Base(strings.TrimPrefix(source, "txt:"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.html", base, kind))
}
