package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chatstat/internal/chart"
	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/render"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

const msgSelectSender = "Select a sender first (option 2)."

// viewRenderedMsg is sent when an async view render completes.
type viewRenderedMsg struct {
	opt     option
	sender  string
	content string
	err     error
}

// renderViewCmd computes the view for opt off the UI goroutine.
func renderViewCmd(t *parse.Transcript, opt option, sender string, topN, width int) tea.Cmd {
	return func() tea.Msg {
		content, err := renderView(t, opt, sender, topN, width)
		return viewRenderedMsg{opt: opt, sender: sender, content: content, err: err}
	}
}

// renderView renders one menu option. The sender is passed in by the caller
// and sender-scoped options require it to be set.
func renderView(t *parse.Transcript, opt option, sender string, topN, width int) (string, error) {
	if opt.needsSender() && sender == "" {
		return msgSelectSender, nil
	}

	var b strings.Builder
	switch opt {
	case optSummary:
		if err := (present.TextFormatter{}).FormatTable(&b, present.SummaryTable(stats.SummaryBySender(t))); err != nil {
			return "", err
		}
	case optHistory:
		content, _ := render.RenderHistory(stats.HistoryForSender(t, sender), render.Options{
			Sender:  sender,
			Context: -1,
			Width:   width,
		})
		b.WriteString(content)
	case optHistogram:
		b.WriteString(chart.Terminal(present.HistogramSeries(sender, stats.DailyCountsForSender(t, sender)), width))
	case optShare:
		top := stats.TopNByCount(t, topN)
		b.WriteString(chart.Terminal(present.PieSeries(top), width))
		b.WriteString("\n")
		if err := (present.TextFormatter{}).FormatTable(&b, present.TopTable(top)); err != nil {
			return "", err
		}
	case optTimeline:
		b.WriteString(chart.Terminal(present.TimelineSeries(sender, stats.TimelineForSender(t, sender)), width))
	}
	return b.String(), nil
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	return viewport.New(width, height)
}
