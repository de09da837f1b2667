package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type option int

const (
	optNone option = iota
	optSummary
	optHistory
	optHistogram
	optShare
	optTimeline
	optQuit
)

type menuItem struct {
	opt   option
	key   string
	label string
}

// menu is shown in this order; the cursor indexes into it.
var menu = []menuItem{
	{optSummary, "1", "Summary"},
	{optHistory, "2", "Sender history"},
	{optHistogram, "3", "Histogram for sender"},
	{optShare, "4", "Share of top senders"},
	{optTimeline, "5", "Messages over time for sender"},
	{optQuit, "0", "Quit"},
}

func optionForKey(k string) (option, bool) {
	for _, it := range menu {
		if it.key == k {
			return it.opt, true
		}
	}
	return 0, false
}

// needsSender reports whether the option works on the selected sender.
func (o option) needsSender() bool {
	return o == optHistogram || o == optTimeline
}

// renderMenu renders the left panel: the numbered options and the selection.
func (m model) renderMenu(width, height int) string {
	var lines []string
	lines = append(lines, styleTitle.Render("Menu"), "")

	for i, it := range menu {
		label := runewidth.Truncate(it.label, max(width-5, 0), "…")
		row := styleMenuKey.Render(it.key) + label
		if i == m.cursor {
			lines = append(lines, styleMenuSelected.Render("> ")+row)
		} else {
			lines = append(lines, "  "+styleMenuNormal.Render(row))
		}
	}

	lines = append(lines, "", styleTitle.Render("Sender"))
	if m.sender == "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDim).Render("(none)"))
	} else {
		lines = append(lines, styleSender.Render(runewidth.Truncate(m.sender, width, "…")))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
