package chart

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	"github.com/Zuo-Peng/chatstat/internal/present"
)

const (
	barGlyph      = "█"
	maxLabelWidth = 24
	minBarWidth   = 10
)

// Terminal draws s as a horizontal bar chart that fits in width columns.
func Terminal(s present.Series, width int) string {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(s.Title)
		b.WriteString("\n\n")
	}
	if s.Len() == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}

	labelW := 0
	for _, c := range s.Categories[:s.Len()] {
		labelW = max(labelW, runewidth.StringWidth(c))
	}
	labelW = min(labelW, maxLabelWidth)

	maxVal := s.Max()
	valueW := len(fmt.Sprint(maxVal))
	barW := max(width-labelW-valueW-4, minBarWidth)

	for i := 0; i < s.Len(); i++ {
		label := runewidth.Truncate(s.Categories[i], labelW, "…")
		label = runewidth.FillRight(label, labelW)
		n := 0
		if maxVal > 0 {
			n = s.Values[i] * barW / maxVal
		}
		if s.Values[i] > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%s │%s %*d\n", label, strings.Repeat(barGlyph, n), valueW, s.Values[i])
	}

	total := lo.Sum(s.Values[:s.Len()])
	fmt.Fprintf(&b, "%s   total %d\n", strings.Repeat(" ", labelW), total)
	return b.String()
}
