package stats

import (
	"fmt"

	"github.com/samber/lo"
)

// minLabelPercent hides pie labels for slices too thin to read.
const minLabelPercent = 3.0

type SenderShare struct {
	Sender  string  `json:"sender" yaml:"sender"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Label formats the percentage, or returns "" below 3%.
func (s SenderShare) Label() string {
	if s.Percent < minLabelPercent {
		return ""
	}
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// Share converts counts to percentages of their total.
func Share(counts []SenderCount) []SenderShare {
	total := lo.SumBy(counts, func(c SenderCount) int { return c.Count })
	return lo.Map(counts, func(c SenderCount, _ int) SenderShare {
		s := SenderShare{Sender: c.Sender, Count: c.Count}
		if total > 0 {
			s.Percent = float64(c.Count) * 100 / float64(total)
		}
		return s
	})
}
