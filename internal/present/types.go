// Package present shapes stats results for display: row tables for text output
// and labeled series for charts.
package present

import (
	"strconv"

	"github.com/samber/lo"
)

// DefaultTopN is how many senders the share view shows.
const DefaultTopN = 15

// Table is a titled, row-oriented view.
type Table struct {
	Title   string     `json:"title" yaml:"title"`
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Records returns each row keyed by header.
func (t Table) Records() []map[string]string {
	return lo.Map(t.Rows, func(row []string, _ int) map[string]string {
		m := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		return m
	})
}

// Series is one labeled data series for a bar, pie or line chart.
type Series struct {
	Title      string   `json:"title" yaml:"title"`
	Name       string   `json:"name" yaml:"name"`
	XLabel     string   `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Categories []string `json:"categories" yaml:"categories"`
	Values     []int    `json:"values" yaml:"values"`
}

// Len returns the number of data points.
func (s Series) Len() int {
	return min(len(s.Categories), len(s.Values))
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() int {
	if len(s.Values) == 0 {
		return 0
	}
	return lo.Max(s.Values)
}

// Table turns the series into a two-column table.
func (s Series) Table() Table {
	x := s.XLabel
	if x == "" {
		x = "Category"
	}
	y := s.YLabel
	if y == "" {
		y = "Value"
	}
	rows := make([][]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		rows = append(rows, []string{s.Categories[i], strconv.Itoa(s.Values[i])})
	}
	return Table{Title: s.Title, Headers: []string{x, y}, Rows: rows}
}
