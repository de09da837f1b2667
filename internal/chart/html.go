// Package chart renders present.Series as HTML charts or terminal bar charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/Zuo-Peng/chatstat/internal/present"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

type Kind string

const (
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
	KindLine Kind = "line"
)

var ErrUnknownKind = errors.New("unknown chart kind")

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBar, KindPie, KindLine:
		return k, nil
	default:
		return "", fmt.Errorf("%w %q (want bar, pie or line)", ErrUnknownKind, s)
	}
}

type renderer interface {
	Render(w io.Writer) error
}

// WriteHTML renders s as a standalone HTML page.
func WriteHTML(w io.Writer, kind Kind, s present.Series) error {
	var r renderer
	switch kind {
	case KindBar:
		r = barChart(s)
	case KindPie:
		r = pieChart(s)
	case KindLine:
		r = lineChart(s)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return r.Render(w)
}

// WriteHTMLFile renders s into path, creating parent directories.
func WriteHTMLFile(path string, kind Kind, s present.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := WriteHTML(f, kind, s); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

func pageOpts(s present.Series) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: s.Title,
		Width:     "1000px",
		Height:    "600px",
	})
}

func barChart(s present.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		pageOpts(s),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: s.YLabel}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	data := lo.Map(s.Values, func(v int, _ int) opts.BarData { return opts.BarData{Value: v} })
	bar.SetXAxis(s.Categories).AddSeries(s.Name, data)
	return bar
}

func lineChart(s present.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		pageOpts(s),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: s.YLabel}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	data := lo.Map(s.Values, func(v int, _ int) opts.LineData { return opts.LineData{Value: v} })
	line.SetXAxis(s.Categories).AddSeries(s.Name, data)
	return line
}

func pieChart(s present.Series) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		pageOpts(s),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Right: "0", Top: "middle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	counts := make([]stats.SenderCount, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		counts = append(counts, stats.SenderCount{Sender: s.Categories[i], Count: s.Values[i]})
	}
	data := lo.Map(stats.Share(counts), func(sh stats.SenderShare, _ int) opts.PieData {
		d := opts.PieData{Name: sh.Sender, Value: sh.Count}
		if sh.Label() == "" {
			d.Label = &opts.Label{Show: opts.Bool(false)}
		}
		return d
	})
	pie.AddSeries(s.Name, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}
