package present

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by NewFormatter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported format names.
var Formats = []string{"text", "tsv", "json", "yaml"}

// Formatter writes tables and series in one output format.
type Formatter interface {
	Name() string
	FormatTable(w io.Writer, t Table) error
	FormatSeries(w io.Writer, s Series) error
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "text":
		return TextFormatter{}, nil
	case "tsv":
		return TSVFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "yaml":
		return YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// TextFormatter renders aligned tables for a terminal.
type TextFormatter struct{}

func (TextFormatter) Name() string { return "text" }

func (TextFormatter) FormatTable(w io.Writer, t Table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", t.Title); err != nil {
			return err
		}
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(t.Rows)
	table.Render()
	return nil
}

func (f TextFormatter) FormatSeries(w io.Writer, s Series) error {
	return f.FormatTable(w, s.Table())
}

// TSVFormatter writes tab-separated rows, header first, for pipes.
type TSVFormatter struct{}

func (TSVFormatter) Name() string { return "tsv" }

func (TSVFormatter) FormatTable(w io.Writer, t Table) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.Headers, "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			c = strings.ReplaceAll(c, "\t", " ")
			cells[i] = strings.ReplaceAll(c, "\n", " ")
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func (f TSVFormatter) FormatSeries(w io.Writer, s Series) error {
	return f.FormatTable(w, s.Table())
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

type tableDoc struct {
	Title string              `json:"title" yaml:"title"`
	Rows  []map[string]string `json:"rows" yaml:"rows"`
}

func (JSONFormatter) FormatTable(w io.Writer, t Table) error {
	return encodeJSON(w, tableDoc{Title: t.Title, Rows: t.Records()})
}

func (JSONFormatter) FormatSeries(w io.Writer, s Series) error {
	return encodeJSON(w, s)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) FormatTable(w io.Writer, t Table) error {
	return encodeYAML(w, tableDoc{Title: t.Title, Rows: t.Records()})
}

func (YAMLFormatter) FormatSeries(w io.Writer, s Series) error {
	return encodeYAML(w, s)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
