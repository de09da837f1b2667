package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"slices"

	"github.com/samber/lo"
)

// Transcript is the ordered, read-only collection of records parsed from one
// source. Records keep the order of the source lines.
type Transcript struct {
	source  string
	records []Record
	dropped int
}

// RawLine is a numbered line of transcript text.
type RawLine struct {
	Number int
	Text   string
}

type loadOptions struct {
	log    *slog.Logger
	source string
}

// LoadOption configures Load and LoadFile.
type LoadOption func(*loadOptions)

// WithLogger logs every dropped line at debug level. Loading is silent without it.
func WithLogger(log *slog.Logger) LoadOption {
	return func(o *loadOptions) { o.log = log }
}

// WithSource names the transcript source, e.g. the file it came from.
func WithSource(source string) LoadOption {
	return func(o *loadOptions) { o.source = source }
}

// FromLines parses in-memory lines, numbering them from 1. It never fails.
func FromLines(lines []string, opts ...LoadOption) *Transcript {
	raw := lo.Map(lines, func(l string, i int) RawLine {
		return RawLine{Number: i + 1, Text: l}
	})
	return FromRawLines(raw, opts...)
}

// FromRawLines parses already numbered lines. It never fails.
func FromRawLines(lines []RawLine, opts ...LoadOption) *Transcript {
	o := applyOptions(opts)
	t := &Transcript{source: o.source}
	for _, l := range lines {
		t.add(o.log, l.Number, l.Text)
	}
	return t
}

// Load reads lines from r and keeps the ones ParseLine accepts. Unparseable
// lines are skipped; only a read failure of r is returned as an error.
func Load(r io.Reader, opts ...LoadOption) (*Transcript, error) {
	o := applyOptions(opts)
	t := &Transcript{source: o.source}

	br := bufio.NewReader(r)
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNum++
			t.add(o.log, lineNum, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", lineNum+1, err)
		}
	}

	if o.log != nil {
		o.log.Debug("transcript loaded", "source", t.source, "records", len(t.records), "dropped", t.dropped)
	}
	return t, nil
}

// LoadFile opens path and loads it. The path becomes the transcript source.
func LoadFile(path string, opts ...LoadOption) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts = append([]LoadOption{WithSource(path)}, opts...)
	return Load(f, opts...)
}

func applyOptions(opts []LoadOption) loadOptions {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (t *Transcript) add(log *slog.Logger, lineNum int, text string) {
	rec, err := ParseLine(text)
	if err != nil {
		t.dropped++
		if log != nil {
			log.Debug("dropped line", "source", t.source, "line", lineNum, "reason", err)
		}
		return
	}
	rec.Line = lineNum
	t.records = append(t.records, rec)
}

// Source returns the name the transcript was loaded from.
func (t *Transcript) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Len returns the number of records.
func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Dropped returns how many lines were discarded as unparseable.
func (t *Transcript) Dropped() int {
	if t == nil {
		return 0
	}
	return t.dropped
}

// At returns the i-th record.
func (t *Transcript) At(i int) Record {
	return t.records[i]
}

// Records returns a copy of all records in source order.
func (t *Transcript) Records() []Record {
	if t == nil {
		return nil
	}
	return slices.Clone(t.records)
}

// All iterates the records in source order without copying them.
func (t *Transcript) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if t == nil {
			return
		}
		for _, r := range t.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Senders returns the distinct senders in order of first appearance.
func (t *Transcript) Senders() []string {
	if t == nil {
		return nil
	}
	return lo.Uniq(lo.Map(t.records, func(r Record, _ int) string { return r.Sender }))
}
