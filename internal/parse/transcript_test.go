package parse

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleTranscript = `[01/01/2024, 09:00:00] Alice: hello there
[01/01/2024, 09:01:00] Bob: hi Alice
not a valid line
[02/01/2024, 10:00:00] Alice: good morning
`

func TestLoad_Example(t *testing.T) {
	tr, err := Load(strings.NewReader(exampleTranscript))
	require.NoError(t, err)

	require.Equal(t, 3, tr.Len())
	assert.Equal(t, 1, tr.Dropped())
	assert.Equal(t, []string{"Alice", "Bob"}, tr.Senders())

	assert.Equal(t, Record{Date: "01/01/2024", Time: "09:00:00", Sender: "Alice", Message: "hello there", Line: 1}, tr.At(0))
	assert.Equal(t, 2, tr.At(1).Line)
	assert.Equal(t, 4, tr.At(2).Line)
}

func TestLoad_NeverFailsOnContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"only newlines", "\n\n\n", 0},
		{"all invalid", "foo\nbar\n[bad\n", 0},
		{"no trailing eol", "[01/01/2024, 09:00:00] Alice: last", 1},
		{"binary-ish", "\x00\x01\x02]: \xff\n", 0},
		{"multi-line message", "[01/01/2024, 09:00:00] Alice: first line\nsecond line\nthird: line\n", 1},
		{"mixed", exampleTranscript, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Load(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Len())
		})
	}
}

func TestLoad_LongLine(t *testing.T) {
	long := "[01/01/2024, 09:00:00] Alice: " + strings.Repeat("x", 2*1024*1024)
	tr, err := Load(strings.NewReader(long + "\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())
	assert.Len(t, tr.At(0).Message, 2*1024*1024)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoad_ReaderError(t *testing.T) {
	_, err := Load(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLoad_LogsDroppedLines(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Load(strings.NewReader(exampleTranscript), WithLogger(log), WithSource("chat.txt"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "dropped line")
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "source=chat.txt")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "_chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(exampleTranscript), 0o644))

	tr, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, path, tr.Source())

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTranscript_RecordsIsACopy(t *testing.T) {
	tr := FromLines(strings.Split(strings.TrimSpace(exampleTranscript), "\n"))

	recs := tr.Records()
	recs[0].Sender = "Mallory"

	assert.Equal(t, "Alice", tr.At(0).Sender)
}

func TestTranscript_All(t *testing.T) {
	tr := FromLines(strings.Split(strings.TrimSpace(exampleTranscript), "\n"))

	var senders []string
	for r := range tr.All() {
		senders = append(senders, r.Sender)
	}
	assert.Equal(t, []string{"Alice", "Bob", "Alice"}, senders)
}

func TestTranscript_NilIsEmpty(t *testing.T) {
	var tr *Transcript
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Records())
	assert.Empty(t, tr.Senders())
	for range tr.All() {
		t.Fatal("nil transcript yielded a record")
	}
}

func TestFromRawLines_KeepsNumbers(t *testing.T) {
	tr := FromRawLines([]RawLine{
		{Number: 10, Text: "[01/01/2024, 09:00:00] Alice: hi"},
		{Number: 42, Text: "garbage"},
		{Number: 57, Text: "[01/01/2024, 09:05:00] Bob: yo"},
	})
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, 10, tr.At(0).Line)
	assert.Equal(t, 57, tr.At(1).Line)
	assert.Equal(t, 1, tr.Dropped())
}
