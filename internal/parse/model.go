package parse

import (
	"fmt"
	"time"
)

// DateLayout is the canonical DD/MM/YYYY form of Record.Date.
const DateLayout = "02/01/2006"

// dateParseLayout also accepts single-digit day and month.
const dateParseLayout = "2/1/2006"

// Record is one successfully parsed transcript line.
type Record struct {
	Date    string `json:"date" yaml:"date"`
	Time    string `json:"time" yaml:"time"`
	Sender  string `json:"sender" yaml:"sender"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"` // 1-based line in the source
}

// Day parses Date as a calendar day. ok is false for a date that is not DD/MM/YYYY.
func (r Record) Day() (time.Time, bool) {
	return ParseDate(r.Date)
}

// String renders the record back into transcript line form.
// ParseLine(r.String()) yields r again, apart from Line.
func (r Record) String() string {
	return fmt.Sprintf("[%s, %s] %s: %s", r.Date, r.Time, r.Sender, r.Message)
}

// ParseDate parses a DD/MM/YYYY date into a UTC midnight time.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateParseLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CanonicalDate normalizes s to DateLayout.
func CanonicalDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}
