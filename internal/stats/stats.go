// Package stats computes read-only views over a parsed transcript: message
// counts per sender, per-sender history and per-day activity.
//
// Ranking views order equal counts by sender name (byte order) so results are
// deterministic.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/Zuo-Peng/chatstat/internal/parse"
)

type SenderCount struct {
	Sender string `json:"sender" yaml:"sender"`
	Count  int    `json:"count" yaml:"count"`
}

// Entry is one message in a sender's history.
type Entry struct {
	Date    string `json:"date" yaml:"date"`
	Time    string `json:"time" yaml:"time"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
}

// DateCount is a message count keyed by the date string as it appears in the transcript.
type DateCount struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

type DayCount struct {
	Day   time.Time `json:"day" yaml:"day"`
	Count int       `json:"count" yaml:"count"`
}

type DaySenderCount struct {
	Day    time.Time `json:"day" yaml:"day"`
	Sender string    `json:"sender" yaml:"sender"`
	Count  int       `json:"count" yaml:"count"`
}

// Daily holds per-day, per-sender counts. Records whose date is not
// DD/MM/YYYY are left out of Counts and tallied in Unparseable.
type Daily struct {
	Counts      []DaySenderCount `json:"counts" yaml:"counts"`
	Unparseable int              `json:"unparseable" yaml:"unparseable"`
}

func compareSenderCounts(a, b SenderCount) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Sender, b.Sender)
}

// SummaryBySender counts messages per sender, largest first.
func SummaryBySender(t *parse.Transcript) []SenderCount {
	counts := lo.CountValuesBy(t.Records(), func(r parse.Record) string { return r.Sender })
	out := lo.MapToSlice(counts, func(sender string, n int) SenderCount {
		return SenderCount{Sender: sender, Count: n}
	})
	slices.SortFunc(out, compareSenderCounts)
	return out
}

// TopNByCount returns the n senders with the most messages.
func TopNByCount(t *parse.Transcript, n int) []SenderCount {
	if n <= 0 {
		return []SenderCount{}
	}
	summary := lo.Filter(SummaryBySender(t), func(c SenderCount, _ int) bool { return c.Count > 0 })
	if len(summary) > n {
		summary = summary[:n]
	}
	return summary
}

// HistoryForSender returns the sender's messages in transcript order. The
// sender must match exactly; an unknown sender yields an empty slice.
func HistoryForSender(t *parse.Transcript, sender string) []Entry {
	out := []Entry{}
	for r := range t.All() {
		if r.Sender != sender {
			continue
		}
		out = append(out, Entry{Date: r.Date, Time: r.Time, Message: r.Message, Line: r.Line})
	}
	return out
}

// DailyCountsForSender counts the sender's messages per date. Only dates with
// at least one message appear. Valid dates are keyed by their DD/MM/YYYY form,
// so 1/1/2024 and 01/01/2024 are one day, and ordered by calendar day; other
// date strings come last in string order.
func DailyCountsForSender(t *parse.Transcript, sender string) []DateCount {
	var dates []string
	counts := make(map[string]int)
	for r := range t.All() {
		if r.Sender != sender {
			continue
		}
		key, ok := parse.CanonicalDate(r.Date)
		if !ok {
			key = r.Date
		}
		if _, seen := counts[key]; !seen {
			dates = append(dates, key)
		}
		counts[key]++
	}

	slices.SortFunc(dates, compareDates)
	out := make([]DateCount, 0, len(dates))
	for _, d := range dates {
		out = append(out, DateCount{Date: d, Count: counts[d]})
	}
	return out
}

func compareDates(a, b string) int {
	da, okA := parse.ParseDate(a)
	db, okB := parse.ParseDate(b)
	switch {
	case okA && okB:
		if c := da.Compare(db); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

type daySender struct {
	day    int64
	sender string
}

// DailyCountsBySender counts messages per calendar day and sender, ordered by
// day then sender.
func DailyCountsBySender(t *parse.Transcript) Daily {
	var d Daily
	counts := make(map[daySender]int)
	days := make(map[int64]time.Time)
	for r := range t.All() {
		day, ok := r.Day()
		if !ok {
			d.Unparseable++
			continue
		}
		k := daySender{day: day.Unix(), sender: r.Sender}
		counts[k]++
		days[k.day] = day
	}

	d.Counts = make([]DaySenderCount, 0, len(counts))
	for k, n := range counts {
		d.Counts = append(d.Counts, DaySenderCount{Day: days[k.day], Sender: k.sender, Count: n})
	}
	slices.SortFunc(d.Counts, func(a, b DaySenderCount) int {
		if c := a.Day.Compare(b.Day); c != 0 {
			return c
		}
		return cmp.Compare(a.Sender, b.Sender)
	})
	return d
}

// Days returns the distinct days in d, ascending.
func (d Daily) Days() []time.Time {
	days := lo.UniqBy(lo.Map(d.Counts, func(c DaySenderCount, _ int) time.Time { return c.Day }),
		func(day time.Time) int64 { return day.Unix() })
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// TimelineForSender returns the sender's count for every day on which anyone
// in the transcript wrote, with zero for the days the sender was silent. An
// unknown sender yields an empty slice.
func TimelineForSender(t *parse.Transcript, sender string) []DayCount {
	daily := DailyCountsBySender(t)

	byDay := make(map[int64]int)
	for _, c := range daily.Counts {
		if c.Sender == sender {
			byDay[c.Day.Unix()] = c.Count
		}
	}
	if len(byDay) == 0 {
		return []DayCount{}
	}

	return lo.Map(daily.Days(), func(day time.Time, _ int) DayCount {
		return DayCount{Day: day, Count: byDay[day.Unix()]}
	})
}
