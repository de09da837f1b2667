package present

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

const (
	labelDate     = "Date"
	labelMessages = "Messages"
)

func SummaryTable(counts []stats.SenderCount) Table {
	return Table{
		Title:   "Messages per sender",
		Headers: []string{"Sender", labelMessages},
		Rows: lo.Map(counts, func(c stats.SenderCount, _ int) []string {
			return []string{c.Sender, strconv.Itoa(c.Count)}
		}),
	}
}

func HistoryTable(sender string, entries []stats.Entry) Table {
	return Table{
		Title:   fmt.Sprintf("History of %s", sender),
		Headers: []string{labelDate, "Time", "Message"},
		Rows: lo.Map(entries, func(e stats.Entry, _ int) []string {
			return []string{e.Date, e.Time, e.Message}
		}),
	}
}

func DailyTable(sender string, counts []stats.DateCount) Table {
	return Table{
		Title:   fmt.Sprintf("Messages per day - %s", sender),
		Headers: []string{labelDate, labelMessages},
		Rows: lo.Map(counts, func(c stats.DateCount, _ int) []string {
			return []string{c.Date, strconv.Itoa(c.Count)}
		}),
	}
}

// TopTable lists the top senders with their share of the listed total.
func TopTable(counts []stats.SenderCount) Table {
	return Table{
		Title:   fmt.Sprintf("Share of messages per sender (top %d)", len(counts)),
		Headers: []string{"Sender", labelMessages, "Share"},
		Rows: lo.Map(stats.Share(counts), func(s stats.SenderShare, _ int) []string {
			return []string{s.Sender, strconv.Itoa(s.Count), s.Label()}
		}),
	}
}

// HistogramSeries is the per-day bar view for one sender.
func HistogramSeries(sender string, counts []stats.DateCount) Series {
	return Series{
		Title:      fmt.Sprintf("Messages per day - %s", sender),
		Name:       sender,
		XLabel:     labelDate,
		YLabel:     labelMessages,
		Categories: lo.Map(counts, func(c stats.DateCount, _ int) string { return c.Date }),
		Values:     lo.Map(counts, func(c stats.DateCount, _ int) int { return c.Count }),
	}
}

// PieSeries is the share-of-messages view over the top senders.
func PieSeries(counts []stats.SenderCount) Series {
	return Series{
		Title:      fmt.Sprintf("Share of messages per sender (top %d)", len(counts)),
		Name:       labelMessages,
		Categories: lo.Map(counts, func(c stats.SenderCount, _ int) string { return c.Sender }),
		Values:     lo.Map(counts, func(c stats.SenderCount, _ int) int { return c.Count }),
	}
}

// TimelineSeries is the messages-over-time line view for one sender.
func TimelineSeries(sender string, counts []stats.DayCount) Series {
	return Series{
		Title:      "Messages over time",
		Name:       sender,
		XLabel:     labelDate,
		YLabel:     labelMessages,
		Categories: lo.Map(counts, func(c stats.DayCount, _ int) string { return c.Day.Format(parse.DateLayout) }),
		Values:     lo.Map(counts, func(c stats.DayCount, _ int) int { return c.Count }),
	}
}
