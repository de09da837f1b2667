package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/parse"
)

var ErrEmptyQuery = errors.New("empty search query")

type Result struct {
	TranscriptKey string  `db:"transcript_key" json:"transcript_key" yaml:"transcript_key"`
	FilePath      string  `db:"file_path" json:"file_path" yaml:"file_path"`
	LineNumber    int     `db:"line_number" json:"line" yaml:"line"`
	Date          string  `db:"date" json:"date" yaml:"date"`
	Time          string  `db:"time" json:"time" yaml:"time"`
	Sender        string  `db:"sender" json:"sender" yaml:"sender"`
	Snippet       string  `db:"snip" json:"snippet" yaml:"snippet"`
	Rank          float64 `db:"rank" json:"rank" yaml:"rank"`
}

type Options struct {
	Query    string
	Sender   string // "" = all senders, otherwise exact match
	Since    string // "" = no filter; YYYY-MM-DD or DD/MM/YYYY
	Limit    int
	Distinct bool // keep only the best hit per transcript
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	runes := []rune(text)
	if idx < 0 || len(lower) != len(text) {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// ftsQuery quotes every whitespace-separated term so punctuation in chat
// text ("7?", "it's") is matched literally. Terms are ANDed.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// sinceDay normalizes a since filter to the YYYY-MM-DD form stored in messages.day.
func sinceDay(s string) (string, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, ok := parse.ParseDate(s); ok {
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("invalid since date %q: want YYYY-MM-DD or DD/MM/YYYY", s)
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	origLimit := opts.Limit
	if opts.Distinct {
		// fetch more so enough remain after dedup
		opts.Limit = origLimit * 3
	}

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}
	if !opts.Distinct {
		return results, nil
	}

	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.TranscriptKey] {
			continue
		}
		seen[r.TranscriptKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func filters(opts Options) ([]string, []any, error) {
	var conditions []string
	var args []any

	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Since != "" {
		day, err := sinceDay(opts.Since)
		if err != nil {
			return nil, nil, err
		}
		// messages with an unparseable date have day = '' and drop out here
		conditions = append(conditions, "m.day >= ?")
		args = append(args, day)
	}
	return conditions, args, nil
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions, args, err := filters(opts)
	if err != nil {
		return nil, err
	}
	conditions = append([]string{"messages_fts MATCH ?"}, conditions...)
	args = append([]any{ftsQuery(opts.Query)}, args...)

	query := fmt.Sprintf(`
		SELECT
			m.transcript_key,
			t.file_path,
			m.line_number,
			m.date,
			m.time,
			m.sender,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 40) AS snip,
			bm25(messages_fts, 1.0) AS rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN transcripts t ON m.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY rank, m.transcript_key, m.line_number
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	var results []Result
	if err := db.Raw().Select(&results, query, args...); err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args, err := filters(opts)
	if err != nil {
		return nil, err
	}
	conditions = append([]string{`m.message LIKE ? ESCAPE '\'`}, conditions...)
	args = append([]any{"%" + likeEscaper.Replace(opts.Query) + "%"}, args...)

	query := fmt.Sprintf(`
		SELECT
			m.transcript_key,
			t.file_path,
			m.line_number,
			m.date,
			m.time,
			m.sender,
			m.message AS snip,
			0.0 AS rank
		FROM messages m
		JOIN transcripts t ON m.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY m.day DESC, m.transcript_key, m.line_number
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	var results []Result
	if err := db.Raw().Select(&results, query, args...); err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	for i := range results {
		results[i].Snippet = makeSnippet(results[i].Snippet, opts.Query, 30)
	}
	return results, nil
}
