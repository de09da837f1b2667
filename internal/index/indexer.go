package index

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/scan"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

// dayLayout is the sortable form stored in messages.day.
const dayLayout = "2006-01-02"

type Stats struct {
	Scanned int `json:"scanned" yaml:"scanned"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Pruned  int `json:"pruned" yaml:"pruned"`
	Errors  int `json:"errors" yaml:"errors"`
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// TranscriptKey derives the stable key of a transcript file under root.
func TranscriptKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return "txt:" + strings.TrimSuffix(rel, filepath.Ext(rel))
}

// IndexAll loads every transcript under root into db. Files whose mtime and
// size are unchanged are skipped, and transcripts whose file is gone are pruned.
func IndexAll(ctx context.Context, db *DB, root string, log *slog.Logger) (Stats, error) {
	var st Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return st, fmt.Errorf("scan: %w", err)
	}
	st.Scanned = len(files)

	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		key := TranscriptKey(root, fi.Path)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			st.Errors++
			log.Warn("check transcript", "path", fi.Path, "err", err)
			continue
		}
		if !needs {
			st.Skipped++
			continue
		}

		t, err := parse.LoadFile(fi.Path, parse.WithLogger(log))
		if err != nil {
			st.Errors++
			log.Warn("load transcript", "path", fi.Path, "err", err)
			continue
		}

		if err := indexTranscript(ctx, db, key, fi, t); err != nil {
			st.Errors++
			log.Warn("index transcript", "path", fi.Path, "err", err)
			continue
		}
		log.Debug("indexed", "key", key, "records", t.Len(), "dropped", t.Dropped())
		st.Updated++
	}

	pruned, err := pruneTranscripts(db, seenKeys)
	if err != nil {
		return st, fmt.Errorf("prune: %w", err)
	}
	st.Pruned = pruned

	return st, nil
}

func needsUpdate(db *DB, key string, mtime, size int64) (bool, error) {
	info, err := db.GetTranscriptInfo(key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexTranscript(ctx context.Context, db *DB, key string, fi scan.FileInfo, t *parse.Transcript) error {
	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTranscript(tx, key); err != nil {
		return err
	}

	first, last := dateRange(t)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transcripts (transcript_key, file_path, records, dropped, first_date, last_date, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key, fi.Path, t.Len(), t.Dropped(), first, last, fi.Mtime, fi.Size,
	)
	if err != nil {
		return err
	}

	if err := insertMessages(ctx, tx, key, t); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMessages(ctx context.Context, tx *sqlx.Tx, key string, t *parse.Transcript) error {
	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO messages (transcript_key, line_number, date, time, sender, message, day)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for r := range t.All() {
		day := ""
		if d, ok := r.Day(); ok {
			day = d.Format(dayLayout)
		}
		if _, err := stmt.ExecContext(ctx, key, r.Line, r.Date, r.Time, r.Sender, r.Message, day); err != nil {
			return err
		}
	}
	return nil
}

// dateRange returns the first and last calendar day of t in DD/MM/YYYY form.
func dateRange(t *parse.Transcript) (string, string) {
	days := stats.DailyCountsBySender(t).Days()
	if len(days) == 0 {
		return "", ""
	}
	return days[0].Format(parse.DateLayout), days[len(days)-1].Format(parse.DateLayout)
}

func pruneTranscripts(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllTranscriptKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteTranscript(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
