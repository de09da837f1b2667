package index

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/stats"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pragmas = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;
`

type DB struct {
	db *sqlx.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := applyMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{db: db}, nil
}

func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sqlx.DB {
	return d.db
}

type TranscriptInfo struct {
	Mtime int64 `db:"mtime"`
	Size  int64 `db:"size"`
}

func (d *DB) GetTranscriptInfo(key string) (*TranscriptInfo, error) {
	var info TranscriptInfo
	err := d.db.Get(&info, "SELECT mtime, size FROM transcripts WHERE transcript_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllTranscriptKeys() (map[string]struct{}, error) {
	var list []string
	if err := d.db.Select(&list, "SELECT transcript_key FROM transcripts"); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(list))
	for _, k := range list {
		keys[k] = struct{}{}
	}
	return keys, nil
}

func (d *DB) DeleteTranscript(key string) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTranscript(tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteTranscript(tx *sqlx.Tx, key string) error {
	if _, err := tx.Exec("DELETE FROM messages WHERE transcript_key = ?", key); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM transcripts WHERE transcript_key = ?", key)
	return err
}

func (d *DB) TranscriptCount() (int, error) {
	var n int
	err := d.db.Get(&n, "SELECT COUNT(*) FROM transcripts")
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.Get(&n, "SELECT COUNT(*) FROM messages")
	return n, err
}

func (d *DB) FTSCount() (int, error) {
	var n int
	err := d.db.Get(&n, "SELECT COUNT(*) FROM messages_fts")
	return n, err
}

type TranscriptRow struct {
	Key       string `db:"transcript_key"`
	FilePath  string `db:"file_path"`
	Records   int    `db:"records"`
	Dropped   int    `db:"dropped"`
	FirstDate string `db:"first_date"`
	LastDate  string `db:"last_date"`
}

const transcriptColumns = "transcript_key, file_path, records, dropped, first_date, last_date"

func (d *DB) GetTranscriptByKey(key string) (*TranscriptRow, error) {
	var t TranscriptRow
	err := d.db.Get(&t, "SELECT "+transcriptColumns+" FROM transcripts WHERE transcript_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTranscripts returns all indexed transcripts ordered by key.
func (d *DB) ListTranscripts() ([]TranscriptRow, error) {
	var rows []TranscriptRow
	err := d.db.Select(&rows, "SELECT "+transcriptColumns+" FROM transcripts ORDER BY transcript_key")
	return rows, err
}

type MessageRow struct {
	TranscriptKey string `db:"transcript_key"`
	LineNumber    int    `db:"line_number"`
	Date          string `db:"date"`
	Time          string `db:"time"`
	Sender        string `db:"sender"`
	Message       string `db:"message"`
}

func (m MessageRow) record() parse.Record {
	return parse.Record{Date: m.Date, Time: m.Time, Sender: m.Sender, Message: m.Message, Line: m.LineNumber}
}

// Transcript rebuilds the stored transcript. Stored records go back through
// parse.ParseLine, so the result is the same as loading the original file.
func (d *DB) Transcript(key string) (*parse.Transcript, error) {
	t, err := d.GetTranscriptByKey(key)
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("transcript not found: %s", key)
	}

	var rows []MessageRow
	err = d.db.Select(&rows,
		"SELECT transcript_key, line_number, date, time, sender, message FROM messages WHERE transcript_key = ? ORDER BY line_number",
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	lines := make([]parse.RawLine, 0, len(rows))
	for _, m := range rows {
		lines = append(lines, parse.RawLine{Number: m.LineNumber, Text: m.record().String()})
	}
	return parse.FromRawLines(lines, parse.WithSource(t.FilePath)), nil
}

// SenderCounts counts messages per sender in SQL, ordered like stats.SummaryBySender.
func (d *DB) SenderCounts(key string) ([]stats.SenderCount, error) {
	var counts []stats.SenderCount
	err := d.db.Select(&counts, `
		SELECT sender AS sender, COUNT(*) AS count
		FROM messages
		WHERE transcript_key = ?
		GROUP BY sender
		ORDER BY count DESC, sender ASC`,
		key,
	)
	return counts, err
}
