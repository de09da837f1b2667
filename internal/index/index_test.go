package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatstat/internal/logging"
	"github.com/Zuo-Peng/chatstat/internal/parse"
	"github.com/Zuo-Peng/chatstat/internal/stats"
)

const family = `[01/01/2024, 09:00:00] Alice: Happy new year!
[01/01/2024, 09:01:12] Bob: Same to you
this line is noise
[02/01/2024, 18:30:00] Alice: Dinner at 7?
[02/01/2024, 18:31:00] Carol: count me in
`

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "chatstat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeTranscript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestOpenDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatstat.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.TranscriptCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTranscriptKey(t *testing.T) {
	root := filepath.Join("/data", "chats")
	assert.Equal(t, "txt:family", TranscriptKey(root, filepath.Join(root, "family.txt")))
	assert.Equal(t, "txt:work/team", TranscriptKey(root, filepath.Join(root, "work", "team.TXT")))
	assert.Equal(t, "txt:other", TranscriptKey(root, filepath.Join("/elsewhere", "other.txt")))
}

func TestIndexAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	root := t.TempDir()
	writeTranscript(t, filepath.Join(root, "family.txt"), family)
	writeTranscript(t, filepath.Join(root, "work", "team.txt"), "[03/02/2024, 10:00:00] Dan: standup\n")

	st, err := IndexAll(ctx, db, root, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Updated: 2}, st)
	assert.Equal(t, "scanned=2 updated=2 skipped=0 pruned=0 errors=0", st.String())

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = db.FTSCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	row, err := db.GetTranscriptByKey("txt:family")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 4, row.Records)
	assert.Equal(t, 1, row.Dropped)
	assert.Equal(t, "01/01/2024", row.FirstDate)
	assert.Equal(t, "02/01/2024", row.LastDate)

	// unchanged files are skipped
	st, err = IndexAll(ctx, db, root, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Skipped: 2}, st)

	// removed files are pruned
	require.NoError(t, os.Remove(filepath.Join(root, "work", "team.txt")))
	st, err = IndexAll(ctx, db, root, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Pruned)

	rows, err := db.ListTranscripts()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "txt:family", rows[0].Key)
}

func TestIndexAll_Reindex(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "family.txt")
	writeTranscript(t, path, family)

	_, err := IndexAll(ctx, db, root, logging.Discard())
	require.NoError(t, err)

	writeTranscript(t, path, family+"[03/01/2024, 08:00:00] Bob: morning\n")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	st, err := IndexAll(ctx, db, root, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Updated)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestIndexAll_Cancelled(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeTranscript(t, filepath.Join(root, "family.txt"), family)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := IndexAll(ctx, db, root, logging.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranscript_MatchesFile(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "family.txt")
	writeTranscript(t, path, family)

	_, err := IndexAll(context.Background(), db, root, logging.Discard())
	require.NoError(t, err)

	fromDB, err := db.Transcript("txt:family")
	require.NoError(t, err)
	fromFile, err := parse.Load(strings.NewReader(family))
	require.NoError(t, err)

	assert.Equal(t, fromFile.Records(), fromDB.Records())
	assert.Equal(t, path, fromDB.Source())

	_, err = db.Transcript("txt:missing")
	assert.Error(t, err)
}

func TestSenderCounts(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeTranscript(t, filepath.Join(root, "family.txt"), family)

	_, err := IndexAll(context.Background(), db, root, logging.Discard())
	require.NoError(t, err)

	counts, err := db.SenderCounts("txt:family")
	require.NoError(t, err)

	tr, err := parse.Load(strings.NewReader(family))
	require.NoError(t, err)
	assert.Equal(t, stats.SummaryBySender(tr), counts)
}

func TestDeleteTranscript(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeTranscript(t, filepath.Join(root, "family.txt"), family)

	_, err := IndexAll(context.Background(), db, root, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, db.DeleteTranscript("txt:family"))

	info, err := db.GetTranscriptInfo("txt:family")
	require.NoError(t, err)
	assert.Nil(t, info)

	n, err := db.FTSCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
