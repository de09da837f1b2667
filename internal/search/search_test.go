package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/logging"
)

func setupDB(t *testing.T) *index.DB {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"family.txt": "[01/01/2024, 09:00:00] Alice: Happy new year!\n" +
			"[02/01/2024, 18:30:00] Alice: Dinner at 7?\n" +
			"[02/01/2024, 18:31:00] Bob: dinner sounds good\n" +
			"[03/01/2024, 08:00:00] 小明: 今天吃饭了吗\n" +
			"[04/01/2024, 08:00:00] 小明: 打折100%好\n",
		"work.txt": "[05/01/2024, 10:00:00] Carol: team dinner friday\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o644))
	}

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "chatstat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = index.IndexAll(context.Background(), db, root, logging.Discard())
	require.NoError(t, err)
	return db
}

func TestSearch_FTS(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "dinner"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Contains(t, r.Snippet, ">>>")
	}

	results, err = Search(db, Options{Query: "dinner", Sender: "Alice"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "txt:family", r.TranscriptKey)
	assert.Equal(t, 2, r.LineNumber)
	assert.Equal(t, "02/01/2024", r.Date)
	assert.Equal(t, "18:30:00", r.Time)
	assert.Contains(t, r.Snippet, ">>>Dinner<<<")
}

func TestSearch_Punctuation(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "7?"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alice", results[0].Sender)
}

func TestSearch_Since(t *testing.T) {
	db := setupDB(t)

	for _, since := range []string{"2024-01-03", "03/01/2024", "3/1/2024"} {
		results, err := Search(db, Options{Query: "dinner", Since: since})
		require.NoError(t, err, since)
		require.Len(t, results, 1, since)
		assert.Equal(t, "Carol", results[0].Sender)
	}

	_, err := Search(db, Options{Query: "dinner", Since: "last week"})
	assert.Error(t, err)
}

func TestSearch_Distinct(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "dinner", Distinct: true})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = Search(db, Options{Query: "dinner", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_CJK(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "吃饭"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "小明", results[0].Sender)
	assert.Equal(t, "今天>>>吃饭<<<了吗", results[0].Snippet)
}

func TestSearch_CJKWildcardsAreLiteral(t *testing.T) {
	db := setupDB(t)

	results, err := Search(db, Options{Query: "今_吃"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "吃%"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "100%好"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].LineNumber)
}

func TestSearch_EmptyQuery(t *testing.T) {
	db := setupDB(t)
	_, err := Search(db, Options{Query: "  "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestMakeSnippet(t *testing.T) {
	tests := []struct {
		name, text, query string
		ctx               int
		want              string
	}{
		{"middle", "the quick brown fox", "brown", 4, "...ick >>>brown<<< fox"},
		{"case insensitive", "Hello World", "world", 20, "Hello >>>World<<<"},
		{"no match short", "abc", "zzz", 5, "abc"},
		{"no match long", "abcdefghij", "zzz", 2, "abcd..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, makeSnippet(tt.text, tt.query, tt.ctx))
		})
	}
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"dinner" "at" "7?"`, ftsQuery("dinner at  7?"))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
}
