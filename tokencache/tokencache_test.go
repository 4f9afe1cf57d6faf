package tokencache

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"nuskha/kashshaf/corpus"
)

// newTestCache builds a Cache over a throwaway in-memory sqlite
// database seeded with one page of tokens.
func newTestCache(t *testing.T) (*Cache, corpus.PageKey) {
	t.Helper()

	path := fmt.Sprintf("file:tokencache-%s?mode=memory&cache=shared", t.Name())
	seedDB, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { seedDB.Close() })
	seedDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE page_tokens (book_id INTEGER, part_index INTEGER, page_id INTEGER, token_ids BLOB)`,
		`CREATE TABLE token_definitions (id INTEGER PRIMARY KEY, surface TEXT, lemma_id INTEGER, root_id INTEGER, pos_id INTEGER, feature_set_id INTEGER, clitic_set_id INTEGER)`,
		`CREATE TABLE roots (id INTEGER PRIMARY KEY, root TEXT)`,
		`CREATE TABLE lemmas (id INTEGER PRIMARY KEY, lemma TEXT)`,
		`CREATE TABLE pos_types (id INTEGER PRIMARY KEY, pos TEXT)`,
		`CREATE TABLE feature_sets (id INTEGER PRIMARY KEY, features TEXT)`,
		`CREATE TABLE clitic_sets (id INTEGER PRIMARY KEY, clitics TEXT)`,
	}
	for _, stmt := range schema {
		_, err := seedDB.Exec(stmt)
		require.NoError(t, err)
	}

	mustExec(t, seedDB, `INSERT INTO lemmas (id, lemma) VALUES (1, 'الله'), (2, 'كتاب')`)
	mustExec(t, seedDB, `INSERT INTO roots (id, root) VALUES (1, 'ك.ت.ب')`)
	mustExec(t, seedDB, `INSERT INTO pos_types (id, pos) VALUES (1, 'NOUN'), (2, 'PROPN')`)
	mustExec(t, seedDB, `INSERT INTO feature_sets (id, features) VALUES (1, '["DEF"]')`)
	mustExec(t, seedDB, `INSERT INTO clitic_sets (id, clitics) VALUES (1, '[]')`)

	mustExec(t, seedDB,
		`INSERT INTO token_definitions (id, surface, lemma_id, root_id, pos_id, feature_set_id, clitic_set_id) VALUES
		(10, 'كتاب', 2, 1, 1, 1, 1),
		(11, 'الله', 1, NULL, 2, 1, 1)`)

	blob := encodeIDs(10, 11)
	_, err = seedDB.Exec(`INSERT INTO page_tokens (book_id, part_index, page_id, token_ids) VALUES (1, 1, 1, ?)`, blob)
	require.NoError(t, err)

	cache, err := New(Config{MetadataStorePath: path, Capacity: 10})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, corpus.PageKey{BookID: 1, PartIndex: 1, PageID: 1}
}

func mustExec(t *testing.T, db *sql.DB, query string) {
	t.Helper()
	_, err := db.Exec(query)
	require.NoError(t, err)
}

func encodeIDs(ids ...uint32) []byte {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}
	return buf
}

func TestCacheGetHydratesTokens(t *testing.T) {
	cache, key := newTestCache(t)

	tokens, err := cache.Get(key)
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	require.Equal(t, "كتاب", tokens[0].Surface)
	require.Equal(t, "كتاب", tokens[0].Lemma)
	require.NotNil(t, tokens[0].Root)
	require.Equal(t, "ك.ت.ب", *tokens[0].Root)

	require.Equal(t, "الله", tokens[1].Surface)
	require.Nil(t, tokens[1].Root)

	require.Equal(t, 0, tokens[0].Index)
	require.Equal(t, 1, tokens[1].Index)
}

func TestCacheGetMissingPageIsEmptyNotError(t *testing.T) {
	cache, _ := newTestCache(t)

	tokens, err := cache.Get(corpus.PageKey{BookID: 99, PartIndex: 1, PageID: 1})
	require.NoError(t, err)
	require.Empty(t, tokens)
}

func TestCacheGetIsMemoized(t *testing.T) {
	cache, key := newTestCache(t)

	first, err := cache.Get(key)
	require.NoError(t, err)
	second, err := cache.Get(key)
	require.NoError(t, err)
	require.Len(t, second, len(first))

	entries, cap := cache.Stats()
	require.Equal(t, 1, entries)
	require.Equal(t, 10, cap)
}

func TestFindWildcardPhrasePositions(t *testing.T) {
	cache, key := newTestCache(t)

	positions, err := cache.FindWildcardPhrasePositions(key, "كت", "", 0, []string{"كتاب", "الله"})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, positions)
}
