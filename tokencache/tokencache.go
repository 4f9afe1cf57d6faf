// Package tokencache hydrates and memoizes the annotated token
// sequence of a page.
//
// A Cache loads five lookup tables in full at construction, then on
// each miss reads one packed token-ID blob and a batch of token
// definitions from the metadata store, joining them against the
// lookup tables to produce an ordered []corpus.Token. The result is
// published into an LRU and shared thereafter: callers receive the
// cached slice itself, which is never mutated after publication and
// stays valid past eviction.
package tokencache

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/corpus/kerr"
)

// defaultCapacity is used when Config.Capacity is not positive.
const defaultCapacity = 1000

// idBatchSize is the maximum number of token IDs joined per
// token_definitions statement, to respect the metadata store's bound
// parameter limit.
const idBatchSize = 500

// Config configures a Cache at construction.
type Config struct {
	MetadataStorePath string
	Capacity          int
}

// Cache is the process-wide token cache. It is safe for concurrent
// use: the lookup tables are read-only after New, and the embedded
// LRU is internally synchronized.
type Cache struct {
	db       *sql.DB
	lookups  lookupTables
	lru      *lru.Cache[corpus.PageKey, []corpus.Token]
	capacity int
}

// New opens the metadata store, loads the five lookup tables in full,
// and returns a Cache ready to serve Get. A failure to open the store
// or read any lookup table is fatal and is returned wrapped as
// kerr.CorpusNotReady.
func New(cfg Config) (*Cache, error) {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	db, err := sql.Open("sqlite3", cfg.MetadataStorePath)
	if err != nil {
		return nil, kerr.Wrap(kerr.CorpusNotReady, "failed to open metadata store", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, kerr.Wrap(kerr.CorpusNotReady, "metadata store is not reachable", err)
	}

	lookups, err := loadLookupTables(db)
	if err != nil {
		db.Close()
		return nil, kerr.Wrap(kerr.CorpusNotReady, "failed to load lookup tables", err)
	}

	cache, err := lru.New[corpus.PageKey, []corpus.Token](capacity)
	if err != nil {
		db.Close()
		return nil, kerr.Wrap(kerr.CorpusNotReady, "failed to construct token cache", err)
	}

	return &Cache{db: db, lookups: lookups, lru: cache, capacity: capacity}, nil
}

// Close releases the metadata store connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Clear evicts every cached page. Exposed for administrative use.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Stats returns (entries, capacity) of the underlying LRU.
func (c *Cache) Stats() (int, int) {
	return c.lru.Len(), c.capacity
}

// Get returns the token sequence for key, hydrating it from the
// metadata store on a cache miss. A page with no stored token blob
// returns an empty, non-nil sequence, not an error.
func (c *Cache) Get(key corpus.PageKey) ([]corpus.Token, error) {
	if tokens, ok := c.lru.Get(key); ok {
		return tokens, nil
	}

	tokens, err := c.loadTokens(key)
	if err != nil {
		return nil, err
	}

	c.lru.Add(key, tokens)
	return tokens, nil
}

// loadTokens performs the single-blob read plus batched definition
// join for one page.
func (c *Cache) loadTokens(key corpus.PageKey) ([]corpus.Token, error) {
	var blob []byte
	err := c.db.QueryRow(
		`SELECT token_ids FROM page_tokens WHERE book_id = ? AND part_index = ? AND page_id = ?`,
		key.BookID, key.PartIndex, key.PageID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return []corpus.Token{}, nil
	}
	if err != nil {
		return nil, kerr.Wrap(kerr.StoreFailure, "failed to read page_tokens", err)
	}

	tokenIDs := decodeTokenIDs(blob)
	if len(tokenIDs) == 0 {
		return []corpus.Token{}, nil
	}

	defs, err := c.loadDefinitions(tokenIDs)
	if err != nil {
		return nil, err
	}

	tokens := make([]corpus.Token, 0, len(tokenIDs))
	for idx, id := range tokenIDs {
		def, ok := defs[id]
		if !ok {
			continue // definition missing: drop this position, don't abort the page
		}

		lemma, ok := c.lookups.lemmas[def.lemmaID]
		if !ok {
			continue
		}
		pos, ok := c.lookups.posTypes[def.posID]
		if !ok {
			continue
		}

		var root *string
		if def.rootID != nil {
			if r, ok := c.lookups.roots[*def.rootID]; ok {
				root = &r
			}
		}

		tokens = append(tokens, corpus.Token{
			Index:    idx,
			Surface:  def.surface,
			Lemma:    lemma,
			Root:     root,
			POS:      pos,
			Features: c.lookups.featureSets[def.featureSetID],
			Clitics:  c.lookups.cliticSets[def.cliticSetID],
		})
	}

	return tokens, nil
}

// decodeTokenIDs parses a packed little-endian u32 array.
func decodeTokenIDs(blob []byte) []uint32 {
	n := len(blob) / 4
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, binary.LittleEndian.Uint32(blob[i*4:i*4+4]))
	}
	return ids
}

type tokenDef struct {
	surface      string
	lemmaID      int64
	rootID       *int64
	posID        int64
	featureSetID int64
	cliticSetID  int64
}

// loadDefinitions batch-reads token_definitions rows, chunked at
// idBatchSize IDs per statement.
func (c *Cache) loadDefinitions(ids []uint32) (map[uint32]tokenDef, error) {
	defs := make(map[uint32]tokenDef, len(ids))

	for start := 0; start < len(ids); start += idBatchSize {
		end := start + idBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		query := fmt.Sprintf(
			`SELECT id, surface, lemma_id, root_id, pos_id, feature_set_id, clitic_set_id
			 FROM token_definitions WHERE id IN (%s)`, placeholders)

		rows, err := c.db.Query(query, args...)
		if err != nil {
			return nil, kerr.Wrap(kerr.StoreFailure, "failed to read token_definitions", err)
		}

		for rows.Next() {
			var id uint32
			var def tokenDef
			var rootID sql.NullInt64
			if err := rows.Scan(&id, &def.surface, &def.lemmaID, &rootID, &def.posID, &def.featureSetID, &def.cliticSetID); err != nil {
				rows.Close()
				return nil, kerr.Wrap(kerr.StoreFailure, "failed to decode token_definitions row", err)
			}
			if rootID.Valid {
				v := rootID.Int64
				def.rootID = &v
			}
			defs[id] = def
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, kerr.Wrap(kerr.StoreFailure, "failed to iterate token_definitions", err)
		}
		rows.Close()
	}

	return defs, nil
}
