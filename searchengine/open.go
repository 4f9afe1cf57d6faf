package searchengine

import (
	"github.com/blevesearch/bleve/v2"

	"nuskha/kashshaf/corpus/kerr"
	"nuskha/kashshaf/tokencache"
)

// Config is everything the core needs at construction: an index
// directory, a metadata store path, and a token-cache capacity. No
// environment variables or flags belong here; those are the
// transport/cmd layer's job.
type Config struct {
	IndexDir           string
	MetadataStorePath  string
	TokenCacheCapacity int
}

// Open opens the bleve index directory and the token cache's
// metadata store, returning a ready-to-use Engine. Either missing
// artifact is a construction-time kerr.CorpusNotReady.
func Open(cfg Config) (*Engine, error) {
	idx, err := bleve.Open(cfg.IndexDir)
	if err != nil {
		return nil, kerr.Wrap(kerr.CorpusNotReady, "failed to open index directory", err)
	}

	cache, err := tokencache.New(tokencache.Config{
		MetadataStorePath: cfg.MetadataStorePath,
		Capacity:          cfg.TokenCacheCapacity,
	})
	if err != nil {
		idx.Close()
		return nil, err
	}

	return New(idx, cache), nil
}

// Close releases the index and the token cache's store connection.
func (e *Engine) Close() error {
	cacheErr := e.cache.Close()
	if err := e.index.Close(); err != nil {
		return kerr.Wrap(kerr.IndexFailure, "failed to close index", err)
	}
	return cacheErr
}
