package searchengine

import (
	"sort"
	"time"

	"github.com/blevesearch/bleve/v2"
	index "github.com/blevesearch/bleve_index_api"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/corpus/kerr"
	"nuskha/kashshaf/internal/queryterms"
	"nuskha/kashshaf/postings"
	"nuskha/kashshaf/tokencache"
)

// Engine dispatches the five query modes against a bleve index and a
// token cache. It holds no per-request state and is safe for
// concurrent use: bleve readers are opened per request from bleve's
// own reload-on-commit snapshot, and tokencache.Cache is internally
// synchronized.
type Engine struct {
	index bleve.Index
	cache *tokencache.Cache
}

// New wraps an already-open bleve index and token cache as an Engine.
// The caller retains ownership of both and must close them once the
// process is done with the corpus.
func New(idx bleve.Index, cache *tokencache.Cache) *Engine {
	return &Engine{index: idx, cache: cache}
}

// DocCount reports the number of documents in the index, for
// transport-layer health checks.
func (e *Engine) DocCount() (uint64, error) {
	n, err := e.index.DocCount()
	if err != nil {
		return 0, kerr.Wrap(kerr.IndexFailure, "failed to read index doc count", err)
	}
	return n, nil
}

// GetPage returns the stored fields of one page, without running a
// search.
func (e *Engine) GetPage(key corpus.PageKey) (*Page, error) {
	doc, err := e.index.Document(key.String())
	if err != nil {
		return nil, kerr.Wrap(kerr.IndexFailure, "failed to read document", err)
	}
	if doc == nil {
		return nil, kerr.New(kerr.InvalidQuery, "page not found: "+key.String())
	}

	page := Page{BookID: key.BookID, PartIndex: key.PartIndex, PageID: key.PageID}
	doc.VisitFields(func(f index.Field) {
		switch f.Name() {
		case fieldPartLabel:
			page.PartLabel = string(f.Value())
		case fieldPageNumber:
			page.PageNumber = string(f.Value())
		case fieldBody:
			page.Body = string(f.Value())
		case fieldAuthorID:
			page.AuthorID = numericFieldUint(f)
		case fieldDeathAH:
			page.DeathAH = numericFieldUint(f)
		case fieldCenturyAH:
			page.CenturyAH = numericFieldUint(f)
		case fieldGenreID:
			page.GenreID = numericFieldUint(f)
		}
	})

	return &page, nil
}

// GetPageTokens returns the hydrated token sequence for key,
// delegating directly to the token cache.
func (e *Engine) GetPageTokens(key corpus.PageKey) ([]corpus.Token, error) {
	return e.cache.Get(key)
}

// GetMatchPositions computes the highlight positions for a single
// term on a single page, without running a full search.
func (e *Engine) GetMatchPositions(key corpus.PageKey, term corpus.SearchTerm) ([]int, error) {
	normalized := normalizeTerm(term)
	terms := queryterms.Split(normalized)
	if len(terms) == 0 {
		return nil, nil
	}

	reader, err := e.openReader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	internalID, err := reader.InternalID(key.String())
	if err != nil || internalID == nil {
		return nil, nil // page not in the index: no positions
	}

	probe := postings.New(reader)
	if len(terms) == 1 {
		return probe.PositionsForTerms(term.Mode.Field(), terms, internalID, simpleHighlightCap), nil
	}
	return probe.PhrasePositions(term.Mode.Field(), terms, internalID, simpleHighlightCap), nil
}

// openReader opens a fresh low-level index reader for one request,
// so concurrent requests each see a consistent snapshot; callers
// must Close it when done.
func (e *Engine) openReader() (index.IndexReader, error) {
	idx, err := e.index.Advanced()
	if err != nil {
		return nil, kerr.Wrap(kerr.IndexFailure, "failed to access index internals", err)
	}
	reader, err := idx.Reader()
	if err != nil {
		return nil, kerr.Wrap(kerr.IndexFailure, "failed to open index reader", err)
	}
	return reader, nil
}

// sortChronological orders results by author death year ascending,
// nulls last, stably.
func sortChronological(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Page.DeathAH, results[j].Page.DeathAH
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}

// paginate slices a chronologically sorted result list by offset and
// limit.
func paginate(results []Result, pag Pagination) []Result {
	if pag.Offset >= len(results) {
		return []Result{}
	}
	end := pag.Offset + pag.Limit
	if pag.Limit <= 0 || end > len(results) {
		end = len(results)
	}
	return results[pag.Offset:end]
}

func overfetchSize(pag Pagination) int {
	n := pag.Offset + pag.Limit
	if n <= 0 {
		n = pag.Limit
	}
	if n <= 0 {
		n = 1
	}
	return n
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
