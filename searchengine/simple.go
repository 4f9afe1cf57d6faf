package searchengine

import (
	"time"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/postings"
)

// SimpleSearch is the basic query mode: normalize,
// whitespace-tokenize, term query for one word or an ordered phrase
// query for several, union the position probe's highlights, sort
// chronologically, paginate.
func (e *Engine) SimpleSearch(term corpus.SearchTerm, filters Filters, pag Pagination) (*SearchResults, error) {
	return e.singleModeSearch(term, filters, pag, simpleHighlightCap, term.Query)
}

// singleModeSearch is the shared implementation behind SimpleSearch
// and the degenerate single-term cases of combined and wildcard
// search, parameterized by highlight cap and display string.
func (e *Engine) singleModeSearch(term corpus.SearchTerm, filters Filters, pag Pagination, highlightCap int, display string) (*SearchResults, error) {
	start := time.Now()

	normalized := normalizeTerm(term)
	field := term.Mode.Field()
	q, terms := buildTermOrPhraseQuery(field, normalized)
	q = withBookFilter(q, filters)

	hits, total, err := e.runSearch(q, overfetchSize(pag))
	if err != nil {
		return nil, err
	}

	reader, err := e.openReader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	probe := postings.New(reader)

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		positions := e.highlightSingle(reader, probe, hit.ID, field, terms, highlightCap)
		results = append(results, Result{Page: hydrate(hit), Score: hit.Score, MatchedTokenIndices: positions})
	}

	sortChronological(results)
	paged := paginate(results, pag)

	return &SearchResults{
		QueryDisplay: display,
		Mode:         term.Mode,
		TotalHits:    total,
		Results:      paged,
		ElapsedMs:    elapsedMs(start),
	}, nil
}
