package searchengine

import (
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/postings"
)

// CombinedRequest is a boolean AND/OR combination of search terms.
type CombinedRequest struct {
	AndTerms []corpus.SearchTerm
	OrTerms  []corpus.SearchTerm
}

// CombinedSearch wraps each AND term as a MUST clause and the OR
// terms as a single nested MUST-SHOULD disjunction appended as one
// additional MUST clause. Highlights union every term's contribution,
// capped at 50.
func (e *Engine) CombinedSearch(req CombinedRequest, filters Filters, pag Pagination) (*SearchResults, error) {
	start := time.Now()
	display := displayCombined(req)

	if len(req.AndTerms) == 0 && len(req.OrTerms) == 0 {
		return &SearchResults{QueryDisplay: display, Mode: corpus.Lemma, Results: []Result{}, ElapsedMs: elapsedMs(start)}, nil
	}
	if len(req.AndTerms) == 1 && len(req.OrTerms) == 0 {
		return e.singleModeSearch(req.AndTerms[0], filters, pag, combinedHighlightCap, display)
	}
	if len(req.OrTerms) == 1 && len(req.AndTerms) == 0 {
		return e.singleModeSearch(req.OrTerms[0], filters, pag, combinedHighlightCap, display)
	}

	var musts []query.Query
	var highlightFields []string
	var highlightTerms [][]string

	for _, term := range req.AndTerms {
		field := term.Mode.Field()
		q, terms := buildTermOrPhraseQuery(field, normalizeTerm(term))
		musts = append(musts, q)
		highlightFields = append(highlightFields, field)
		highlightTerms = append(highlightTerms, terms)
	}

	if len(req.OrTerms) > 0 {
		shoulds := make([]query.Query, len(req.OrTerms))
		for i, term := range req.OrTerms {
			field := term.Mode.Field()
			q, terms := buildTermOrPhraseQuery(field, normalizeTerm(term))
			shoulds[i] = q
			highlightFields = append(highlightFields, field)
			highlightTerms = append(highlightTerms, terms)
		}
		musts = append(musts, bleve.NewDisjunctionQuery(shoulds...))
	}

	q := withBookFilter(bleve.NewConjunctionQuery(musts...), filters)

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
		var positions []int
		for i, terms := range highlightTerms {
			positions = append(positions, e.highlightSingle(reader, probe, hit.ID, highlightFields[i], terms, combinedHighlightCap)...)
		}
		results = append(results, Result{
			Page:                hydrate(hit),
			Score:               hit.Score,
			MatchedTokenIndices: dedupSortCap(positions, combinedHighlightCap),
		})
	}

	sortChronological(results)
	paged := paginate(results, pag)

	return &SearchResults{
		QueryDisplay: display,
		Mode:         corpus.Lemma,
		TotalHits:    total,
		Results:      paged,
		ElapsedMs:    elapsedMs(start),
	}, nil
}

// displayCombined assembles a human-readable rendering of the request
// for display only; it plays no role in query construction.
func displayCombined(req CombinedRequest) string {
	var parts []string
	if len(req.AndTerms) > 0 {
		words := make([]string, len(req.AndTerms))
		for i, t := range req.AndTerms {
			words[i] = t.Query
		}
		parts = append(parts, "AND("+strings.Join(words, ", ")+")")
	}
	if len(req.OrTerms) > 0 {
		words := make([]string, len(req.OrTerms))
		for i, t := range req.OrTerms {
			words[i] = t.Query
		}
		parts = append(parts, "OR("+strings.Join(words, ", ")+")")
	}
	return strings.Join(parts, " ")
}
