package searchengine

import (
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/internal/normalize"
	"nuskha/kashshaf/postings"
)

// NameForm is one name element expressed as a disjunction over its
// surface-field patterns, e.g. a given name and its
// proclitic-prefixed variants.
type NameForm struct {
	Patterns []string
}

// NameSearch requires every non-empty form to match (conjunctively);
// each form's patterns compose as a disjunction. Highlights come only
// from the first form's patterns, capped at 20.
func (e *Engine) NameSearch(forms []NameForm, filters Filters, pag Pagination) (*SearchResults, error) {
	start := time.Now()

	var nonEmpty []NameForm
	for _, f := range forms {
		if len(f.Patterns) > 0 {
			nonEmpty = append(nonEmpty, f)
		}
	}
	if len(nonEmpty) == 0 {
		return &SearchResults{QueryDisplay: displayForms(forms), Mode: corpus.Surface, Results: []Result{}, ElapsedMs: elapsedMs(start)}, nil
	}

	var musts []query.Query
	var firstFormTerms [][]string

	for i, form := range nonEmpty {
		shoulds := make([]query.Query, len(form.Patterns))
		for j, pattern := range form.Patterns {
			q, terms := buildTermOrPhraseQuery(corpus.Surface.Field(), normalize.Surface(pattern))
			shoulds[j] = q
			if i == 0 {
				firstFormTerms = append(firstFormTerms, terms)
			}
		}
		if len(shoulds) == 1 {
			musts = append(musts, shoulds[0])
		} else {
			musts = append(musts, bleve.NewDisjunctionQuery(shoulds...))
		}
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
		for _, terms := range firstFormTerms {
			positions = append(positions, e.highlightSingle(reader, probe, hit.ID, corpus.Surface.Field(), terms, simpleHighlightCap)...)
		}
		results = append(results, Result{
			Page:                hydrate(hit),
			Score:               hit.Score,
			MatchedTokenIndices: dedupSortCap(positions, simpleHighlightCap),
		})
	}

	sortChronological(results)
	paged := paginate(results, pag)

	return &SearchResults{
		QueryDisplay: displayForms(forms),
		Mode:         corpus.Surface,
		TotalHits:    total,
		Results:      paged,
		ElapsedMs:    elapsedMs(start),
	}, nil
}

func displayForms(forms []NameForm) string {
	parts := make([]string, 0, len(forms))
	for _, f := range forms {
		if len(f.Patterns) == 0 {
			continue
		}
		parts = append(parts, "["+strings.Join(f.Patterns, "|")+"]")
	}
	return strings.Join(parts, " ")
}
