package searchengine

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/postings"
)

// proximityBaseOverfetch and proximityOverfetchFactor set the
// max(5000, 20*(limit+offset)) overfetch used to survive post-filter
// rejection.
const (
	proximityBaseOverfetch   = 5000
	proximityOverfetchFactor = 20
	proximityMaxPerTerm      = 100
)

// ProximitySearch requires both terms on the same page and tests
// every pair of positions for |p1-p2| <= maxDistance. TotalHits
// reports the number of passing pages within the overfetched
// candidate set, an estimator rather than an exact count.
func (e *Engine) ProximitySearch(term1, term2 corpus.SearchTerm, maxDistance int, filters Filters, pag Pagination) (*SearchResults, error) {
	start := time.Now()

	field1, field2 := term1.Mode.Field(), term2.Mode.Field()
	q1, terms1 := buildTermOrPhraseQuery(field1, normalizeTerm(term1))
	q2, terms2 := buildTermOrPhraseQuery(field2, normalizeTerm(term2))
	q := withBookFilter(bleve.NewConjunctionQuery(q1, q2), filters)

	overfetch := maxInt(proximityBaseOverfetch, proximityOverfetchFactor*(pag.Offset+pag.Limit))
	hits, _, err := e.runSearch(q, overfetch)
	if err != nil {
		return nil, err
	}

	reader, err := e.openReader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	probe := postings.New(reader)

	var results []Result
	for _, hit := range hits {
		pos1 := e.highlightSingle(reader, probe, hit.ID, field1, terms1, proximityMaxPerTerm)
		pos2 := e.highlightSingle(reader, probe, hit.ID, field2, terms2, proximityMaxPerTerm)
		if len(pos1) == 0 || len(pos2) == 0 {
			continue
		}

		var endpoints []int
		for _, p1 := range pos1 {
			for _, p2 := range pos2 {
				if absInt(p1-p2) <= maxDistance {
					endpoints = append(endpoints, p1, p2)
				}
			}
		}
		if len(endpoints) == 0 {
			continue
		}

		results = append(results, Result{
			Page:                hydrate(hit),
			Score:               hit.Score,
			MatchedTokenIndices: dedupSortCap(endpoints, combinedHighlightCap),
		})
	}

	totalHits := uint64(len(results))
	sortChronological(results)
	paged := paginate(results, pag)

	return &SearchResults{
		QueryDisplay: fmt.Sprintf("%s NEAR/%d %s", term1.Query, maxDistance, term2.Query),
		Mode:         term1.Mode,
		TotalHits:    totalHits,
		Results:      paged,
		ElapsedMs:    elapsedMs(start),
	}, nil
}
