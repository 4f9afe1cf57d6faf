package searchengine

import (
	"regexp"
	"sort"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	index "github.com/blevesearch/bleve_index_api"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/internal/normalize"
	"nuskha/kashshaf/internal/wildcard"
	"nuskha/kashshaf/postings"
)

// wildcardOverfetchFactor is applied to the base overfetch size when
// the wildcard query has more than one word, since the adjacency
// post-filter can reject a large share of raw hits.
const wildcardOverfetchFactor = 10

// wildcardProbeMax bounds the per-term position lists gathered for
// the adjacency test before the result is capped for display.
const wildcardProbeMax = 200

// WildcardSearch validates and executes a single-`*` surface query.
// A query with no `*` at all falls back to plain simple search. Any
// mode other than surface is rejected by validation once a `*` is
// present.
func (e *Engine) WildcardSearch(term corpus.SearchTerm, filters Filters, pag Pagination) (*SearchResults, error) {
	if err := wildcard.Validate(term.Query, term.Mode); err != nil {
		return nil, err
	}

	rawQuery := term.Query
	normalized := normalize.Surface(rawQuery)
	info := wildcard.Parse(normalized)
	if !info.HasWildcard {
		return e.singleModeSearch(term, filters, pag, simpleHighlightCap, rawQuery)
	}

	start := time.Now()
	field := corpus.Surface.Field()

	musts := make([]query.Query, len(info.Terms))
	for i, word := range info.Terms {
		if i == info.TermIndex {
			rq := bleve.NewRegexpQuery(wildcardRegexPattern(info))
			rq.SetField(field)
			musts[i] = rq
			continue
		}
		tq := bleve.NewTermQuery(word)
		tq.SetField(field)
		musts[i] = tq
	}

	var combined query.Query
	if len(musts) == 1 {
		combined = musts[0]
	} else {
		combined = bleve.NewConjunctionQuery(musts...)
	}
	q := withBookFilter(combined, filters)

	overfetch := overfetchSize(pag)
	multiWord := len(info.Terms) > 1
	if multiWord {
		overfetch *= wildcardOverfetchFactor
	}

	hits, total, err := e.runSearch(q, overfetch)
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
		positions, ok := wildcardPositions(reader, probe, hit.ID, info)
		if multiWord && !ok {
			continue // adjacency post-filter rejects this page
		}
		results = append(results, Result{
			Page:                hydrate(hit),
			Score:               hit.Score,
			MatchedTokenIndices: capPositions(positions, simpleHighlightCap),
		})
	}

	totalHits := total
	if multiWord {
		totalHits = uint64(len(results)) // post-filter count, not the raw index count
	}

	sortChronological(results)
	paged := paginate(results, pag)

	return &SearchResults{
		QueryDisplay: rawQuery,
		Mode:         corpus.Surface,
		TotalHits:    totalHits,
		Results:      paged,
		ElapsedMs:    elapsedMs(start),
	}, nil
}

func wildcardRegexPattern(info wildcard.Info) string {
	if info.Type == wildcard.Internal {
		return regexp.QuoteMeta(info.Prefix) + ".*" + regexp.QuoteMeta(info.Suffix)
	}
	return regexp.QuoteMeta(info.Prefix) + ".*"
}

// wildcardPositions gathers per-term position lists (PrefixExpansion
// for the wildcard word, exact positions for the rest) and, for
// multi-word queries, tests whether the union contains a window of
// len(terms) consecutive integers (the phrase adjacency test).
// A single-word wildcard query has no adjacency test; its ok value is
// ignored by the caller, so a failed probe read leaves the page in the
// result set with an empty highlight.
func wildcardPositions(reader index.IndexReader, probe *postings.Probe, hitID string, info wildcard.Info) ([]int, bool) {
	internalID, err := reader.InternalID(hitID)
	if err != nil || internalID == nil {
		return nil, false
	}

	field := corpus.Surface.Field()

	if len(info.Terms) == 1 {
		positions := probe.PrefixExpansion(field, info.Prefix, info.Suffix, internalID, wildcardProbeMax)
		return positions, len(positions) > 0
	}

	perTerm := make([][]int, len(info.Terms))
	for i, term := range info.Terms {
		if i == info.TermIndex {
			perTerm[i] = probe.PrefixExpansion(field, info.Prefix, info.Suffix, internalID, wildcardProbeMax)
		} else {
			perTerm[i] = probe.PositionsForTerms(field, []string{term}, internalID, wildcardProbeMax)
		}
		if len(perTerm[i]) == 0 {
			return nil, false
		}
	}

	var all []int
	for _, p := range perTerm {
		all = append(all, p...)
	}
	sort.Ints(all)
	deduped := dedupSortCap(all, 0)
	set := make(map[int]bool, len(deduped))
	for _, v := range deduped {
		set[v] = true
	}

	n := len(info.Terms)
	for _, p := range deduped {
		window := true
		for k := 0; k < n; k++ {
			if !set[p+k] {
				window = false
				break
			}
		}
		if window {
			return deduped, true
		}
	}
	return nil, false
}

// RefineWildcardPositions re-verifies one multi-word wildcard hit
// against the token cache, pinning its highlight to complete phrase
// matches at exact token offsets. The returned positions replace the
// probe-based highlight for that page; the result set itself is
// unchanged. A single-word or wildcard-free query has nothing to
// re-pin and refines to nil.
func (e *Engine) RefineWildcardPositions(key corpus.PageKey, rawQuery string) ([]int, error) {
	if err := wildcard.Validate(rawQuery, corpus.Surface); err != nil {
		return nil, err
	}
	info := wildcard.Parse(normalize.Surface(rawQuery))
	if !info.HasWildcard || len(info.Terms) < 2 {
		return nil, nil
	}
	return e.cache.FindWildcardPhrasePositions(key, info.Prefix, info.Suffix, info.TermIndex, info.Terms)
}

func capPositions(positions []int, max int) []int {
	if max > 0 && len(positions) > max {
		return positions[:max]
	}
	return positions
}
