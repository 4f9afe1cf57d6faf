package searchengine

import (
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	index "github.com/blevesearch/bleve_index_api"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/corpus/kerr"
	"nuskha/kashshaf/internal/normalize"
	"nuskha/kashshaf/internal/queryterms"
	"nuskha/kashshaf/postings"
)

// normalizeTerm applies the mode-appropriate normalizer to a raw
// query string. Lemma terms pass through unchanged, matching the
// corpus builder's indexing convention.
func normalizeTerm(term corpus.SearchTerm) string {
	switch term.Mode {
	case corpus.Surface:
		return normalize.Surface(term.Query)
	case corpus.Root:
		return normalize.Root(term.Query)
	default:
		return term.Query
	}
}

// buildTermOrPhraseQuery builds a term query for a single-word
// normalized string, or an ordered phrase query for a multi-word one.
// It also returns the split terms, for highlighting.
func buildTermOrPhraseQuery(field, normalizedQuery string) (query.Query, []string) {
	terms := queryterms.Split(normalizedQuery)
	if len(terms) <= 1 {
		tq := bleve.NewTermQuery(normalizedQuery)
		tq.SetField(field)
		return tq, terms
	}
	return bleve.NewPhraseQuery(terms, field), terms
}

// bookIDQuery matches text_id == id exactly via an inclusive numeric
// range collapsed to a single point.
func bookIDQuery(id uint64) query.Query {
	v := float64(id)
	inclusive := true
	nq := bleve.NewNumericRangeInclusiveQuery(&v, &v, &inclusive, &inclusive)
	nq.SetField(fieldTextID)
	return nq
}

// withBookFilter wraps q in an intersection with a disjunction over
// filters.BookIDs. An empty BookIDs applies no filter.
func withBookFilter(q query.Query, filters Filters) query.Query {
	if len(filters.BookIDs) == 0 {
		return q
	}
	if len(filters.BookIDs) == 1 {
		return bleve.NewConjunctionQuery(q, bookIDQuery(filters.BookIDs[0]))
	}
	disjuncts := make([]query.Query, len(filters.BookIDs))
	for i, id := range filters.BookIDs {
		disjuncts[i] = bookIDQuery(id)
	}
	return bleve.NewConjunctionQuery(q, bleve.NewDisjunctionQuery(disjuncts...))
}

// searchFields are the stored fields every query mode requests back,
// enough to hydrate a Page without a second read.
var searchFields = []string{
	fieldTextID, fieldPartIndex, fieldPageID,
	fieldPartLabel, fieldPageNumber, fieldBody,
	fieldAuthorID, fieldDeathAH, fieldCenturyAH, fieldGenreID,
}

// runSearch executes q against the index, requesting the top size
// hits by score. It never applies offset at the index level: every
// mode paginates in memory after chronological re-sort.
func (e *Engine) runSearch(q query.Query, size int) (search.DocumentMatchCollection, uint64, error) {
	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.Fields = searchFields

	res, err := e.index.Search(req)
	if err != nil {
		return nil, 0, kerr.Wrap(kerr.IndexFailure, "search execution failed", err)
	}
	return res.Hits, res.Total, nil
}

// hydrate converts one hit's requested stored fields into a Page.
func hydrate(hit *search.DocumentMatch) Page {
	return Page{
		BookID:     uint64(fieldFloat(hit.Fields, fieldTextID)),
		PartIndex:  uint64(fieldFloat(hit.Fields, fieldPartIndex)),
		PageID:     uint64(fieldFloat(hit.Fields, fieldPageID)),
		PartLabel:  fieldString(hit.Fields, fieldPartLabel),
		PageNumber: fieldString(hit.Fields, fieldPageNumber),
		Body:       fieldString(hit.Fields, fieldBody),
		AuthorID:   fieldOptionalUint(hit.Fields, fieldAuthorID),
		DeathAH:    fieldOptionalUint(hit.Fields, fieldDeathAH),
		CenturyAH:  fieldOptionalUint(hit.Fields, fieldCenturyAH),
		GenreID:    fieldOptionalUint(hit.Fields, fieldGenreID),
	}
}

func fieldFloat(fields map[string]interface{}, name string) float64 {
	f, _ := fields[name].(float64)
	return f
}

func fieldString(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

func fieldOptionalUint(fields map[string]interface{}, name string) *uint64 {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	u := uint64(f)
	return &u
}

// numericFieldUint decodes a stored numeric field into a *uint64;
// nil when the field is not numeric or fails to decode, since every
// numeric schema field is optional on a page.
func numericFieldUint(f index.Field) *uint64 {
	nf, ok := f.(index.NumericField)
	if !ok {
		return nil
	}
	v, err := nf.Number()
	if err != nil {
		return nil
	}
	u := uint64(v)
	return &u
}

// highlightSingle opens a postings cursor for hitID and returns the
// positions for terms on field, choosing the single-term or phrase
// probe depending on term count. A document the reader can no longer
// resolve yields no highlight, not an error.
func (e *Engine) highlightSingle(reader index.IndexReader, probe *postings.Probe, hitID, field string, terms []string, max int) []int {
	internalID, err := reader.InternalID(hitID)
	if err != nil || internalID == nil {
		return nil
	}
	if len(terms) <= 1 {
		return probe.PositionsForTerms(field, terms, internalID, max)
	}
	return probe.PhrasePositions(field, terms, internalID, max)
}

// dedupSortCap sorts, deduplicates, and truncates a position slice,
// used when a page's highlight set is the union of several terms'
// contributions (combined and proximity search).
func dedupSortCap(positions []int, max int) []int {
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)
	out := positions[:1]
	for _, v := range positions[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
