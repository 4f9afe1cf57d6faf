// Package searchengine implements the five query modes over the
// corpus index (simple, combined, proximity, name, wildcard) plus
// the transport-facing page accessors GetPage, GetPageTokens,
// GetMatchPositions, and DocCount.
//
// Engine owns a bleve index and a tokencache.Cache. Every mode shares
// one pipeline: normalize, build a query plan, execute, hydrate,
// highlight via the position probe, chronologically sort, paginate.
// That ordering is uniform across modes: overfetch to limit+offset
// (or a mode-specific larger factor), hydrate every candidate,
// highlight every candidate, sort, then slice by offset/limit.
package searchengine

import "nuskha/kashshaf/corpus"

// Index schema field names.
const (
	fieldTextID     = "text_id"
	fieldPartIndex  = "part_index"
	fieldPageID     = "page_id"
	fieldAuthorID   = "author_id"
	fieldGenreID    = "genre_id"
	fieldDeathAH    = "death_ah"
	fieldCenturyAH  = "century_ah"
	fieldPartLabel  = "part_label"
	fieldPageNumber = "page_number"
	fieldBody       = "body"
)

// Per-page highlight caps: combined and proximity results union
// several terms' positions and get the larger cap.
const (
	simpleHighlightCap   = 20
	combinedHighlightCap = 50
)

// Filters narrows a search to a set of books. An empty or nil BookIDs
// applies no filter.
type Filters struct {
	BookIDs []uint64
}

// Pagination is the caller-supplied offset/limit. Capping Limit (at
// 100) is the transport layer's responsibility, not enforced here.
type Pagination struct {
	Offset int
	Limit  int
}

// Page is the hydrated, displayable form of one page hit.
type Page struct {
	BookID     uint64
	PartIndex  uint64
	PageID     uint64
	PartLabel  string
	PageNumber string
	Body       string
	AuthorID   *uint64
	DeathAH    *uint64
	CenturyAH  *uint64
	GenreID    *uint64
}

// Key returns the page's composite primary key.
func (p Page) Key() corpus.PageKey {
	return corpus.PageKey{BookID: p.BookID, PartIndex: p.PartIndex, PageID: p.PageID}
}

// Result is one search hit: a page, its index score, and the sorted,
// deduplicated token indices that caused the match.
type Result struct {
	Page                Page
	Score               float64
	MatchedTokenIndices []int
}

// SearchResults is the uniform record returned by every query mode.
type SearchResults struct {
	QueryDisplay string
	Mode         corpus.Mode
	TotalHits    uint64
	Results      []Result
	ElapsedMs    int64
}
