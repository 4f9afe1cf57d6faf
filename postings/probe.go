// Package postings answers position queries against the inverted
// index: given a bleve index reader, a document, a field, and a set
// of normalized terms, it yields the token offsets at which those
// terms occur.
//
// A postings cursor is forward-only. index.TermFieldReader.Next()
// returns the cursor's first document, and Advance(target, ...) may
// only be called with a target at or after the document the cursor
// currently sits on. readAtOrPast is the single helper that enforces
// this; never call Advance with a target behind the cursor.
package postings

import (
	"bytes"
	"context"
	"sort"
	"strings"

	index "github.com/blevesearch/bleve_index_api"
)

// maxPrefixScanMultiplier bounds PrefixExpansion's term-dictionary
// scan to 10x the requested max positions, so a pathological prefix
// cannot stall a request.
const maxPrefixScanMultiplier = 10

// Probe answers position queries against one index reader. It holds
// no per-request state and is safe for concurrent use; every method
// opens and closes its own postings cursors.
type Probe struct {
	reader index.IndexReader
}

// New wraps a bleve index.IndexReader as a Probe. The caller retains
// ownership of reader and must close it once the request completes.
func New(reader index.IndexReader) *Probe {
	return &Probe{reader: reader}
}

// readAtOrPast advances reader's cursor to internal document id
// target, honoring the forward-only discipline: it reads the current
// doc once and only calls Advance when the cursor is strictly behind
// target. Returns the matching TermFieldDoc, or nil if the term does
// not occur in that document (including when the cursor has already
// passed it or terminated).
func readAtOrPast(tfr index.TermFieldReader, target index.IndexInternalID) (*index.TermFieldDoc, error) {
	cur, err := tfr.Next(nil)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, nil // terminated
	}

	switch bytes.Compare(cur.ID, target) {
	case 0:
		return cur, nil
	case 1:
		return nil, nil // already past target
	default:
		found, err := tfr.Advance(target, nil)
		if err != nil {
			return nil, err
		}
		if found == nil || !bytes.Equal(found.ID, target) {
			return nil, nil
		}
		return found, nil
	}
}

// positionsInField extracts the token positions recorded against
// field from a matched TermFieldDoc's term vectors, converting
// bleve's 1-based analysis.Token.Position convention to the 0-based
// token index the rest of the engine and the token cache use
// throughout.
func positionsInField(doc *index.TermFieldDoc, field string) []int {
	if doc == nil {
		return nil
	}
	var out []int
	for _, v := range doc.Vectors {
		if v.Field == field && v.Pos > 0 {
			out = append(out, int(v.Pos)-1)
		}
	}
	return out
}

// termPositions opens a fresh postings cursor for term on field and
// returns its positions in docID, or an empty slice if the read fails
// or the term does not occur there. A failed postings read yields an
// empty contribution, never an aborted request.
func (p *Probe) termPositions(field, term string, docID index.IndexInternalID) []int {
	tfr, err := p.reader.TermFieldReader(context.Background(), []byte(term), field, false, false, true)
	if err != nil {
		return nil
	}
	defer tfr.Close()

	doc, err := readAtOrPast(tfr, docID)
	if err != nil || doc == nil {
		return nil
	}
	return positionsInField(doc, field)
}

func sortDedupTruncate(positions []int, max int) []int {
	sort.Ints(positions)
	out := positions[:0]
	for i, v := range positions {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// PositionsForTerms unions the positions of every term in terms within
// docID on field, sorted, deduplicated, and truncated to max.
func (p *Probe) PositionsForTerms(field string, terms []string, docID index.IndexInternalID, max int) []int {
	var positions []int
	for _, term := range terms {
		positions = append(positions, p.termPositions(field, term, docID)...)
		if max > 0 && len(positions) >= max {
			break
		}
	}
	return sortDedupTruncate(positions, max)
}

// PhrasePositions requires that, for every position p in the first
// term's position list, each subsequent term k's list contains p+k.
// On a match it emits p, p+1, ..., p+len(terms)-1. Sorted, deduped,
// truncated to max.
func (p *Probe) PhrasePositions(field string, terms []string, docID index.IndexInternalID, max int) []int {
	if len(terms) == 0 {
		return nil
	}
	if len(terms) == 1 {
		return p.PositionsForTerms(field, terms, docID, max)
	}

	termPositions := make([][]int, len(terms))
	for i, term := range terms {
		pos := p.termPositions(field, term, docID)
		if len(pos) == 0 {
			return nil // every term must be present
		}
		termPositions[i] = pos
	}

	has := func(positions []int, target int) bool {
		for _, v := range positions {
			if v == target {
				return true
			}
		}
		return false
	}

	var matched []int
	for _, start := range termPositions[0] {
		isMatch := true
		for k := 1; k < len(terms); k++ {
			if !has(termPositions[k], start+k) {
				isMatch = false
				break
			}
		}
		if isMatch {
			for k := 0; k < len(terms); k++ {
				matched = append(matched, start+k)
			}
		}
		if max > 0 && len(matched) >= max {
			break
		}
	}

	return sortDedupTruncate(matched, max)
}

// PrefixExpansion scans field's term dictionary from prefix onward,
// merging positional postings for every enumerated term that starts
// with prefix and, if suffix is non-empty, also ends with suffix. The
// scan stops at the first term no longer sharing the prefix, or after
// 10*max positions have been collected, whichever comes first.
func (p *Probe) PrefixExpansion(field, prefix, suffix string, docID index.IndexInternalID, max int) []int {
	dict, err := p.reader.FieldDictPrefix(field, []byte(prefix))
	if err != nil {
		return nil
	}
	defer dict.Close()

	guard := maxPrefixScanMultiplier * max
	var positions []int

	for {
		entry, err := dict.Next()
		if err != nil || entry == nil {
			break
		}
		if !strings.HasPrefix(entry.Term, prefix) {
			break
		}
		if suffix != "" && !hasSuffix(entry.Term, suffix) {
			continue
		}

		positions = append(positions, p.termPositions(field, entry.Term, docID)...)
		if guard > 0 && len(positions) >= guard {
			break
		}
	}

	return sortDedupTruncate(positions, max)
}

func hasSuffix(s, suffix string) bool {
	if len(suffix) > len(s) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}
