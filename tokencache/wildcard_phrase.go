package tokencache

import (
	"sort"
	"strings"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/internal/normalize"
)

// FindWildcardPhrasePositions scans the hydrated page for key and
// returns every token index that is part of a complete multi-word
// wildcard phrase match. For each candidate starting
// position i, every term j in terms must match tokens[i+j]: the
// wildcardTermIndex'th term matches by prefix (and, if suffix is
// non-empty, by suffix too); every other term matches exactly.
//
// This is the "consumer refinement" path: it re-verifies a multi-word
// wildcard hit against literal token offsets, replacing the coarser
// probe-based highlight for that one page.
func (c *Cache) FindWildcardPhrasePositions(key corpus.PageKey, prefix, suffix string, wildcardTermIndex int, terms []string) ([]int, error) {
	tokens, err := c.Get(key)
	if err != nil {
		return nil, err
	}

	numTerms := len(terms)
	if numTerms == 0 || len(tokens) == 0 {
		return nil, nil
	}

	prefixNorm := normalize.ForMatch(prefix)
	suffixNorm := normalize.ForMatch(suffix)
	termsNorm := make([]string, numTerms)
	for i, t := range terms {
		termsNorm[i] = normalize.ForMatch(t)
	}

	var positions []int
	for i := 0; i+numTerms <= len(tokens); i++ {
		matched := true
		for j := 0; j < numTerms; j++ {
			tokSurface := normalize.ForMatch(tokens[i+j].Surface)
			if j == wildcardTermIndex {
				if !strings.HasPrefix(tokSurface, prefixNorm) {
					matched = false
					break
				}
				if suffix != "" && !strings.HasSuffix(tokSurface, suffixNorm) {
					matched = false
					break
				}
				continue
			}
			if tokSurface != termsNorm[j] {
				matched = false
				break
			}
		}
		if matched {
			for j := 0; j < numTerms; j++ {
				positions = append(positions, tokens[i+j].Index)
			}
		}
	}

	sort.Ints(positions)
	positions = dedupSorted(positions)
	return positions, nil
}

// dedupSorted removes consecutive duplicates from an already-sorted
// slice, in place.
func dedupSorted(s []int) []int {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
