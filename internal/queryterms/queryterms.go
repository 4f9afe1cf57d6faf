// Package queryterms splits an already-normalized query string into
// the whitespace-delimited terms the index's whitespace tokenizer
// would produce (Split), or into its distinct terms (Unique).
//
// The index applies no normalization of its own: callers
// must pass a string already run through internal/normalize. Splitting
// here must therefore agree exactly with the corpus builder's
// whitespace tokenizer, which is why it is a single strings.Fields
// call rather than a general-purpose word scanner: unlike free text,
// a normalized query has no punctuation or script-mixing to classify.
package queryterms

import "strings"

// Split whitespace-tokenizes a normalized query string, in the order
// the terms appear.
func Split(normalized string) []string {
	return strings.Fields(normalized)
}

// Unique returns the distinct terms in normalized, preserving the
// order of first occurrence.
func Unique(normalized string) []string {
	terms := Split(normalized)
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
