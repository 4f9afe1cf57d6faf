// Package wildcard validates and parses the single-wildcard surface
// queries accepted by searchengine.Engine.WildcardSearch.
//
// A wildcard query carries exactly one "*" inside one word: a trailing
// "*" ("كت*") expands as a prefix match, an internal "*" ("كت*اب")
// requires a suffix match too and a two-Arabic-letter-minimum prefix.
// Validate checks one rule at a time and returns the first violation
// as a descriptive error, since the rejection messages are shown to
// the caller verbatim.
package wildcard

import (
	"strings"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/corpus/kerr"
)

// Type classifies where the "*" falls within its word.
type Type int

const (
	None Type = iota
	Prefix
	Internal
)

// Info is the parsed shape of a validated wildcard query.
type Info struct {
	HasWildcard bool
	TermIndex   int    // which whitespace-split term carries the wildcard
	Type        Type
	Prefix      string
	Suffix      string // only meaningful when Type == Internal
	Terms       []string
}

// Validate checks query against the four wildcard rules. A query with
// no "*" at all always validates (callers fall back to plain search).
func Validate(query string, mode corpus.Mode) error {
	trimmed := strings.TrimSpace(query)
	if !strings.Contains(trimmed, "*") {
		return nil
	}

	if mode != corpus.Surface {
		return kerr.New(kerr.InvalidQuery, "Wildcards only supported in Surface mode")
	}

	if strings.Count(trimmed, "*") > 1 {
		return kerr.New(kerr.InvalidQuery, "Only one wildcard (*) allowed per search term")
	}

	for _, word := range strings.Fields(trimmed) {
		idx := strings.IndexByte(word, '*')
		if idx < 0 {
			continue
		}
		if idx == 0 {
			return kerr.New(kerr.InvalidQuery, "Wildcard cannot be at start of word")
		}
		hasCharsAfter := idx < len(word)-1
		if hasCharsAfter {
			prefix := word[:idx]
			if countArabicLetters(prefix) < 2 {
				return kerr.New(kerr.InvalidQuery, "Internal wildcard requires at least 2 characters before it")
			}
		}
	}

	return nil
}

// countArabicLetters counts code points in the Arabic-letter ranges
// U+0621..U+064A and U+0671..U+06D3, excluding the diacritic range
// U+064B..U+065F.
func countArabicLetters(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 0x0621 && r <= 0x064A) || (r >= 0x0671 && r <= 0x06D3) {
			n++
		}
	}
	return n
}

// Parse splits an already surface-normalized, already-validated query
// into its terms and locates the wildcard word. Callers must call
// Validate first; Parse does not re-check the rules.
func Parse(normalizedQuery string) Info {
	words := strings.Fields(strings.TrimSpace(normalizedQuery))
	info := Info{Terms: words}

	for i, word := range words {
		idx := strings.IndexByte(word, '*')
		if idx < 0 {
			continue
		}
		info.HasWildcard = true
		info.TermIndex = i
		info.Prefix = word[:idx]
		if idx < len(word)-1 {
			info.Type = Internal
			info.Suffix = word[idx+1:]
		} else {
			info.Type = Prefix
		}
		break
	}

	return info
}
