// Package normalize provides the canonical text normalization used at
// both index time and query time for the Arabic corpus.
//
// Two functions are provided:
//
//   - Surface strips combining diacritics and folds orthographic and
//     Perso-Arabic letter variants to their canonical Arabic form. This
//     is the form stored in the index's surface_text field and used for
//     every surface-mode comparison.
//   - Root applies Surface, then letter-splits each word with dots and
//     replaces weak letters with '#', matching the corpus builder's
//     root-field indexing convention.
//
// Both functions are pure, total, and safe for concurrent use.
package normalize

import "strings"

// weakLetters are replaced by '#' in Root: waw, ya, alif, hamza.
var weakLetters = map[rune]bool{
	'و': true,
	'ي': true,
	'ا': true,
	'ء': true,
}

// foldMap collapses orthographic and Perso-Arabic letter variants onto
// their canonical Arabic form. Applied after diacritic stripping.
var foldMap = map[rune]rune{
	'أ': 'ا', 'إ': 'ا', 'آ': 'ا',
	'ؤ': 'و',
	'ئ': 'ي', 'ى': 'ي',
	'ک': 'ك', 'گ': 'ك', 'ڭ': 'ك',
	'ی': 'ي', 'ے': 'ي',
	'ۀ': 'ه', 'ە': 'ه',
	'ۃ': 'ة',
	'ٹ': 'ت',
	'پ': 'ب',
	'چ': 'ج',
	'ژ': 'ز',
	'ڤ': 'ف',
	'ڨ': 'ق',
}

// isCombiningMark reports whether r is one of the Arabic combining
// marks or the dagger alif / alif wasla dropped by Surface.
func isCombiningMark(r rune) bool {
	if r >= 'ً' && r <= 'ٟ' {
		return true
	}
	return r == 'ٰ' || r == 'ٱ'
}

// Surface returns the canonical surface form of s: combining marks in
// U+064B..U+065F, U+0670, and U+0671 are dropped, then hamza/alif
// variants and a small set of Perso-Arabic letters are folded onto
// their Arabic equivalent. All other code points, including
// whitespace, pass through unchanged.
func Surface(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isCombiningMark(r) {
			continue
		}
		if folded, ok := foldMap[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Root returns the root-field indexing form of s: Surface is applied
// first, then each whitespace-separated word has every character
// mapped to itself, or to "#" if it is one of the weak letters
// {و, ي, ا, ء}, and the per-character pieces are joined with ".".
// Words are rejoined with a single space.
//
// Example: "قرأ" -> Surface -> "قرا" -> Root -> "ق.ر.#".
func Root(s string) string {
	surface := Surface(s)
	words := strings.Fields(surface)
	out := make([]string, len(words))
	for i, word := range words {
		out[i] = splitWord(word)
	}
	return strings.Join(out, " ")
}

// splitWord dot-joins the characters of a single already-surface-
// normalized word, substituting "#" for weak letters.
func splitWord(word string) string {
	var parts []string
	for _, r := range word {
		if weakLetters[r] {
			parts = append(parts, "#")
		} else {
			parts = append(parts, string(r))
		}
	}
	return strings.Join(parts, ".")
}

// ForMatch normalizes a single token's surface form for token-level
// comparison (e.g. the token cache's wildcard phrase re-pin). It is
// identical to Surface; the separate name documents the call site's
// intent per the matching convention used there.
func ForMatch(s string) string {
	return Surface(s)
}
