package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurface(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hamza on alif above", "أحمد", "احمد"},
		{"hamza on alif below", "إبراهيم", "ابراهيم"},
		{"madda", "آدم", "ادم"},
		{"hamza on waw", "مؤمن", "مومن"},
		{"hamza on ya / alif maqsura", "نبيئ", "نبيي"},
		{"alif maqsura", "مصطفى", "مصطفي"},
		{"persian kaf", "کتاب", "كتاب"},
		{"gaf", "گل", "كل"},
		{"fatha dropped", "كَتَبَ", "كتب"},
		{"tanwin dropped", "كتابٌ", "كتاب"},
		{"dagger alif dropped", "هٰذا", "هذا"},
		{"whitespace preserved", "كتاب الله", "كتاب الله"},
		{"empty string", "", ""},
		{"no arabic content", "abc123", "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surface(tt.input))
		})
	}
}

func TestRoot(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"classic example", "قرأ", "ق.ر.#"},
		{"three strong letters", "كتب", "ك.ت.ب"},
		{"weak initial", "وعد", "#.ع.د"},
		{"two words", "قرأ كتب", "ق.ر.# ك.ت.ب"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Root(tt.input))
		})
	}
}

// TestSurfaceIdempotent checks Surface(Surface(s)) == Surface(s).
func TestSurfaceIdempotent(t *testing.T) {
	inputs := []string{"أحمد", "كَتَبَ", "كتاب الله", "", "plain ascii", "گل ڭ ی ے"}
	for _, s := range inputs {
		once := Surface(s)
		assert.Equal(t, once, Surface(once))
	}
}

// TestRootShape checks the shape of Root output: for a one-word root
// input of length n after surface normalization, Root contains
// exactly n-1 dots and every character is '#', '.', or a non-weak
// Arabic letter.
func TestRootShape(t *testing.T) {
	words := []string{"قرأ", "كتب", "وعد", "أمر"}
	for _, w := range words {
		surface := Surface(w)
		n := len([]rune(surface))
		got := Root(w)
		dots := 0
		for _, r := range got {
			if r == '.' {
				dots++
				continue
			}
			if r == '#' {
				continue
			}
			assert.False(t, weakLetters[r], "Root(%q) = %q contains un-substituted weak letter %q", w, got, r)
		}
		assert.Equal(t, n-1, dots, "Root(%q) = %q dot count", w, got)
	}
}
