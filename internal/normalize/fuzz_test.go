package normalize

import "testing"

// FuzzSurfaceIdempotent checks that Surface is idempotent on
// arbitrary input: normalizing an already-normalized string must be
// a no-op, since queries and indexed text meet in normalized form.
func FuzzSurfaceIdempotent(f *testing.F) {
	for _, seed := range []string{"أحمد", "كَتَبَ", "", "abc", "كتاب الله"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Surface(s)
		twice := Surface(once)
		if once != twice {
			t.Errorf("Surface not idempotent on %q: once=%q twice=%q", s, once, twice)
		}
	})
}

// FuzzRootNoWeakLetters checks that Root never leaves an
// un-substituted weak letter in its output, regardless of input.
func FuzzRootNoWeakLetters(f *testing.F) {
	for _, seed := range []string{"قرأ", "كتب", "وعد", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got := Root(s)
		for _, r := range got {
			if weakLetters[r] {
				t.Errorf("Root(%q) = %q retained weak letter %q", s, got, r)
			}
		}
	})
}
