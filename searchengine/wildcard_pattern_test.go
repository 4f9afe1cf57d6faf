package searchengine

import (
	"testing"

	"nuskha/kashshaf/internal/wildcard"
)

func TestWildcardRegexPatternPrefix(t *testing.T) {
	info := wildcard.Info{Type: wildcard.Prefix, Prefix: "كت"}
	got := wildcardRegexPattern(info)
	want := "كت.*"
	if got != want {
		t.Errorf("wildcardRegexPattern(prefix) = %q, want %q", got, want)
	}
}

func TestWildcardRegexPatternInternal(t *testing.T) {
	info := wildcard.Info{Type: wildcard.Internal, Prefix: "كت", Suffix: "اب"}
	got := wildcardRegexPattern(info)
	want := "كت.*اب"
	if got != want {
		t.Errorf("wildcardRegexPattern(internal) = %q, want %q", got, want)
	}
}
