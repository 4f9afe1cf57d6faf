package wildcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuskha/kashshaf/corpus"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		mode    corpus.Mode
		wantErr string // "" means no error
	}{
		{"no wildcard", "كتاب", corpus.Surface, ""},
		{"trailing wildcard ok", "كت*", corpus.Surface, ""},
		{"internal wildcard ok", "كت*ب", corpus.Surface, ""},
		{"lemma mode rejected", "كت*", corpus.Lemma, "Wildcards only supported in Surface mode"},
		{"two wildcards rejected", "ك*ت*ب", corpus.Surface, "Only one wildcard (*) allowed per search term"},
		{"wildcard at start", "*كتب", corpus.Surface, "Wildcard cannot be at start of word"},
		{"internal with short prefix", "ك*اب", corpus.Surface, "Internal wildcard requires at least 2 characters before it"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query, tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	info := Parse("كت*ب")
	assert.True(t, info.HasWildcard)
	assert.Equal(t, Internal, info.Type)
	assert.Equal(t, "كت", info.Prefix)
	assert.Equal(t, "ب", info.Suffix)

	info2 := Parse("كتاب*")
	assert.True(t, info2.HasWildcard)
	assert.Equal(t, Prefix, info2.Type)
	assert.Equal(t, "كتاب", info2.Prefix)
	assert.Empty(t, info2.Suffix)

	info3 := Parse("كتاب الله")
	assert.False(t, info3.HasWildcard)
	assert.Len(t, info3.Terms, 2)
}
