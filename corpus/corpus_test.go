package corpus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuskha/kashshaf/corpus/kerr"
)

func TestModeField(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Surface, "surface_text"},
		{Lemma, "lemma_text"},
		{Root, "root_text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.Field())
	}
}

func TestModeJSONRoundTrip(t *testing.T) {
	for _, mode := range []Mode{Surface, Lemma, Root} {
		data, err := json.Marshal(mode)
		require.NoError(t, err)

		var got Mode
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, mode, got)
	}
}

func TestModeUnmarshalUnknownIsError(t *testing.T) {
	var m Mode
	err := json.Unmarshal([]byte(`"nonsense"`), &m)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("root")
	require.NoError(t, err)
	assert.Equal(t, Root, mode)

	_, err = ParseMode("")
	assert.True(t, kerr.Is(err, kerr.InvalidQuery))
}

func TestPageKeyString(t *testing.T) {
	k := PageKey{BookID: 12, PartIndex: 1, PageID: 305}
	assert.Equal(t, "12:1:305", k.String())
}

func TestFieldMatches(t *testing.T) {
	root := "كتب"
	tok := Token{Surface: "كتابه", Lemma: "كتاب", Root: &root}

	assert.True(t, FieldSurface.Matches(tok, "كتابه"))
	assert.True(t, FieldLemma.Matches(tok, "كتاب"))
	assert.True(t, FieldRoot.Matches(tok, "كتب"))

	noRoot := Token{Surface: "x", Lemma: "y"}
	assert.False(t, FieldRoot.Matches(noRoot, ""))
}
