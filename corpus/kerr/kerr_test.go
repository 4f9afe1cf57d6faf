package kerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(InvalidQuery, "bad wildcard")
	assert.Equal(t, "invalid_query: bad wildcard", err.Error())
}

func TestWrapMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(StoreFailure, "failed to open store", cause)
	assert.Equal(t, "store_failure: failed to open store: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	err := New(CorpusNotReady, "missing index")
	assert.True(t, Is(err, CorpusNotReady))
	assert.False(t, Is(err, IndexFailure))
	assert.False(t, Is(errors.New("plain error"), InvalidQuery))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "index_failure", IndexFailure.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
