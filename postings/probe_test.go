package postings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	index "github.com/blevesearch/bleve_index_api"
)

// fakeIndexReader implements index.IndexReader by embedding a nil
// interface value and overriding only the two methods the Probe
// actually calls. Any other method is never exercised by these tests.
type fakeIndexReader struct {
	index.IndexReader
	postings map[string]*fakeTermFieldReader // keyed by field+"\x00"+term
	dict     *fakeFieldDict
}

func (f *fakeIndexReader) TermFieldReader(_ context.Context, term []byte, field string, _, _, _ bool) (index.TermFieldReader, error) {
	tfr, ok := f.postings[field+"\x00"+string(term)]
	if !ok {
		return &fakeTermFieldReader{}, nil // empty postings list
	}
	cp := *tfr
	cp.pos = 0
	return &cp, nil
}

func (f *fakeIndexReader) FieldDictPrefix(_ string, _ []byte) (index.FieldDict, error) {
	cp := *f.dict
	cp.pos = 0
	return &cp, nil
}

// fakeTermFieldReader replays a fixed, sorted list of (docID, positions).
// Like fakeIndexReader it embeds the interface and overrides only what
// the Probe calls.
type fakeTermFieldReader struct {
	index.TermFieldReader
	docs []fakeDoc
	pos  int
}

type fakeDoc struct {
	id        string
	positions []int
}

func (f *fakeTermFieldReader) Next(_ *index.TermFieldDoc) (*index.TermFieldDoc, error) {
	if f.pos >= len(f.docs) {
		return nil, nil
	}
	d := f.docs[f.pos]
	f.pos++
	return toTermFieldDoc(d, "text"), nil
}

func (f *fakeTermFieldReader) Advance(target index.IndexInternalID, _ *index.TermFieldDoc) (*index.TermFieldDoc, error) {
	for f.pos < len(f.docs) && f.docs[f.pos].id < string(target) {
		f.pos++
	}
	if f.pos >= len(f.docs) {
		return nil, nil
	}
	d := f.docs[f.pos]
	f.pos++
	return toTermFieldDoc(d, "text"), nil
}

func (f *fakeTermFieldReader) Count() uint64 { return uint64(len(f.docs)) }
func (f *fakeTermFieldReader) Close() error { return nil }

// fakeDoc.positions are raw, 1-based bleve analysis.Token.Position
// values; every expected "want" slice below is the 0-based token
// index positionsInField converts them to.
func toTermFieldDoc(d fakeDoc, field string) *index.TermFieldDoc {
	vectors := make([]*index.TermFieldVector, len(d.positions))
	for i, p := range d.positions {
		vectors[i] = &index.TermFieldVector{Field: field, Pos: uint64(p)}
	}
	return &index.TermFieldDoc{ID: index.IndexInternalID(d.id), Vectors: vectors}
}

type fakeFieldDict struct {
	index.FieldDict
	terms []string
	pos   int
}

func (f *fakeFieldDict) Next() (*index.DictEntry, error) {
	if f.pos >= len(f.terms) {
		return nil, nil
	}
	t := f.terms[f.pos]
	f.pos++
	return &index.DictEntry{Term: t, Count: 1}, nil
}

func (f *fakeFieldDict) Close() error { return nil }

func newReader(postings map[string][]fakeDoc, dictTerms []string) *fakeIndexReader {
	m := make(map[string]*fakeTermFieldReader, len(postings))
	for key, docs := range postings {
		m[key] = &fakeTermFieldReader{docs: docs}
	}
	return &fakeIndexReader{postings: m, dict: &fakeFieldDict{terms: dictTerms}}
}

func TestPositionsForTerms(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب": {{id: "doc1", positions: []int{1, 6}}, {id: "doc2", positions: []int{3}}},
		"text\x00الله": {{id: "doc1", positions: []int{2}}},
	}, nil)

	probe := New(reader)
	got := probe.PositionsForTerms("text", []string{"كتاب", "الله"}, index.IndexInternalID("doc1"), 10)
	assert.Equal(t, []int{0, 1, 5}, got)
}

func TestPositionsForTermsDocPastCursor(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب": {{id: "doc5", positions: []int{1}}},
	}, nil)

	probe := New(reader)
	got := probe.PositionsForTerms("text", []string{"كتاب"}, index.IndexInternalID("doc1"), 10)
	assert.Empty(t, got)
}

func TestPhrasePositionsMatch(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب": {{id: "doc1", positions: []int{1, 11}}},
		"text\x00الله": {{id: "doc1", positions: []int{2, 21}}},
	}, nil)

	probe := New(reader)
	got := probe.PhrasePositions("text", []string{"كتاب", "الله"}, index.IndexInternalID("doc1"), 10)
	assert.Equal(t, []int{0, 1}, got)
}

func TestPhrasePositionsNoMatch(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب": {{id: "doc1", positions: []int{1}}},
		"text\x00الله": {{id: "doc1", positions: []int{6}}},
	}, nil)

	probe := New(reader)
	got := probe.PhrasePositions("text", []string{"كتاب", "الله"}, index.IndexInternalID("doc1"), 10)
	assert.Empty(t, got)
}

func TestPhrasePositionsMissingTermIsNoMatch(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب": {{id: "doc1", positions: []int{1}}},
	}, nil)

	probe := New(reader)
	got := probe.PhrasePositions("text", []string{"كتاب", "الله"}, index.IndexInternalID("doc1"), 10)
	assert.Empty(t, got)
}

func TestPrefixExpansion(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتاب":  {{id: "doc1", positions: []int{1}}},
		"text\x00كتابة": {{id: "doc1", positions: []int{4}}},
		"text\x00كتب":   {{id: "doc1", positions: []int{10}}},
	}, []string{"كتاب", "كتابة", "كتب"})

	probe := New(reader)
	got := probe.PrefixExpansion("text", "كتاب", "", index.IndexInternalID("doc1"), 10)
	assert.Equal(t, []int{0, 3}, got)
}

func TestPrefixExpansionWithSuffix(t *testing.T) {
	reader := newReader(map[string][]fakeDoc{
		"text\x00كتب":  {{id: "doc1", positions: []int{1}}},
		"text\x00كتاب": {{id: "doc1", positions: []int{5}}},
	}, []string{"كتب", "كتاب"})

	probe := New(reader)
	got := probe.PrefixExpansion("text", "كت", "اب", index.IndexInternalID("doc1"), 10)
	assert.Equal(t, []int{4}, got)
}

func TestPositionsInFieldConvertsOneBasedToZeroBased(t *testing.T) {
	doc := &index.TermFieldDoc{Vectors: []*index.TermFieldVector{
		{Field: "text", Pos: 1},
		{Field: "text", Pos: 4},
		{Field: "other", Pos: 1},
	}}
	got := positionsInField(doc, "text")
	assert.Equal(t, []int{0, 3}, got)
}

func TestSortDedupTruncate(t *testing.T) {
	got := sortDedupTruncate([]int{3, 1, 1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, got)
}
