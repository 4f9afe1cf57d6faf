// Package corpus defines the data model shared by every component of
// the query engine: the linguistic search Mode, the Token/Page/Book
// entities, and the composite PageKey identifying a page.
package corpus

import (
	"encoding/json"
	"fmt"

	"nuskha/kashshaf/corpus/kerr"
)

// Mode selects which field a search term is matched against.
type Mode int

const (
	Surface Mode = iota // raw orthographic form
	Lemma               // dictionary form (default)
	Root                // consonantal root
)

var modeNames = [...]string{
	Surface: "surface",
	Lemma:   "lemma",
	Root:    "root",
}

var modeFromName = map[string]Mode{
	"surface": Surface,
	"lemma":   Lemma,
	"root":    Root,
}

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalJSON encodes the mode as a JSON string (e.g. "lemma").
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a JSON string into a Mode. An empty or
// unrecognized string is an error: an unparsable mode is an
// invalid-query condition, not a silent default.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, ok := modeFromName[s]
	if !ok {
		return fmt.Errorf("corpus: unknown search mode %q", s)
	}
	*m = mode
	return nil
}

// ParseMode parses a mode name ("surface", "lemma", "root") into a
// Mode. An empty or unrecognized string is a kerr.InvalidQuery.
func ParseMode(name string) (Mode, error) {
	mode, ok := modeFromName[name]
	if !ok {
		return 0, kerr.New(kerr.InvalidQuery, fmt.Sprintf("unknown search mode %q", name))
	}
	return mode, nil
}

// Field returns the index schema field name this mode searches.
func (m Mode) Field() string {
	switch m {
	case Surface:
		return "surface_text"
	case Root:
		return "root_text"
	default:
		return "lemma_text"
	}
}

// TokenClitic is one clitic attachment on a token: its grammatical
// type and the display form shown to the reader.
type TokenClitic struct {
	Type    string `json:"type"`
	Display string `json:"display"`
}

// Token is the atomic analyzed unit within a page.
type Token struct {
	Index           int           `json:"idx"`
	Surface         string        `json:"surface"`
	NoCliticSurface *string       `json:"noclitic_surface,omitempty"`
	Lemma           string        `json:"lemma"`
	Root            *string       `json:"root,omitempty"`
	POS             string        `json:"pos"`
	Features        []string      `json:"features"`
	Clitics         []TokenClitic `json:"clitics"`
}

// PageKey is the composite primary key identifying a page:
// (book_id, part_index, page_id).
type PageKey struct {
	BookID    uint64
	PartIndex uint64
	PageID    uint64
}

// String renders the key as "book:part:page", used for cache/log keys.
func (k PageKey) String() string {
	return fmt.Sprintf("%d:%d:%d", k.BookID, k.PartIndex, k.PageID)
}

// Book carries the metadata used for filtering and display.
// It is never mutated after load; AuthorID, DeathAH, CenturyAH, and
// GenreID are optional.
type Book struct {
	BookID     uint64
	Title      string
	AuthorID   *uint64
	DeathAH    *uint64
	CenturyAH  *uint64
	GenreID    *uint64
	PageCount  uint64
	TokenCount uint64
}

// SearchTerm is a (query_string, mode) pair, the unit a single-term
// search mode operates on.
type SearchTerm struct {
	Query string
	Mode  Mode
}

// Field identifies which token attribute (surface, lemma, or root)
// Matches compares against.
type Field int

const (
	FieldSurface Field = iota
	FieldLemma
	FieldRoot
)

// Matches reports whether token's value for f equals value.
func (f Field) Matches(tok Token, value string) bool {
	switch f {
	case FieldSurface:
		return tok.Surface == value
	case FieldRoot:
		return tok.Root != nil && *tok.Root == value
	default:
		return tok.Lemma == value
	}
}
