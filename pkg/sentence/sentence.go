package sentence

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/depviz/pkg/errors"
)

// Category keys understood by the renderers and exporters.
const (
	CategoryText  = "text"
	CategoryLemma = "lemma"
	CategoryPOS   = "pos"
)

// Filler is the placeholder shown for a missing category cell.
const Filler = "~"

// Input is one annotated sentence as handed to depviz.
type Input struct {
	Sentence       Marker  `json:"sentence"`
	Links          []Link  `json:"links"`
	Tokens         []Token `json:"tokens,omitempty"`
	Nodes          []Token `json:"nodes,omitempty"`
	Table          []Row   `json:"table,omitempty"`
	QueryMatch     []int   `json:"queryMatch,omitempty"`
	QueryRelations []Link  `json:"queryRelations,omitempty"`
}

// Token is one word of the sentence.
type Token struct {
	Position int    `json:"position"`
	Text     string `json:"text,omitempty"`
}

// Link is a labelled dependency edge between two token positions.
type Link struct {
	Source     int    `json:"source"`
	Target     int    `json:"target"`
	Dependency string `json:"dependency"`
	ID         string `json:"id"`
}

// Row is the category table entry for one token.
type Row struct {
	Token      string            `json:"token,omitempty"`
	Categories map[string]string `json:"categories"`
}

// Has reports whether the row carries the category key at all.
// An empty value still counts as present.
func (r Row) Has(key string) bool {
	_, ok := r.Categories[key]
	return ok
}

// Text returns the token text of the row: the "text" category if set,
// otherwise the row's token field.
func (r Row) Text() string {
	if v := r.Categories[CategoryText]; v != "" {
		return v
	}
	return r.Token
}

// Marker records whether the JSON "sentence" field was truthy.
type Marker bool

// UnmarshalJSON applies JavaScript truthiness to any JSON value.
func (m *Marker) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*m = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = s != ""
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*m = f != 0
	default:
		*m = true
	}
	return nil
}

// Cell is the view of one token column used by layout and export.
type Cell struct {
	Position int
	Text     string
	Lemma    string
	POS      string
	HasText  bool
	HasLemma bool
	HasPOS   bool
}

// TokenCount returns the number of token columns: the longest of the
// node, token and table lists.
func (in *Input) TokenCount() int {
	return max(len(in.Nodes), len(in.Tokens), len(in.Table))
}

// Cell returns the column view of token i. Text falls back from the table
// row to the node or token text, so inputs without a table still render.
func (in *Input) Cell(i int) Cell {
	c := Cell{Position: i}
	if i < len(in.Table) {
		row := in.Table[i]
		c.Text, c.HasText = row.Text(), row.Has(CategoryText)
		c.Lemma, c.HasLemma = row.Categories[CategoryLemma], row.Has(CategoryLemma)
		c.POS, c.HasPOS = row.Categories[CategoryPOS], row.Has(CategoryPOS)
	}
	if c.Text == "" {
		if t, ok := in.token(i); ok && t.Text != "" {
			c.Text, c.HasText = t.Text, true
		}
	}
	return c
}

func (in *Input) token(i int) (Token, bool) {
	toks := in.Nodes
	if len(toks) == 0 {
		toks = in.Tokens
	}
	if i < 0 || i >= len(toks) {
		return Token{}, false
	}
	return toks[i], true
}

// Validate checks that every link references an existing token column and
// carries a well-formed identifier.
func (in *Input) Validate() error {
	n := in.TokenCount()
	for i, l := range in.Links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n {
			return errors.New(errors.ErrCodeInvalidInput,
				"link %d (%s): endpoints %d->%d out of range for %d tokens", i, l.ID, l.Source, l.Target, n)
		}
		if _, err := ParseLinkID(l.ID); err != nil {
			return err
		}
	}
	for _, p := range in.QueryMatch {
		if p < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "query match position %d is negative", p)
		}
	}
	return nil
}

// IsMatched reports whether the link is one of the query relations.
// Regular edges match by identifier. Self-loops match a query relation that
// is itself a self-loop on the same source token.
func (in *Input) IsMatched(l Link, selfLoop bool) bool {
	for _, q := range in.QueryRelations {
		if selfLoop {
			if q.Source == q.Target && q.Source == l.Source {
				return true
			}
			continue
		}
		if q.ID == l.ID {
			return true
		}
	}
	return false
}

// IsTokenMatched reports whether the token position is in the query match set.
func (in *Input) IsTokenMatched(pos int) bool {
	for _, p := range in.QueryMatch {
		if p == pos {
			return true
		}
	}
	return false
}
