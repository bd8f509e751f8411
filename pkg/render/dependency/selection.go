package dependency

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/depviz/pkg/sentence"
)

// Element id prefixes shared by layout, sinks and the browser script.
const (
	TokenPrefix = "node_"
	ArcPrefix   = "arc_"
	ArrowPrefix = "arrow_"
	LabelPrefix = "label_"
)

// TokenID returns the element id of the token at pos.
func TokenID(pos int) string { return TokenPrefix + strconv.Itoa(pos) }

// Variant is the visual state of an element.
type Variant int

const (
	Normal Variant = iota
	Match
	Selected
)

func (v Variant) String() string {
	switch v {
	case Match:
		return "match"
	case Selected:
		return "selected"
	default:
		return "normal"
	}
}

// ElementKind is the kind of scene element a CSS class applies to.
type ElementKind int

const (
	KindPath ElementKind = iota
	KindLabel
	KindToken
)

// ClassFor returns the CSS class of an element kind in a variant.
// A selected label uses the box class, as the browser view does.
func ClassFor(kind ElementKind, v Variant) string {
	switch kind {
	case KindLabel:
		if v == Selected {
			return "svg-box-selected"
		}
		return "svg-label-" + v.String()
	case KindToken:
		return "svg-token-" + v.String()
	default:
		return "svg-path-" + v.String()
	}
}

// Selection is the interactive state: selected tokens and hovered arcs.
// Every operation is an idempotent set toggle. The zero value is an empty
// selection. A Selection is not safe for concurrent use.
type Selection struct {
	tokens map[int]struct{}
	arcs   map[string]struct{}
}

// NewSelection returns a selection with tokens selected.
func NewSelection(tokens ...int) *Selection {
	s := &Selection{}
	for _, t := range tokens {
		s.SelectToken(t)
	}
	return s
}

func (s *Selection) SelectToken(pos int) {
	if s.tokens == nil {
		s.tokens = make(map[int]struct{})
	}
	s.tokens[pos] = struct{}{}
}

func (s *Selection) UnselectToken(pos int) { delete(s.tokens, pos) }

// ToggleToken flips the token's selection and reports whether it is now
// selected.
func (s *Selection) ToggleToken(pos int) bool {
	if s.IsTokenSelected(pos) {
		s.UnselectToken(pos)
		return false
	}
	s.SelectToken(pos)
	return true
}

func (s *Selection) IsTokenSelected(pos int) bool {
	_, ok := s.tokens[pos]
	return ok
}

func (s *Selection) HoverArc(linkID string) {
	if s.arcs == nil {
		s.arcs = make(map[string]struct{})
	}
	s.arcs[linkID] = struct{}{}
}

func (s *Selection) LeaveArc(linkID string) { delete(s.arcs, linkID) }

// Clear drops all selected tokens and hovered arcs.
func (s *Selection) Clear() {
	clear(s.tokens)
	clear(s.arcs)
}

// Tokens returns the selected positions in ascending order.
func (s *Selection) Tokens() []int {
	out := make([]int, 0, len(s.tokens))
	for t := range s.tokens {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Highlight is a resolved selection: the token positions and link ids to
// draw in the selected variant.
type Highlight struct {
	Tokens map[int]bool
	Links  map[string]bool
}

// Resolve computes the highlight for links. A selected token highlights
// itself, every link it is the source of, and the targets of those links.
// Hovered arcs highlight their own link. Resolve does not modify s.
func (s *Selection) Resolve(links []sentence.Link) Highlight {
	h := Highlight{Tokens: make(map[int]bool), Links: make(map[string]bool)}
	if s == nil {
		return h
	}
	for t := range s.tokens {
		h.Tokens[t] = true
	}
	for id := range s.arcs {
		h.Links[id] = true
	}
	for _, l := range links {
		if _, ok := s.tokens[l.Source]; ok {
			h.Links[l.ID] = true
			h.Tokens[l.Target] = true
		}
	}
	return h
}

// Variant maps an element id to Selected or Normal. Match comes from the
// query, not the selection, so it is never returned here. The arc, arrow
// and label of one link always resolve to the same variant.
func (h Highlight) Variant(elementID string) Variant {
	if rest, ok := strings.CutPrefix(elementID, TokenPrefix); ok {
		if pos, err := strconv.Atoi(rest); err == nil && h.Tokens[pos] {
			return Selected
		}
		return Normal
	}
	for _, prefix := range []string{ArcPrefix, ArrowPrefix, LabelPrefix} {
		if rest, ok := strings.CutPrefix(elementID, prefix); ok {
			if h.Links[rest] {
				return Selected
			}
			return Normal
		}
	}
	return Normal
}
