package sentence

import (
	"strconv"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// rootPrefix marks root relations in link identifiers.
const rootPrefix = "nr"

// LinkKind distinguishes root relations from regular edges.
type LinkKind int

const (
	KindEdge LinkKind = iota
	KindRoot
)

func (k LinkKind) String() string {
	if k == KindRoot {
		return "root"
	}
	return "edge"
}

// LinkID is a decoded link identifier.
// Source is only meaningful for edges.
type LinkID struct {
	Raw    string
	Kind   LinkKind
	Source int
	Target int
}

// ParseLinkID decodes a link identifier.
//
// A root identifier needs at least three underscore-separated segments
// and takes its target from the third. An edge identifier needs at least
// four and takes source and target from the second and fourth. Indices are
// 0-based token positions.
func ParseLinkID(id string) (LinkID, error) {
	parts := strings.Split(id, "_")
	if parts[0] == rootPrefix {
		if len(parts) < 3 {
			return LinkID{}, malformed(id, "root identifier needs 3 segments")
		}
		t, err := index(id, parts[2])
		if err != nil {
			return LinkID{}, err
		}
		return LinkID{Raw: id, Kind: KindRoot, Source: t, Target: t}, nil
	}

	if len(parts) < 4 {
		return LinkID{}, malformed(id, "edge identifier needs 4 segments")
	}
	s, err := index(id, parts[1])
	if err != nil {
		return LinkID{}, err
	}
	t, err := index(id, parts[3])
	if err != nil {
		return LinkID{}, err
	}
	return LinkID{Raw: id, Kind: KindEdge, Source: s, Target: t}, nil
}

// RootID builds the identifier of a root relation on pos.
func RootID(pos int) string {
	p := strconv.Itoa(pos)
	return rootPrefix + "_" + p + "_" + p
}

// EdgeID builds the identifier of a regular edge.
func EdgeID(source, target int) string {
	return "arc_" + strconv.Itoa(source) + "_dep_" + strconv.Itoa(target)
}

func index(id, seg string) (int, error) {
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, malformed(id, "segment "+strconv.Quote(seg)+" is not an integer")
	}
	if n < 0 {
		return 0, malformed(id, "negative token index")
	}
	return n, nil
}

func malformed(id, why string) error {
	return errors.New(errors.ErrCodeMalformedLinkID, "malformed link identifier %q: %s", id, why)
}
