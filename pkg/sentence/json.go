package sentence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// ReadJSON decodes a sentence from r.
//
// Unknown fields are ignored. A missing "links" field leaves Links nil,
// which exporters treat as absent (distinct from an empty list). ReadJSON
// does not validate link endpoints; call [Input.Validate] for that.
func ReadJSON(r io.Reader) (*Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sentence JSON")
	}
	return &in, nil
}

// WriteJSON encodes the sentence to w.
func WriteJSON(w io.Writer, in *Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}

// Marshal returns the compact JSON encoding of the sentence. Cache keys are
// derived from it.
func Marshal(in *Input) ([]byte, error) {
	return json.Marshal(in)
}

// ImportFile reads a sentence from path. Files ending in .conllu or .conll
// are read as CoNLL-U, everything else as JSON. The path "-" reads JSON
// from stdin.
func ImportFile(path string) (*Input, error) {
	if path == "-" {
		return ReadJSON(os.Stdin)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".conllu", ".conll":
		return ReadCoNLLU(f)
	default:
		return ReadJSON(f)
	}
}
