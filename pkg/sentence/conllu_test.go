package sentence

import (
	"strings"
	"testing"

	"github.com/matzehuels/depviz/pkg/errors"
)

const sampleCoNLLU = `# sent_id = 1
# text = Dogs don't bark.
1	Dogs	dog	NOUN	NNS	_	3	nsubj	_	_
2-3	don't	_	_	_	_	_	_	_	_
2	do	do	AUX	VBP	_	3	aux	_	_
3	n't	not	PART	RB	_	0	root	_	_
3.1	bark	_	_	_	_	_	_	_	_
4	.	_	PUNCT	.	_	3	punct	_	_

1	Second	second	ADJ	JJ	_	0	root	_	_
`

func TestReadCoNLLU(t *testing.T) {
	in, err := ReadCoNLLU(strings.NewReader(sampleCoNLLU))
	if err != nil {
		t.Fatalf("ReadCoNLLU() error: %v", err)
	}

	if !in.Sentence {
		t.Error("Sentence marker should be set")
	}
	if in.TokenCount() != 4 {
		t.Fatalf("TokenCount() = %d, want 4", in.TokenCount())
	}
	if got := in.Cell(0); got.Text != "Dogs" || got.Lemma != "dog" || got.POS != "NOUN" {
		t.Errorf("Cell(0) = %+v", got)
	}
	if in.Table[3].Has(CategoryLemma) {
		t.Error("lemma '_' should leave the category absent")
	}

	want := []Link{
		{Source: 2, Target: 0, Dependency: "nsubj", ID: "arc_2_dep_0"},
		{Source: 2, Target: 1, Dependency: "aux", ID: "arc_2_dep_1"},
		{Source: 2, Target: 2, Dependency: "root", ID: "nr_2_2"},
		{Source: 2, Target: 3, Dependency: "punct", ID: "arc_2_dep_3"},
	}
	if len(in.Links) != len(want) {
		t.Fatalf("Links = %+v, want %+v", in.Links, want)
	}
	for i := range want {
		if in.Links[i] != want[i] {
			t.Errorf("Links[%d] = %+v, want %+v", i, in.Links[i], want[i])
		}
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestReadCoNLLUErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "# only a comment\n"},
		{"too few fields", "1\tDogs\tdog\n"},
		{"unknown head", "1\tDogs\tdog\tNOUN\t_\t_\t7\tnsubj\t_\t_\n"},
		{"gap in ids", "2\tDogs\tdog\tNOUN\t_\t_\t0\troot\t_\t_\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCoNLLU(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadCoNLLU() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
