package sentence

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/depviz/pkg/errors"
)

// conlluFields is the column count of a CoNLL-U token line.
const conlluFields = 10

// ReadCoNLLU imports the first sentence of a CoNLL-U document.
//
// Comment lines are skipped, a blank line ends the sentence, multiword
// ranges ("1-2") and empty nodes ("1.1") are ignored. FORM, LEMMA and UPOS
// fill the category table; "_" leaves a category absent. HEAD 0 becomes a
// root link, any other head an edge from head to dependent labelled with
// DEPREL.
func ReadCoNLLU(r io.Reader) (*Input, error) {
	type line struct {
		no     int
		fields []string
	}

	var lines []line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			fields = strings.Fields(text)
		}
		if len(fields) != conlluFields {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: wrong number of fields (%d)", n, len(fields))
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if strings.ContainsAny(fields[0], "-.") {
			continue
		}
		lines = append(lines, line{no: n, fields: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CoNLL-U")
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tokens in CoNLL-U input")
	}

	// CoNLL-U ids are 1-based; positions are 0-based.
	positions := make(map[string]int, len(lines))
	for i, l := range lines {
		positions[l.fields[0]] = i
	}

	in := &Input{
		Sentence: true,
		Links:    make([]Link, 0, len(lines)),
		Tokens:   make([]Token, 0, len(lines)),
		Table:    make([]Row, 0, len(lines)),
	}
	for i, l := range lines {
		f := l.fields
		if id, err := strconv.Atoi(f[0]); err != nil || id != i+1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: wrong index %s, want %d", l.no, f[0], i+1)
		}

		cats := map[string]string{CategoryText: f[1]}
		if f[2] != "_" {
			cats[CategoryLemma] = f[2]
		}
		if f[3] != "_" {
			cats[CategoryPOS] = f[3]
		}
		in.Tokens = append(in.Tokens, Token{Position: i, Text: f[1]})
		in.Table = append(in.Table, Row{Token: f[1], Categories: cats})

		if f[6] == "_" {
			continue
		}
		if f[6] == "0" {
			in.Links = append(in.Links, Link{Source: i, Target: i, Dependency: f[7], ID: RootID(i)})
			continue
		}
		head, ok := positions[f[6]]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: unknown head position %s", l.no, f[6])
		}
		in.Links = append(in.Links, Link{Source: head, Target: i, Dependency: f[7], ID: EdgeID(head, i)})
	}
	return in, nil
}
