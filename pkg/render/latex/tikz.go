// Package latex exports dependency trees for the tikz-dependency LaTeX
// package.
package latex

import (
	"strconv"
	"strings"

	"github.com/matzehuels/depviz/pkg/sentence"
)

const (
	fourSpace  = "    "
	eightSpace = "        "
	cellSep    = "  \\&  "
	lineEnd    = " \\\\\n"
)

const preamble = `% Note: this environment is designed for roman alphabet languages, and requires
% LaTeX and the \usepackage{tikz-dependency} in your preamble. If you want to
% work with other scripts, you may need to install additional fonts
% and use XeTeX for compliation. If you notice any errors in the way that trees
% are displayed, or want a new feature added, please file an issue request, or
% consult https://mirror.hmc.edu/ctan/graphics/pgf/contrib/tikz-dependency/tikz-dependency-doc.pdf

`

// Tikz renders the sentence as a tikz-dependency environment.
//
// ok is false when the sentence marker is falsy or the input has no link
// list at all; there is nothing to export then. An empty link list still
// exports the token table. A malformed link identifier is an error.
//
// The table supplies one column per row with the token, lemma and POS
// lines; a missing category is written as "~". When the last row has a
// lemma or POS the environment is wrapped in a resize box with italic
// lemmas and typewriter tags.
func Tikz(in *sentence.Input) (tex string, ok bool, err error) {
	if in == nil || !in.Sentence || in.Links == nil {
		return "", false, nil
	}

	var edges strings.Builder
	for _, l := range in.Links {
		id, err := sentence.ParseLinkID(l.ID)
		if err != nil {
			return "", false, err
		}
		rel := Escape(l.Dependency)
		if id.Kind == sentence.KindRoot {
			edges.WriteString(fourSpace + `\deproot{` + strconv.Itoa(id.Target+1) + "}{" + rel + "}\n")
			continue
		}
		edges.WriteString(fourSpace + `\depedge{` + strconv.Itoa(id.Source+1) + "}{" + strconv.Itoa(id.Target+1) + "}{" + rel + "}\n")
	}

	tokens, lemmas, tags := eightSpace, eightSpace, eightSpace
	var rowFormat string
	for i, row := range in.Table {
		tokens += cell(row.Has(sentence.CategoryText), row.Text())
		lemmas += cell(row.Has(sentence.CategoryLemma), row.Categories[sentence.CategoryLemma])
		tags += cell(row.Has(sentence.CategoryPOS), row.Categories[sentence.CategoryPOS])

		if i == len(in.Table)-1 {
			rowFormat = lastRowFormat(row)
			tokens += lineEnd
			lemmas += lineEnd
			tags += lineEnd
		} else {
			tokens += cellSep
			lemmas += cellSep
			tags += cellSep
		}
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString(rowFormat)
	b.WriteString("\\begin{dependency}\n")
	b.WriteString(fourSpace + "\\begin{deptext}[column sep=.7cm, row sep=.1ex]\n")
	if len(in.Table) > 0 {
		b.WriteString(tokens)
		b.WriteString(lemmas)
		b.WriteString(tags)
	}
	b.WriteString(fourSpace + "\\end{deptext}\n")
	b.WriteString(edges.String())
	b.WriteString("\\end{dependency}\n")
	if rowFormat != "" {
		b.WriteString("}\n")
	}
	return b.String(), true, nil
}

func cell(present bool, value string) string {
	if !present {
		return sentence.Filler
	}
	return Escape(value)
}

// lastRowFormat opens the resize box when the final table row carries a
// lemma or POS, and styles those deptext rows.
func lastRowFormat(row sentence.Row) string {
	hasLemma, hasPOS := row.Has(sentence.CategoryLemma), row.Has(sentence.CategoryPOS)
	if !hasLemma && !hasPOS {
		return ""
	}
	s := "\\resizebox{\\linewidth}{!}{\n\\usetikzlibrary{matrix}\n"
	if hasLemma {
		s += fourSpace + "\\tikzset{row 2/.style={nodes={font=\\it}}}\n"
	}
	if hasPOS {
		s += fourSpace + "\\tikzset{row 3/.style={nodes={font=\\ttfamily}}}\n"
	}
	return s
}
