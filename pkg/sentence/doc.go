// Package sentence defines the annotated-sentence input that depviz renders.
//
// An [Input] is produced upstream (a treebank search service, a parser, a
// CoNLL-U file) and is read-only to depviz. It carries the tokens of one
// sentence, the dependency links between them, a per-token category table
// (token text, lemma, part of speech) and optional query highlights.
//
// # Link Identifiers
//
// Link identifiers are load-bearing: exporters recover integer endpoints
// from them. Two shapes exist:
//
//	nr_<x>_<target>          root relation, target is the third segment
//	arc_<source>_dep_<target> regular edge, source and target are segments 1 and 3
//
// [ParseLinkID] decodes both and rejects anything else with a
// MALFORMED_LINK_ID error. [RootID] and [EdgeID] build them.
//
// # Reading Input
//
// [ReadJSON] decodes the JSON shape used by the web front-end:
//
//	{
//	  "sentence": true,
//	  "links":  [{"source": 0, "target": 1, "dependency": "nsubj", "id": "arc_0_dep_1"}],
//	  "tokens": [{}, {}],
//	  "table":  [{"categories": {"text": "Dogs"}}, {"categories": {"text": "bark"}}]
//	}
//
// [ReadCoNLLU] imports the first sentence of a CoNLL-U document, and
// [ImportFile] picks a reader from the file extension.
package sentence
