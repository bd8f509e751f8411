// Package dependency lays out dependency trees as arcs over a row of tokens.
//
// [Layout] builds a fresh scene graph in one pass:
//
//  1. Token columns are measured and placed left to right.
//  2. Every link between two distinct token positions becomes an upward
//     arc with its relation label centred on top of the arc.
//  3. Every link gets an arrowhead at its target token.
//  4. Root links (source and target on the same x) are drawn last as
//     vertical lines reaching the height of the tallest arc, so they
//     always sit above everything else.
//  5. [Fit] scales the drawing into the viewport and centres it.
//
// The resulting hierarchy is image → canvas → movable → {tokens, arcs}.
// Element ids follow the browser convention the interaction script relies
// on: "node_<pos>" for tokens and "arc_", "arrow_", "label_" followed by
// the link id for the three parts of a relation.
//
// [Selection] and [Zoom] carry the interactive state. Selection resolves to
// a [Highlight] that layout applies as CSS classes, so a server-rendered
// image can show the same highlighting a browser would after a click.
package dependency
