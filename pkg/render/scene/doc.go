// Package scene is a small retained scene graph for positioned SVG
// primitives.
//
// Layout code builds a tree of [Group], [Path], [Polygon] and [Text] nodes
// and queries their bounding boxes while it works, the way browser code
// queries getBBox on live DOM elements. Sinks walk the finished tree and
// serialise it.
//
// Bounds are reported in the node's own user space. A group's bounds are
// the union of its children's bounds, with each child group's transform
// applied; the group's own transform is not. An empty group has the zero
// box.
package scene
