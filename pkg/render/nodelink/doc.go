// Package nodelink renders a laid-out binary search tree as a static
// node-link diagram using Graphviz.
//
// # Usage
//
//	tree, _, err := bst.Build(values)
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// By default Graphviz chooses its own layout (dot engine), with invisible
// placeholders keeping children on the correct side. With Options.Pinned
// every node is fixed at the position the layout simulator computed, and
// the neato engine draws it there, so the diagram matches the last frame of
// the animation.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
