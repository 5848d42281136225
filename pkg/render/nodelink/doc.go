// Package nodelink renders constraint documents as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz visualizations of a constraint graph:
// nodes appear as circles, fixed constraints as solid edges labelled with
// their size, stretchy constraints as dashed edges, and links as dotted
// undirected edges. When a solved placement is supplied, nodes are pinned
// to their solved coordinates so the diagram shows the actual layout.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(doc, pl, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Without a placement the diagram uses the default dot engine; with one it
// sets layout=neato and pins every node, so external tools render it the
// same way.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. No external Graphviz installation is needed.
package nodelink
