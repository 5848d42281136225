// Package render provides diagram rendering for solved placements.
//
// The [nodelink] subpackage draws constraint graphs with Graphviz: nodes at
// their solved coordinates, constraint edges styled by kind. See its package
// documentation for the DOT conventions and supported output formats.
//
// [nodelink]: github.com/schemline/schemline/pkg/render/nodelink
package render
