// Package schema defines the on-disk documents schemline works with.
//
// A constraint document is a TOML file describing a schematic's layout
// requirements: which nodes share a position ([[link]] tables) and the
// pairwise distance constraints per axis ([[constraint]] tables). Example:
//
//	title = "rc filter"
//
//	[[link]]
//	nodes = ["r1.2", "c1.1"]
//
//	[[constraint]]
//	from = "r1.1"
//	to = "r1.2"
//	axis = "x"
//	size = 2.0
//
//	[[constraint]]
//	from = "c1.1"
//	to = "c1.2"
//	axis = "y"
//	size = 1.0
//	stretch = true
//
// A placement document is the JSON output of a solve: node positions,
// overall width and height, and any solver warnings.
package schema
