// Package pkg provides the core libraries for schemline constraint layout.
//
// # Overview
//
// Schemline places schematic nodes from pairwise distance constraints. Each
// axis is an independent one-dimensional problem: linked nodes collapse into
// a single unknown, constraints become rows of a sparse linear system, and
// solving the system yields every node's coordinate. The pkg directory is
// organized into five main areas:
//
//  1. [layout] - The per-axis constraint graph and solver
//  2. [placer] - Two-axis composition into 2-D placements
//  3. [schema] - TOML constraint documents and JSON placement documents
//  4. [render] - Graphviz diagrams of constraint graphs
//  5. [pipeline] - Orchestration (load → solve → render) with caching
//
// # Architecture
//
// The typical data flow through schemline:
//
//	TOML constraint document
//	         ↓
//	    [schema] package (parse + validate)
//	         ↓
//	    [placer] package (per-axis graphs via [layout])
//	         ↓
//	    [pipeline] package (solve, cache, render)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
//	doc, err := schema.Load("circuit.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pl, err := doc.Solve()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pl.Positions["r1.1"], pl.Width, pl.Height)
//
// Supporting packages: [cache] for placement caching, [errors] for coded
// errors, [observability] for solver and cache hooks, and [buildinfo] for
// version stamping.
package pkg
