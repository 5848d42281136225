// Package placer composes two independent one-dimensional layout solves
// into 2-D schematic positions.
//
// A Placer owns one layout.Graph per axis. Nodes linked on the placer are
// merged on both axes; constraints are forwarded to the axis they belong
// to. Solve runs both graphs and combines the coordinate maps into points,
// reporting the overall width and height.
package placer

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/schemline/schemline/pkg/layout"
)

// Axis selects which graph a constraint applies to.
type Axis string

// Supported axes.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Point is a solved 2-D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placer holds the two per-axis constraint graphs.
type Placer struct {
	X *layout.Graph
	Y *layout.Graph
}

// New creates a placer with empty graphs for both axes.
func New(opts ...layout.Option) *Placer {
	return &Placer{
		X: layout.New("horizontal", opts...),
		Y: layout.New("vertical", opts...),
	}
}

// WithLogger is a convenience wrapper forwarding the logger option to both
// axis graphs.
func WithLogger(l *log.Logger) layout.Option {
	return layout.WithLogger(l)
}

// Link declares n1 and n2 positionally equivalent on both axes, e.g. for
// wire junctions.
func (p *Placer) Link(n1, n2 string) {
	p.X.Link(n1, n2)
	p.Y.Link(n1, n2)
}

// LinkOn declares n1 and n2 equivalent on a single axis. This is how a
// component aligned with one axis keeps its terminals level on the other:
// a horizontal element adds an x constraint and links its nodes on y.
func (p *Placer) LinkOn(axis Axis, n1, n2 string) error {
	g, err := p.graph(axis)
	if err != nil {
		return err
	}
	g.Link(n1, n2)
	return nil
}

// Add records a constraint on the given axis.
func (p *Placer) Add(axis Axis, from, to string, size float64, stretch bool) error {
	g, err := p.graph(axis)
	if err != nil {
		return err
	}
	if err := g.Add(from, to, size, stretch); err != nil {
		return fmt.Errorf("%s axis: %w", g.Axis(), err)
	}
	return nil
}

func (p *Placer) graph(axis Axis) (*layout.Graph, error) {
	switch axis {
	case AxisX:
		return p.X, nil
	case AxisY:
		return p.Y, nil
	default:
		return nil, fmt.Errorf("unknown axis %q", axis)
	}
}

// Placement is the combined result of both axis solves.
type Placement struct {
	// Positions maps every node to its solved point. The minimum coordinate
	// on each axis is 0.
	Positions map[string]Point `json:"positions"`

	// Width and Height are the spans of the horizontal and vertical solves.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Warnings carries non-fatal anomalies from either axis, prefixed with
	// the axis label.
	Warnings []string `json:"warnings,omitempty"`
}

// Solve runs both axis graphs and combines their coordinates. An error on
// either axis fails the whole placement; no partial positions are returned.
func (p *Placer) Solve() (*Placement, error) {
	xres, err := p.X.Solve()
	if err != nil {
		return nil, fmt.Errorf("%s axis: %w", p.X.Axis(), err)
	}
	yres, err := p.Y.Solve()
	if err != nil {
		return nil, fmt.Errorf("%s axis: %w", p.Y.Axis(), err)
	}

	// Nodes known to only one axis sit at 0 on the other.
	positions := make(map[string]Point, len(xres.Positions))
	for n, x := range xres.Positions {
		pt := Point{X: x}
		if y, ok := yres.Positions[n]; ok {
			pt.Y = y
		}
		positions[n] = pt
	}
	for n, y := range yres.Positions {
		if _, ok := positions[n]; !ok {
			positions[n] = Point{Y: y}
		}
	}

	var warnings []string
	for _, w := range xres.Warnings {
		warnings = append(warnings, p.X.Axis()+": "+w.String())
	}
	for _, w := range yres.Warnings {
		warnings = append(warnings, p.Y.Axis()+": "+w.String())
	}

	return &Placement{
		Positions: positions,
		Width:     xres.Span,
		Height:    yres.Span,
		Warnings:  warnings,
	}, nil
}
