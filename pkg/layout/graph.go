package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/schemline/schemline/pkg/observability"
)

// Graph accumulates distance constraints between nodes along one axis and
// solves them into scalar coordinates. Create one Graph per axis.
type Graph struct {
	axis   string
	cnodes *Cnodes
	store  *store
	logger *log.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger attaches a logger used for debug-level diagnostics (constraint
// table and system dimensions during Solve). By default diagnostics are
// discarded.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an empty constraint graph. The axis label (e.g. "horizontal")
// only appears in diagnostics.
func New(axis string, opts ...Option) *Graph {
	g := &Graph{
		axis:   axis,
		cnodes: NewCnodes(),
		store:  newStore(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Axis returns the axis label the graph was created with.
func (g *Graph) Axis() string {
	return g.axis
}

// Cnodes exposes the node-merging table, e.g. for callers that need to
// resolve canonical representatives themselves.
func (g *Graph) Cnodes() *Cnodes {
	return g.cnodes
}

// Link declares that n1 and n2 occupy the same position on this axis for
// all subsequent Add and Solve calls.
func (g *Graph) Link(n1, n2 string) {
	g.cnodes.Link(n1, n2)
}

// Add records a distance requirement of size from node from to node to.
// A stretchy constraint leaves the distance as a free unknown, with size
// acting as a priority against competing constraints on the same pair.
//
// A zero size records nothing. A negative size is stored as a positive
// distance in the opposite direction. At most one constraint survives per
// node pair: a fixed constraint is replaced by any stretchy newcomer or by
// an equal fixed one, while a stretchy constraint is only replaced by a
// newcomer of strictly larger magnitude.
//
// Add returns *IncompatibleError if a fixed constraint contradicts an
// existing fixed constraint; the store is left unchanged in that case.
func (g *Graph) Add(from, to string, size float64, stretch bool) error {
	if size == 0 {
		return nil
	}
	if size < 0 {
		from, to = to, from
		size = -size
	}

	key := Key{
		From: g.cnodes.Canonical(from),
		To:   g.cnodes.Canonical(to),
	}
	return g.store.resolve(key, Constraint{Size: size, Stretch: stretch})
}

// Constraints returns the surviving constraints in insertion order.
// Mostly useful for diagnostics and rendering.
func (g *Graph) Constraints() []KeyedConstraint {
	out := make([]KeyedConstraint, 0, g.store.len())
	for _, k := range g.store.keys() {
		c, _ := g.store.get(k)
		out = append(out, KeyedConstraint{Key: k, Constraint: c})
	}
	return out
}

// KeyedConstraint pairs a constraint with its stored direction.
type KeyedConstraint struct {
	Key        Key
	Constraint Constraint
}

// Result holds the outcome of a successful solve.
type Result struct {
	// Positions maps every registered node to its coordinate. The minimum
	// coordinate is exactly 0.
	Positions map[string]float64

	// Span is the distance between the minimum and maximum coordinates.
	Span float64

	// Warnings lists non-fatal anomalies, currently negative resolved
	// stretch values. The positions are still returned as computed.
	Warnings []Warning
}

// Solve computes a coordinate for every registered node plus the total
// span. It is a full recomputation over the current constraint set; the
// graph itself is not modified and may be solved again after further Add
// or Link calls.
//
// Solve returns *UnderdeterminedError if any node has no constraint chain
// pinning it to the reference node.
func (g *Graph) Solve() (res *Result, err error) {
	start := time.Now()
	observability.Solver().OnSolveStart(g.axis, g.cnodes.Len(), g.store.len())
	defer func() {
		span := 0.0
		if res != nil {
			span = res.Span
		}
		observability.Solver().OnSolveComplete(g.axis, span, time.Since(start), err)
	}()

	if g.logger.GetLevel() <= log.DebugLevel {
		for _, kc := range g.Constraints() {
			g.logger.Debug("constraint", "axis", g.axis, "pair", kc.Key.String(), "value", kc.Constraint.String())
		}
	}

	res, err = g.solve()
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		g.logger.Warn("solve warning", "axis", g.axis, "warning", w.String())
		observability.Solver().OnWarning(g.axis, w.String())
	}
	return res, nil
}
