package layout

// Cnodes tracks which nodes have been merged into shared canonical nodes.
// It is a disjoint-set structure with path compression. The canonical
// representative of a set is always its earliest-registered member, so
// enumeration and representative lookup are deterministic for a given
// sequence of Register/Link calls.
//
// Determinism matters: the first canonical node discovered while iterating
// registered nodes becomes the solver's reference point (coordinate 0), and
// discovery order decides which stretch unknowns end up basic.
type Cnodes struct {
	parent map[string]string
	index  map[string]int
	order  []string
}

// NewCnodes creates an empty node-merging table.
func NewCnodes() *Cnodes {
	return &Cnodes{
		parent: make(map[string]string),
		index:  make(map[string]int),
	}
}

// Register adds a node to the table if it is not already known.
func (c *Cnodes) Register(n string) {
	if _, ok := c.parent[n]; ok {
		return
	}
	c.parent[n] = n
	c.index[n] = len(c.order)
	c.order = append(c.order, n)
}

// Link declares that n1 and n2 share a common position. Both nodes are
// registered if unknown. The merged set keeps the earliest-registered
// member as its canonical representative.
func (c *Cnodes) Link(n1, n2 string) {
	c.Register(n1)
	c.Register(n2)

	r1 := c.find(n1)
	r2 := c.find(n2)
	if r1 == r2 {
		return
	}
	if c.index[r1] < c.index[r2] {
		c.parent[r2] = r1
	} else {
		c.parent[r1] = r2
	}
}

// Canonical returns the canonical representative for n, registering n first
// if it has never been seen.
func (c *Cnodes) Canonical(n string) string {
	c.Register(n)
	return c.find(n)
}

// Nodes returns all registered nodes in registration order.
func (c *Cnodes) Nodes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered nodes.
func (c *Cnodes) Len() int {
	return len(c.order)
}

// find resolves the root of n's set, compressing the path as it goes.
func (c *Cnodes) find(n string) string {
	root := n
	for c.parent[root] != root {
		root = c.parent[root]
	}
	for c.parent[n] != root {
		c.parent[n], n = root, c.parent[n]
	}
	return root
}
