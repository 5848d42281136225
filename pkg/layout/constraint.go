package layout

import (
	"fmt"
	"math"
)

// Key identifies a directed constraint between two canonical nodes.
// A Key and its reverse refer to the same physical constraint with
// opposite sign convention; the store holds at most one of the two.
type Key struct {
	From string
	To   string
}

// reverse returns the key for the opposite direction.
func (k Key) reverse() Key {
	return Key{From: k.To, To: k.From}
}

func (k Key) String() string {
	return k.From + " -> " + k.To
}

// Constraint is a distance requirement along the axis, measured from the
// key's From node to its To node. Size is non-negative once stored; the key
// direction encodes the sign. Stretch marks the distance as a free unknown
// with Size acting as a priority when constraints collide.
type Constraint struct {
	Size    float64
	Stretch bool
}

func (c Constraint) String() string {
	if c.Stretch {
		return fmt.Sprintf("%.2f*", c.Size)
	}
	return fmt.Sprintf("%.2f", c.Size)
}

// store holds the surviving constraint per unordered node pair.
// Insertion order is preserved: it fixes both the equation (row) order and
// the stretch-column order of the linear system, and an overwrite keeps the
// original position.
type store struct {
	entries map[Key]Constraint
	order   []Key
}

func newStore() *store {
	return &store{entries: make(map[Key]Constraint)}
}

func (s *store) get(k Key) (Constraint, bool) {
	c, ok := s.entries[k]
	return c, ok
}

func (s *store) put(k Key, c Constraint) {
	if _, ok := s.entries[k]; !ok {
		s.order = append(s.order, k)
	}
	s.entries[k] = c
}

func (s *store) len() int {
	return len(s.order)
}

// keys returns the stored keys in insertion order. The returned slice is
// shared; callers must not modify it.
func (s *store) keys() []Key {
	return s.order
}

// resolve applies the conflict rules for a new constraint against the store
// and reports whether the store changed.
//
// The rules reproduce the reference behavior exactly, including its
// asymmetry: a fixed entry is overwritten by any stretchy newcomer, while a
// stretchy entry survives unless the newcomer's |Size| is strictly larger.
func (s *store) resolve(key Key, incoming Constraint) error {
	rev := key.reverse()

	_, haveKey := s.entries[key]
	_, haveRev := s.entries[rev]
	if !haveKey && !haveRev {
		s.put(key, incoming)
		return nil
	}

	// Express the newcomer in the stored direction.
	if haveRev {
		incoming.Size = -incoming.Size
		key = rev
	}

	existing := s.entries[key]
	if !existing.Stretch {
		if !incoming.Stretch && incoming.Size != existing.Size {
			return &IncompatibleError{
				Key:      key,
				Incoming: incoming.Size,
				Existing: existing.Size,
			}
		}
		s.put(key, incoming)
		return nil
	}

	if math.Abs(incoming.Size) > math.Abs(existing.Size) {
		s.put(key, incoming)
	}
	return nil
}
