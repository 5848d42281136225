package layout

import "fmt"

// IncompatibleError reports two fixed constraints between the same node pair
// that disagree in magnitude. The Add call that detected it leaves the
// constraint store unchanged.
type IncompatibleError struct {
	Key      Key     // stored direction of the conflicting pair
	Incoming float64 // magnitude of the rejected constraint, in the stored direction
	Existing float64 // magnitude already recorded
}

// Error implements the error interface.
func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("incompatible fixed constraint of size %g and %g between %s",
		e.Incoming, e.Existing, e.Key)
}

// UnderdeterminedError reports that no chain of constraints pins a node's
// position relative to the reference node. Solve fails without producing
// partial positions.
type UnderdeterminedError struct {
	Node string // canonical node without a determining equation
}

// Error implements the error interface.
func (e *UnderdeterminedError) Error() string {
	return fmt.Sprintf("no basic variable for node %s", e.Node)
}

// Warning describes a non-fatal anomaly found during a solve. The solve
// still succeeds; the reported value may be physically nonsensical.
//
// A negative stretch is usually caused by a poor choice of basic variable
// during factorization rather than by inconsistent input. The choice depends
// on constraint insertion order.
type Warning struct {
	Key   Key     // stretchy constraint whose resolved value is negative
	Value float64 // the resolved (negative) stretch
}

func (w Warning) String() string {
	return fmt.Sprintf("negative stretch %g for %s", w.Value, w.Key)
}
