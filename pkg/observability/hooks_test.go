package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Solver hooks
	s := NoopSolverHooks{}
	s.OnSolveStart("horizontal", 10, 12)
	s.OnFactorized("horizontal", 12, 11, 9)
	s.OnWarning("horizontal", "negative stretch -1 for a--b")
	s.OnSolveComplete("horizontal", 7.5, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "placement")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Solver() should return NoopSolverHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customSolver := &testSolverHooks{}
	SetSolverHooks(customSolver)
	if Solver() != customSolver {
		t.Error("SetSolverHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Nil registrations are ignored
	SetSolverHooks(nil)
	if Solver() != customSolver {
		t.Error("SetSolverHooks(nil) should keep existing hooks")
	}

	// Reset restores noop
	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Reset() should restore NoopSolverHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestCustomSolverHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testSolverHooks{}
	SetSolverHooks(h)

	Solver().OnSolveStart("vertical", 3, 2)
	Solver().OnWarning("vertical", "negative stretch")
	Solver().OnSolveComplete("vertical", 4, time.Millisecond, errors.New("boom"))

	if h.starts != 1 {
		t.Errorf("starts = %d, want 1", h.starts)
	}
	if h.warnings != 1 {
		t.Errorf("warnings = %d, want 1", h.warnings)
	}
	if h.completes != 1 || h.lastErr == nil {
		t.Errorf("completes = %d, lastErr = %v", h.completes, h.lastErr)
	}
	if h.lastAxis != "vertical" {
		t.Errorf("lastAxis = %q, want vertical", h.lastAxis)
	}
}

// testSolverHooks counts solver events.
type testSolverHooks struct {
	starts    int
	warnings  int
	completes int
	lastAxis  string
	lastErr   error
}

func (h *testSolverHooks) OnSolveStart(axis string, nodes, constraints int) {
	h.starts++
	h.lastAxis = axis
}

func (h *testSolverHooks) OnFactorized(axis string, rows, cols, basic int) {}

func (h *testSolverHooks) OnWarning(axis, warning string) {
	h.warnings++
}

func (h *testSolverHooks) OnSolveComplete(axis string, span float64, d time.Duration, err error) {
	h.completes++
	h.lastAxis = axis
	h.lastErr = err
}

// testCacheHooks counts cache events.
type testCacheHooks struct {
	hits, misses, sets int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }
func (h *testCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.sets++
}
