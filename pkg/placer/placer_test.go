package placer

import (
	"math"
	"strings"
	"testing"
)

func TestPlacerSolveCombinesAxes(t *testing.T) {
	p := New()
	if err := p.Add(AxisX, "a", "b", 4, false); err != nil {
		t.Fatalf("Add x: %v", err)
	}
	if err := p.Add(AxisY, "a", "b", 3, false); err != nil {
		t.Fatalf("Add y: %v", err)
	}

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}

	if got.Width != 4 || got.Height != 3 {
		t.Errorf("dimensions = (%v, %v), want (4, 3)", got.Width, got.Height)
	}
	a := got.Positions["a"]
	b := got.Positions["b"]
	if b.X-a.X != 4 {
		t.Errorf("b.X - a.X = %v, want 4", b.X-a.X)
	}
	if b.Y-a.Y != 3 {
		t.Errorf("b.Y - a.Y = %v, want 3", b.Y-a.Y)
	}
}

func TestPlacerMissingAxisDefaultsToZero(t *testing.T) {
	// Nodes constrained only horizontally sit at y = 0.
	p := New()
	if err := p.Add(AxisX, "a", "b", 2, false); err != nil {
		t.Fatalf("Add x: %v", err)
	}

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	if got.Positions["a"].Y != 0 || got.Positions["b"].Y != 0 {
		t.Errorf("y positions = %v, want both 0", got.Positions)
	}
	if got.Height != 0 {
		t.Errorf("Height = %v, want 0", got.Height)
	}
}

func TestPlacerLinkOn(t *testing.T) {
	// A horizontal element: x distance plus a y link keeping its
	// terminals level.
	p := New()
	if err := p.Add(AxisX, "a", "b", 2, false); err != nil {
		t.Fatalf("Add x: %v", err)
	}
	if err := p.LinkOn(AxisY, "a", "b"); err != nil {
		t.Fatalf("LinkOn y: %v", err)
	}
	if err := p.Add(AxisY, "a", "c", 1, false); err != nil {
		t.Fatalf("Add y: %v", err)
	}
	if err := p.LinkOn(AxisX, "a", "c"); err != nil {
		t.Fatalf("LinkOn x: %v", err)
	}

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	if got.Positions["a"].Y != got.Positions["b"].Y {
		t.Errorf("a and b not level: %v", got.Positions)
	}
	if got.Positions["a"].X != got.Positions["c"].X {
		t.Errorf("a and c not aligned: %v", got.Positions)
	}
	if err := p.LinkOn("diagonal", "a", "b"); err == nil {
		t.Error("LinkOn() with unknown axis succeeded, want error")
	}
}

func TestPlacerLinkAppliesToBothAxes(t *testing.T) {
	p := New()
	p.Link("a", "b")
	if err := p.Add(AxisX, "a", "x", 5, false); err != nil {
		t.Fatalf("Add x: %v", err)
	}
	if err := p.Add(AxisY, "b", "x", 2, false); err != nil {
		t.Fatalf("Add y: %v", err)
	}

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	if got.Positions["a"] != got.Positions["b"] {
		t.Errorf("linked nodes differ: a=%v b=%v", got.Positions["a"], got.Positions["b"])
	}
}

func TestPlacerUnknownAxis(t *testing.T) {
	p := New()
	if err := p.Add("z", "a", "b", 1, false); err == nil {
		t.Fatal("Add() with unknown axis succeeded, want error")
	}
}

func TestPlacerAxisErrorIsLabelled(t *testing.T) {
	p := New()
	if err := p.Add(AxisY, "a", "b", 5, false); err != nil {
		t.Fatalf("Add y: %v", err)
	}
	if err := p.Add(AxisY, "a", "b", 7, false); err == nil {
		t.Fatal("conflicting add succeeded, want error")
	} else if !strings.Contains(err.Error(), "vertical") {
		t.Errorf("error %q does not name the vertical axis", err)
	}
}

func TestPlacerWarningsPropagate(t *testing.T) {
	p := New()
	for _, c := range []struct {
		from, to string
		size     float64
		stretch  bool
	}{
		{"a", "b", 5, false},
		{"b", "c", 1, true},
		{"a", "c", 3, false},
	} {
		if err := p.Add(AxisX, c.from, c.to, c.size, c.stretch); err != nil {
			t.Fatalf("Add x: %v", err)
		}
	}
	p.Y.Link("a", "b")
	p.Y.Link("b", "c")

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	if len(got.Warnings) == 0 {
		t.Fatal("expected a propagated warning, got none")
	}
	if !strings.HasPrefix(got.Warnings[0], "horizontal:") {
		t.Errorf("warning %q not prefixed with axis", got.Warnings[0])
	}
}

func TestPlacerNormalization(t *testing.T) {
	p := New()
	if err := p.Add(AxisX, "a", "b", -4, false); err != nil {
		t.Fatalf("Add x: %v", err)
	}
	p.Y.Link("a", "b")

	got, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() failed: %v", err)
	}
	minX := math.Inf(1)
	for _, pt := range got.Positions {
		minX = math.Min(minX, pt.X)
	}
	if minX != 0 {
		t.Errorf("min x = %v, want 0", minX)
	}
}
