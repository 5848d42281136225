package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schemline/schemline/pkg/placer"
	"github.com/schemline/schemline/pkg/schema"
)

func testInspectModel() inspectModel {
	doc := &schema.Document{Title: "rc filter"}
	pl := &placer.Placement{
		Positions: map[string]placer.Point{
			"b": {X: 2, Y: 0},
			"a": {X: 0, Y: 1},
			"c": {X: 1, Y: 2},
		},
		Width:    2,
		Height:   2,
		Warnings: []string{"horizontal: negative stretch -1 for a--b"},
	}
	return newInspectModel(doc, pl)
}

func TestInspectModelSortsByName(t *testing.T) {
	m := testInspectModel()
	if m.rows[0].node != "a" || m.rows[2].node != "c" {
		t.Errorf("rows not sorted by name: %v", m.rows)
	}
}

func TestInspectModelSortKeys(t *testing.T) {
	m := testInspectModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = next.(inspectModel)
	if m.rows[0].node != "a" || m.rows[1].node != "c" || m.rows[2].node != "b" {
		t.Errorf("rows not sorted by x: %v", m.rows)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(inspectModel)
	if m.rows[0].node != "b" || m.rows[2].node != "c" {
		t.Errorf("rows not sorted by y: %v", m.rows)
	}
}

func TestInspectModelNavigation(t *testing.T) {
	m := testInspectModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(inspectModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(inspectModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.cursor)
	}

	// Up at the top stays put
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(inspectModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := testInspectModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestInspectModelView(t *testing.T) {
	m := testInspectModel()
	view := m.View()

	for _, want := range []string{"rc filter", "Node", "negative stretch"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
