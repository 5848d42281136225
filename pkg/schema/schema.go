package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/schemline/schemline/pkg/errors"
	"github.com/schemline/schemline/pkg/placer"
)

// =============================================================================
// Constraint Document (TOML)
// =============================================================================

// Document is a parsed constraint document.
type Document struct {
	Title       string       `toml:"title"`
	Links       []Link       `toml:"link"`
	Constraints []Constraint `toml:"constraint"`
}

// Link declares that a set of nodes shares a position. An empty axis links
// on both axes (a wire junction); "x" or "y" links on that axis only (how a
// component keeps its terminals aligned perpendicular to its orientation).
type Link struct {
	Nodes []string `toml:"nodes"`
	Axis  string   `toml:"axis,omitempty"`
}

// Constraint is one pairwise distance requirement.
type Constraint struct {
	From    string  `toml:"from"`
	To      string  `toml:"to"`
	Axis    string  `toml:"axis"`
	Size    float64 `toml:"size"`
	Stretch bool    `toml:"stretch"`
}

// Parse decodes a TOML constraint document and validates its shape.
// Constraint semantics (conflicts, underdetermined graphs) are not checked
// here; they surface when the document is applied and solved.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode constraint document")
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a constraint document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Parse(data)
}

func (d *Document) validate() error {
	for i, l := range d.Links {
		if len(l.Nodes) < 2 {
			return errors.New(errors.ErrCodeInvalidDocument,
				"link %d needs at least two nodes, got %d", i, len(l.Nodes))
		}
		if l.Axis != "" && l.Axis != string(placer.AxisX) && l.Axis != string(placer.AxisY) {
			return errors.New(errors.ErrCodeInvalidAxis,
				"link %d has axis %q, want %q, %q or empty", i, l.Axis, placer.AxisX, placer.AxisY)
		}
		for _, n := range l.Nodes {
			if err := errors.ValidateNodeID(n); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "link %d", i)
			}
		}
	}
	for i, c := range d.Constraints {
		if err := errors.ValidateNodeID(c.From); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "constraint %d", i)
		}
		if err := errors.ValidateNodeID(c.To); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "constraint %d", i)
		}
		if c.Axis != string(placer.AxisX) && c.Axis != string(placer.AxisY) {
			return errors.New(errors.ErrCodeInvalidAxis,
				"constraint %d has axis %q, want %q or %q", i, c.Axis, placer.AxisX, placer.AxisY)
		}
	}
	return nil
}

// Apply loads the document's links and constraints into a placer.
// Links are applied first so constraints always see the merged nodes.
func (d *Document) Apply(p *placer.Placer) error {
	for i, l := range d.Links {
		for _, n := range l.Nodes[1:] {
			if l.Axis == "" {
				p.Link(l.Nodes[0], n)
				continue
			}
			if err := p.LinkOn(placer.Axis(l.Axis), l.Nodes[0], n); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidAxis, err, "apply link %d", i)
			}
		}
	}
	for i, c := range d.Constraints {
		if err := p.Add(placer.Axis(c.Axis), c.From, c.To, c.Size, c.Stretch); err != nil {
			return errors.Wrap(errors.ErrCodeIncompatibleConstraint, err,
				"apply constraint %d (%s -> %s)", i, c.From, c.To)
		}
	}
	return nil
}

// Solve applies the document to a fresh placer and solves it.
func (d *Document) Solve() (*placer.Placement, error) {
	p := placer.New()
	if err := d.Apply(p); err != nil {
		return nil, err
	}
	pl, err := p.Solve()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnderdetermined, err, "solve %q", d.Title)
	}
	return pl, nil
}

// =============================================================================
// Placement Document (JSON)
// =============================================================================

// MarshalPlacement serializes a placement to indented JSON.
func MarshalPlacement(p *placer.Placement) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalPlacement parses a placement document.
func UnmarshalPlacement(data []byte) (*placer.Placement, error) {
	var p placer.Placement
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode placement document")
	}
	return &p, nil
}

// WritePlacementFile writes a placement document to path.
func WritePlacementFile(p *placer.Placement, path string) error {
	data, err := MarshalPlacement(p)
	if err != nil {
		return fmt.Errorf("marshal placement: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadPlacementFile reads a placement document from path.
func ReadPlacementFile(path string) (*placer.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalPlacement(data)
}

// MarshalDocument serializes a constraint document back to TOML, e.g. for
// canonical hashing.
func MarshalDocument(d *Document) ([]byte, error) {
	data, err := toml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}
