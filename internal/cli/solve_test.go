package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		def  string
		want []string
	}{
		{"", "json", []string{"json"}},
		{"", "svg", []string{"svg"}},
		{"dot", "json", []string{"dot"}},
		{"json,svg,png", "json", []string{"json", "svg", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in, tt.def)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "circuit.toml", "circuit"},
		{"", "dir/circuit.toml", "dir/circuit"},
		{"out.svg", "circuit.toml", "out"},
		{"out.json", "circuit.toml", "out"},
		{"custom", "circuit.toml", "custom"},
		{"archive.tar", "circuit.toml", "archive.tar"}, // unknown extension kept
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "circuit.toml")
	artifacts := map[string][]byte{"json": []byte(`{}`)}

	paths, err := writeArtifacts(artifacts, []string{"json"}, input, "")
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}
	want := filepath.Join(dir, "circuit.json")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("paths = %v, want [%s]", paths, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "circuit.toml")
	artifacts := map[string][]byte{
		"json": []byte(`{}`),
		"dot":  []byte("graph G {}\n"),
	}

	paths, err := writeArtifacts(artifacts, []string{"json", "dot"}, input, filepath.Join(dir, "out.svg"))
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want two entries", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output %s not written: %v", p, err)
		}
		if filepath.Ext(p) == ".svg" {
			t.Errorf("format extension should replace .svg: %s", p)
		}
	}
}
