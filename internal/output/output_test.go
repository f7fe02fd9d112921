package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.dot")

	if err := WriteFileAtomic(path, []byte("digraph G {}\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "digraph G {}\n" {
		t.Errorf("content = %q", data)
	}

	// Overwrite replaces the previous content in one step.
	if err := WriteFileAtomic(path, []byte("digraph H {}\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "digraph H {}\n" {
		t.Errorf("content after overwrite = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want just the target", len(entries))
	}
}

func TestWriteFileAtomic_BadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "graph.dot")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWriteViewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.html")
	err := WriteViewer(HTMLOptions{
		Path:    path,
		SVGPath: "graph.dot.svg",
		Title:   "my history",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	page := string(data)

	for _, want := range []string{
		"<title>my history</title>",
		`data="graph.dot.svg"`,
		"svgPanZoom('#digraph'",
		"min-height:700px",
		"svg-pan-zoom.min.js",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestWriteViewer_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.html")
	if err := WriteViewer(HTMLOptions{Path: path, SVGPath: "g.svg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<title>gitdot</title>") {
		t.Error("default title missing")
	}
}
