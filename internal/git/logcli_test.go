package git

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCLISource_Args(t *testing.T) {
	tests := []struct {
		name string
		opts CLIOptions
		want []string
	}{
		{
			name: "Defaults",
			opts: CLIOptions{},
			want: []string{"log", "--no-color", "--format=" + DefaultFormat, "--all", "--topo-order"},
		},
		{
			name: "RepoPath",
			opts: CLIOptions{RepoPath: "/work/repo"},
			want: []string{"-C", "/work/repo", "log", "--no-color", "--format=" + DefaultFormat, "--all", "--topo-order"},
		},
		{
			name: "SinceUntil",
			opts: CLIOptions{Since: "2024-01-01", Until: "2024-06-01"},
			want: []string{
				"log", "--no-color", "--format=" + DefaultFormat,
				"--since=2024-01-01", "--until=2024-06-01",
				"--all", "--topo-order",
			},
		},
		{
			name: "CustomRange",
			opts: CLIOptions{Range: "v1.0..master --first-parent"},
			want: []string{"log", "--no-color", "--format=" + DefaultFormat, "v1.0..master", "--first-parent"},
		},
		{
			name: "CustomFormat",
			opts: CLIOptions{Format: "%h|%s"},
			want: []string{"log", "--no-color", "--format=%h|%s", "--all", "--topo-order"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCLISource(tt.opts).args()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCLISource_CustomCommand(t *testing.T) {
	src := NewCLISource(CLIOptions{Command: "printf '|Record:|abc|||2024-03-01|subject\n'"})
	out, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "|Record:|abc|||2024-03-01|subject\n" {
		t.Errorf("output = %q", out)
	}
}

func TestCLISource_CommandFailure(t *testing.T) {
	src := NewCLISource(CLIOptions{Command: "echo oops >&2; exit 3"})
	if _, err := src.Read(context.Background()); err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestKeepSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dot.keep")
	content := "|Record:|abc|||2024-03-01|kept\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := &KeepSource{Path: path}
	out, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != content {
		t.Errorf("output = %q, want %q", out, content)
	}
}

func TestKeepSource_Missing(t *testing.T) {
	src := &KeepSource{Path: filepath.Join(t.TempDir(), "nope.keep")}
	if _, err := src.Read(context.Background()); err == nil {
		t.Fatal("expected error for missing keep file")
	}
}

func TestKeepPath(t *testing.T) {
	if got := KeepPath("graph.dot"); got != "graph.dot.keep" {
		t.Errorf("KeepPath = %q, want graph.dot.keep", got)
	}
}
