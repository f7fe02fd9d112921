package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Label.Format != "%h" {
		t.Errorf("Label.Format = %q, want %%h", cfg.Label.Format)
	}
	if cfg.Label.MaxWidth != 32 {
		t.Errorf("Label.MaxWidth = %d, want 32", cfg.Label.MaxWidth)
	}
	if !strings.Contains(cfg.Attrs.CNode, "{label}") {
		t.Errorf("CNode template missing {label}: %q", cfg.Attrs.CNode)
	}
	if cfg.Git.Range != "--all --topo-order" {
		t.Errorf("Git.Range = %q", cfg.Git.Range)
	}
	if cfg.Reduce.Squash || cfg.Reduce.Crunch {
		t.Error("reduction should default to off")
	}
	if cfg.AlignByDate != "none" {
		t.Errorf("AlignByDate = %q, want none", cfg.AlignByDate)
	}
	if len(cfg.DotOptions) == 0 {
		t.Error("DotOptions should carry the graph defaults")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitdot.json")
	content := `{
		"label": {"format": "%h|%s", "maxWidth": 40},
		"reduce": {"squash": true},
		"filters": {"since": "2024-01-01", "chooseBranches": ["master"]},
		"variables": [{"name": "@CHID@", "pattern": "Change-Id: I([0-9a-f]+)"}]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Label.Format != "%h|%s" {
		t.Errorf("Label.Format = %q", cfg.Label.Format)
	}
	if cfg.Label.MaxWidth != 40 {
		t.Errorf("Label.MaxWidth = %d", cfg.Label.MaxWidth)
	}
	if !cfg.Reduce.Squash {
		t.Error("Reduce.Squash not loaded")
	}
	if cfg.Filters.Since != "2024-01-01" {
		t.Errorf("Filters.Since = %q", cfg.Filters.Since)
	}
	if len(cfg.Filters.ChooseBranches) != 1 || cfg.Filters.ChooseBranches[0] != "master" {
		t.Errorf("ChooseBranches = %v", cfg.Filters.ChooseBranches)
	}
	// Untouched sections keep their defaults.
	if cfg.Git.Range != "--all --topo-order" {
		t.Errorf("Git.Range = %q, want default", cfg.Git.Range)
	}
	if !strings.Contains(cfg.Attrs.MNode, "lightpink") {
		t.Errorf("MNode lost its default: %q", cfg.Attrs.MNode)
	}
}

func TestLoadConfig_MissingIsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Label.Format != "%h" {
		t.Errorf("Label.Format = %q, want default", cfg.Label.Format)
	}
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestCompileVariables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variables = []VariableConfig{
		{Name: "@CHID@", Pattern: `Change-Id: I([0-9a-f]+)`},
	}

	vars, err := cfg.CompileVariables()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 1 || vars[0].Name != "@CHID@" {
		t.Fatalf("vars = %v", vars)
	}
	if m := vars[0].Pattern.FindStringSubmatch("Change-Id: I42af"); m == nil || m[1] != "42af" {
		t.Errorf("compiled pattern does not match, got %v", m)
	}
}

func TestCompileVariables_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variables = []VariableConfig{
		{Name: "@BAD@", Pattern: `([unclosed`},
	}

	_, err := cfg.CompileVariables()
	var verr *VariableError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VariableError, got %v", err)
	}
	if verr.Name != "@BAD@" {
		t.Errorf("Name = %q, want @BAD@", verr.Name)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Label.Format = "%h|%s"
	cfg.FontName = "Arial"
	cfg.AlignByDate = "day"
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	opts := cfg.RenderOptions(now)

	if opts.Label != "%h|%s" {
		t.Errorf("Label = %q", opts.Label)
	}
	if opts.FontName != "Arial" {
		t.Errorf("FontName = %q", opts.FontName)
	}
	if opts.AlignByDate != "day" {
		t.Errorf("AlignByDate = %q", opts.AlignByDate)
	}
	if !opts.Now.Equal(now) {
		t.Errorf("Now = %v", opts.Now)
	}
	if opts.CNode != cfg.Attrs.CNode {
		t.Errorf("CNode = %q", opts.CNode)
	}
}
