// Package config holds the full configuration surface: label and
// attribute templates, filters, reduction toggles, user variables and
// the git/HTML collaborator settings. Values load from a JSON file
// merged over defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/masmgr/gitdot-go/internal/dot"
	"github.com/masmgr/gitdot-go/internal/parse"
)

// Config is the root configuration structure.
type Config struct {
	Label       LabelConfig      `json:"label"`
	Attrs       AttrConfig       `json:"attrs"`
	Filters     FilterConfig     `json:"filters"`
	Reduce      ReduceConfig     `json:"reduce"`
	Git         GitConfig        `json:"git"`
	HTML        HTMLConfig       `json:"html"`
	Variables   []VariableConfig `json:"variables"`
	DotOptions  []string         `json:"dotOptions"`
	FontName    string           `json:"fontName"`
	FontSize    string           `json:"fontSize"`
	GraphLabel  string           `json:"graphLabel"`
	AlignByDate string           `json:"alignByDate"`
}

// LabelConfig controls commit node label text.
type LabelConfig struct {
	Format   string `json:"format"`   // pipe-delimited template
	MaxWidth int    `json:"maxWidth"` // wrap column
}

// AttrConfig holds the per-kind node and edge attribute templates.
// Each template may contain a {label} placeholder.
type AttrConfig struct {
	CNode      string `json:"cnode"`
	RNode      string `json:"rnode"`
	MNode      string `json:"mnode"`
	SNode      string `json:"snode"`
	BNode      string `json:"bnode"`
	TNode      string `json:"tnode"`
	SEdge      string `json:"sedge"`
	BEdge      string `json:"bedge"`
	TEdge      string `json:"tedge"`
	CNodePEdge string `json:"cnodePedge"`
	MNodePEdge string `json:"mnodePedge"`
}

// FilterConfig controls graph selection.
type FilterConfig struct {
	Since          string   `json:"since"` // YYYY-MM-DD or RFC 3339
	Until          string   `json:"until"`
	Range          string   `json:"range"` // refA..refB ancestor exclusion
	ChooseBranches []string `json:"chooseBranches"`
	ChooseTags     []string `json:"chooseTags"`
}

// ReduceConfig toggles the chain-collapsing transforms.
type ReduceConfig struct {
	Squash bool `json:"squash"`
	Crunch bool `json:"crunch"`
}

// GitConfig controls the log command source.
type GitConfig struct {
	Command string `json:"command"` // custom full command, disables the rest
	Range   string `json:"range"`   // extra git log args
	Native  bool   `json:"native"`  // read through go-git instead of the git binary
}

// HTMLConfig controls the viewer page.
type HTMLConfig struct {
	Title     string   `json:"title"`
	MinHeight string   `json:"minHeight"`
	Head      []string `json:"head"`
}

// VariableConfig is a user-defined variable binding: the first
// capture group of Pattern becomes the value of Name.
type VariableConfig struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// VariableError reports an invalid user-defined pattern, detected at
// configuration time rather than mid-parse.
type VariableError struct {
	Name    string
	Pattern string
	Err     error
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("variable %q: invalid pattern %q: %v", e.Name, e.Pattern, e.Err)
}

func (e *VariableError) Unwrap() error { return e.Err }

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	d := dot.DefaultOptions()
	return &Config{
		Label: LabelConfig{Format: "%h", MaxWidth: 32},
		Attrs: AttrConfig{
			CNode: d.CNode,
			RNode: d.RNode,
			MNode: d.MNode,
			SNode: d.SNode,
			BNode: d.BNode,
			TNode: d.TNode,
			SEdge: d.SEdge,
			BEdge: d.BEdge,
			TEdge: d.TEdge,
		},
		Git:         GitConfig{Range: "--all --topo-order"},
		HTML:        HTMLConfig{Title: "gitdot", MinHeight: "700px"},
		DotOptions:  d.DotOptions,
		AlignByDate: "none",
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// An empty path checks .gitdot.json in the working directory and the
// home directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidates := []string{".gitdot.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".gitdot.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// CompileVariables validates and compiles the variable patterns.
func (c *Config) CompileVariables() ([]parse.Variable, error) {
	vars := make([]parse.Variable, 0, len(c.Variables))
	for _, v := range c.Variables {
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return nil, &VariableError{Name: v.Name, Pattern: v.Pattern, Err: err}
		}
		vars = append(vars, parse.Variable{Name: v.Name, Pattern: re})
	}
	return vars, nil
}

// RenderOptions maps the configuration onto renderer options, with
// now as the clock for relative dates.
func (c *Config) RenderOptions(now time.Time) dot.Options {
	return dot.Options{
		Label:       c.Label.Format,
		MaxWidth:    c.Label.MaxWidth,
		CNode:       c.Attrs.CNode,
		RNode:       c.Attrs.RNode,
		MNode:       c.Attrs.MNode,
		SNode:       c.Attrs.SNode,
		BNode:       c.Attrs.BNode,
		TNode:       c.Attrs.TNode,
		SEdge:       c.Attrs.SEdge,
		BEdge:       c.Attrs.BEdge,
		TEdge:       c.Attrs.TEdge,
		CNodePEdge:  c.Attrs.CNodePEdge,
		MNodePEdge:  c.Attrs.MNodePEdge,
		DotOptions:  c.DotOptions,
		FontName:    c.FontName,
		FontSize:    c.FontSize,
		GraphLabel:  c.GraphLabel,
		AlignByDate: c.AlignByDate,
		Now:         now,
	}
}
