// Package cmd wires the CLI surface to the pipeline.
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitdot-go/config"
)

// App creates the CLI application. The root action renders directly
// so "gitdot git.dot" works without naming a subcommand.
func App() *cli.App {
	// The default version flag shorthand -v collides with --verbose;
	// the original tool exposes version as -V.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	return &cli.App{
		Name:    "gitdot",
		Usage:   "Visualize a git repository as a graphviz dot graph",
		Version: "1.0.0",
		Commands: []*cli.Command{
			RenderCmd(),
			KeepCmd(),
		},
		Flags: renderFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			return renderAction(c)
		},
	}
}

// renderFlags is the shared flag set of the root action and the
// render command.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Read records from a keep file instead of running git",
		},
		&cli.BoolFlag{
			Name:    "keep",
			Aliases: []string{"k"},
			Usage:   "Keep the git command output next to the dot file for re-use",
		},
		&cli.BoolFlag{
			Name:  "native",
			Usage: "Read history through go-git instead of the git binary",
		},
		&cli.StringFlag{
			Name:    "gitcmd",
			Aliases: []string{"g"},
			Usage:   "Custom log command replacing the assembled git log invocation",
		},
		&cli.StringFlag{
			Name:  "git-range",
			Usage: "Extra git log arguments (default: --all --topo-order)",
		},
		&cli.StringFlag{
			Name:    "label",
			Aliases: []string{"l"},
			Usage:   "Commit node label template, fields separated by | (e.g. '%h|%s|%cr')",
		},
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"w"},
			Usage:   "Maximum width of a label line",
			Value:   32,
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only consider commits since this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Only consider commits until this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "range",
			Usage: "Only consider commits in refA..refB (ancestors of refB minus ancestors of refA)",
		},
		&cli.StringSliceFlag{
			Name:  "choose-branch",
			Usage: "Limit the graph to ancestors of this branch (repeatable, glob patterns allowed)",
		},
		&cli.StringSliceFlag{
			Name:  "choose-tag",
			Usage: "Limit the graph to ancestors of this tag (repeatable, glob patterns allowed)",
		},
		&cli.BoolFlag{
			Name:    "squash",
			Aliases: []string{"s"},
			Usage:   "Squash chains of simple commits into a single summary node",
		},
		&cli.BoolFlag{
			Name:  "crunch",
			Usage: "Additionally collapse chain boundaries into the summary node",
		},
		&cli.StringSliceFlag{
			Name:    "var",
			Aliases: []string{"D"},
			Usage:   "Define a label variable as NAME=PATTERN (first capture group is the value)",
		},
		&cli.StringSliceFlag{
			Name:    "dot-option",
			Aliases: []string{"d"},
			Usage:   "Additional top-level dot attribute line (repeatable)",
		},
		&cli.StringFlag{
			Name:    "graph-label",
			Aliases: []string{"L"},
			Usage:   "Raw graph label statement appended to the document",
		},
		&cli.StringFlag{
			Name:  "font-name",
			Usage: "Font name for graph, node and edge defaults",
		},
		&cli.StringFlag{
			Name:  "font-size",
			Usage: "Font size for graph, node and edge defaults",
		},
		&cli.StringFlag{
			Name:  "align-by-date",
			Usage: "Order nodes left to right by date (year, month, day, hour, minute, second, none)",
		},
		&cli.BoolFlag{
			Name:  "png",
			Usage: "Run dot to generate a PNG next to the dot file",
		},
		&cli.BoolFlag{
			Name:  "svg",
			Usage: "Run dot to generate an SVG next to the dot file",
		},
		&cli.StringFlag{
			Name:  "html",
			Usage: "Write an HTML pan/zoom viewer page to this path (implies --svg)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Increase the level of verbosity",
		},
	}
}

// dateFlagLayouts accepted by --since and --until.
var dateFlagLayouts = []string{"2006-01-02", time.RFC3339}

// parseDateFlag parses a date string flag. Empty means unset.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateFlagLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

// parseVarFlag splits a NAME=PATTERN variable definition.
func parseVarFlag(s string) (config.VariableConfig, error) {
	name, pattern, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return config.VariableConfig{}, fmt.Errorf("invalid variable %q (expected NAME=PATTERN)", s)
	}
	return config.VariableConfig{Name: name, Pattern: pattern}, nil
}

// validAlign reports whether s names a date alignment granularity.
func validAlign(s string) bool {
	switch s {
	case "", "none", "year", "month", "day", "hour", "minute", "second":
		return true
	}
	return false
}
