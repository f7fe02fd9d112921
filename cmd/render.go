package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitdot-go/config"
	"github.com/masmgr/gitdot-go/internal/dot"
	gitsrc "github.com/masmgr/gitdot-go/internal/git"
	"github.com/masmgr/gitdot-go/internal/graph"
	"github.com/masmgr/gitdot-go/internal/output"
	"github.com/masmgr/gitdot-go/internal/parse"
	"github.com/masmgr/gitdot-go/internal/reduce"
	"github.com/masmgr/gitdot-go/internal/selection"
)

// RenderCmd returns the render command: the full pipeline from log
// records to the written dot document.
func RenderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render the commit graph to a graphviz dot file",
		ArgsUsage: "DOT_FILE",
		Flags:     renderFlags(),
		Action:    renderAction,
	}
}

func renderAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one DOT_FILE argument")
	}
	dotFile := c.Args().Get(0)
	if filepath.Ext(dotFile) == "" {
		dotFile += ".dot"
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	vars, err := cfg.CompileVariables()
	if err != nil {
		return err
	}

	con := output.NewConsole(c.Count("verbose"))
	ctx := c.Context

	// Read the record text from the chosen source.
	src, err := recordSource(c, cfg)
	if err != nil {
		return err
	}
	con.Infof("reading git repo data")
	text, err := src.Read(ctx)
	if err != nil {
		return err
	}
	con.Infof("read %d bytes", len(text))

	if c.Bool("keep") {
		keepFile := gitsrc.KeepPath(dotFile)
		con.Infof("writing command output to %s", keepFile)
		if err := output.WriteFileAtomic(keepFile, []byte(text), 0o644); err != nil {
			return err
		}
	}

	popts := parse.DefaultOptions()
	popts.Variables = vars
	commits, err := parse.Records(text, popts)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		return errors.New("no records found")
	}
	con.Infof("found %d commit records", len(commits))

	g, err := graph.Build(commits)
	if err != nil {
		return err
	}
	if n := g.DroppedParents(); n > 0 {
		con.Warnf("dropped %d parent references outside the log window", n)
	}

	if err := applyFilters(g, cfg, con); err != nil {
		return err
	}
	if cfg.Reduce.Squash {
		con.Infof("squashing chains")
		reduce.Squash(g)
	}
	if cfg.Reduce.Crunch {
		con.Infof("crunching chains")
		reduce.Crunch(g)
	}

	doc, sum := dot.Render(g, cfg.RenderOptions(time.Now()))
	if err := output.WriteFileAtomic(dotFile, []byte(doc), 0o644); err != nil {
		return err
	}
	con.Infof("wrote %s: %d nodes (%d merge, %d squash) from %d commits",
		dotFile, sum.TotalNodes, sum.MergeNodes, sum.SquashNodes, sum.TotalCommits)

	if c.Bool("png") {
		con.Infof("generating png")
		if err := output.GenerateImage(ctx, dotFile, "png"); err != nil {
			return err
		}
	}
	if c.Bool("svg") || c.String("html") != "" {
		con.Infof("generating svg")
		if err := output.GenerateImage(ctx, dotFile, "svg"); err != nil {
			return err
		}
	}
	if htmlPath := c.String("html"); htmlPath != "" {
		con.Infof("generating HTML to %s", htmlPath)
		return output.WriteViewer(output.HTMLOptions{
			Path:      htmlPath,
			SVGPath:   filepath.Base(dotFile) + ".svg",
			Title:     cfg.HTML.Title,
			MinHeight: cfg.HTML.MinHeight,
			Head:      cfg.HTML.Head,
		})
	}
	return nil
}

// loadConfig loads the config file and overlays CLI flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := c.String("label"); v != "" {
		cfg.Label.Format = v
	}
	if c.IsSet("width") {
		cfg.Label.MaxWidth = c.Int("width")
	}
	if v := c.String("since"); v != "" {
		cfg.Filters.Since = v
	}
	if v := c.String("until"); v != "" {
		cfg.Filters.Until = v
	}
	if v := c.String("range"); v != "" {
		cfg.Filters.Range = v
	}
	if v := c.StringSlice("choose-branch"); len(v) > 0 {
		cfg.Filters.ChooseBranches = v
	}
	if v := c.StringSlice("choose-tag"); len(v) > 0 {
		cfg.Filters.ChooseTags = v
	}
	if c.Bool("squash") {
		cfg.Reduce.Squash = true
	}
	if c.Bool("crunch") {
		cfg.Reduce.Crunch = true
	}
	if v := c.String("gitcmd"); v != "" {
		cfg.Git.Command = v
	}
	if v := c.String("git-range"); v != "" {
		cfg.Git.Range = v
	}
	if c.Bool("native") {
		cfg.Git.Native = true
	}
	if v := c.StringSlice("dot-option"); len(v) > 0 {
		cfg.DotOptions = append(cfg.DotOptions, v...)
	}
	if v := c.String("graph-label"); v != "" {
		cfg.GraphLabel = v
	}
	if v := c.String("font-name"); v != "" {
		cfg.FontName = v
	}
	if v := c.String("font-size"); v != "" {
		cfg.FontSize = v
	}
	if v := c.String("align-by-date"); v != "" {
		if !validAlign(v) {
			return nil, fmt.Errorf("invalid align-by-date %q", v)
		}
		cfg.AlignByDate = v
	}
	for _, s := range c.StringSlice("var") {
		v, err := parseVarFlag(s)
		if err != nil {
			return nil, err
		}
		cfg.Variables = append(cfg.Variables, v)
	}
	return cfg, nil
}

// recordSource picks the record source: keep file, go-git, or the
// assembled git log command.
func recordSource(c *cli.Context, cfg *config.Config) (gitsrc.Source, error) {
	if input := c.String("input"); input != "" {
		return &gitsrc.KeepSource{Path: input}, nil
	}

	since, err := parseDateFlag(cfg.Filters.Since)
	if err != nil {
		return nil, err
	}
	until, err := parseDateFlag(cfg.Filters.Until)
	if err != nil {
		return nil, err
	}

	if cfg.Git.Native {
		return gitsrc.NewNativeSource(gitsrc.NativeOptions{
			RepoPath: c.String("repo"),
			Since:    since,
			Until:    until,
		}), nil
	}
	return gitsrc.NewCLISource(gitsrc.CLIOptions{
		RepoPath: c.String("repo"),
		Command:  cfg.Git.Command,
		Since:    cfg.Filters.Since,
		Until:    cfg.Filters.Until,
		Range:    cfg.Git.Range,
	}), nil
}

// applyFilters runs the selector stages in order: date window,
// explicit range, chosen refs.
func applyFilters(g *graph.Graph, cfg *config.Config, con *output.Console) error {
	since, err := parseDateFlag(cfg.Filters.Since)
	if err != nil {
		return err
	}
	until, err := parseDateFlag(cfg.Filters.Until)
	if err != nil {
		return err
	}
	if since != nil || until != nil {
		before := g.Len()
		if err := selection.DateWindow(g, since, until); err != nil {
			return err
		}
		con.Infof("date window kept %d of %d nodes", g.Len(), before)
	}
	if cfg.Filters.Range != "" {
		before := g.Len()
		if err := selection.Range(g, cfg.Filters.Range); err != nil {
			return err
		}
		con.Infof("range kept %d of %d nodes", g.Len(), before)
	}
	if len(cfg.Filters.ChooseBranches) > 0 || len(cfg.Filters.ChooseTags) > 0 {
		before := g.Len()
		if err := selection.ChooseRefs(g, cfg.Filters.ChooseBranches, cfg.Filters.ChooseTags); err != nil {
			return err
		}
		con.Infof("choose filters kept %d of %d nodes", g.Len(), before)
	}
	return nil
}
