// Package dot renders the final commit graph as a Graphviz DOT
// document. Emission order is a function of graph insertion order
// only, so identical input always produces identical output.
package dot

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/masmgr/gitdot-go/internal/graph"
)

// Options configures document rendering. Attribute templates contain
// a {label} placeholder replaced textually, never evaluated.
type Options struct {
	Label    string // pipe-delimited label template
	MaxWidth int    // label wrap column

	// Per-kind node attribute templates.
	CNode string // simple commit
	RNode string // root commit
	MNode string // merge commit
	SNode string // squash summary
	BNode string // branch annotation
	TNode string // tag annotation

	// Per-kind edge attribute templates.
	SEdge      string // edge into or out of a squash node
	BEdge      string // branch annotation styling edge
	TEdge      string // tag annotation styling edge
	CNodePEdge string // ordinary parent edge, empty for default
	MNodePEdge string // merge parent edge, empty for default

	DotOptions  []string // graph/node/edge default attribute lines
	FontName    string
	FontSize    string
	GraphLabel  string // raw trailing graph statement
	AlignByDate string // none, year, month, day, hour, minute, second

	Now time.Time // clock for %cr labels
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		Label:    "%h",
		MaxWidth: 32,
		CNode:    `[label="{label}", color="bisque"]`,
		RNode:    `[label="{label}", color="palegreen"]`,
		MNode:    `[label="{label}", color="lightpink"]`,
		SNode:    `[label="{label}", color="tomato"]`,
		BNode:    `[label="{label}", color="lightblue", style=filled, shape=box, height=0.15]`,
		TNode:    `[label="{label}", color="thistle", style=filled, shape=box, height=0.15]`,
		SEdge:    `[label="{label}", style=dotted, arrowhead="none", dir="none"]`,
		BEdge:    `[arrowhead=normal, color="lightblue", dir=none]`,
		TEdge:    `[arrowhead=normal, color="thistle", dir=none]`,
		DotOptions: []string{
			`graph[rankdir="LR", fontsize=10.0, bgcolor="white"]`,
			`node[shape=ellipse, fontsize=10.0, style="filled"]`,
			`edge[weight=2, penwidth=1.0, fontsize=10.0, arrowtail="open", dir="back"]`,
		},
		AlignByDate: "none",
		Now:         time.Now(),
	}
}

// Summary reports the counts appended to the rendered document.
type Summary struct {
	CommitNodes  int // visible simple and root nodes
	MergeNodes   int // visible merge nodes
	SquashNodes  int // visible squash nodes
	TotalCommits int // commits parsed into the graph
	TotalNodes   int // all visible commit-like nodes
}

// Render produces the DOT document and its summary. The graph is
// treated as read-only.
func Render(g *graph.Graph, opts Options) (string, Summary) {
	var b strings.Builder
	sum := Summary{TotalCommits: g.TotalCommits()}

	b.WriteString("digraph G {\n")
	for _, v := range opts.DotOptions {
		writeStmt(&b, applyFont(v, opts))
	}

	b.WriteString("\n   // label cnode, mnode and snodes\n")
	for _, n := range g.Nodes() {
		label := buildLabel(n, opts.Label, opts.MaxWidth, opts.Now)
		var tmpl string
		switch n.Kind {
		case graph.KindMerge:
			tmpl = opts.MNode
			sum.MergeNodes++
		case graph.KindSquash:
			tmpl = opts.SNode
			sum.SquashNodes++
		case graph.KindRoot:
			tmpl = opts.RNode
			sum.CommitNodes++
		default:
			tmpl = opts.CNode
			sum.CommitNodes++
		}
		sum.TotalNodes++
		fmt.Fprintf(&b, "   %q %s;\n", n.Hash(), expandAttrs(tmpl, label))
	}

	b.WriteString("\n   // edges\n")
	for _, n := range g.Nodes() {
		for _, p := range n.Commit.Parents {
			pn := g.Node(p)
			if pn == nil {
				continue
			}
			attrs := edgeAttrs(n, pn, opts)
			if attrs != "" {
				fmt.Fprintf(&b, "   %q -> %q %s;\n", p, n.Hash(), attrs)
			} else {
				fmt.Fprintf(&b, "   %q -> %q;\n", p, n.Hash())
			}
		}
	}

	writeAnnotations(&b, g, opts)
	writeDateAlignment(&b, g, opts)

	if opts.GraphLabel != "" {
		b.WriteString("\n   // graph label\n")
		writeStmt(&b, opts.GraphLabel)
	}
	b.WriteString("}\n")

	writeSummary(&b, sum)
	return b.String(), sum
}

// edgeAttrs picks the styling for a parent edge. Edges touching a
// squash node are summary edges labeled with the collapsed count.
func edgeAttrs(child, parent *graph.CommitNode, opts Options) string {
	if child.Kind == graph.KindSquash {
		return expandAttrs(opts.SEdge, fmt.Sprintf("%d", child.Count))
	}
	if parent.Kind == graph.KindSquash {
		return expandAttrs(opts.SEdge, fmt.Sprintf("%d", parent.Count))
	}
	if child.Kind == graph.KindMerge && opts.MNodePEdge != "" {
		return expandAttrs(opts.MNodePEdge, fmt.Sprintf("%s to %s", child.Hash(), parent.Hash()))
	}
	if opts.CNodePEdge != "" {
		return expandAttrs(opts.CNodePEdge, fmt.Sprintf("%s to %s", child.Hash(), parent.Hash()))
	}
	return ""
}

// writeAnnotations emits tag and branch annotation nodes, their
// styling edges, and one same-rank block per annotated commit.
func writeAnnotations(b *strings.Builder, g *graph.Graph, opts Options) {
	b.WriteString("\n   // annotate branches and tags\n")
	first := true
	for _, n := range g.Nodes() {
		annots := g.AnnotationsFor(n.Hash())
		if len(annots) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false

		var tags, branches []string
		for _, a := range annots {
			if a.Kind == graph.RefTag {
				tags = append(tags, a.Name)
			} else {
				branches = append(branches, a.Name)
			}
		}

		rank := []string{n.Hash()}
		if len(tags) > 0 {
			for _, t := range tags {
				fmt.Fprintf(b, "   %q %s;\n", annotID(n.Hash(), t), expandAttrs(opts.TNode, escapeLabel(t)))
				rank = append(rank, annotID(n.Hash(), t))
			}
			fmt.Fprintf(b, "   %q", annotID(n.Hash(), tags[0]))
			for _, t := range tags[1:] {
				fmt.Fprintf(b, " -> %q", annotID(n.Hash(), t))
			}
			fmt.Fprintf(b, " -> %q %s;\n", n.Hash(), expandAttrs(opts.TEdge, n.Hash()))
		}
		if len(branches) > 0 {
			for _, br := range branches {
				fmt.Fprintf(b, "   %q %s;\n", annotID(n.Hash(), br), expandAttrs(opts.BNode, escapeLabel(br)))
				rank = append(rank, annotID(n.Hash(), br))
			}
			fmt.Fprintf(b, "   %q", n.Hash())
			for i := len(branches) - 1; i >= 0; i-- {
				fmt.Fprintf(b, " -> %q", annotID(n.Hash(), branches[i]))
			}
			fmt.Fprintf(b, " %s;\n", expandAttrs(opts.BEdge, n.Hash()))
		}

		fmt.Fprintf(b, "   {rank=same; %q", rank[0])
		for _, id := range rank[1:] {
			fmt.Fprintf(b, "; %q", id)
		}
		b.WriteString("};\n")
	}
}

// writeDateAlignment emits invisible constraint edges so nodes with
// later timestamps render to the right, at the configured granularity.
func writeDateAlignment(b *strings.Builder, g *graph.Graph, opts Options) {
	if opts.AlignByDate == "" || opts.AlignByDate == "none" {
		return
	}
	nodes := make([]*graph.CommitNode, len(g.Nodes()))
	copy(nodes, g.Nodes())
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Commit.When.Before(nodes[j].Commit.When)
	})

	b.WriteString("\n   // rank by date using invisible constraints between groups\n")
	for i := 1; i < len(nodes); i++ {
		prev, cur := nodes[i-1], nodes[i]
		if truncateDate(prev.Commit.When, opts.AlignByDate).Before(truncateDate(cur.Commit.When, opts.AlignByDate)) {
			fmt.Fprintf(b, "   %q -> %q [style=invis];\n", prev.Hash(), cur.Hash())
		}
	}
}

func truncateDate(t time.Time, granularity string) time.Time {
	y, mo, d := t.Year(), t.Month(), t.Day()
	h, mi, s := t.Hour(), t.Minute(), t.Second()
	switch granularity {
	case "year":
		mo, d, h, mi, s = 1, 1, 0, 0, 0
	case "month":
		d, h, mi, s = 1, 0, 0, 0
	case "day":
		h, mi, s = 0, 0, 0
	case "hour":
		mi, s = 0, 0
	case "minute":
		s = 0
	}
	return time.Date(y, mo, d, h, mi, s, 0, t.Location())
}

func writeSummary(b *strings.Builder, sum Summary) {
	counts := map[string]int{
		"num_graph_commit_nodes":   sum.CommitNodes,
		"num_graph_merge_nodes":    sum.MergeNodes,
		"num_graph_squash_nodes":   sum.SquashNodes,
		"total_commits":            sum.TotalCommits,
		"total_graph_commit_nodes": sum.TotalNodes,
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	for _, k := range keys {
		fmt.Fprintf(b, "// summary:%s %d\n", k, counts[k])
	}
}

func expandAttrs(tmpl, label string) string {
	return strings.ReplaceAll(tmpl, "{label}", label)
}

func annotID(hash, ref string) string {
	return hash + "+" + ref
}

func writeStmt(b *strings.Builder, stmt string) {
	b.WriteString("   ")
	b.WriteString(stmt)
	if !strings.HasSuffix(stmt, ";") {
		b.WriteString(";")
	}
	b.WriteString("\n")
}

var (
	fontSizeRe = regexp.MustCompile(`(fontsize=)[^,\]]+`)
	fontNameRe = regexp.MustCompile(`(fontsize=[^,\]]+)`)
)

// applyFont rewrites fontsize and injects fontname into default
// attribute lines that already carry a fontsize setting.
func applyFont(v string, opts Options) string {
	if opts.FontSize != "" && strings.Contains(v, "fontsize=") {
		v = fontSizeRe.ReplaceAllString(v, `${1}"`+opts.FontSize+`"`)
	}
	if opts.FontName != "" && strings.Contains(v, "fontsize=") {
		v = fontNameRe.ReplaceAllString(v, `${1}, fontname="`+opts.FontName+`"`)
	}
	return v
}
