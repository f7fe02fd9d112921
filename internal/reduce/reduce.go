// Package reduce collapses long unbranched chains of commits into
// synthetic squash nodes. Both transforms are idempotent and never
// absorb structural nodes (roots, merges, ref-bearing commits).
package reduce

import (
	"strings"

	"github.com/masmgr/gitdot-go/internal/graph"
	"github.com/masmgr/gitdot-go/internal/parse"
)

// Squash finds maximal chains of annotation-free nodes with at most
// one parent and one child, and replaces the interior of every chain
// of at least three nodes with one squash node carrying the collapsed
// commit count. The chain head and tail stay as ordinary nodes.
func Squash(g *graph.Graph) {
	changed := false
	forEachChain(g, squashMember, func(chain []*graph.CommitNode) {
		if len(chain) < 3 {
			return
		}
		if replaceRun(g, chain[1:len(chain)-1]) {
			changed = true
		}
	})
	if changed {
		g.Compact()
		g.Reclassify()
	}
}

// Crunch collapses every maximal run of at least two non-structural
// nodes (simple or already-squashed, no annotations, not a root or
// merge) into exactly one squash node, leaving only the entry and
// exit edges to the nearest structural neighbor on each side.
func Crunch(g *graph.Graph) {
	changed := false
	forEachChain(g, crunchMember, func(chain []*graph.CommitNode) {
		if len(chain) < 2 {
			return
		}
		if replaceRun(g, chain) {
			changed = true
		}
	})
	if changed {
		g.Compact()
		g.Reclassify()
	}
}

// squashMember admits chain candidates for Squash. Roots may appear
// as chain heads but merge, squash and ref-bearing nodes always
// terminate a chain.
func squashMember(n *graph.CommitNode) bool {
	return n.Kind != graph.KindMerge &&
		n.Kind != graph.KindSquash &&
		len(n.Commit.Parents) <= 1 &&
		len(n.Children) <= 1 &&
		!n.HasRefs()
}

// crunchMember admits run candidates for Crunch: prior squash nodes
// are absorbed, roots and merges never are.
func crunchMember(n *graph.CommitNode) bool {
	return (n.Kind == graph.KindSimple || n.Kind == graph.KindSquash) &&
		len(n.Commit.Parents) == 1 &&
		len(n.Children) <= 1 &&
		!n.HasRefs()
}

// forEachChain visits every maximal chain of member nodes once, in
// insertion order of the chain's first-seen node. Chains are reported
// in parent-to-child order.
func forEachChain(g *graph.Graph, member func(*graph.CommitNode) bool, visit func([]*graph.CommitNode)) {
	visited := make(map[string]bool)

	// Snapshot: the node slice is mutated as chains collapse.
	order := make([]*graph.CommitNode, len(g.Nodes()))
	copy(order, g.Nodes())

	for _, n := range order {
		if visited[n.Hash()] || !member(n) {
			continue
		}
		chain := walkChain(g, n, member)
		for _, cn := range chain {
			visited[cn.Hash()] = true
		}
		visit(chain)
	}
}

// walkChain expands from n to the maximal chain of member nodes,
// returned in parent-to-child order.
func walkChain(g *graph.Graph, n *graph.CommitNode, member func(*graph.CommitNode) bool) []*graph.CommitNode {
	head := n
	for len(head.Commit.Parents) == 1 {
		p := g.Node(head.Commit.Parents[0])
		if p == nil || !member(p) {
			break
		}
		head = p
	}

	chain := []*graph.CommitNode{head}
	cur := head
	for len(cur.Children) == 1 {
		c := g.Node(cur.Children[0])
		if c == nil || !member(c) {
			break
		}
		chain = append(chain, c)
		cur = c
	}
	return chain
}

// replaceRun substitutes one squash node for the run, rewiring the
// neighbor on each side where one exists. Counts of absorbed squash
// nodes accumulate so the summary still reflects every input commit.
func replaceRun(g *graph.Graph, run []*graph.CommitNode) bool {
	if len(run) == 0 {
		return false
	}
	first, last := run[0], run[len(run)-1]

	count := 0
	for _, n := range run {
		count += n.Count
	}

	squash := &graph.CommitNode{
		Commit: parse.Commit{
			Hash:    spanID(first.Hash(), last.Hash()),
			Parents: append([]string(nil), first.Commit.Parents...),
			// Timestamp of the first summarized commit, so date
			// alignment still has something to order by.
			When: first.Commit.When,
		},
		Kind:     graph.KindSquash,
		Children: append([]string(nil), last.Children...),
		Visible:  true,
		Count:    count,
	}

	at := g.IndexOf(first.Hash())
	if err := g.Insert(at, squash); err != nil {
		return false
	}
	for _, n := range run {
		n.Visible = false
	}

	if len(first.Commit.Parents) == 1 {
		parent := g.Node(first.Commit.Parents[0])
		replace(parent.Children, first.Hash(), squash.Hash())
	}
	if len(last.Children) == 1 {
		child := g.Node(last.Children[0])
		replace(child.Commit.Parents, last.Hash(), squash.Hash())
	}
	return true
}

// spanID derives a stable "first..last" id from the outermost commit
// hashes of the run, flattening ids of absorbed squash nodes.
func spanID(first, last string) string {
	if i := strings.Index(first, ".."); i >= 0 {
		first = first[:i]
	}
	if i := strings.LastIndex(last, ".."); i >= 0 {
		last = last[i+2:]
	}
	return first + ".." + last
}

func replace(ss []string, old, new string) {
	for i, v := range ss {
		if v == old {
			ss[i] = new
		}
	}
}
