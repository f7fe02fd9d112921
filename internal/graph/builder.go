package graph

import (
	"github.com/masmgr/gitdot-go/internal/parse"
)

// Build constructs the commit DAG from parsed records. Input order is
// preserved as insertion order. Parent hashes that never appear among
// the records (the boundary of a shallow or windowed log) are dropped
// edge-by-edge; the commit itself is kept.
func Build(commits []parse.Commit) (*Graph, error) {
	g := New()
	g.totalCommits = len(commits)

	for _, c := range commits {
		n := &CommitNode{
			Commit:  c,
			Kind:    KindSimple,
			Visible: true,
			Count:   1,
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}

	// Drop dangling parents, then invert the surviving parent edges
	// into child lists.
	for _, n := range g.nodes {
		parents := n.Commit.Parents[:0]
		for _, p := range n.Commit.Parents {
			if g.index[p] == nil {
				g.droppedParents++
				continue
			}
			parents = append(parents, p)
		}
		n.Commit.Parents = parents
	}
	for _, n := range g.nodes {
		for _, p := range n.Commit.Parents {
			pn := g.index[p]
			pn.Children = append(pn.Children, n.Hash())
		}
	}

	for _, n := range g.nodes {
		for _, t := range n.Commit.Tags {
			if err := g.AddAnnotation(RefAnnotation{Name: t, Kind: RefTag, Owner: n.Hash()}); err != nil {
				return nil, err
			}
		}
		for _, b := range n.Commit.Branches {
			if err := g.AddAnnotation(RefAnnotation{Name: b, Kind: RefBranch, Owner: n.Hash()}); err != nil {
				return nil, err
			}
		}
	}

	g.Reclassify()
	return g, nil
}
