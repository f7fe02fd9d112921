// Package graph models the commit DAG: insertion-ordered nodes with
// hash and ref indices, branch/tag annotations, and kind
// classification. Order of insertion is the emission order downstream.
package graph

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when an operation references a node that
// does not exist in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when two commits share a hash.
var ErrDuplicateNode = errors.New("duplicate node")

// GraphError reports a structural inconsistency.
type GraphError struct {
	Hash string
	Err  error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph: %v: %q", e.Err, e.Hash)
}

func (e *GraphError) Unwrap() error { return e.Err }

// Graph holds the full node and annotation collections plus lookup
// indices. Nodes keep first-seen order.
type Graph struct {
	nodes  []*CommitNode
	index  map[string]*CommitNode
	refs   map[string]*CommitNode // ref name -> owning node
	annots []RefAnnotation

	totalCommits   int // commit count at build time, before any pruning
	droppedParents int // dangling parent edges dropped at build time
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]*CommitNode),
		refs:  make(map[string]*CommitNode),
	}
}

// Add appends a node in insertion order.
func (g *Graph) Add(n *CommitNode) error {
	if _, exists := g.index[n.Hash()]; exists {
		return &GraphError{Hash: n.Hash(), Err: ErrDuplicateNode}
	}
	g.nodes = append(g.nodes, n)
	g.index[n.Hash()] = n
	return nil
}

// Insert places a node at position i, preserving the order of the
// rest. Used by the reducer to keep squash nodes where their chain
// interior was.
func (g *Graph) Insert(i int, n *CommitNode) error {
	if _, exists := g.index[n.Hash()]; exists {
		return &GraphError{Hash: n.Hash(), Err: ErrDuplicateNode}
	}
	if i < 0 || i > len(g.nodes) {
		i = len(g.nodes)
	}
	g.nodes = append(g.nodes, nil)
	copy(g.nodes[i+1:], g.nodes[i:])
	g.nodes[i] = n
	g.index[n.Hash()] = n
	return nil
}

// Node returns the node for hash, or nil.
func (g *Graph) Node(hash string) *CommitNode { return g.index[hash] }

// IndexOf returns the position of hash in insertion order, or -1.
func (g *Graph) IndexOf(hash string) int {
	for i, n := range g.nodes {
		if n.Hash() == hash {
			return i
		}
	}
	return -1
}

// Nodes returns the nodes in insertion order. Callers must not
// reorder the slice.
func (g *Graph) Nodes() []*CommitNode { return g.nodes }

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// TotalCommits returns the number of commits parsed into the graph at
// build time, unaffected by later pruning or reduction.
func (g *Graph) TotalCommits() int { return g.totalCommits }

// DroppedParents returns the number of dangling parent edges dropped
// during the build.
func (g *Graph) DroppedParents() int { return g.droppedParents }

// AddAnnotation attaches a ref annotation and indexes its name.
func (g *Graph) AddAnnotation(a RefAnnotation) error {
	owner := g.index[a.Owner]
	if owner == nil {
		return &GraphError{Hash: a.Owner, Err: ErrNodeNotFound}
	}
	g.annots = append(g.annots, a)
	g.refs[a.Name] = owner
	return nil
}

// Annotations returns all annotations in first-seen order.
func (g *Graph) Annotations() []RefAnnotation { return g.annots }

// AnnotationsFor returns the annotations owned by hash, in first-seen
// order.
func (g *Graph) AnnotationsFor(hash string) []RefAnnotation {
	var out []RefAnnotation
	for _, a := range g.annots {
		if a.Owner == hash {
			out = append(out, a)
		}
	}
	return out
}

// RefTip returns the node a ref name points at, or nil.
func (g *Graph) RefTip(name string) *CommitNode { return g.refs[name] }

// FilterAnnotations keeps only annotations accepted by keep, dropping
// the rest and their ref index entries.
func (g *Graph) FilterAnnotations(keep func(RefAnnotation) bool) {
	kept := g.annots[:0]
	for _, a := range g.annots {
		if keep(a) {
			kept = append(kept, a)
		} else {
			delete(g.refs, a.Name)
			g.stripRef(a)
		}
	}
	g.annots = kept
}

// stripRef removes the ref name from the owning commit so kind and
// squashability reflect the surviving annotations.
func (g *Graph) stripRef(a RefAnnotation) {
	n := g.index[a.Owner]
	if n == nil {
		return
	}
	if a.Kind == RefTag {
		n.Commit.Tags = remove(n.Commit.Tags, a.Name)
	} else {
		n.Commit.Branches = remove(n.Commit.Branches, a.Name)
	}
}

// Compact removes all nodes marked invisible, strips references to
// them from surviving parent and child lists, and drops their
// annotations. Survivors whose sole parent was pruned become
// parentless but stay present.
func (g *Graph) Compact() {
	removed := make(map[string]bool)
	kept := g.nodes[:0]
	for _, n := range g.nodes {
		if n.Visible {
			kept = append(kept, n)
		} else {
			removed[n.Hash()] = true
			delete(g.index, n.Hash())
		}
	}
	g.nodes = kept

	if len(removed) == 0 {
		return
	}

	for _, n := range g.nodes {
		n.Commit.Parents = removeMatching(n.Commit.Parents, removed)
		n.Children = removeMatching(n.Children, removed)
	}

	keptAnnots := g.annots[:0]
	for _, a := range g.annots {
		if removed[a.Owner] {
			delete(g.refs, a.Name)
			continue
		}
		keptAnnots = append(keptAnnots, a)
	}
	g.annots = keptAnnots
}

// Reclassify recomputes every node kind from its current degree.
// Squash nodes keep their kind; otherwise more than one child means
// merge, zero parents means root, anything else simple.
func (g *Graph) Reclassify() {
	for _, n := range g.nodes {
		if n.Kind == KindSquash {
			continue
		}
		switch {
		case len(n.Children) > 1:
			n.Kind = KindMerge
		case len(n.Commit.Parents) == 0:
			n.Kind = KindRoot
		default:
			n.Kind = KindSimple
		}
	}
}

func remove(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func removeMatching(ss []string, drop map[string]bool) []string {
	out := ss[:0]
	for _, v := range ss {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}
