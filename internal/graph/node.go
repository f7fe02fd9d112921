package graph

import "github.com/masmgr/gitdot-go/internal/parse"

// Kind classifies a commit node for rendering and reduction.
type Kind int

const (
	KindSimple Kind = iota
	KindRoot
	KindMerge
	KindSquash
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindRoot:
		return "root"
	case KindMerge:
		return "merge"
	case KindSquash:
		return "squash"
	default:
		return "unknown"
	}
}

// CommitNode wraps a commit with its computed adjacency and kind.
type CommitNode struct {
	Commit   parse.Commit
	Children []string
	Kind     Kind
	Visible  bool
	// Count is the number of commits a squash node summarizes. It is 1
	// for ordinary nodes so crunch can sum over mixed runs.
	Count int
}

// Hash returns the node identity.
func (n *CommitNode) Hash() string { return n.Commit.Hash }

// IsRoot reports whether the node has no parents. A parentless node
// with multiple children classifies as merge for rendering but is
// still a traversal start point.
func (n *CommitNode) IsRoot() bool { return len(n.Commit.Parents) == 0 }

// HasRefs reports whether any branch or tag annotation is attached.
func (n *CommitNode) HasRefs() bool { return n.Commit.HasRefs() }

// RefKind distinguishes branch and tag annotations.
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
)

func (k RefKind) String() string {
	if k == RefTag {
		return "tag"
	}
	return "branch"
}

// RefAnnotation is a synthetic node representing one branch or tag,
// owned by exactly one commit node.
type RefAnnotation struct {
	Name  string
	Kind  RefKind
	Owner string // commit hash
}
