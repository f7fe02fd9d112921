// Package selection prunes the commit graph down to the induced
// subgraph requested by date-window, range, or chosen-ref filters.
package selection

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/gitdot-go/internal/graph"
)

// RangeError reports an invalid date window or an unresolvable
// explicit range.
type RangeError struct {
	Spec string
	Msg  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %q: %s", e.Spec, e.Msg)
}

// FilterError reports a chosen ref that matches nothing in the graph.
type FilterError struct {
	Ref  string
	Kind graph.RefKind
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("chosen %s not found: %q", e.Kind, e.Ref)
}

// DateWindow keeps only nodes whose timestamp lies in [since, until]
// inclusive. A nil bound is unbounded on that side. Surviving nodes
// whose parents were pruned stay present and parentless.
func DateWindow(g *graph.Graph, since, until *time.Time) error {
	if since == nil && until == nil {
		return nil
	}
	if since != nil && until != nil && since.After(*until) {
		return &RangeError{
			Spec: fmt.Sprintf("%s..%s", since.Format("2006-01-02"), until.Format("2006-01-02")),
			Msg:  "since is after until",
		}
	}

	for _, n := range g.Nodes() {
		if since != nil && n.Commit.When.Before(*since) {
			n.Visible = false
		}
		if until != nil && n.Commit.When.After(*until) {
			n.Visible = false
		}
	}
	g.Compact()
	g.Reclassify()
	return nil
}

// Range applies refA..refB ancestor-exclusion semantics: keep the
// nodes reachable from refB via parent edges, minus those reachable
// from refA. Either endpoint may be empty, meaning no exclusion or no
// restriction respectively.
func Range(g *graph.Graph, spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	fromRef, toRef, ok := strings.Cut(spec, "..")
	if !ok {
		return &RangeError{Spec: spec, Msg: "expected refA..refB"}
	}
	fromRef = strings.TrimSpace(fromRef)
	toRef = strings.TrimSpace(toRef)
	if toRef == "" {
		return &RangeError{Spec: spec, Msg: "missing target ref"}
	}

	keep, err := ancestorsOfRef(g, toRef, spec)
	if err != nil {
		return err
	}
	if fromRef != "" {
		exclude, err := ancestorsOfRef(g, fromRef, spec)
		if err != nil {
			return err
		}
		for hash := range exclude {
			delete(keep, hash)
		}
	}

	for _, n := range g.Nodes() {
		if !keep[n.Hash()] {
			n.Visible = false
		}
	}
	g.Compact()
	g.Reclassify()
	return nil
}

// ChooseRefs keeps the union of ancestor closures of every ref whose
// name matches a chosen branch or tag pattern, plus the matched refs'
// annotations. Annotations of unmatched refs are dropped even when
// their commit survives. A pattern matching no ref anywhere in the
// graph is a FilterError.
func ChooseRefs(g *graph.Graph, branches, tags []string) error {
	if len(branches) == 0 && len(tags) == 0 {
		return nil
	}

	chosen := make(map[string]bool) // ref name -> chosen
	keep := make(map[string]bool)   // commit hash -> keep

	match := func(patterns []string, kind graph.RefKind) error {
		for _, pat := range patterns {
			found := false
			for _, a := range g.Annotations() {
				if a.Kind != kind {
					continue
				}
				ok, err := doublestar.Match(pat, a.Name)
				if err != nil {
					return &FilterError{Ref: pat, Kind: kind}
				}
				if !ok {
					continue
				}
				found = true
				chosen[a.Name] = true
				for hash := range ancestors(g, a.Owner) {
					keep[hash] = true
				}
			}
			if !found {
				return &FilterError{Ref: pat, Kind: kind}
			}
		}
		return nil
	}

	if err := match(branches, graph.RefBranch); err != nil {
		return err
	}
	if err := match(tags, graph.RefTag); err != nil {
		return err
	}

	g.FilterAnnotations(func(a graph.RefAnnotation) bool {
		return chosen[a.Name]
	})
	for _, n := range g.Nodes() {
		if !keep[n.Hash()] {
			n.Visible = false
		}
	}
	g.Compact()
	g.Reclassify()
	return nil
}

func ancestorsOfRef(g *graph.Graph, ref, spec string) (map[string]bool, error) {
	tip := g.RefTip(ref)
	if tip == nil {
		// A bare hash is also accepted as a range endpoint.
		tip = g.Node(ref)
	}
	if tip == nil {
		return nil, &RangeError{Spec: spec, Msg: fmt.Sprintf("unresolvable ref %q", ref)}
	}
	return ancestors(g, tip.Hash()), nil
}

// ancestors returns the transitive parent closure of start, start
// included. Iterative stack walk; commit graphs can have very long
// chains.
func ancestors(g *graph.Graph, start string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[hash] {
			continue
		}
		seen[hash] = true
		n := g.Node(hash)
		if n == nil {
			continue
		}
		stack = append(stack, n.Commit.Parents...)
	}
	return seen
}
