package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// NativeOptions configures the go-git record source.
type NativeOptions struct {
	RepoPath string
	Since    *time.Time
	Until    *time.Time
}

// NativeSource reads history through go-git instead of the git
// binary and synthesizes the same record text the CLI source
// produces, so the rest of the pipeline cannot tell them apart.
type NativeSource struct {
	opts NativeOptions
}

// NewNativeSource creates a go-git record source.
func NewNativeSource(opts NativeOptions) *NativeSource {
	return &NativeSource{opts: opts}
}

var _ Source = (*NativeSource)(nil)

// Read walks all refs newest-first and emits one record per commit.
func (s *NativeSource) Read(_ context.Context) (string, error) {
	repo, err := gogit.PlainOpen(s.opts.RepoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	decor, err := decorations(repo)
	if err != nil {
		return "", err
	}

	logOpts := &gogit.LogOptions{All: true, Order: gogit.LogOrderCommitterTime}
	if s.opts.Since != nil {
		logOpts.Since = s.opts.Since
	}
	if s.opts.Until != nil {
		logOpts.Until = s.opts.Until
	}
	iter, err := repo.Log(logOpts)
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}

	var b strings.Builder
	err = iter.ForEach(func(c *object.Commit) error {
		parents := make([]string, 0, c.NumParents())
		for _, p := range c.ParentHashes {
			parents = append(parents, shortHash(p))
		}

		refs := ""
		if names := decor[c.Hash]; len(names) > 0 {
			refs = " (" + strings.Join(names, ", ") + ")"
		}

		subject, body, _ := strings.Cut(c.Message, "\n")
		fmt.Fprintf(&b, "|Record:|%s|%s|%s|%s|%s\n",
			shortHash(c.Hash),
			strings.Join(parents, " "),
			refs,
			c.Committer.When.Format(time.RFC3339),
			strings.TrimSpace(subject),
		)
		if body = strings.TrimSpace(body); body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}
	return b.String(), nil
}

// decorations maps each decorated commit to its ref names in the
// format the record parser expects. Names are sorted per commit so
// the synthesized records are deterministic.
func decorations(repo *gogit.Repository) (map[plumbing.Hash][]string, error) {
	decor := make(map[plumbing.Hash][]string)

	refs, err := repo.References()
	if err != nil {
		return nil, err
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		var display string
		switch {
		case name.IsBranch(), name.IsRemote():
			display = name.Short()
		case name.IsTag():
			display = "tag: " + name.Short()
		default:
			return nil
		}

		target := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if tag, err := repo.TagObject(target); err == nil {
			target = tag.Target
		}
		decor[target] = append(decor[target], display)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for h := range decor {
		sort.Strings(decor[h])
	}
	return decor, nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
