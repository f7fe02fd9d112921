package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/gitdot-go/internal/parse"
)

// createTestRepo initializes a temporary repository for reader tests.
func createTestRepo(t *testing.T) (string, *gogit.Repository) {
	tmpDir := t.TempDir()
	repo, err := gogit.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return tmpDir, repo
}

// addCommit writes one file and commits it with a fixed timestamp.
func addCommit(t *testing.T, repo *gogit.Repository, message string, when time.Time) plumbing.Hash {
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	path := filepath.Join(w.Filesystem.Root(), "file.txt")
	if err := os.WriteFile(path, []byte(message+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := w.Add("file.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	hash, err := w.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

func TestNativeSource_Read(t *testing.T) {
	dir, repo := createTestRepo(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	addCommit(t, repo, "first commit", base)
	h2 := addCommit(t, repo, "second commit", base.Add(time.Hour))
	h3 := addCommit(t, repo, "third commit\n\nwith a body line", base.Add(2*time.Hour))

	if _, err := repo.CreateTag("v1.0", h2, nil); err != nil {
		t.Fatalf("Failed to tag: %v", err)
	}

	src := NewNativeSource(NativeOptions{RepoPath: dir})
	out, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commits, err := parse.Records(out, parse.DefaultOptions())
	if err != nil {
		t.Fatalf("synthesized records do not parse: %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}

	// Newest first, parent chain intact.
	if commits[0].Hash != shortHash(h3) {
		t.Errorf("commits[0].Hash = %s, want %s", commits[0].Hash, shortHash(h3))
	}
	if len(commits[0].Parents) != 1 || commits[0].Parents[0] != shortHash(h2) {
		t.Errorf("commits[0].Parents = %v, want [%s]", commits[0].Parents, shortHash(h2))
	}
	if commits[0].Subject != "third commit" {
		t.Errorf("Subject = %q", commits[0].Subject)
	}
	if commits[0].Body != "with a body line" {
		t.Errorf("Body = %q", commits[0].Body)
	}

	// The head branch decorates the tip, the tag its commit.
	if len(commits[0].Branches) != 1 || commits[0].Branches[0] != "master" {
		t.Errorf("tip branches = %v, want [master]", commits[0].Branches)
	}
	if len(commits[1].Tags) != 1 || commits[1].Tags[0] != "v1.0" {
		t.Errorf("tags = %v, want [v1.0]", commits[1].Tags)
	}
	if len(commits[2].Parents) != 0 {
		t.Errorf("root parents = %v, want empty", commits[2].Parents)
	}
}

func TestNativeSource_SinceUntil(t *testing.T) {
	dir, repo := createTestRepo(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	addCommit(t, repo, "first commit", base)
	addCommit(t, repo, "second commit", base.Add(24*time.Hour))
	addCommit(t, repo, "third commit", base.Add(48*time.Hour))

	since := base.Add(12 * time.Hour)
	until := base.Add(36 * time.Hour)
	src := NewNativeSource(NativeOptions{RepoPath: dir, Since: &since, Until: &until})
	out, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commits, err := parse.Records(out, parse.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(commits))
	}
	if commits[0].Subject != "second commit" {
		t.Errorf("Subject = %q, want second commit", commits[0].Subject)
	}
}

func TestNativeSource_MissingRepo(t *testing.T) {
	src := NewNativeSource(NativeOptions{RepoPath: filepath.Join(t.TempDir(), "nope")})
	if _, err := src.Read(context.Background()); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
