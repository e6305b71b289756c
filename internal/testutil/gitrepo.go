// Package testutil builds throwaway Git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a Git repository in a test temp directory.
type Repo struct {
	t    testing.TB
	Dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
}

// NewRepo initializes an empty repository.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{
		t:    t,
		Dir:  dir,
		repo: repo,
		wt:   wt,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Write stages a file with the given number of lines.
func (r *Repo) Write(rel string, lines int) {
	r.t.Helper()
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("line\n")
	}
	r.WriteContent(rel, b.String())
}

// WriteContent stages a file with content.
func (r *Repo) WriteContent(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

// Commit records the staged changes one hour after the previous commit.
func (r *Repo) Commit(msg string) {
	r.t.Helper()
	r.when = r.when.Add(time.Hour)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: r.when}
	if _, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
}

// Linear creates n commits, commit i adding i+1 lines to file.go.
func Linear(t testing.TB, n int) *Repo {
	t.Helper()
	r := NewRepo(t)
	total := 0
	for i := 0; i < n; i++ {
		total += i + 1
		r.Write("file.go", total)
		r.Commit("commit " + string(rune('a'+i)))
	}
	return r
}
