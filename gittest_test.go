package relhist

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// requireGit skips the test when the git binary is not on PATH.
func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// requireFilterRepo skips the test when git-filter-repo is not installed.
func requireFilterRepo(t *testing.T) {
	t.Helper()

	requireGit(t)
	if err := exec.Command("git", "filter-repo", "--version").Run(); err != nil {
		t.Skip("git filter-repo not available")
	}
}

// setGitIdentity provides a commit identity for git subprocesses without
// touching any git config.
func setGitIdentity(t *testing.T) {
	t.Helper()

	t.Setenv("GIT_AUTHOR_NAME", "relhist test")
	t.Setenv("GIT_AUTHOR_EMAIL", "relhist@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "relhist test")
	t.Setenv("GIT_COMMITTER_EMAIL", "relhist@example.com")
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testRepo is an on-disk repository fixture built with go-git.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()

	out, err := runGit(context.Background(), testLogger(), r.dir, args...)
	if err != nil {
		r.t.Fatal(err)
	}

	return out
}

func (r *testRepo) write(relpath string, content string) {
	r.t.Helper()

	full := filepath.Join(r.dir, filepath.FromSlash(relpath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatal(err)
	}
}

func (r *testRepo) add(relpath string) {
	r.t.Helper()

	if _, err := r.wt.Add(relpath); err != nil {
		r.t.Fatal(err)
	}
}

// move renames a tracked file with the git binary so the index update
// matches what the rename-following history query will later see.
func (r *testRepo) move(from string, to string) {
	r.t.Helper()

	full := filepath.Join(r.dir, filepath.FromSlash(to))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatal(err)
	}

	r.git("mv", from, to)
}

func (r *testRepo) commit(msg string) {
	r.t.Helper()

	r.n++
	sig := &object.Signature{
		Name:  "relhist test",
		Email: "relhist@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.n) * time.Minute),
	}

	if _, err := r.wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		r.t.Fatal(err)
	}
}

// treeFiles maps every regular file under dir, except git metadata, to its
// content. Paths are slash-separated and relative to dir.
func treeFiles(t *testing.T, dir string) map[string]string {
	t.Helper()

	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	return files
}

// commitMessages returns the trimmed messages of all commits reachable from
// HEAD of the repository at dir, newest first.
func commitMessages(t *testing.T, dir string) []string {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatal(err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		t.Fatal(err)
	}

	var msgs []string
	if err := iter.ForEach(func(c *object.Commit) error {
		msgs = append(msgs, strings.TrimSpace(c.Message))
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	return msgs
}
