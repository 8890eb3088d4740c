package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitInfoAdapter answers repository questions for the file walker using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// RepoRoot returns the worktree root containing dir, or "" when dir is not
// inside a non-bare git repository.
func (g *GitInfoAdapter) RepoRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return "", nil
		}
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	return wt.Filesystem.Root(), nil
}

func (g *GitInfoAdapter) IsGitRepo(dir string) bool {
	root, err := g.RepoRoot(dir)
	return err == nil && root != ""
}

// IgnoreMatcher loads system, global and repository ignore rules for the
// worktree at root. Later sources take priority.
func (g *GitInfoAdapter) IgnoreMatcher(root string) (*IgnoreMatcher, error) {
	var patterns []gitignore.Pattern

	rootFS := osfs.New("/")
	if ps, err := gitignore.LoadSystemPatterns(rootFS); err == nil {
		patterns = append(patterns, ps...)
	}
	if ps, err := gitignore.LoadGlobalPatterns(rootFS); err == nil {
		patterns = append(patterns, ps...)
	}

	ps, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, fmt.Errorf("reading gitignore patterns: %w", err)
	}
	patterns = append(patterns, ps...)

	return &IgnoreMatcher{root: root, matcher: gitignore.NewMatcher(patterns)}, nil
}

// IgnoreMatcher reports whether paths inside one worktree are gitignored.
type IgnoreMatcher struct {
	root    string
	matcher gitignore.Matcher
}

// Ignored takes an absolute path. Paths outside the worktree are never
// ignored.
func (m *IgnoreMatcher) Ignored(absPath string, isDir bool) bool {
	rel, err := filepath.Rel(m.root, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return m.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}
