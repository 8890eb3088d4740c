package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tsukasaI/fini/internal/adapters/outbound/gitinfo"
)

// FileScanner implements domain.FileWalker by walking the filesystem.
// Hidden entries, gitignored paths and exclude globs are skipped inside
// walked directories; explicitly named files are always kept.
type FileScanner struct {
	git *gitinfo.GitInfoAdapter
}

func New(git *gitinfo.GitInfoAdapter) *FileScanner {
	return &FileScanner{git: git}
}

// Walk expands paths in argument order. Files under a directory come out
// in lexical order; duplicates are dropped.
func (s *FileScanner) Walk(paths []string, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		key := filepath.Clean(p)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := s.walkDir(p, exclude)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

func (s *FileScanner) walkDir(root string, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var ignore *gitinfo.IgnoreMatcher
	if s.git != nil {
		repoRoot, err := s.git.RepoRoot(absRoot)
		if err != nil {
			return nil, err
		}
		if repoRoot != "" {
			if ignore, err = s.git.IgnoreMatcher(repoRoot); err != nil {
				return nil, err
			}
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		skip := func() error {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return skip()
		}

		rel, _ := filepath.Rel(root, path)
		if matchesAny(exclude, filepath.ToSlash(rel), d.Name()) {
			return skip()
		}

		if ignore != nil && ignore.Ignored(filepath.Join(absRoot, rel), d.IsDir()) {
			return skip()
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// matchesAny tests each glob against the slash path relative to the walk
// root and against the base name, so "*.min.js" works at any depth.
func matchesAny(patterns []string, rel, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
