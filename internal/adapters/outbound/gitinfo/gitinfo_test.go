package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukasaI/fini/internal/adapters/outbound/gitinfo"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_RepoRoot_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := gitinfo.New().RepoRoot(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGitInfo_RepoRoot_NotGitRepo(t *testing.T) {
	root, err := gitinfo.New().RepoRoot(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, root)
}

func TestIgnoreMatcher(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\nbuild/\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", ".gitignore"), []byte("generated.txt\n"), 0644))

	m, err := gitinfo.New().IgnoreMatcher(dir)
	require.NoError(t, err)

	assert.True(t, m.Ignored(filepath.Join(dir, "debug.log"), false))
	assert.True(t, m.Ignored(filepath.Join(dir, "build"), true))
	assert.True(t, m.Ignored(filepath.Join(dir, "pkg", "generated.txt"), false))
	assert.False(t, m.Ignored(filepath.Join(dir, "generated.txt"), false))
	assert.False(t, m.Ignored(filepath.Join(dir, "main.go"), false))
	assert.False(t, m.Ignored(filepath.Join(filepath.Dir(dir), "outside.log"), false))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
