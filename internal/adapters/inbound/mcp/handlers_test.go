package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukasaI/fini/internal/domain"
)

func newTestProject(t *testing.T) (*project, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	p, err := newProject(dir)
	require.NoError(t, err)
	return p, dir
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestHandleNormalize(t *testing.T) {
	p, _ := newTestProject(t)

	out, isErr := callTool(t, handleNormalize(p), map[string]any{"content": "a  \r\nb"})
	require.False(t, isErr, out)

	var got normalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a\nb\n", got.Content)
	assert.True(t, got.Changed)
	assert.Contains(t, got.Diff, "+++ content")
}

func TestHandleNormalize_Overrides(t *testing.T) {
	p, _ := newTestProject(t)

	out, isErr := callTool(t, handleNormalize(p), map[string]any{
		"content":         "a\n\n\n\nb\n",
		"max_blank_lines": float64(1),
	})
	require.False(t, isErr, out)

	var got normalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a\n\nb\n", got.Content)
	require.Len(t, got.Problems, 1)
	assert.Equal(t, "excessive_blank_lines", string(got.Problems[0].Kind))
}

func TestHandleNormalize_DetectionToggles(t *testing.T) {
	p, _ := newTestProject(t)
	content := "// TODO: a\n// FIXME: b\nconsole.log(c)\npassword = \"hunter22\"\n"

	out, isErr := callTool(t, handleNormalize(p), map[string]any{"content": content})
	require.False(t, isErr, out)
	var got normalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Problems, 4)

	out, isErr = callTool(t, handleNormalize(p), map[string]any{
		"content":           content,
		"no_detect_todos":   true,
		"no_detect_fixmes":  true,
		"no_detect_debug":   true,
		"no_detect_secrets": true,
	})
	require.False(t, isErr, out)
	got = normalizeResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.Problems)
}

func TestHandleNormalize_RejectsNegativeLimit(t *testing.T) {
	p, _ := newTestProject(t)

	out, isErr := callTool(t, handleNormalize(p), map[string]any{"content": "x\n", "max_blank_lines": float64(-1)})
	assert.True(t, isErr)
	assert.Contains(t, out, "max_blank_lines")
}

func TestHandleNormalize_MissingContent(t *testing.T) {
	p, _ := newTestProject(t)

	_, isErr := callTool(t, handleNormalize(p), map[string]any{})
	assert.True(t, isErr)
}

func TestHandleNormalize_UsesProjectConfig(t *testing.T) {
	p, dir := newTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fini.toml"), []byte("[normalize]\nfix_code_blocks = true\n"), 0o644))

	out, isErr := callTool(t, handleNormalize(p), map[string]any{"content": "```go\nx\n```\n"})
	require.False(t, isErr, out)

	var got normalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "x\n", got.Content)
}

func TestHandleCheckFile_DoesNotWrite(t *testing.T) {
	p, dir := newTestProject(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x  \n"), 0o644))

	out, isErr := callTool(t, handleFile(p, true), map[string]any{"file": "a.txt"})
	require.False(t, isErr, out)

	var got fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a.txt", got.Path)
	assert.Equal(t, domain.StatusProblems, got.Status)
	assert.Contains(t, got.Diff, "-x  ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x  \n", string(data))
}

func TestHandleFixFile_Writes(t *testing.T) {
	p, dir := newTestProject(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x  \n"), 0o644))

	out, isErr := callTool(t, handleFile(p, false), map[string]any{"file": "a.txt"})
	require.False(t, isErr, out)

	var got fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.StatusFixed, got.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestHandleFile_RejectsEscapes(t *testing.T) {
	p, _ := newTestProject(t)

	out, isErr := callTool(t, handleFile(p, true), map[string]any{"file": "../outside.txt"})
	assert.True(t, isErr)
	assert.Contains(t, out, "outside the project root")
}

func TestHandleFile_RejectsSymlinkEscape(t *testing.T) {
	p, dir := newTestProject(t)
	outside := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x  \n"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link.txt")))

	out, isErr := callTool(t, handleFile(p, false), map[string]any{"file": "link.txt"})
	assert.True(t, isErr)
	assert.Contains(t, out, "outside the project root")

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "x  \n", string(data))
}

func TestHandleFile_FollowsSymlinkInsideRoot(t *testing.T) {
	p, dir := newTestProject(t)
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("x  \n"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.txt")))

	out, isErr := callTool(t, handleFile(p, false), map[string]any{"file": "link.txt"})
	require.False(t, isErr, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestHandleFile_Missing(t *testing.T) {
	p, _ := newTestProject(t)

	_, isErr := callTool(t, handleFile(p, true), map[string]any{"file": "nope.txt"})
	assert.True(t, isErr)
}

func TestHandleConfigResource(t *testing.T) {
	p, dir := newTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fini.toml"), []byte("exclude = [\"vendor/**\"]\n[normalize]\nmax_blank_lines = 2\n"), 0o644))

	contents, err := handleConfigResource(p)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, configURI, text.URI)

	var got effectiveConfig
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	assert.Equal(t, filepath.Join(dir, "fini.toml"), got.Path)
	assert.Equal(t, []string{"vendor/**"}, got.Exclude)
	require.NotNil(t, got.Normalize.MaxBlankLines)
	assert.Equal(t, 2, *got.Normalize.MaxBlankLines)
	assert.True(t, got.Normalize.DetectSecrets)
}
