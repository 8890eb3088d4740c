package tui_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsukasaI/fini/internal/adapters/outbound/tui"
)

func TestUnifiedDiff_Equal(t *testing.T) {
	assert.Empty(t, tui.UnifiedDiff("f", "a\n", "a\n"))
}

func TestUnifiedDiff_ChangedLine(t *testing.T) {
	out := tui.UnifiedDiff("f.txt", "a\nb  \nc\n", "a\nb\nc\n")

	assert.Equal(t, "--- f.txt\n+++ f.txt\n@@ -1,3 +1,3 @@\n a\n-b  \n+b\n c\n", out)
}

func TestUnifiedDiff_MissingNewline(t *testing.T) {
	out := tui.UnifiedDiff("stdin", "a", "a\n")

	assert.Equal(t, "--- stdin\n+++ stdin\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+a\n", out)
}

func TestUnifiedDiff_SeparateHunks(t *testing.T) {
	var orig, fixed []string
	for i := 1; i <= 10; i++ {
		line := strings.Repeat("x", i)
		fixed = append(fixed, line)
		if i == 1 || i == 10 {
			line += " "
		}
		orig = append(orig, line)
	}

	out := tui.UnifiedDiff("f", strings.Join(orig, "\n")+"\n", strings.Join(fixed, "\n")+"\n")

	assert.Equal(t, 2, strings.Count(out, "@@ -"))
	assert.Contains(t, out, "@@ -1,4 +1,4 @@\n")
	assert.Contains(t, out, "@@ -7,4 +7,4 @@\n")
}

func TestUnifiedDiff_DeletedLines(t *testing.T) {
	out := tui.UnifiedDiff("f", "\n\na\n", "a\n")

	assert.Equal(t, "--- f\n+++ f\n@@ -1,3 +1 @@\n-\n-\n a\n", out)
}
