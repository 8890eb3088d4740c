package tui

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

const noNewlineMarker = `\ No newline at end of file`

type diffLine struct {
	op   diffmatchpatch.Operation
	text string // without the trailing newline
	eol  bool   // whether the line ended in a newline
}

// UnifiedDiff renders a unified diff between original and content, both
// sides labeled with label. It returns "" when the texts are equal.
func UnifiedDiff(label, original, content string) string {
	if original == content {
		return ""
	}

	lines := toLines(diff.Do(original, content))

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", label, label)
	for _, h := range hunks(lines) {
		writeHunk(&b, lines, h)
	}
	return b.String()
}

// toLines flattens line-granular diff chunks into one entry per line.
func toLines(diffs []diffmatchpatch.Diff) []diffLine {
	var out []diffLine
	for _, d := range diffs {
		text := d.Text
		for text != "" {
			line, rest, found := strings.Cut(text, "\n")
			out = append(out, diffLine{op: d.Type, text: line, eol: found})
			text = rest
		}
	}
	return out
}

type hunk struct{ start, end int }

// hunks groups changed lines with diffContext lines of context, merging
// groups whose context would overlap.
func hunks(lines []diffLine) []hunk {
	var out []hunk
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(i-diffContext, 0)
		end := min(i+diffContext+1, len(lines))
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = max(out[n-1].end, end)
			continue
		}
		out = append(out, hunk{start: start, end: end})
	}
	return out
}

func writeHunk(b *strings.Builder, lines []diffLine, h hunk) {
	oldStart, newStart := 1, 1
	for _, l := range lines[:h.start] {
		if l.op != diffmatchpatch.DiffInsert {
			oldStart++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newStart++
		}
	}

	var oldLen, newLen int
	for _, l := range lines[h.start:h.end] {
		if l.op != diffmatchpatch.DiffInsert {
			oldLen++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newLen++
		}
	}

	fmt.Fprintf(b, "@@ -%s +%s @@\n", hunkRange(oldStart, oldLen), hunkRange(newStart, newLen))
	for _, l := range lines[h.start:h.end] {
		switch l.op {
		case diffmatchpatch.DiffInsert:
			b.WriteByte('+')
		case diffmatchpatch.DiffDelete:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(l.text)
		b.WriteByte('\n')
		if !l.eol {
			b.WriteString(noNewlineMarker + "\n")
		}
	}
}

func hunkRange(start, length int) string {
	switch length {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	default:
		return fmt.Sprintf("%d,%d", start, length)
	}
}
