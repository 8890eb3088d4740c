package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	fullWidthSpace = '\u3000'
	byteOrderMark  = '\uFEFF'
)

// zeroWidth holds the invisible characters removed by stripZeroWidth.
var zeroWidth = map[rune]bool{
	'\u200B':      true, // zero-width space
	'\u200C':      true, // zero-width non-joiner
	'\u200D':      true, // zero-width joiner
	'\u200E':      true, // left-to-right mark
	'\u200F':      true, // right-to-left mark
	'\u2060':      true, // word joiner
	byteOrderMark: true,
}

// blankCutset includes U+3000 because the full-width stage turns it into an
// ASCII space later on.
const blankCutset = " \t\r\f\v\u3000"

func isBlank(line string) bool {
	return strings.Trim(line, blankCutset) == ""
}

// splitLines splits text on LF. The empty element after a final LF is not a
// line; its presence is reported as the second return value.
func splitLines(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1], true
	}
	return lines, false
}

func joinLines(lines []string, trailingNewline bool) string {
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, "\n")
	if trailingNewline {
		s += "\n"
	}
	return s
}

// normalizeLineEndings converts CRLF first so a CRLF never becomes two LFs.
func normalizeLineEndings(text string, _ Config) (string, []Problem) {
	if !strings.Contains(text, "\r") {
		return text, nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// stripZeroWidth keeps a byte-order mark only at absolute offset 0.
func stripZeroWidth(text string, _ Config) (string, []Problem) {
	var (
		b        strings.Builder
		problems []Problem
		segStart int
		line     = 1
	)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			line++
		case zeroWidth[r] && !(r == byteOrderMark && i == 0):
			if b.Len() == 0 && segStart == 0 {
				b.Grow(len(text))
			}
			b.WriteString(text[segStart:i])
			segStart = i + size
			problems = append(problems, Problem{Line: line, Kind: KindZeroWidthCharacter})
		}
		i += size
	}

	if len(problems) == 0 {
		return text, nil
	}
	b.WriteString(text[segStart:])
	return b.String(), problems
}

func isFenceLine(line string) bool {
	t := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(t, "```")
	if !ok || strings.HasPrefix(rest, "`") {
		return false
	}
	for _, r := range rest {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '-' || r == '+' {
			continue
		}
		return false
	}
	return true
}

func removeCodeFences(text string, _ Config) (string, []Problem) {
	lines, trailingNewline := splitLines(text)
	var problems []Problem
	kept := make([]string, 0, len(lines))

	for i, line := range lines {
		if isFenceLine(line) {
			problems = append(problems, Problem{Line: i + 1, Kind: KindCodeBlockRemnant})
			continue
		}
		kept = append(kept, line)
	}

	if len(problems) == 0 {
		return text, nil
	}
	return joinLines(kept, trailingNewline), problems
}

func trimLeadingBlanks(text string, _ Config) (string, []Problem) {
	lines, trailingNewline := splitLines(text)
	count := 0
	for count < len(lines) && isBlank(lines[count]) {
		count++
	}
	if count == 0 {
		return text, nil
	}
	return joinLines(lines[count:], trailingNewline), []Problem{{Line: 1, Kind: KindLeadingBlankLines, Count: count}}
}

// limitBlankRuns keeps the first max lines of every blank run. The problem
// line is where the excess starts, not where the run starts.
func limitBlankRuns(text string, cfg Config) (string, []Problem) {
	limit := max(*cfg.MaxBlankLines, 0)
	lines, trailingNewline := splitLines(text)

	var problems []Problem
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if !isBlank(lines[i]) {
			kept = append(kept, lines[i])
			i++
			continue
		}

		start := i
		for i < len(lines) && isBlank(lines[i]) {
			i++
		}
		run := i - start

		kept = append(kept, lines[start:start+min(run, limit)]...)
		if run > limit {
			problems = append(problems, Problem{
				Line:  start + limit + 1,
				Kind:  KindExcessiveBlankLines,
				Found: run,
				Limit: limit,
			})
		}
	}

	if len(problems) == 0 {
		return text, nil
	}
	return joinLines(kept, trailingNewline), problems
}

func fixFullWidthSpaces(text string, _ Config) (string, []Problem) {
	if !strings.ContainsRune(text, fullWidthSpace) {
		return text, nil
	}

	var problems []Problem
	line := 1
	for _, r := range text {
		switch r {
		case '\n':
			line++
		case fullWidthSpace:
			problems = append(problems, Problem{Line: line, Kind: KindFullWidthSpace})
		}
	}
	return strings.ReplaceAll(text, string(fullWidthSpace), " "), problems
}

func trimTrailingWhitespace(text string, _ Config) (string, []Problem) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}

func normalizeEOFNewline(text string, _ Config) (string, []Problem) {
	if text == "" {
		return "", nil
	}
	return strings.TrimRight(text, "\n") + "\n", nil
}
