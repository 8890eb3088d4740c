package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DebugPattern is a leftover debugging statement the detector looks for.
// Word patterns must be bounded by non-identifier bytes on both sides.
type DebugPattern struct {
	Name   string
	Needle string
	Word   bool
}

var debugPatterns = []DebugPattern{
	{Name: "console.log", Needle: "console.log("},
	{Name: "console.debug", Needle: "console.debug("},
	{Name: "console.trace", Needle: "console.trace("},
	{Name: "debugger", Needle: "debugger", Word: true},
	{Name: "fmt.Println", Needle: "fmt.Println("},
	{Name: "println!", Needle: "println!("},
	{Name: "dbg!", Needle: "dbg!("},
	{Name: "print", Needle: "print("},
}

// strictDebugPatterns also flag error output, which is often intentional.
var strictDebugPatterns = []DebugPattern{
	{Name: "console.error", Needle: "console.error("},
	{Name: "eprintln!", Needle: "eprintln!("},
}

// DebugPatterns returns the patterns checked in the given mode.
func DebugPatterns(strict bool) []DebugPattern {
	out := append([]DebugPattern(nil), debugPatterns...)
	if strict {
		out = append(out, strictDebugPatterns...)
	}
	return out
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// matches requires the needle to start on an identifier boundary, so
// "println!(" does not fire inside "eprintln!(". Word patterns also need a
// boundary after the needle.
func (p DebugPattern) matches(line string) bool {
	for off := 0; off < len(line); {
		idx := strings.Index(line[off:], p.Needle)
		if idx < 0 {
			return false
		}
		pos := off + idx
		end := pos + len(p.Needle)
		before := pos == 0 || !isIdentByte(line[pos-1])
		after := !p.Word || end == len(line) || !isIdentByte(line[end])
		if before && after {
			return true
		}
		off = pos + 1
	}
	return false
}

type secretPattern struct {
	re   *regexp.Regexp
	hint string
}

var secretPatterns = []secretPattern{
	{regexp.MustCompile(`-----BEGIN ((RSA|DSA|EC|OPENSSH|PGP|ENCRYPTED) )?PRIVATE KEY( BLOCK)?-----`), "private key"},
	{regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`), "AWS access key"},
	{regexp.MustCompile(`(?i)aws_?secret_?access_?key["']?\s*[:=]\s*["']?[A-Za-z0-9/+=]{40}`), "AWS secret key"},
	{regexp.MustCompile(`(?i)(password|passwd|secret|api_?key|access_?token|auth_?token|token)["']?\s*[:=]\s*["'][^"'\s]{8,}["']`), "hardcoded credential"},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{20,}=*`), "bearer token"},
	{regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}`), "GitHub token"},
	{regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}`), "Slack token"},
	{regexp.MustCompile(`\b[rs]k_(live|test)_[A-Za-z0-9]{24,}`), "Stripe key"},
}

// secretSkipMarkers identify lines that read a secret from the environment
// or hold a placeholder. Compared against the lowercased line.
var secretSkipMarkers = []string{
	"process.env",
	"import.meta.env",
	"os.environ",
	"os.getenv",
	"getenv(",
	"env::var",
	"env[",
	"<your",
	"<insert",
	"<replace",
	"${",
	"{{",
	"#{",
}

func skipSecretLine(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range secretSkipMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func detectTodos(text string, cfg Config) []Problem {
	if !cfg.DetectTodos {
		return nil
	}
	return detectMarker(text, "todo", KindTodoComment)
}

func detectFixmes(text string, cfg Config) []Problem {
	if !cfg.DetectFixmes {
		return nil
	}
	return detectMarker(text, "fixme", KindFixmeComment)
}

func detectMarker(text, marker string, kind Kind) []Problem {
	lines, _ := splitLines(text)
	var problems []Problem
	for i, line := range lines {
		if hasMarker(line, marker) {
			problems = append(problems, Problem{Line: i + 1, Kind: kind})
		}
	}
	return problems
}

// hasMarker matches marker case-insensitively when it is followed by ':',
// '(', whitespace or the end of the line. "TODOS" and "todolist" do not
// count.
func hasMarker(line, marker string) bool {
	for i := 0; i+len(marker) <= len(line); i++ {
		if !equalFoldASCII(line[i:i+len(marker)], marker) {
			continue
		}
		rest := line[i+len(marker):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if r == ':' || r == '(' || unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// equalFoldASCII compares s against a lowercase ASCII marker.
func equalFoldASCII(s, lowerMarker string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lowerMarker[i] {
			return false
		}
	}
	return true
}

func detectDebugCode(text string, cfg Config) []Problem {
	if !cfg.DetectDebug {
		return nil
	}
	patterns := DebugPatterns(cfg.StrictDebug)
	lines, _ := splitLines(text)

	var problems []Problem
	for i, line := range lines {
		for _, p := range patterns {
			if p.matches(line) {
				problems = append(problems, Problem{Line: i + 1, Kind: KindDebugCode, Pattern: p.Name})
				break
			}
		}
	}
	return problems
}

func detectSecrets(text string, cfg Config) []Problem {
	if !cfg.DetectSecrets {
		return nil
	}
	lines, _ := splitLines(text)

	var problems []Problem
	for i, line := range lines {
		if skipSecretLine(line) {
			continue
		}
		for _, sp := range secretPatterns {
			if sp.re.MatchString(line) {
				problems = append(problems, Problem{Line: i + 1, Kind: KindSecretPattern, Hint: sp.hint})
				break
			}
		}
	}
	return problems
}

func detectLongLines(text string, cfg Config) []Problem {
	if cfg.MaxLineLength == nil {
		return nil
	}
	limit := *cfg.MaxLineLength
	lines, _ := splitLines(text)

	var problems []Problem
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n > limit {
			problems = append(problems, Problem{Line: i + 1, Kind: KindLongLine, Length: n, Limit: limit})
		}
	}
	return problems
}
