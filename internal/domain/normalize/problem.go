package normalize

import "fmt"

// Kind identifies what a Problem is about.
type Kind string

const (
	KindFullWidthSpace      Kind = "full_width_space"
	KindLeadingBlankLines   Kind = "leading_blank_lines"
	KindZeroWidthCharacter  Kind = "zero_width_character"
	KindExcessiveBlankLines Kind = "excessive_blank_lines"
	KindCodeBlockRemnant    Kind = "code_block_remnant"
	KindTodoComment         Kind = "todo_comment"
	KindFixmeComment        Kind = "fixme_comment"
	KindDebugCode           Kind = "debug_code"
	KindSecretPattern       Kind = "secret_pattern"
	KindLongLine            Kind = "long_line"
)

// IsDetectionOnly reports whether problems of this kind are only flagged.
// Structural kinds always correlate with a content change.
func (k Kind) IsDetectionOnly() bool {
	switch k {
	case KindTodoComment, KindFixmeComment, KindDebugCode, KindSecretPattern, KindLongLine:
		return true
	default:
		return false
	}
}

// Problem is a located finding. Line is 1-based and refers to the text as
// it was when the finding was made. Only the payload fields relevant to
// Kind are set.
type Problem struct {
	Line    int    `json:"line"`
	Kind    Kind   `json:"kind"`
	Count   int    `json:"count,omitempty"`
	Found   int    `json:"found,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Length  int    `json:"length,omitempty"`
}

// IsDetectionOnly is shorthand for p.Kind.IsDetectionOnly().
func (p Problem) IsDetectionOnly() bool { return p.Kind.IsDetectionOnly() }

// Message describes the problem for humans.
func (p Problem) Message() string {
	switch p.Kind {
	case KindFullWidthSpace:
		return fmt.Sprintf("full-width space at line %d", p.Line)
	case KindLeadingBlankLines:
		return fmt.Sprintf("%d leading blank line(s)", p.Count)
	case KindZeroWidthCharacter:
		return fmt.Sprintf("zero-width character at line %d", p.Line)
	case KindExcessiveBlankLines:
		return fmt.Sprintf("%d consecutive blank lines at line %d (limit: %d)", p.Found, p.Line, p.Limit)
	case KindCodeBlockRemnant:
		return fmt.Sprintf("code block remnant at line %d", p.Line)
	case KindTodoComment:
		return fmt.Sprintf("TODO comment at line %d", p.Line)
	case KindFixmeComment:
		return fmt.Sprintf("FIXME comment at line %d", p.Line)
	case KindDebugCode:
		return fmt.Sprintf("debug code '%s' at line %d", p.Pattern, p.Line)
	case KindSecretPattern:
		return fmt.Sprintf("potential secret (%s) at line %d", p.Hint, p.Line)
	case KindLongLine:
		return fmt.Sprintf("line %d is too long (%d > %d chars)", p.Line, p.Length, p.Limit)
	default:
		return fmt.Sprintf("%s at line %d", p.Kind, p.Line)
	}
}

// Label is the short form used in per-line warnings.
func (p Problem) Label() string {
	switch p.Kind {
	case KindFullWidthSpace:
		return "full-width space"
	case KindZeroWidthCharacter:
		return "zero-width character"
	case KindCodeBlockRemnant:
		return "code block remnant"
	case KindTodoComment:
		return "TODO comment"
	case KindFixmeComment:
		return "FIXME comment"
	case KindDebugCode:
		return fmt.Sprintf("debug code '%s'", p.Pattern)
	case KindSecretPattern:
		return fmt.Sprintf("potential secret (%s)", p.Hint)
	case KindLongLine:
		return fmt.Sprintf("line too long (%d > %d chars)", p.Length, p.Limit)
	case KindLeadingBlankLines:
		return fmt.Sprintf("%d leading blank line(s)", p.Count)
	case KindExcessiveBlankLines:
		return fmt.Sprintf("%d consecutive blank lines (limit: %d)", p.Found, p.Limit)
	default:
		return string(p.Kind)
	}
}
