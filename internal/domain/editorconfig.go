package domain

import "fmt"

// EditorConfig holds the [*] settings that overlap with fixed behavior.
type EditorConfig struct {
	Path                   string
	TrimTrailingWhitespace *bool
	InsertFinalNewline     *bool
	EndOfLine              string
}

// Conflicts lists settings that fini will override anyway.
func (e *EditorConfig) Conflicts() []string {
	if e == nil {
		return nil
	}
	var out []string
	if e.TrimTrailingWhitespace != nil && !*e.TrimTrailingWhitespace {
		out = append(out, "editorconfig has trim_trailing_whitespace=false, but fini always trims")
	}
	if e.InsertFinalNewline != nil && !*e.InsertFinalNewline {
		out = append(out, "editorconfig has insert_final_newline=false, but fini always inserts")
	}
	if e.EndOfLine != "" && e.EndOfLine != "lf" {
		out = append(out, fmt.Sprintf("editorconfig has end_of_line=%s, but fini normalizes to LF", e.EndOfLine))
	}
	return out
}
