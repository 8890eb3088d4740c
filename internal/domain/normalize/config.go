package normalize

// Config controls which optional stages and detectors run.
// Pointer fields distinguish "no bound" from zero values.
type Config struct {
	MaxBlankLines       *int `json:"max_blank_lines,omitempty"`
	RemoveZeroWidth     bool `json:"remove_zero_width"`
	RemoveLeadingBlanks bool `json:"remove_leading_blanks"`
	FixCodeBlocks       bool `json:"fix_code_blocks"`
	DetectTodos         bool `json:"detect_todos"`
	DetectFixmes        bool `json:"detect_fixmes"`
	DetectDebug         bool `json:"detect_debug"`
	StrictDebug         bool `json:"strict_debug"`
	DetectSecrets       bool `json:"detect_secrets"`
	MaxLineLength       *int `json:"max_line_length,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RemoveZeroWidth:     true,
		RemoveLeadingBlanks: true,
		DetectTodos:         true,
		DetectFixmes:        true,
		DetectDebug:         true,
		DetectSecrets:       true,
	}
}

// Bound returns a pointer to n, for filling the optional limits.
func Bound(n int) *int {
	return &n
}
