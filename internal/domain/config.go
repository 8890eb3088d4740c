package domain

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tsukasaI/fini/internal/domain/normalize"
)

// FileConfig holds project-level configuration loaded from fini.toml or
// .fini.yaml.
type FileConfig struct {
	Exclude   []string         `toml:"exclude"   yaml:"exclude"   json:"exclude,omitempty"`
	Normalize NormalizeSection `toml:"normalize" yaml:"normalize" json:"normalize"`
}

// NormalizeSection is the [normalize] table. Pointer types distinguish
// "not specified" from zero values.
type NormalizeSection struct {
	MaxBlankLines       *int  `toml:"max_blank_lines"       yaml:"max_blank_lines"       json:"max_blank_lines,omitempty"`
	RemoveZeroWidth     *bool `toml:"remove_zero_width"     yaml:"remove_zero_width"     json:"remove_zero_width,omitempty"`
	RemoveLeadingBlanks *bool `toml:"remove_leading_blanks" yaml:"remove_leading_blanks" json:"remove_leading_blanks,omitempty"`
	FixCodeBlocks       *bool `toml:"fix_code_blocks"       yaml:"fix_code_blocks"       json:"fix_code_blocks,omitempty"`
	DetectTodos         *bool `toml:"detect_todos"          yaml:"detect_todos"          json:"detect_todos,omitempty"`
	DetectFixmes        *bool `toml:"detect_fixmes"         yaml:"detect_fixmes"         json:"detect_fixmes,omitempty"`
	DetectDebug         *bool `toml:"detect_debug"          yaml:"detect_debug"          json:"detect_debug,omitempty"`
	StrictDebug         *bool `toml:"strict_debug"          yaml:"strict_debug"          json:"strict_debug,omitempty"`
	DetectSecrets       *bool `toml:"detect_secrets"        yaml:"detect_secrets"        json:"detect_secrets,omitempty"`
	MaxLineLength       *int  `toml:"max_line_length"       yaml:"max_line_length"       json:"max_line_length,omitempty"`
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c FileConfig) Validate() error {
	n := c.Normalize
	if n.MaxBlankLines != nil && *n.MaxBlankLines < 0 {
		return fmt.Errorf("normalize.max_blank_lines must be >= 0, got %d", *n.MaxBlankLines)
	}
	if n.MaxLineLength != nil && *n.MaxLineLength <= 0 {
		return fmt.Errorf("normalize.max_line_length must be > 0, got %d", *n.MaxLineLength)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("exclude pattern %q is not a valid glob", pattern)
		}
	}
	return nil
}

// CLIOptions carries normalize overrides given on the command line. A nil
// field was not specified and falls through to the file config.
type CLIOptions struct {
	MaxBlankLines     *int
	KeepZeroWidth     *bool
	KeepLeadingBlanks *bool
	FixCodeBlocks     *bool
	NoDetectTodos     *bool
	NoDetectFixmes    *bool
	NoDetectDebug     *bool
	StrictDebug       *bool
	NoDetectSecrets   *bool
	MaxLineLength     *int
}

// MergeNormalizeConfig resolves the effective pipeline configuration.
// Priority: CLI > file > defaults. file may be nil.
func MergeNormalizeConfig(cli CLIOptions, file *NormalizeSection) normalize.Config {
	var fs NormalizeSection
	if file != nil {
		fs = *file
	}
	cfg := normalize.DefaultConfig()

	cfg.MaxBlankLines = firstInt(cli.MaxBlankLines, fs.MaxBlankLines, cfg.MaxBlankLines)
	cfg.MaxLineLength = firstInt(cli.MaxLineLength, fs.MaxLineLength, cfg.MaxLineLength)

	cfg.RemoveZeroWidth = firstBool(negate(cli.KeepZeroWidth), fs.RemoveZeroWidth, cfg.RemoveZeroWidth)
	cfg.RemoveLeadingBlanks = firstBool(negate(cli.KeepLeadingBlanks), fs.RemoveLeadingBlanks, cfg.RemoveLeadingBlanks)
	cfg.FixCodeBlocks = firstBool(cli.FixCodeBlocks, fs.FixCodeBlocks, cfg.FixCodeBlocks)
	cfg.DetectTodos = firstBool(negate(cli.NoDetectTodos), fs.DetectTodos, cfg.DetectTodos)
	cfg.DetectFixmes = firstBool(negate(cli.NoDetectFixmes), fs.DetectFixmes, cfg.DetectFixmes)
	cfg.DetectDebug = firstBool(negate(cli.NoDetectDebug), fs.DetectDebug, cfg.DetectDebug)
	cfg.StrictDebug = firstBool(cli.StrictDebug, fs.StrictDebug, cfg.StrictDebug)
	cfg.DetectSecrets = firstBool(negate(cli.NoDetectSecrets), fs.DetectSecrets, cfg.DetectSecrets)

	return cfg
}

func firstBool(cli, file *bool, def bool) bool {
	if cli != nil {
		return *cli
	}
	if file != nil {
		return *file
	}
	return def
}

func firstInt(cli, file, def *int) *int {
	if cli != nil {
		return normalize.Bound(*cli)
	}
	if file != nil {
		return normalize.Bound(*file)
	}
	return def
}

func negate(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := !*b
	return &v
}

// ConfigTemplate is written by `fini init`. Every setting is commented out
// so the file parses to the defaults.
const ConfigTemplate = `# fini.toml - Configuration for fini file normalizer
# https://github.com/tsukasaI/fini
#
# fini normalizes text files by:
# - Ensuring files end with a single newline
# - Converting CRLF/CR line endings to LF
# - Removing trailing whitespace from lines
# - Converting full-width spaces to regular spaces
#
# These behaviors are always enabled. The settings below control
# optional features - uncomment and modify as needed.

# Glob patterns (relative to the walked directory) to skip.
# exclude = ["vendor/**", "*.min.js"]

[normalize]
# Maximum consecutive blank lines allowed.
# Set to 0 to remove all blank lines, or comment out for no limit.
# max_blank_lines = 2

# Remove zero-width characters (ZWSP, ZWJ, ZWNJ, etc.)
# Useful for cleaning up text copied from web pages or word processors.
# Default: true
# remove_zero_width = true

# Remove leading blank lines at the start of files.
# Default: true
# remove_leading_blanks = true

# Remove markdown code block markers (` + "```" + ` fences).
# Enable when extracting code from AI assistant responses.
# Default: false
# fix_code_blocks = false

# Flag TODO and FIXME markers (never modified).
# Default: true
# detect_todos = true
# detect_fixmes = true

# Flag leftover debug statements such as console.log or dbg!.
# strict_debug also flags console.error and eprintln!.
# Default: detect_debug = true, strict_debug = false
# detect_debug = true
# strict_debug = false

# Flag likely hard-coded secrets (keys, tokens, passwords).
# Default: true
# detect_secrets = true

# Flag lines longer than this many characters.
# Comment out for no limit.
# max_line_length = 120
`
