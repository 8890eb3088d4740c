package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsukasaI/fini/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrProblemsFound is returned when --check finds files that would change
// or carry findings. It maps to exit code 1 without an error message.
var ErrProblemsFound = errors.New("problems found")

type rootOptions struct {
	stdin      bool
	check      bool
	diff       bool
	quiet      bool
	verbose    bool
	color      bool
	noColor    bool
	noProgress bool
	jsonOutput bool
	jobs       int
	exclude    []string
	configPath string
	logFormat  string

	maxBlankLines     int
	keepZeroWidth     bool
	keepLeadingBlanks bool
	fixCodeBlocks     bool
	noDetectTodos     bool
	noDetectFixmes    bool
	noDetectDebug     bool
	strictDebug       bool
	noDetectSecrets   bool
	maxLineLength     int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "fini [paths...]",
		Short: "Normalize text files",
		Long: "fini fixes line endings, trailing whitespace, end-of-file newlines and invisible characters,\n" +
			"and flags leftover TODOs, debug statements, secrets and overlong lines.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.stdin, "stdin", false, "Read from stdin and write the result to stdout")
	f.BoolVarP(&opts.check, "check", "c", false, "Report problems without modifying files (exit 1 if any)")
	f.BoolVarP(&opts.diff, "diff", "d", false, "Show a unified diff instead of the problem list")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print paths of affected files")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Also print clean and skipped files")
	f.BoolVar(&opts.color, "color", false, "Force colored output")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output the run report as JSON")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "Number of files processed in parallel (default: number of CPUs)")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "Glob pattern to skip (repeatable)")
	f.StringVar(&opts.configPath, "config", "", "Path to a config file (default: search upward for fini.toml)")
	f.StringVar(&opts.logFormat, "log-format", "text", "Diagnostic log format (text, json)")

	f.IntVar(&opts.maxBlankLines, "max-blank-lines", 0, "Maximum consecutive blank lines")
	f.BoolVar(&opts.keepZeroWidth, "keep-zero-width", false, "Keep zero-width characters")
	f.BoolVar(&opts.keepLeadingBlanks, "keep-leading-blanks", false, "Keep leading blank lines")
	f.BoolVar(&opts.fixCodeBlocks, "fix-code-blocks", false, "Remove markdown code fence lines")
	f.BoolVar(&opts.noDetectTodos, "no-detect-todos", false, "Do not flag TODO comments")
	f.BoolVar(&opts.noDetectFixmes, "no-detect-fixmes", false, "Do not flag FIXME comments")
	f.BoolVar(&opts.noDetectDebug, "no-detect-debug", false, "Do not flag debug statements")
	f.BoolVar(&opts.strictDebug, "strict-debug", false, "Also flag console.error and eprintln!")
	f.BoolVar(&opts.noDetectSecrets, "no-detect-secrets", false, "Do not flag potential secrets")
	f.IntVar(&opts.maxLineLength, "max-line-length", 0, "Flag lines longer than this many characters")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// cliOptions returns the normalize overrides the user actually set.
func (o *rootOptions) cliOptions(cmd *cobra.Command) (domain.CLIOptions, error) {
	changed := cmd.Flags().Changed
	var c domain.CLIOptions

	if changed("max-blank-lines") {
		if o.maxBlankLines < 0 {
			return c, fmt.Errorf("--max-blank-lines must be >= 0, got %d", o.maxBlankLines)
		}
		c.MaxBlankLines = &o.maxBlankLines
	}
	if changed("max-line-length") {
		if o.maxLineLength <= 0 {
			return c, fmt.Errorf("--max-line-length must be > 0, got %d", o.maxLineLength)
		}
		c.MaxLineLength = &o.maxLineLength
	}

	flags := []struct {
		name string
		dst  **bool
		val  *bool
	}{
		{"keep-zero-width", &c.KeepZeroWidth, &o.keepZeroWidth},
		{"keep-leading-blanks", &c.KeepLeadingBlanks, &o.keepLeadingBlanks},
		{"fix-code-blocks", &c.FixCodeBlocks, &o.fixCodeBlocks},
		{"no-detect-todos", &c.NoDetectTodos, &o.noDetectTodos},
		{"no-detect-fixmes", &c.NoDetectFixmes, &o.noDetectFixmes},
		{"no-detect-debug", &c.NoDetectDebug, &o.noDetectDebug},
		{"strict-debug", &c.StrictDebug, &o.strictDebug},
		{"no-detect-secrets", &c.NoDetectSecrets, &o.noDetectSecrets},
	}
	for _, fl := range flags {
		if changed(fl.name) {
			*fl.dst = fl.val
		}
	}
	return c, nil
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. Errors other than ErrProblemsFound are printed to
// stderr; any error means a non-zero exit.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrProblemsFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
