package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tsukasaI/fini/internal/adapters/outbound/config"
	"github.com/tsukasaI/fini/internal/adapters/outbound/editorconfig"
	"github.com/tsukasaI/fini/internal/adapters/outbound/gitinfo"
	"github.com/tsukasaI/fini/internal/adapters/outbound/scanner"
	"github.com/tsukasaI/fini/internal/adapters/outbound/tui"
	"github.com/tsukasaI/fini/internal/application"
	"github.com/tsukasaI/fini/internal/domain"
	"github.com/tsukasaI/fini/internal/domain/normalize"
)

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	if !opts.stdin && len(args) == 0 {
		return errors.New("no paths given (pass files or directories, or use --stdin)")
	}

	overrides, err := opts.cliOptions(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, err := newLogger(stderr, opts.quiet, opts.verbose, opts.logFormat)
	if err != nil {
		return err
	}

	color := tui.ShouldUseColors(opts.color, opts.noColor)
	svc := application.NewRunService(scanner.New(gitinfo.New()), logger)

	if opts.stdin {
		return runStdin(cmd, svc, opts, domain.MergeNormalizeConfig(overrides, nil), color)
	}

	fileCfg, err := loadFileConfig(config.New(), stderr, opts, logger)
	if err != nil {
		return err
	}
	warnEditorConfig(editorconfig.New(), stderr, opts.quiet, logger)

	cfg := domain.MergeNormalizeConfig(overrides, &fileCfg.Normalize)
	exclude := append(append([]string{}, fileCfg.Exclude...), opts.exclude...)

	showProgress := !opts.quiet && !opts.noProgress && !opts.jsonOutput && tui.IsTerminal(os.Stdout)
	progress := tui.NewProgress(stderr, showProgress, color)

	report, err := svc.Run(cmd.Context(), args, application.RunOptions{
		Check:    opts.check,
		Jobs:     opts.jobs,
		Config:   cfg,
		Exclude:  exclude,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		r := tui.NewRenderer(out, tui.Options{
			Check:   opts.check,
			Diff:    opts.diff,
			Quiet:   opts.quiet,
			Verbose: opts.verbose,
			Color:   color,
		})
		for _, f := range report.Files {
			fmt.Fprint(out, r.RenderFile(f))
		}
		fmt.Fprint(out, r.RenderSummary(report))
	}

	if report.FilesFailed > 0 {
		return fmt.Errorf("%d file(s) could not be processed", report.FilesFailed)
	}
	if opts.check && report.HasProblems() {
		return ErrProblemsFound
	}
	return nil
}

// loadFileConfig resolves the project config. An explicit --config that
// fails is fatal; a discovered one that fails only warns.
func loadFileConfig(loader domain.ConfigLoader, stderr io.Writer, opts *rootOptions, logger *log.Logger) (domain.FileConfig, error) {
	if opts.configPath != "" {
		cfg, err := loader.Load(opts.configPath)
		if err != nil {
			return domain.FileConfig{}, fmt.Errorf("loading config: %w", err)
		}
		if !opts.quiet {
			fmt.Fprintf(stderr, "Using config: %s\n", opts.configPath)
		}
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return domain.FileConfig{}, fmt.Errorf("resolving working directory: %w", err)
	}

	path, err := loader.Find(cwd)
	if err != nil {
		return domain.FileConfig{}, fmt.Errorf("searching for config: %w", err)
	}
	if path == "" {
		return domain.FileConfig{}, nil
	}

	cfg, err := loader.Load(path)
	if err != nil {
		if !opts.quiet {
			fmt.Fprintf(stderr, "Warning: failed to load config: %v\n", err)
		}
		logger.Debug("falling back to default config", "err", err)
		return domain.FileConfig{}, nil
	}
	if !opts.quiet {
		fmt.Fprintf(stderr, "Using config: %s\n", path)
	}
	return cfg, nil
}

func warnEditorConfig(reader domain.EditorConfigReader, stderr io.Writer, quiet bool, logger *log.Logger) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	ec, err := reader.Read(cwd)
	if err != nil {
		logger.Debug("reading .editorconfig", "err", err)
		return
	}
	if ec == nil || quiet {
		return
	}
	logger.Debug("found .editorconfig", "path", ec.Path)
	for _, msg := range ec.Conflicts() {
		fmt.Fprintf(stderr, "Warning: %s\n", msg)
	}
}

type stdinResult struct {
	Content  string              `json:"content"`
	Changed  bool                `json:"changed"`
	Problems []domain.ProblemView `json:"problems"`
}

// runStdin normalizes piped input. No config file is consulted.
func runStdin(cmd *cobra.Command, svc *application.RunService, opts *rootOptions, cfg normalize.Config, color bool) error {
	res, err := svc.NormalizeReader(cmd.InOrStdin(), cfg)
	if err != nil {
		return err
	}

	out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stdinResult{Content: res.Content, Changed: res.HasChanges(), Problems: domain.NewProblemViews(res.Problems)}); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if opts.check && res.HasIssues() {
			return ErrProblemsFound
		}
		return nil
	}

	r := tui.NewRenderer(stderr, tui.Options{Check: opts.check, Diff: opts.diff, Quiet: opts.quiet, Color: color})

	if opts.check {
		if !res.HasIssues() {
			return nil
		}
		if opts.diff && res.HasChanges() {
			fmt.Fprint(stderr, r.RenderDiff("stdin", res.Original, res.Content))
		}
		return ErrProblemsFound
	}

	if !opts.quiet {
		for _, p := range domain.Warnings(res) {
			fmt.Fprintf(stderr, "Warning: stdin:%d %s\n", p.Line, p.Label())
		}
	}
	fmt.Fprint(out, res.Content)
	return nil
}
