package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/tsukasaI/fini/internal/domain"
)

// ── palette ──
var (
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	success = lipgloss.Color("#22C55E") // green
	info    = lipgloss.Color("#22D3EE") // cyan
	dim     = lipgloss.Color("#6B7280") // muted gray
)

// Options selects what the renderer prints.
type Options struct {
	Check   bool
	Diff    bool
	Quiet   bool
	Verbose bool
	Color   bool
}

// Renderer turns run results into terminal text. Styles are bound to the
// destination writer so forcing or disabling color never depends on the
// process-wide lipgloss default.
type Renderer struct {
	opts Options

	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	successStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	addStyle     lipgloss.Style
	delStyle     lipgloss.Style
}

func NewRenderer(w io.Writer, opts Options) *Renderer {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(ColorProfile(opts.Color))

	return &Renderer{
		opts:         opts,
		errorStyle:   lr.NewStyle().Foreground(danger).Bold(true),
		warnStyle:    lr.NewStyle().Foreground(warning).Bold(true),
		successStyle: lr.NewStyle().Foreground(success).Bold(true),
		infoStyle:    lr.NewStyle().Foreground(info),
		dimStyle:     lr.NewStyle().Foreground(dim),
		addStyle:     lr.NewStyle().Foreground(success).TabWidth(lipgloss.NoTabConversion),
		delStyle:     lr.NewStyle().Foreground(danger).TabWidth(lipgloss.NoTabConversion),
	}
}

// ColorProfile maps the color decision onto a termenv profile.
func ColorProfile(color bool) termenv.Profile {
	if color {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// ShouldUseColors resolves color output.
// Priority: --no-color > --color > NO_COLOR > terminal detection.
func ShouldUseColors(force, noColor bool) bool {
	if noColor {
		return false
	}
	if force {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RenderFile renders the per-file output for f. It returns "" when nothing
// should be printed.
func (r *Renderer) RenderFile(f domain.FileReport) string {
	switch f.Status {
	case domain.StatusSkipped:
		if r.opts.Verbose && !r.opts.Quiet {
			return r.infoStyle.Render(fmt.Sprintf("Skipping %s:", f.SkipReason)) + " " + f.Path + "\n"
		}
	case domain.StatusClean:
		if r.opts.Verbose && !r.opts.Quiet {
			return r.infoStyle.Render("Checked:") + " " + f.Path + "\n"
		}
	case domain.StatusProblems:
		return r.renderCheck(f)
	case domain.StatusFixed, domain.StatusFlagged:
		return r.renderFix(f)
	}
	return ""
}

func (r *Renderer) renderCheck(f domain.FileReport) string {
	if r.opts.Quiet {
		return f.Path + "\n"
	}
	if r.opts.Diff && f.Result != nil && f.Result.HasChanges() {
		return r.RenderDiff(f.Path, f.Result.Original, f.Result.Content)
	}

	var b strings.Builder
	b.WriteString(r.errorStyle.Render("Error:") + " " + f.Path + "\n")

	res := f.Result
	if res == nil {
		return b.String()
	}

	if res.HasChanges() {
		if strings.Contains(res.Original, "\r") {
			b.WriteString("  - line endings converted to LF\n")
		}
		if !strings.HasSuffix(res.Original, "\n") && strings.HasSuffix(res.Content, "\n") {
			b.WriteString("  - missing EOF newline\n")
		}
		for _, n := range trailingWhitespaceLines(res.Original) {
			fmt.Fprintf(&b, "  - trailing whitespace at line %d\n", n)
		}
	}

	for _, p := range res.Problems {
		b.WriteString("  - " + p.Message() + "\n")
	}
	return b.String()
}

func (r *Renderer) renderFix(f domain.FileReport) string {
	if r.opts.Quiet {
		return f.Path + "\n"
	}
	if r.opts.Diff {
		if f.Result == nil || !f.Result.HasChanges() {
			return ""
		}
		return r.RenderDiff(f.Path, f.Result.Original, f.Result.Content)
	}

	var b strings.Builder
	for _, p := range domain.Warnings(f.Result) {
		fmt.Fprintf(&b, "%s %s:%d %s\n", r.warnStyle.Render("Warning:"), f.Path, p.Line, p.Label())
	}
	if f.Status == domain.StatusFixed {
		b.WriteString(r.successStyle.Render("Fixed:") + " " + f.Path + "\n")
	}
	return b.String()
}

// trailingWhitespaceLines returns 1-based numbers of lines ending in a
// space or tab, ignoring any CR before the LF.
func trailingWhitespaceLines(text string) []int {
	var out []int
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != strings.TrimRight(line, " \t") {
			out = append(out, i+1)
		}
	}
	return out
}

// RenderSummary renders the closing line. Quiet mode prints none.
func (r *Renderer) RenderSummary(report *domain.RunReport) string {
	if r.opts.Quiet {
		return ""
	}

	if r.opts.Check {
		if report.FilesWithProblems == 0 {
			return ""
		}
		return "\n" + r.errorStyle.Render(fmt.Sprintf("%d files with problems", report.FilesWithProblems)) + "\n"
	}

	var parts []string
	if report.FilesFixed > 0 {
		parts = append(parts, r.successStyle.Render(fmt.Sprintf("%d files fixed", report.FilesFixed)))
	}
	if report.Warnings > 0 {
		parts = append(parts, r.warnStyle.Render(fmt.Sprintf("%d warnings", report.Warnings)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n" + strings.Join(parts, ", ") + "\n"
}

// RenderDiff renders a unified diff, coloring added and removed lines.
func (r *Renderer) RenderDiff(label, original, content string) string {
	plain := UnifiedDiff(label, original, content)
	if !r.opts.Color {
		return plain
	}

	var b strings.Builder
	for i, line := range strings.SplitAfter(plain, "\n") {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case i < 2:
			b.WriteString(r.dimStyle.Render(body) + nl)
		case strings.HasPrefix(body, "@@"):
			b.WriteString(r.infoStyle.Render(body) + nl)
		case strings.HasPrefix(body, "+"):
			b.WriteString(r.addStyle.Render(body) + nl)
		case strings.HasPrefix(body, "-"):
			b.WriteString(r.delStyle.Render(body) + nl)
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
