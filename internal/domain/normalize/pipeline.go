// Package normalize implements the text normalization pipeline: an ordered
// list of pure transforms followed by detectors that only flag.
//
// Every stage receives the output text of the previous one. Nothing in this
// package performs I/O or returns an error; any UTF-8 input produces a
// Result.
package normalize

// Result is the outcome of normalizing one text.
type Result struct {
	Original string    `json:"-"`
	Content  string    `json:"-"`
	Problems []Problem `json:"problems"`
}

// HasChanges reports whether the normalized content differs from the input.
func (r *Result) HasChanges() bool {
	return r.Original != r.Content
}

// HasDetections reports whether any detection-only problem was found.
func (r *Result) HasDetections() bool {
	for _, p := range r.Problems {
		if p.IsDetectionOnly() {
			return true
		}
	}
	return false
}

// HasIssues reports whether the input would be rewritten or was flagged.
func (r *Result) HasIssues() bool {
	return r.HasChanges() || len(r.Problems) > 0
}

// Count returns how many problems of kind k were recorded.
func (r *Result) Count(k Kind) int {
	n := 0
	for _, p := range r.Problems {
		if p.Kind == k {
			n++
		}
	}
	return n
}

type transform func(text string, cfg Config) (string, []Problem)

type detector func(text string, cfg Config) []Problem

type stage struct {
	name    string
	enabled func(cfg Config) bool
	run     transform
}

func always(Config) bool { return true }

// stages run top to bottom. The fence remover sits right after zero-width
// stripping: deleting a fence line can expose a leading blank line or grow a
// blank run, and both of those stages must see the result.
var stages = []stage{
	{name: "line-endings", enabled: always, run: normalizeLineEndings},
	{name: "zero-width", enabled: func(c Config) bool { return c.RemoveZeroWidth }, run: stripZeroWidth},
	{name: "code-fences", enabled: func(c Config) bool { return c.FixCodeBlocks }, run: removeCodeFences},
	{name: "leading-blanks", enabled: func(c Config) bool { return c.RemoveLeadingBlanks }, run: trimLeadingBlanks},
	{name: "blank-runs", enabled: func(c Config) bool { return c.MaxBlankLines != nil }, run: limitBlankRuns},
	{name: "full-width", enabled: always, run: fixFullWidthSpaces},
	{name: "trailing-whitespace", enabled: always, run: trimTrailingWhitespace},
	{name: "eof-newline", enabled: always, run: normalizeEOFNewline},
}

var detectors = []detector{
	detectTodos,
	detectFixmes,
	detectDebugCode,
	detectSecrets,
	detectLongLines,
}

// Normalize runs the full pipeline over text.
func Normalize(text string, cfg Config) *Result {
	content := text
	var problems []Problem

	for _, s := range stages {
		if !s.enabled(cfg) {
			continue
		}
		var found []Problem
		content, found = s.run(content, cfg)
		problems = append(problems, found...)
	}

	for _, d := range detectors {
		problems = append(problems, d(content, cfg)...)
	}

	return &Result{
		Original: text,
		Content:  content,
		Problems: problems,
	}
}

// StageNames lists the transform stages in execution order.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}
